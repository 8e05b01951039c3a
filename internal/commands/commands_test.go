package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/activity"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

var fixedNow = time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

func runFintrack(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	opts := &rootOptions{now: func() time.Time { return fixedNow }}
	cmd := newRootCommand(opts)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, config.FileName)}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runFintrack(t, dir, "init")
	require.NoError(t, err)
	return dir
}

func copyStatement(t *testing.T, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "pko_statement.csv"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func storedTransactions(t *testing.T, dir string) []model.Transaction {
	t.Helper()
	svc := store.NewService(store.NewFileBackend(filepath.Join(dir, "fintrack.json")), nil)
	txns, err := svc.Transactions(context.Background())
	require.NoError(t, err)
	return txns
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runFintrack(t, dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized fintrack project")

	for _, d := range []string{"import", filepath.Join("import", "processed"), "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Backend)

	assert.Empty(t, storedTransactions(t, dir))
}

func TestInit_AlreadyInitialized(t *testing.T) {
	dir := initProject(t)
	_, err := runFintrack(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestImport_Preview(t *testing.T) {
	dir := initProject(t)
	path := filepath.Join(dir, "pko.csv")
	copyStatement(t, path)

	out, err := runFintrack(t, dir, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "6 rows, 5 transactions")
	assert.Contains(t, out, "columns auto-detected")
	assert.Contains(t, out, "BIEDRONKA 1234 - Zakup kartą")
	assert.Contains(t, out, "Preview only")

	assert.Empty(t, storedTransactions(t, dir), "preview must not save")
}

func TestImport_Commit(t *testing.T) {
	dir := initProject(t)
	path := filepath.Join(dir, "pko.csv")
	copyStatement(t, path)

	out, err := runFintrack(t, dir, "import", path, "--commit", "--skip", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "4 (skip)")
	assert.Contains(t, out, "Imported 4 transactions from pko.csv")

	txns := storedTransactions(t, dir)
	require.Len(t, txns, 4)
	for _, tx := range txns {
		assert.NotContains(t, tx.Description, "Netflix")
		if tx.Currency == model.PLN {
			require.NotNil(t, tx.ExchangeRateAtTime, "PLN rows record the rate")
			assert.True(t, tx.ExchangeRateAtTime.Equal(decimal.NewFromInt(4)))
		} else {
			assert.Nil(t, tx.ExchangeRateAtTime)
		}
	}

	entries, err := activity.Read(filepath.Join(dir, "logs", "activity-log.csv"))
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, activity.ActionImport, entries[0].Action)
	assert.Equal(t, txns[0].ID, entries[0].RecordID)
}

func TestImport_CommitSkipsFooterRows(t *testing.T) {
	dir := initProject(t)
	path := filepath.Join(dir, "footer.csv")
	body := "Data operacji;Kwota;Opis operacji\n" +
		"15.01.2025;-50,00;Biedronka\n" +
		"16.01.2025;-20,00;Lidl\n" +
		";1234,56;Saldo końcowe\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	out, err := runFintrack(t, dir, "import", path, "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "3 rows, 2 transactions")
	assert.Contains(t, out, "Imported 2 transactions from footer.csv")

	txns := storedTransactions(t, dir)
	require.Len(t, txns, 2)
	for _, tx := range txns {
		assert.NotEmpty(t, tx.Date)
		assert.NotContains(t, tx.Description, "Saldo")
	}
}

func TestImport_MappingOverride(t *testing.T) {
	dir := initProject(t)
	path := filepath.Join(dir, "plain.csv")
	require.NoError(t, os.WriteFile(path, []byte("Opis,Data,Suma\nZakup w Lidl,2025-01-03,-20.00\n"), 0o644))

	out, err := runFintrack(t, dir, "import", path, "--map", "date=1,amount=2,description=0", "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 transactions")

	txns := storedTransactions(t, dir)
	require.Len(t, txns, 1)
	assert.Equal(t, model.Date("2025-01-03"), txns[0].Date)
	assert.Equal(t, model.CategoryFood, txns[0].Category)

	_, err = runFintrack(t, dir, "import", path, "--map", "amount=x")
	assert.Error(t, err)
}

func TestImport_Scan(t *testing.T) {
	dir := initProject(t)
	copyStatement(t, filepath.Join(dir, "import", "pko.csv"))

	out, err := runFintrack(t, dir, "import", "--scan", "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 5 transactions from pko.csv")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "pko.csv"))
	require.NoError(t, err, "imported file moves to processed")
	_, err = os.Stat(filepath.Join(dir, "import", "pko.csv"))
	assert.True(t, os.IsNotExist(err))

	out, err = runFintrack(t, dir, "import", "--scan")
	require.NoError(t, err)
	assert.Contains(t, out, "No CSV files")
}

func TestImport_EmptyFile(t *testing.T) {
	dir := initProject(t)
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	out, err := runFintrack(t, dir, "import", path, "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "no data found")
}

func TestAddListDelete(t *testing.T) {
	dir := initProject(t)

	out, err := runFintrack(t, dir, "add", "--amount", "12.50", "--category", "food", "--description", "Lunch", "--date", "2025-01-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Added expense 12.50 USD (Food)")

	_, err = runFintrack(t, dir, "add", "--type", "income", "--amount", "3000", "--category", "salary", "--currency", "pln")
	require.NoError(t, err)

	txns := storedTransactions(t, dir)
	require.Len(t, txns, 2)
	assert.Equal(t, model.Date("2025-01-20"), txns[1].Date, "date defaults to today")
	require.NotNil(t, txns[1].ExchangeRateAtTime)

	out, err = runFintrack(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "2 transactions")
	assert.Less(t, strings.Index(out, "2025-01-20"), strings.Index(out, "2025-01-10"), "newest first")

	out, err = runFintrack(t, dir, "list", "--type", "income")
	require.NoError(t, err)
	assert.NotContains(t, out, "Lunch")

	out, err = runFintrack(t, dir, "delete", id.Short(txns[0].ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")
	assert.Len(t, storedTransactions(t, dir), 1)

	_, err = runFintrack(t, dir, "delete", "zzzzzzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transaction matches")
}

func TestAdd_Invalid(t *testing.T) {
	dir := initProject(t)

	tests := [][]string{
		{"add", "--amount", "10", "--category", "salary"},
		{"add", "--amount", "abc", "--category", "food"},
		{"add", "--amount", "-5", "--category", "food"},
		{"add", "--amount", "5", "--category", "food", "--currency", "EUR"},
		{"add", "--amount", "5", "--category", "food", "--date", "yesterday"},
		{"add", "--amount", "5"},
	}
	for _, args := range tests {
		_, err := runFintrack(t, dir, args...)
		assert.Error(t, err, "%v", args)
	}
	assert.Empty(t, storedTransactions(t, dir))
}

func TestBreakdownAndAdvice(t *testing.T) {
	dir := initProject(t)
	path := filepath.Join(dir, "pko.csv")
	copyStatement(t, path)
	_, err := runFintrack(t, dir, "import", path, "--commit")
	require.NoError(t, err)

	out, err := runFintrack(t, dir, "breakdown", "--json", "--categories")
	require.NoError(t, err)

	var r monthReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "2025-01", r.Month)
	assert.Equal(t, model.USD, r.Currency)
	assert.True(t, r.Breakdown.TotalIncome.Equal(decimal.RequireFromString("2125")))
	assert.True(t, r.Breakdown.Needs.Equal(decimal.RequireFromString("321.14")))
	assert.True(t, r.Breakdown.Wants.Equal(decimal.RequireFromString("22.4975")))
	require.NotEmpty(t, r.Expenses)
	assert.Equal(t, model.CategoryHousing, r.Expenses[0].Category)
	require.Len(t, r.Income, 1)
	assert.Nil(t, r.Usage)

	out, err = runFintrack(t, dir, "breakdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget breakdown for January 2025 (USD)")
	assert.Contains(t, out, "2125.00")

	out, err = runFintrack(t, dir, "advice")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: excellent")

	out, err = runFintrack(t, dir, "advice", "--month", "2024-12")
	require.NoError(t, err)
	assert.Contains(t, out, "Record your income")

	_, err = runFintrack(t, dir, "breakdown", "--month", "January")
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	dir := initProject(t)

	out, err := runFintrack(t, dir, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Primary currency:   USD")
	assert.Contains(t, out, "Monthly budget:     not set")

	out, err = runFintrack(t, dir, "settings", "set", "--primary", "pln", "--rate", "3,95", "--budget", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "Primary currency:   PLN")
	assert.Contains(t, out, "1 USD = 3.95 PLN")
	assert.Contains(t, out, "5000.00 PLN")

	_, err = runFintrack(t, dir, "settings", "set")
	assert.Error(t, err)

	_, err = runFintrack(t, dir, "settings", "set", "--rate", "0")
	assert.Error(t, err)

	out, err = runFintrack(t, dir, "breakdown", "--json")
	require.NoError(t, err)
	var r monthReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.NotNil(t, r.Usage)
	assert.True(t, r.Usage.Remaining.Equal(decimal.NewFromInt(5000)))
}

func withRateServer(t *testing.T, dir string, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	path := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Rates.URL = srv.URL
	cfg.Rates.Timeout = time.Second
	require.NoError(t, config.Save(path, cfg))
}

func TestRate(t *testing.T) {
	dir := initProject(t)
	withRateServer(t, dir, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"PLN":4.25}}`))
	})

	out, err := runFintrack(t, dir, "rate")
	require.NoError(t, err)
	assert.Contains(t, out, "Live rate: 1 USD = 4.25 PLN (configured: 4)")

	out, err = runFintrack(t, dir, "rate", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved")

	out, err = runFintrack(t, dir, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "1 USD = 4.25 PLN")
}

func TestRate_Unavailable(t *testing.T) {
	dir := initProject(t)
	withRateServer(t, dir, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	out, err := runFintrack(t, dir, "rate", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Live rate unavailable, keeping 1 USD = 4 PLN")
}

func TestAutoRate_UsedForImport(t *testing.T) {
	dir := initProject(t)
	withRateServer(t, dir, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"PLN":3.8}}`))
	})
	_, err := runFintrack(t, dir, "settings", "set", "--auto-rate")
	require.NoError(t, err)

	path := filepath.Join(dir, "pko.csv")
	copyStatement(t, path)
	_, err = runFintrack(t, dir, "import", path, "--commit")
	require.NoError(t, err)

	for _, tx := range storedTransactions(t, dir) {
		if tx.Currency == model.PLN {
			require.NotNil(t, tx.ExchangeRateAtTime)
			assert.True(t, tx.ExchangeRateAtTime.Equal(decimal.RequireFromString("3.8")))
		}
	}
}

func TestExportRestore(t *testing.T) {
	dir := initProject(t)
	_, err := runFintrack(t, dir, "add", "--amount", "40", "--category", "transportation", "--date", "2025-01-05")
	require.NoError(t, err)

	backup := filepath.Join(dir, "backup.json")
	out, err := runFintrack(t, dir, "export", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	csvPath := filepath.Join(dir, "transactions.csv")
	_, err = runFintrack(t, dir, "export", csvPath, "--csv")
	require.NoError(t, err)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), store.CSVHeader+"\n"))
	assert.Contains(t, string(data), "2025-01-05,expense,Transportation,,40.00,USD,")

	txns := storedTransactions(t, dir)
	require.Len(t, txns, 1)
	_, err = runFintrack(t, dir, "delete", txns[0].ID)
	require.NoError(t, err)
	assert.Empty(t, storedTransactions(t, dir))

	out, err = runFintrack(t, dir, "restore", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 transactions, 0 debts, 0 savings goals")
	assert.Len(t, storedTransactions(t, dir), 1)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"transactions":[]}`), 0o644))
	_, err = runFintrack(t, dir, "restore", bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidDocument)
	assert.Len(t, storedTransactions(t, dir), 1)
}

func TestDebtsAndGoals(t *testing.T) {
	dir := initProject(t)

	out, err := runFintrack(t, dir, "debt", "add", "--name", "Car loan", "--total", "12000", "--remaining", "8000", "--interest", "6.5", "--minimum", "350", "--currency", "PLN")
	require.NoError(t, err)
	assert.Contains(t, out, "Added debt Car loan 8000.00 PLN")

	out, err = runFintrack(t, dir, "debt", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Car loan")
	assert.Contains(t, out, "Total remaining: 8000.00 PLN")

	out, err = runFintrack(t, dir, "debt", "add", "--name", "Card", "--total", "500", "--interest", "24")
	require.NoError(t, err)
	ref := strings.TrimSuffix(out[strings.LastIndex(out, "(")+1:], ")\n")

	out, err = runFintrack(t, dir, "debt", "pay", ref, "200")
	require.NoError(t, err)
	assert.Contains(t, out, "Card: 300.00 USD remaining")

	out, err = runFintrack(t, dir, "debt", "delete", ref)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted debt Card")

	out, err = runFintrack(t, dir, "goal", "add", "--name", "Holiday", "--target", "2000", "--deadline", "2025-07-01")
	require.NoError(t, err)
	goalRef := strings.TrimSuffix(out[strings.LastIndex(out, "(")+1:], ")\n")

	out, err = runFintrack(t, dir, "goal", "contribute", goalRef, "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Holiday: 500.00 USD of 2000.00 USD (25.0%)")

	out, err = runFintrack(t, dir, "goal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "2025-07-01")

	_, err = runFintrack(t, dir, "goal", "delete", goalRef)
	require.NoError(t, err)
	out, err = runFintrack(t, dir, "goal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No savings goals.")
}

func TestHistory(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	out, err := runFintrack(t, dir, "init", "--git")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized fintrack project")
	assert.DirExists(t, filepath.Join(dir, ".git"))

	_, err = runFintrack(t, dir, "add", "--amount", "50", "--category", "food", "--date", "2025-01-10")
	require.NoError(t, err)

	out, err = runFintrack(t, dir, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "add_transaction: Added expense 50.00 USD Food")
	assert.Contains(t, lines[1], "init: Initialize fintrack project")

	out, err = runFintrack(t, dir, "history", "-n", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "init:")
}

func TestHistory_ActivityLog(t *testing.T) {
	dir := initProject(t)
	out, err := runFintrack(t, dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No history yet.")

	path := filepath.Join(dir, "pko.csv")
	copyStatement(t, path)
	_, err = runFintrack(t, dir, "import", path, "--commit")
	require.NoError(t, err)
	_, err = runFintrack(t, dir, "add", "--amount", "50", "--category", "food", "--date", "2025-01-10")
	require.NoError(t, err)

	out, err = runFintrack(t, dir, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "add_transaction: Added expense 50.00 USD Food")
	assert.Contains(t, lines[1], "import_statement: Imported 5 transactions from pko.csv (5 records)")

	out, err = runFintrack(t, dir, "history", "-n", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "import_statement")
}

func TestHistory_Disabled(t *testing.T) {
	dir := initProject(t)
	cfgPath := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Log.ActivityPath = ""
	require.NoError(t, config.Save(cfgPath, cfg))

	_, err = runFintrack(t, dir, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
}

func TestVersion(t *testing.T) {
	out, err := runFintrack(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "fintrack version dev")
}

func TestParseMonth(t *testing.T) {
	m, y, err := parseMonth("", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.January, m)
	assert.Equal(t, 2025, y)

	m, y, err = parseMonth("2024-11", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.November, m)
	assert.Equal(t, 2024, y)

	_, _, err = parseMonth("11/2024", fixedNow)
	assert.Error(t, err)
}
