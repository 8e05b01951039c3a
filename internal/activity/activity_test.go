package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Action:    ActionImport,
		Details:   "Imported 5 transactions from pko.csv",
		RecordID:  "3f2a9c1e-0000-4000-8000-000000000001",
	}
}

func logPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "logs", "activity-log.csv")
}

func TestAppend_NewFile(t *testing.T) {
	path := logPath(t)
	require.NoError(t, Append(path, []Entry{testEntry()}))

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, ActionImport, entries[0].Action)
}

func TestAppend_ExistingFile(t *testing.T) {
	path := logPath(t)
	require.NoError(t, Append(path, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = ActionDeleteTx
	e2.Details = "Deleted Netflix"
	require.NoError(t, Append(path, []Entry{e2}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionImport, entries[0].Action)
	assert.Equal(t, ActionDeleteTx, entries[1].Action)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")
}

func TestRead_RoundTrip(t *testing.T) {
	path := logPath(t)
	original := testEntry()
	original.Details = `Details with "quotes", commas`
	require.NoError(t, Append(path, []Entry{original}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Action, got.Action)
	assert.Equal(t, original.Details, got.Details)
	assert.Equal(t, original.RecordID, got.RecordID)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(logPath(t))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	path := logPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(Header+"\n"), 0o644))

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 fields")
}

func TestTimestampFormat(t *testing.T) {
	e := testEntry()
	e.Timestamp = time.Date(2025, 1, 15, 11, 30, 0, 0, time.FixedZone("CET", 3600))
	row := MarshalEntry(e)
	assert.Equal(t, "2025-01-15T10:30:00Z", row[0])
}

func TestLog_Record(t *testing.T) {
	path := logPath(t)
	l := New(path)
	l.now = func() time.Time { return testTime }

	require.NoError(t, l.Record(ActionImport, "Imported 2 transactions", "a", "b"))
	require.NoError(t, l.Record(ActionSettings, "primaryCurrency=PLN"))

	entries, err := l.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].RecordID)
	assert.Equal(t, "b", entries[1].RecordID)
	assert.Equal(t, "", entries[2].RecordID)
	assert.Equal(t, ActionSettings, entries[2].Action)
	for _, e := range entries {
		assert.True(t, testTime.Equal(e.Timestamp))
	}
}

func TestLog_Disabled(t *testing.T) {
	l := New("")
	require.NoError(t, l.Record(ActionImport, "ignored"))
	entries, err := l.Entries()
	require.NoError(t, err)
	assert.Nil(t, entries)

	assert.False(t, l.Enabled())

	var nilLog *Log
	assert.NoError(t, nilLog.Record(ActionImport, "ignored"))
	assert.False(t, nilLog.Enabled())
}

func TestChanges(t *testing.T) {
	later := testTime.Add(time.Minute)
	entries := []Entry{
		{Timestamp: testTime, Action: ActionImport, Details: "Imported 2 transactions", RecordID: "a"},
		{Timestamp: testTime, Action: ActionImport, Details: "Imported 2 transactions", RecordID: "b"},
		{Timestamp: later, Action: ActionSettings, Details: "primaryCurrency=PLN"},
		{Timestamp: later, Action: ActionDeleteTx, Details: "Deleted Lidl", RecordID: "a"},
	}

	changes := Changes(entries)
	require.Len(t, changes, 3)
	assert.Equal(t, ActionDeleteTx, changes[0].Action)
	assert.Equal(t, 1, changes[0].Records)
	assert.Equal(t, ActionSettings, changes[1].Action)
	assert.Equal(t, 0, changes[1].Records)
	assert.Equal(t, ActionImport, changes[2].Action)
	assert.Equal(t, 2, changes[2].Records)
	assert.True(t, testTime.Equal(changes[2].Timestamp))

	assert.Empty(t, Changes(nil))
}
