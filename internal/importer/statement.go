package importer

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// MaxDescriptionLen is the rune limit for imported descriptions.
const MaxDescriptionLen = 200

// Statement is a parsed bank export ready for preview.
type Statement struct {
	Headers      []string
	Rows         [][]string
	Delimiter    byte
	Mapping      model.ColumnMapping
	AutoMapped   bool
	Transactions []model.BankTransaction
}

// ParseStatement tokenizes text, detects the column mapping and normalizes
// every row. An empty or unrecognized file yields a Statement with no
// transactions.
func ParseStatement(text string) Statement {
	data := ParseCSV(text)
	if len(data.Headers) == 0 {
		return Statement{Mapping: model.DefaultMapping()}
	}

	mapping, auto := DetectMapping(data.Headers)
	return Statement{
		Headers:      data.Headers,
		Rows:         data.Rows,
		Delimiter:    data.Delimiter,
		Mapping:      mapping,
		AutoMapped:   auto,
		Transactions: Remap(data.Rows, mapping),
	}
}

// WithMapping returns a copy of s re-normalized under mapping.
func (s Statement) WithMapping(mapping model.ColumnMapping) Statement {
	s.Mapping = mapping
	s.Transactions = Remap(s.Rows, mapping)
	return s
}

// Remap normalizes every raw row under mapping, dropping rows that carry no
// usable amount.
func Remap(rows [][]string, mapping model.ColumnMapping) []model.BankTransaction {
	var txns []model.BankTransaction
	for _, raw := range rows {
		if txn, ok := NormalizeRow(raw, mapping); ok {
			txns = append(txns, txn)
		}
	}
	return txns
}

// NormalizeRow converts one raw row. ok is false when the amount is missing,
// not numeric, or zero.
func NormalizeRow(raw []string, mapping model.ColumnMapping) (txn model.BankTransaction, ok bool) {
	amount, ok := ParseAmount(field(raw, mapping.Amount))
	if !ok || amount.IsZero() {
		return model.BankTransaction{}, false
	}
	// Balance and summary lines carry an amount but no date.
	date := NormalizeDate(field(raw, mapping.Date))
	if date == "" {
		return model.BankTransaction{}, false
	}
	typ := TypeForAmount(amount)

	counterparty := field(raw, mapping.Counterparty)
	description := joinCounterparty(counterparty, field(raw, mapping.Description))

	rawCopy := make([]string, len(raw))
	copy(rawCopy, raw)

	return model.BankTransaction{
		Date:              date,
		Amount:            amount.Abs(),
		Description:       truncate(description, MaxDescriptionLen),
		Currency:          DetectCurrency(field(raw, mapping.Currency)),
		Counterparty:      counterparty,
		SuggestedCategory: Categorize(description, typ),
		SuggestedType:     typ,
		Raw:               rawCopy,
	}, true
}

// ToTransactions turns confirmed rows into new Transactions. PLN rows record
// rate as their exchange rate at time of import.
func ToTransactions(parsed []model.BankTransaction, rate decimal.Decimal) []model.Transaction {
	txns := make([]model.Transaction, 0, len(parsed))
	for _, p := range parsed {
		tx := model.Transaction{
			ID:          id.New(),
			Type:        p.SuggestedType,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Category:    p.SuggestedCategory,
			Description: p.Description,
			Date:        model.Date(p.Date),
		}
		if p.Currency == model.PLN && rate.IsPositive() {
			r := rate
			tx.ExchangeRateAtTime = &r
		}
		txns = append(txns, tx)
	}
	return txns
}

func field(raw []string, idx int) string {
	if idx < 0 || idx >= len(raw) {
		return ""
	}
	return raw[idx]
}

func joinCounterparty(counterparty, description string) string {
	switch {
	case counterparty == "":
		return description
	case description == "":
		return counterparty
	default:
		return counterparty + " - " + description
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
