package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Header names per logical field, in match priority order. The table follows
// Polish retail bank exports and also covers common English headers.
var (
	dateHeaders = []string{
		"data operacji",
		"data transakcji",
		"data księgowania",
		"data",
		"date",
		"transaction date",
		"booking date",
		"posting date",
	}
	amountHeaders = []string{
		"kwota",
		"kwota operacji",
		"kwota transakcji",
		"amount",
		"value",
	}
	descriptionHeaders = []string{
		"opis operacji",
		"opis",
		"tytuł",
		"tytuł operacji",
		"description",
		"details",
		"title",
		"memo",
	}
	currencyHeaders = []string{
		"waluta",
		"waluta operacji",
		"currency",
	}
	counterpartyHeaders = []string{
		"nadawca / odbiorca",
		"nadawca/odbiorca",
		"odbiorca",
		"nadawca",
		"kontrahent",
		"dane kontrahenta",
		"counterparty",
		"payee",
		"recipient",
	}
)

// DetectMapping guesses column indices from header names. autoMapped is true
// when date, amount and description were all recognized; otherwise the
// missing mandatory fields fall back to positions 0, 1 and 2 so the import
// can still be previewed and remapped.
func DetectMapping(headers []string) (mapping model.ColumnMapping, autoMapped bool) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	mapping = model.ColumnMapping{
		Date:         findHeader(normalized, dateHeaders),
		Amount:       findHeader(normalized, amountHeaders),
		Description:  findHeader(normalized, descriptionHeaders),
		Currency:     findHeader(normalized, currencyHeaders),
		Counterparty: findHeader(normalized, counterpartyHeaders),
	}

	autoMapped = mapping.Date >= 0 && mapping.Amount >= 0 && mapping.Description >= 0
	if !autoMapped {
		def := model.DefaultMapping()
		if mapping.Date < 0 {
			mapping.Date = def.Date
		}
		if mapping.Amount < 0 {
			mapping.Amount = def.Amount
		}
		if mapping.Description < 0 {
			mapping.Description = def.Description
		}
	}
	return mapping, autoMapped
}

// findHeader returns the index of the first candidate present in headers, or -1.
func findHeader(headers, candidates []string) int {
	for _, c := range candidates {
		for i, h := range headers {
			if h == c {
				return i
			}
		}
	}
	return -1
}

// normalizeHeader lowercases and trims a header. Some exports prefix header
// names with '#'.
func normalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "#")
	return strings.ToLower(strings.TrimSpace(h))
}

// ParseMappingFlag applies "field=index" pairs separated by commas to base.
// Recognized fields: date, amount, description, currency, counterparty.
func ParseMappingFlag(pairs string, base model.ColumnMapping) (model.ColumnMapping, error) {
	m := base
	for _, pair := range strings.Split(pairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return base, fmt.Errorf("invalid mapping %q: expected field=index", pair)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return base, fmt.Errorf("invalid index for %s: %w", name, err)
		}
		if idx < -1 {
			return base, fmt.Errorf("invalid index for %s: %d", name, idx)
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			m.Date = idx
		case "amount":
			m.Amount = idx
		case "description":
			m.Description = idx
		case "currency":
			m.Currency = idx
		case "counterparty":
			m.Counterparty = idx
		default:
			return base, fmt.Errorf("unknown mapping field %q", name)
		}
	}
	if m.Date < 0 || m.Amount < 0 || m.Description < 0 {
		return base, fmt.Errorf("date, amount and description columns are required")
	}
	return m, nil
}
