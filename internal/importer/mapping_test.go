package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func TestDetectMapping(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    model.ColumnMapping
		auto    bool
	}{
		{
			name:    "polish bank export",
			headers: []string{"Data operacji", "Kwota", "Waluta", "Nadawca / Odbiorca", "Opis operacji"},
			want:    model.ColumnMapping{Date: 0, Amount: 1, Description: 4, Currency: 2, Counterparty: 3},
			auto:    true,
		},
		{
			name:    "english minimal",
			headers: []string{"Date", "Amount", "Description"},
			want:    model.ColumnMapping{Date: 0, Amount: 1, Description: 2, Currency: -1, Counterparty: -1},
			auto:    true,
		},
		{
			name:    "case, whitespace and hash prefix",
			headers: []string{" DESCRIPTION ", "#Data operacji", "amount"},
			want:    model.ColumnMapping{Date: 1, Amount: 2, Description: 0, Currency: -1, Counterparty: -1},
			auto:    true,
		},
		{
			name:    "candidate priority beats column order",
			headers: []string{"Data", "Data operacji", "Kwota", "Opis"},
			want:    model.ColumnMapping{Date: 1, Amount: 2, Description: 3, Currency: -1, Counterparty: -1},
			auto:    true,
		},
		{
			name:    "unknown headers fall back to positions",
			headers: []string{"When", "How much", "What"},
			want:    model.ColumnMapping{Date: 0, Amount: 1, Description: 2, Currency: -1, Counterparty: -1},
			auto:    false,
		},
		{
			name:    "partial detection keeps found fields",
			headers: []string{"Foo", "Amount", "Bar", "Date", "Currency"},
			want:    model.ColumnMapping{Date: 3, Amount: 1, Description: 2, Currency: 4, Counterparty: -1},
			auto:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, auto := DetectMapping(tt.headers)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.auto, auto)
		})
	}
}

func TestParseMappingFlag(t *testing.T) {
	got, err := ParseMappingFlag("date=3, amount=0,description=1,currency=-1,counterparty=2", model.DefaultMapping())
	require.NoError(t, err)
	assert.Equal(t, model.ColumnMapping{Date: 3, Amount: 0, Description: 1, Currency: -1, Counterparty: 2}, got)
}

func TestParseMappingFlag_Partial(t *testing.T) {
	base := model.ColumnMapping{Date: 0, Amount: 1, Description: 4, Currency: 2, Counterparty: 3}
	got, err := ParseMappingFlag("counterparty=-1", base)
	require.NoError(t, err)
	assert.Equal(t, model.ColumnMapping{Date: 0, Amount: 1, Description: 4, Currency: 2, Counterparty: -1}, got)
}

func TestParseMappingFlag_Errors(t *testing.T) {
	for _, value := range []string{"date", "date=x", "color=1", "date=-1", "amount=-5"} {
		_, err := ParseMappingFlag(value, model.DefaultMapping())
		assert.Error(t, err, "ParseMappingFlag(%q)", value)
	}
}
