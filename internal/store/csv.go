package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// CSVHeader is the header row of a transaction export.
const CSVHeader = "id,date,type,category,description,amount,currency,exchange_rate_at_time"

const (
	numCSVFields = 8
	colID        = 0
	colDate      = 1
	colType      = 2
	colCategory  = 3
	colDesc      = 4
	colAmount    = 5
	colCurrency  = 6
	colRate      = 7
)

// WriteTransactionsCSV writes txns with a header row.
func WriteTransactionsCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txns {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numCSVFields)
	row[colID] = tx.ID
	row[colDate] = tx.Date.String()
	row[colType] = string(tx.Type)
	row[colCategory] = string(tx.Category)
	row[colDesc] = tx.Description
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colCurrency] = string(tx.Currency)
	if tx.ExchangeRateAtTime != nil {
		row[colRate] = tx.ExchangeRateAtTime.String()
	}
	return row
}
