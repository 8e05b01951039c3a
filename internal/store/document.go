package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// ErrInvalidDocument is returned when an imported document lacks a
// transactions array or a settings object, or does not decode.
var ErrInvalidDocument = errors.New("invalid dataset document")

// Export writes the whole dataset as indented JSON.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Import replaces the stored dataset with the document read from r. On any
// error the stored dataset is left untouched.
func (s *Service) Import(ctx context.Context, r io.Reader) (*model.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	ds, err := decodeDataset(data)
	if err != nil {
		return nil, err
	}

	if err := s.Replace(ctx, ds); err != nil {
		return nil, err
	}
	s.logger.Info("dataset imported", "transactions", len(ds.Transactions), "debts", len(ds.Debts), "goals", len(ds.SavingsGoals))
	return ds, nil
}

// Replace validates ds and stores it in place of the current dataset.
func (s *Service) Replace(ctx context.Context, ds *model.Dataset) error {
	var verrs []ValidationError
	for _, tx := range ds.Transactions {
		verrs = append(verrs, ValidateTransaction(tx)...)
	}
	for _, d := range ds.Debts {
		verrs = append(verrs, ValidateDebt(d)...)
	}
	for _, g := range ds.SavingsGoals {
		verrs = append(verrs, ValidateGoal(g)...)
	}
	verrs = append(verrs, ValidateSettings(ds.Settings)...)
	if len(verrs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, joinErrors(verrs))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, ds)
}

// decodeDataset requires a transactions array and a settings object. Missing
// debts and goals decode as empty lists.
func decodeDataset(data []byte) (*model.Dataset, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !isJSONKind(shape["transactions"], '[') {
		return nil, fmt.Errorf("%w: transactions must be an array", ErrInvalidDocument)
	}
	if !isJSONKind(shape["settings"], '{') {
		return nil, fmt.Errorf("%w: settings must be an object", ErrInvalidDocument)
	}

	ds := model.NewDataset()
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if ds.Transactions == nil {
		ds.Transactions = []model.Transaction{}
	}
	if ds.Debts == nil {
		ds.Debts = []model.Debt{}
	}
	if ds.SavingsGoals == nil {
		ds.SavingsGoals = []model.SavingsGoal{}
	}
	return ds, nil
}

func isJSONKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}
