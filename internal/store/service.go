package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// ErrAmbiguous is returned when a short id reference matches several records.
var ErrAmbiguous = errors.New("reference matches more than one record")

// Service provides read-modify-write access to the dataset document. Every
// mutation loads the whole document, applies the change and saves it back.
type Service struct {
	backend Backend
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewService creates a Service over backend.
func NewService(backend Backend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{backend: backend, logger: logger}
}

// Load returns the stored dataset, or a new empty one when nothing is stored.
func (s *Service) Load(ctx context.Context) (*model.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) (*model.Dataset, error) {
	data, err := s.backend.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return model.NewDataset(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	ds, err := decodeDataset(data)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	return ds, nil
}

func (s *Service) save(ctx context.Context, ds *model.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	s.logger.Debug("dataset saved", "transactions", len(ds.Transactions), "bytes", len(data))
	return nil
}

// update runs fn against the current dataset and saves the result. Nothing is
// saved when fn fails.
func (s *Service) update(ctx context.Context, fn func(ds *model.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(ds); err != nil {
		return err
	}
	return s.save(ctx, ds)
}

// Transactions returns all stored transactions.
func (s *Service) Transactions(ctx context.Context) ([]model.Transaction, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Transactions, nil
}

// AddTransaction validates and stores tx, assigning an ID when it has none.
func (s *Service) AddTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	added, err := s.AddTransactions(ctx, []model.Transaction{tx})
	if err != nil {
		return model.Transaction{}, err
	}
	return added[0], nil
}

// AddTransactions validates and stores txns in one save. Either all are
// stored or none are.
func (s *Service) AddTransactions(ctx context.Context, txns []model.Transaction) ([]model.Transaction, error) {
	added := make([]model.Transaction, len(txns))
	var verrs []ValidationError
	for i, tx := range txns {
		if tx.ID == "" {
			tx.ID = id.New()
		}
		verrs = append(verrs, ValidateTransaction(tx)...)
		added[i] = tx
	}
	if len(verrs) > 0 {
		return nil, joinErrors(verrs)
	}

	err := s.update(ctx, func(ds *model.Dataset) error {
		ds.Transactions = append(ds.Transactions, added...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// DeleteTransaction removes the transaction selected by ref, a full id or a
// unique prefix of one.
func (s *Service) DeleteTransaction(ctx context.Context, ref string) (model.Transaction, error) {
	var removed model.Transaction
	err := s.update(ctx, func(ds *model.Dataset) error {
		idx, err := findRef(len(ds.Transactions), func(i int) string { return ds.Transactions[i].ID }, ref)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", ref, err)
		}
		removed = ds.Transactions[idx]
		ds.Transactions = append(ds.Transactions[:idx], ds.Transactions[idx+1:]...)
		return nil
	})
	return removed, err
}

// Settings returns the stored settings.
func (s *Service) Settings(ctx context.Context) (model.UserSettings, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return model.UserSettings{}, err
	}
	return ds.Settings, nil
}

// UpdateSettings merges patch into the stored settings.
func (s *Service) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.UserSettings, error) {
	var merged model.UserSettings
	err := s.update(ctx, func(ds *model.Dataset) error {
		merged = ds.Settings.Merge(patch)
		if verrs := ValidateSettings(merged); len(verrs) > 0 {
			return joinErrors(verrs)
		}
		ds.Settings = merged
		return nil
	})
	if err != nil {
		return model.UserSettings{}, err
	}
	return merged, nil
}

// Debts returns all stored debts.
func (s *Service) Debts(ctx context.Context) ([]model.Debt, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Debts, nil
}

// AddDebt validates and stores d.
func (s *Service) AddDebt(ctx context.Context, d model.Debt) (model.Debt, error) {
	if d.ID == "" {
		d.ID = id.New()
	}
	if verrs := ValidateDebt(d); len(verrs) > 0 {
		return model.Debt{}, joinErrors(verrs)
	}
	err := s.update(ctx, func(ds *model.Dataset) error {
		ds.Debts = append(ds.Debts, d)
		return nil
	})
	if err != nil {
		return model.Debt{}, err
	}
	return d, nil
}

// PayDebt reduces the remaining balance of the debt selected by ref, never
// below zero.
func (s *Service) PayDebt(ctx context.Context, ref string, amount decimal.Decimal) (model.Debt, error) {
	if !amount.IsPositive() {
		return model.Debt{}, joinErrors([]ValidationError{{Field: "amount", Description: "must be positive"}})
	}
	var paid model.Debt
	err := s.update(ctx, func(ds *model.Dataset) error {
		idx, err := findRef(len(ds.Debts), func(i int) string { return ds.Debts[i].ID }, ref)
		if err != nil {
			return fmt.Errorf("debt %s: %w", ref, err)
		}
		d := &ds.Debts[idx]
		d.RemainingAmount = decimal.Max(d.RemainingAmount.Sub(amount), decimal.Zero)
		paid = *d
		return nil
	})
	return paid, err
}

// DeleteDebt removes the debt selected by ref.
func (s *Service) DeleteDebt(ctx context.Context, ref string) (model.Debt, error) {
	var removed model.Debt
	err := s.update(ctx, func(ds *model.Dataset) error {
		idx, err := findRef(len(ds.Debts), func(i int) string { return ds.Debts[i].ID }, ref)
		if err != nil {
			return fmt.Errorf("debt %s: %w", ref, err)
		}
		removed = ds.Debts[idx]
		ds.Debts = append(ds.Debts[:idx], ds.Debts[idx+1:]...)
		return nil
	})
	return removed, err
}

// SavingsGoals returns all stored goals.
func (s *Service) SavingsGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.SavingsGoals, nil
}

// AddSavingsGoal validates and stores g.
func (s *Service) AddSavingsGoal(ctx context.Context, g model.SavingsGoal) (model.SavingsGoal, error) {
	if g.ID == "" {
		g.ID = id.New()
	}
	if verrs := ValidateGoal(g); len(verrs) > 0 {
		return model.SavingsGoal{}, joinErrors(verrs)
	}
	err := s.update(ctx, func(ds *model.Dataset) error {
		ds.SavingsGoals = append(ds.SavingsGoals, g)
		return nil
	})
	if err != nil {
		return model.SavingsGoal{}, err
	}
	return g, nil
}

// Contribute adds amount to the goal selected by ref.
func (s *Service) Contribute(ctx context.Context, ref string, amount decimal.Decimal) (model.SavingsGoal, error) {
	if !amount.IsPositive() {
		return model.SavingsGoal{}, joinErrors([]ValidationError{{Field: "amount", Description: "must be positive"}})
	}
	var updated model.SavingsGoal
	err := s.update(ctx, func(ds *model.Dataset) error {
		idx, err := findRef(len(ds.SavingsGoals), func(i int) string { return ds.SavingsGoals[i].ID }, ref)
		if err != nil {
			return fmt.Errorf("goal %s: %w", ref, err)
		}
		g := &ds.SavingsGoals[idx]
		g.CurrentAmount = g.CurrentAmount.Add(amount)
		updated = *g
		return nil
	})
	return updated, err
}

// DeleteSavingsGoal removes the goal selected by ref.
func (s *Service) DeleteSavingsGoal(ctx context.Context, ref string) (model.SavingsGoal, error) {
	var removed model.SavingsGoal
	err := s.update(ctx, func(ds *model.Dataset) error {
		idx, err := findRef(len(ds.SavingsGoals), func(i int) string { return ds.SavingsGoals[i].ID }, ref)
		if err != nil {
			return fmt.Errorf("goal %s: %w", ref, err)
		}
		removed = ds.SavingsGoals[idx]
		ds.SavingsGoals = append(ds.SavingsGoals[:idx], ds.SavingsGoals[idx+1:]...)
		return nil
	})
	return removed, err
}

// findRef returns the index of the single record whose id matches ref.
func findRef(n int, idAt func(i int) string, ref string) (int, error) {
	found := -1
	for i := 0; i < n; i++ {
		full := idAt(i)
		if full == ref {
			return i, nil
		}
		if id.Match(full, ref) {
			if found >= 0 {
				return -1, ErrAmbiguous
			}
			found = i
		}
	}
	if found < 0 {
		return -1, ErrNotFound
	}
	return found, nil
}
