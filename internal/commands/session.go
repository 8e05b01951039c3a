package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/activity"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/history"
	"github.com/fintrack-dev/fintrack/internal/importer"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/rates"
	"github.com/fintrack-dev/fintrack/internal/redisconn"
	"github.com/fintrack-dev/fintrack/internal/store"
)

// session holds the services one command invocation works with.
type session struct {
	cfg      *config.Config
	store    *store.Service
	rates    *rates.Client
	activity *activity.Log
	history  *history.Repo
	logger   *slog.Logger
	redis    *redis.Client
	ctx      context.Context
}

func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}

	s := &session{cfg: cfg, logger: logger, ctx: cmd.Context()}

	if cfg.Storage.Backend == "redis" || cfg.Rates.Cache == "redis" {
		s.redis, err = redisconn.Open(cmd.Context(), cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
	}

	var backend store.Backend
	switch cfg.Storage.Backend {
	case "redis":
		backend = store.NewRedisBackend(s.redis, cfg.Storage.RedisKey)
	default:
		backend = store.NewFileBackend(cfg.Resolve(cfg.Storage.Path))
	}
	s.store = store.NewService(backend, logger)

	var cache rates.Cache = rates.NewMemoryCache()
	if cfg.Rates.Cache == "redis" {
		cache = rates.NewRedisCache(s.redis, cfg.Storage.RedisKey+":rates:")
	}
	s.rates = rates.NewClient(rates.Options{
		URL:     cfg.Rates.URL,
		TTL:     cfg.Rates.TTL,
		Timeout: cfg.Rates.Timeout,
		Cache:   cache,
		Logger:  logger,
	})

	s.activity = activity.New(cfg.Resolve(cfg.Log.ActivityPath))
	if cfg.History.Enabled {
		s.history = history.New(cfg.Dir(), cfg.History.AuthorName, cfg.History.AuthorEmail)
	}
	return s, nil
}

func (s *session) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

// record writes to the activity log and commits the project when history is
// enabled. Failures are warnings, the change itself is already saved.
func (s *session) record(action, details string, recordIDs ...string) {
	if err := s.activity.Record(action, details, recordIDs...); err != nil {
		s.logger.Warn("writing activity log failed", "error", err)
	}
	if s.history == nil {
		return
	}
	hash, err := s.history.Commit(s.ctx, action+": "+details)
	if err != nil {
		s.logger.Warn("committing history failed", "error", err)
		return
	}
	s.logger.Debug("history committed", "commit", hash)
}

// exchangeRate is the USD->PLN rate to use now: the live rate when automatic
// rates are enabled and one is available, the configured rate otherwise.
func (s *session) exchangeRate(ctx context.Context, settings model.UserSettings) decimal.Decimal {
	if settings.AutoExchangeRate {
		if live, ok := s.rates.USDToPLN(ctx); ok {
			return live
		}
		s.logger.Info("using configured exchange rate", "usd_pln", settings.ExchangeRate.String())
	}
	return settings.ExchangeRate
}

// parseMonth reads a YYYY-MM flag. Empty means the month containing now.
func parseMonth(value string, now time.Time) (time.Month, int, error) {
	if value == "" {
		return now.Month(), now.Year(), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: expected YYYY-MM", value)
	}
	return t.Month(), t.Year(), nil
}

func parseCurrency(value string) (model.Currency, error) {
	c := model.Currency(strings.ToUpper(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency %q: use USD or PLN", value)
	}
	return c, nil
}

func parseType(value string) (model.TransactionType, error) {
	switch t := model.TransactionType(strings.ToLower(strings.TrimSpace(value))); t {
	case model.TypeIncome, model.TypeExpense:
		return t, nil
	}
	return "", fmt.Errorf("invalid type %q: use income or expense", value)
}

// parseCategory matches value case-insensitively against the categories of typ.
func parseCategory(value string, typ model.TransactionType) (model.Category, error) {
	options := model.CategoriesFor(typ)
	for _, c := range options {
		if strings.EqualFold(string(c), strings.TrimSpace(value)) {
			return c, nil
		}
	}
	names := make([]string, len(options))
	for i, c := range options {
		names[i] = string(c)
	}
	return "", fmt.Errorf("unknown %s category %q: one of %s", typ, value, strings.Join(names, ", "))
}

// parseMoney accepts both "1234.56" and bank-style "1 234,56".
func parseMoney(name, value string) (decimal.Decimal, error) {
	d, ok := importer.ParseAmount(value)
	if !ok {
		return decimal.Zero, fmt.Errorf("invalid %s %q", name, value)
	}
	return d, nil
}

// parseDate normalizes a user-entered date. Empty means today.
func parseDate(value string, now time.Time) (model.Date, error) {
	if value == "" {
		return model.NewDate(now), nil
	}
	d := model.Date(importer.NormalizeDate(value))
	if _, ok := d.Time(); !ok {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return d, nil
}

// notFound rewrites store lookup errors for display.
func notFound(kind, ref string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("no %s matches %q", kind, ref)
	case errors.Is(err, store.ErrAmbiguous):
		return fmt.Errorf("%q matches more than one %s, use a longer id", ref, kind)
	}
	return err
}

func money(d decimal.Decimal, c model.Currency) string {
	return d.StringFixed(2) + " " + string(c)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
