package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/history"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var backend string
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new fintrack project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Dir(opts.configPath)
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, backend, git)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "file", "storage backend (file or redis)")
	cmd.Flags().BoolVar(&git, "git", false, "keep a git history of every change")

	return cmd
}

func runInit(cmd *cobra.Command, dir, backend string, git bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.Storage.Backend = backend
	if backend == "redis" {
		cfg.Storage.RedisURL = "redis://localhost:6379/0"
	}
	cfg.History.Enabled = git
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		cfg.Import.Dir,
		filepath.Join(cfg.Import.Dir, "processed"),
		filepath.Dir(cfg.Log.ActivityPath),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write fintrack.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write an empty dataset so the file backend has a document to load.
	if backend == "file" {
		dataPath := filepath.Join(dir, cfg.Storage.Path)
		if _, err := os.Stat(dataPath); errors.Is(err, fs.ErrNotExist) {
			svc := store.NewService(store.NewFileBackend(dataPath), nil)
			if err := svc.Replace(cmd.Context(), model.NewDataset()); err != nil {
				return fmt.Errorf("writing dataset: %w", err)
			}
		}
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, cfg.Import.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !git {
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized fintrack project at %s\n", dir)
		return nil
	}

	// Write .gitignore, then initialize git and create the initial commit.
	// Interrupted dataset saves leave temp files next to the document.
	ignore := fmt.Sprintf(".%s.*\n", filepath.Base(cfg.Storage.Path))
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(ignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	repo := history.New(dir, cfg.History.AuthorName, cfg.History.AuthorEmail)
	if err := repo.Init(cmd.Context()); err != nil {
		return err
	}
	hash, err := repo.Commit(cmd.Context(), "init: Initialize fintrack project")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized fintrack project at %s (%s)\n", dir, hash)
	return nil
}
