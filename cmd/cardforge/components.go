package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cardforge/cardforge/internal/cardrepo"
	"github.com/cardforge/cardforge/internal/catalog"
	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/engine"
	"github.com/cardforge/cardforge/internal/generator"
	"github.com/cardforge/cardforge/internal/runstore"
)

// components bundles the long-lived services assembled from configuration.
type components struct {
	store   runstore.Store
	repo    *cardrepo.FSRepository
	catalog *catalog.Catalog
	engine  *engine.Engine
}

// newComponents wires the run store, card repository, catalog, generator,
// and engine from the loaded configuration.
func newComponents(cfg *config.Config, log *slog.Logger) (*components, error) {
	st, err := runstore.NewStore(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run store: %w", err)
	}

	repo, err := cardrepo.NewFSRepository(cfg.Cards.Path)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize card repository: %w", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	gen := generator.New()

	eng := engine.New(gen, repo, st, engine.Config{
		Workers:     cfg.Engine.Workers,
		MaxLiveRuns: cfg.Engine.MaxLiveRuns,
	}, log)

	return &components{
		store:   st,
		repo:    repo,
		catalog: cat,
		engine:  eng,
	}, nil
}

// loadConfigOrDefault loads the config file when it exists and falls
// back to built-in defaults otherwise.
func loadConfigOrDefault(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.NewDefaultConfig(), nil
	}
	return config.LoadConfig(path)
}
