package app

import (
	"context"
	"io"

	"github.com/comigor/tradutor-go/internal/config"
	"github.com/comigor/tradutor-go/internal/history"
	"github.com/comigor/tradutor-go/internal/translate"
)

// Container wires the service with its infrastructure.
type Container struct {
	Config  *config.Config
	Service *Service
	Store   *history.Store
	backend history.Backend
}

// Build constructs the dependency graph and loads history.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	chain, err := translate.NewChain(cfg.Translate)
	if err != nil {
		return nil, err
	}

	backend := history.OpenBackend(cfg.Storage)
	store := history.NewStore(backend, cfg.Storage.Key)
	if _, err := store.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Container{
		Config:  cfg,
		Service: New(translate.NewOrchestrator(chain...), store),
		Store:   store,
		backend: backend,
	}, nil
}

// Close flushes pending history writes and releases storage.
func (c *Container) Close() error {
	err := c.Store.Close()
	if closer, ok := c.backend.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
