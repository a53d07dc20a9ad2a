// Package di assembles the backend driver, repositories and services for the binaries.
package di

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/platform/backend"
	"github.com/cyber924/taebaek/internal/platform/backend/rest"
	"github.com/cyber924/taebaek/internal/platform/backend/sqlstore"
	"github.com/cyber924/taebaek/internal/platform/config"
	"github.com/cyber924/taebaek/internal/repositories"
	"github.com/cyber924/taebaek/internal/repositories/tables"
	"github.com/cyber924/taebaek/internal/seed"
	"github.com/cyber924/taebaek/internal/services"
)

// Container wires the backend client, repositories and services for runtime use.
type Container struct {
	Config       config.Config
	Backend      backend.Client
	Repositories repositories.Registry
	Services     *services.Services

	closer io.Closer
}

// NewContainer opens the configured backend, migrates and seeds it when asked to, and
// builds the services on top.
func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, closer, err := openBackend(cfg.Backend, logger)
	if err != nil {
		return nil, err
	}
	traced := backend.NewTraced(client, cfg.Backend.Driver, nil)

	reg := tables.NewRegistry(traced)
	c := &Container{
		Config:       cfg,
		Backend:      traced,
		Repositories: reg,
		Services:     services.New(reg, logger),
		closer:       closer,
	}

	if cfg.Backend.Migrate {
		if err := reg.Migrate(ctx); err != nil {
			return nil, errors.Join(fmt.Errorf("migrate backend: %w", err), c.Close(ctx))
		}
	}

	if cfg.Backend.SeedFile != "" {
		file, err := seed.LoadFile(cfg.Backend.SeedFile)
		if err != nil {
			return nil, errors.Join(err, c.Close(ctx))
		}
		if _, err := seed.Apply(ctx, c.Services, file, logger.Named("seed")); err != nil {
			return nil, errors.Join(fmt.Errorf("seed backend: %w", err), c.Close(ctx))
		}
	}

	logger.Info("backend ready", zap.String("driver", cfg.Backend.Driver))
	return c, nil
}

// Close releases the backend connection pool, if any.
func (c *Container) Close(context.Context) error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func openBackend(cfg config.BackendConfig, logger *zap.Logger) (backend.Client, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverREST:
		client, err := rest.New(cfg.URL, cfg.AnonKey,
			rest.WithTimeout(cfg.Timeout),
			rest.WithLogger(logger.Named("rest")),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("rest backend: %w", err)
		}
		return client, nil, nil
	case config.DriverPostgres, config.DriverSQLite:
		dialect := sqlstore.DialectPostgres
		if cfg.Driver == config.DriverSQLite {
			dialect = sqlstore.DialectSQLite
		}
		store, err := sqlstore.Open(dialect, cfg.DSN,
			sqlstore.WithLogger(logger.Named("sql")),
			sqlstore.WithMaxOpenConns(cfg.MaxOpenConns),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s backend: %w", cfg.Driver, err)
		}
		return store, store, nil
	case config.DriverMemory:
		return tables.NewMemoryBackend(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend driver %q", cfg.Driver)
	}
}
