package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/di"
	"github.com/cyber924/taebaek/internal/httpserver"
	"github.com/cyber924/taebaek/internal/platform/config"
	"github.com/cyber924/taebaek/internal/platform/observability"
	"github.com/cyber924/taebaek/internal/platform/secrets"
)

const (
	devTemplatesDir = "public/templates"
	devSeedFile     = "data/seed.yaml"
)

func main() {
	ctx := context.Background()

	env, err := config.EnvironmentValues()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read environment: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := newLogger(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("web")
	ctx = observability.WithLogger(ctx, logger)

	cfg, closeSecrets, err := loadConfig(ctx, logger, env)
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	defer closeSecrets()

	if cfg.Backend.Driver == config.DriverMemory && cfg.Backend.SeedFile == "" && fileExists(devSeedFile) {
		cfg.Backend.SeedFile = devSeedFile
	}

	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise backend", zap.Error(err))
	}
	defer func() {
		if err := container.Close(context.Background()); err != nil {
			logger.Warn("backend close error", zap.Error(err))
		}
	}()

	var templatesDir string
	if cfg.Server.Dev && fileExists(devTemplatesDir) {
		templatesDir = devTemplatesDir
	}

	server, err := httpserver.New(httpserver.Config{
		Address:        ":" + cfg.Server.Port,
		Services:       container.Services,
		Logger:         logger,
		SiteName:       cfg.Site.Name,
		SiteURL:        cfg.Site.BaseURL,
		SiteLocale:     cfg.Site.Locale,
		HiddenUsername: cfg.Hidden.Username,
		HiddenPassword: cfg.Hidden.Password,
		CSRFKey:        []byte(cfg.Security.CSRFKey),
		SecureCookies:  cfg.Security.SecureCookies,
		TemplatesDir:   templatesDir,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
	})
	if err != nil {
		logger.Fatal("failed to build http server", zap.Error(err))
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("taebaek web listening",
			zap.String("backend", cfg.Backend.Driver),
			zap.Bool("dev", cfg.Server.Dev),
			zap.Bool("hidden_protected", cfg.Hidden.Protected()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// loadConfig only builds a Secret Manager client when some value is a secret reference.
func loadConfig(ctx context.Context, logger *zap.Logger, env map[string]string) (config.Config, func(), error) {
	noop := func() {}

	values := make([]string, 0, len(env))
	for _, value := range env {
		values = append(values, value)
	}
	if !config.HasSecretReferences(values...) {
		cfg, err := config.Load(ctx)
		return cfg, noop, err
	}

	fetcher := secrets.NewFetcher(strings.TrimSpace(env["SECRETS_PROJECT_ID"]),
		secrets.WithLogger(logger.Named("secrets")),
	)
	closeFetcher := func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}
	cfg, err := config.Load(ctx, config.WithSecretResolver(fetcher))
	return cfg, closeFetcher, err
}

// newLogger uses the console encoder when TAEBAEK_DEV is set.
func newLogger(env map[string]string) (*zap.Logger, error) {
	if dev, _ := strconv.ParseBool(strings.TrimSpace(env["TAEBAEK_DEV"])); dev {
		return observability.NewDevelopmentLogger()
	}
	return observability.NewLogger()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
