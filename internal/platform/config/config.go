package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile        = ".env"
	defaultPort           = "8080"
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 120 * time.Second
	defaultShutdown       = 10 * time.Second
	defaultBackendDriver  = DriverREST
	defaultBackendTimeout = 10 * time.Second
	defaultMaxOpenConns   = 10
	defaultSiteName       = "태백 유래맵"
	defaultSiteLocale     = "ko"
)

// Backend driver identifiers.
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Site     SiteConfig
	Hidden   HiddenConfig
	Security SecurityConfig
	Secrets  SecretsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Dev             bool
}

// BackendConfig selects and configures the table backend.
type BackendConfig struct {
	Driver   string
	URL      string
	AnonKey  string
	DSN      string
	Timeout  time.Duration
	SeedFile string
	Migrate  bool

	// MaxOpenConns caps the SQL pool for the postgres and sqlite drivers.
	MaxOpenConns int
}

// SiteConfig holds presentation settings.
type SiteConfig struct {
	Name   string
	Locale string
	// BaseURL is used for canonical links; empty derives it from the request host.
	BaseURL string
}

// HiddenConfig optionally protects the /hidden pages with basic auth.
type HiddenConfig struct {
	Username string
	Password string
}

// Protected reports whether both credentials are present.
func (h HiddenConfig) Protected() bool {
	return h.Username != "" && h.Password != ""
}

// SecurityConfig groups CSRF settings.
type SecurityConfig struct {
	CSRFKey       string
	SecureCookies bool
}

// SecretsConfig configures Secret Manager lookups for secret:// references.
type SecretsConfig struct {
	ProjectID string
}

// SecretResolver resolves references to external secrets (e.g. Secret Manager URIs).
type SecretResolver interface {
	ResolveSecret(ctx context.Context, ref string) (string, error)
}

// SecretResolverFunc adapts ordinary functions to SecretResolver.
type SecretResolverFunc func(context.Context, string) (string, error)

// ResolveSecret resolves the secret using the wrapped function.
func (f SecretResolverFunc) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// SecretError describes failures while resolving a secret reference.
type SecretError struct {
	Ref string
	Err error
}

// Error implements the error interface.
func (e *SecretError) Error() string {
	return fmt.Sprintf("secret resolution failed for ref %q: %v", e.Ref, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SecretError) Unwrap() error { return e.Err }

var errSecretResolverNotConfigured = errors.New("secret resolver not configured")

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
	secret       SecretResolver
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// WithSecretResolver sets a custom secret resolver used for sm:// references.
func WithSecretResolver(resolver SecretResolver) Option {
	return func(o *loaderOptions) {
		o.secret = resolver
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// environment variables, and optional secret manager lookups.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
		secret: SecretResolverFunc(func(ctx context.Context, ref string) (string, error) {
			return "", &SecretError{Ref: ref, Err: errSecretResolverNotConfigured}
		}),
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            stringWithDefault(lookup, "PORT", defaultPort),
			ReadTimeout:     durationWithDefault(lookup, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "SERVER_SHUTDOWN_TIMEOUT", defaultShutdown),
			Dev:             boolWithDefault(lookup, "TAEBAEK_DEV", false),
		},
		Backend: BackendConfig{
			Driver:       strings.ToLower(stringWithDefault(lookup, "BACKEND_DRIVER", defaultBackendDriver)),
			URL:          firstOf(lookup, "BACKEND_URL", "SUPABASE_URL"),
			AnonKey:      firstOf(lookup, "BACKEND_ANON_KEY", "SUPABASE_ANON_KEY"),
			DSN:          stringWithDefault(lookup, "BACKEND_DSN", ""),
			Timeout:      durationWithDefault(lookup, "BACKEND_TIMEOUT", defaultBackendTimeout),
			SeedFile:     stringWithDefault(lookup, "BACKEND_SEED_FILE", ""),
			Migrate:      boolWithDefault(lookup, "BACKEND_MIGRATE", true),
			MaxOpenConns: intWithDefault(lookup, "BACKEND_MAX_OPEN_CONNS", defaultMaxOpenConns),
		},
		Site: SiteConfig{
			Name:    stringWithDefault(lookup, "SITE_NAME", defaultSiteName),
			Locale:  stringWithDefault(lookup, "SITE_LOCALE", defaultSiteLocale),
			BaseURL: stringWithDefault(lookup, "SITE_BASE_URL", ""),
		},
		Hidden: HiddenConfig{
			Username: stringWithDefault(lookup, "HIDDEN_USERNAME", ""),
			Password: stringWithDefault(lookup, "HIDDEN_PASSWORD", ""),
		},
		Security: SecurityConfig{
			CSRFKey:       stringWithDefault(lookup, "CSRF_KEY", ""),
			SecureCookies: boolWithDefault(lookup, "COOKIE_SECURE", false),
		},
		Secrets: SecretsConfig{
			ProjectID: stringWithDefault(lookup, "SECRETS_PROJECT_ID", ""),
		},
	}

	// Resolve secrets when values reference Secret Manager.
	secretFields := []*string{
		&cfg.Backend.AnonKey,
		&cfg.Backend.DSN,
		&cfg.Hidden.Password,
		&cfg.Security.CSRFKey,
	}
	for _, field := range secretFields {
		resolved, err := resolveSecret(ctx, *field, options.secret)
		if err != nil {
			return Config{}, err
		}
		*field = resolved
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// HasSecretReferences reports whether any configured value points at Secret Manager,
// letting callers skip client construction when nothing needs resolving.
func HasSecretReferences(values ...string) bool {
	for _, value := range values {
		if isSecretReference(value) {
			return true
		}
	}
	return false
}

// EnvironmentValues returns the effective key/value environment map after applying the same precedence
// rules as Load (dotenv < OS env < explicit env map).
func EnvironmentValues(opts ...Option) (map[string]string, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	values, err := loadDotEnv(options.envFile)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = make(map[string]string)
	}
	if options.useSystemEnv {
		for _, entry := range os.Environ() {
			key, value, ok := strings.Cut(entry, "=")
			if !ok || strings.TrimSpace(key) == "" {
				continue
			}
			values[key] = value
		}
	}
	for key, value := range options.envMap {
		values[key] = value
	}
	return values, nil
}

func resolveSecret(ctx context.Context, value string, resolver SecretResolver) (string, error) {
	if value == "" || !isSecretReference(value) {
		return value, nil
	}
	normalized := normalizeSecretReference(value)
	if resolver == nil {
		return "", &SecretError{Ref: normalized, Err: errSecretResolverNotConfigured}
	}
	secret, err := resolver.ResolveSecret(ctx, normalized)
	if err != nil {
		return "", &SecretError{Ref: normalized, Err: err}
	}
	return strings.TrimSpace(secret), nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	switch cfg.Backend.Driver {
	case DriverREST:
		if strings.TrimSpace(cfg.Backend.URL) == "" {
			missing = append(missing, "Backend.URL")
		}
		if strings.TrimSpace(cfg.Backend.AnonKey) == "" {
			missing = append(missing, "Backend.AnonKey")
		}
	case DriverPostgres, DriverSQLite:
		if strings.TrimSpace(cfg.Backend.DSN) == "" {
			missing = append(missing, "Backend.DSN")
		}
	case DriverMemory:
	default:
		missing = append(missing, "Backend.Driver")
	}
	if cfg.Backend.Timeout <= 0 {
		missing = append(missing, "Backend.Timeout")
	}
	if (cfg.Hidden.Username == "") != (cfg.Hidden.Password == "") {
		missing = append(missing, "Hidden.Credentials")
	}
	if key := cfg.Security.CSRFKey; key != "" && len(key) != 32 {
		missing = append(missing, "Security.CSRFKey")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func isSecretReference(value string) bool {
	trimmed := strings.TrimSpace(value)
	return strings.HasPrefix(trimmed, "secret://") || strings.HasPrefix(trimmed, "sm://")
}

func normalizeSecretReference(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "sm://") {
		return "secret://" + strings.TrimPrefix(trimmed, "sm://")
	}
	return trimmed
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", path, err)
	}
	return values, nil
}

func firstOf(lookup func(string) (string, bool), keys ...string) string {
	for _, key := range keys {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
