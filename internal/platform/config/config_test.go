package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"SUPABASE_URL":      "https://taebaek.supabase.co",
		"SUPABASE_ANON_KEY": "anon",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Backend.Driver != DriverREST {
		t.Errorf("expected rest driver by default, got %s", cfg.Backend.Driver)
	}
	if cfg.Backend.URL != "https://taebaek.supabase.co" {
		t.Errorf("expected SUPABASE_URL fallback, got %s", cfg.Backend.URL)
	}
	if cfg.Backend.AnonKey != "anon" {
		t.Errorf("expected SUPABASE_ANON_KEY fallback, got %s", cfg.Backend.AnonKey)
	}
	if cfg.Backend.Timeout != defaultBackendTimeout {
		t.Errorf("unexpected backend timeout: %s", cfg.Backend.Timeout)
	}
	if cfg.Backend.MaxOpenConns != defaultMaxOpenConns {
		t.Errorf("unexpected pool size: %d", cfg.Backend.MaxOpenConns)
	}
	if cfg.Site.Name != "태백 유래맵" {
		t.Errorf("unexpected site name %q", cfg.Site.Name)
	}
	if cfg.Hidden.Protected() {
		t.Errorf("expected hidden routes to be unprotected by default")
	}
}

func TestLoadRequiresBackendCredentialsForREST(t *testing.T) {
	_, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := vErr.Fields()
	if len(fields) != 2 || fields[0] != "Backend.URL" || fields[1] != "Backend.AnonKey" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLoadMemoryDriverNeedsNoCredentials(t *testing.T) {
	env := map[string]string{
		"BACKEND_DRIVER":  "memory",
		"PORT":            "9090",
		"TAEBAEK_DEV":     "yes",
		"BACKEND_TIMEOUT": "3s",
	}
	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" || !cfg.Server.Dev {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Backend.Timeout != 3*time.Second {
		t.Errorf("unexpected backend timeout: %s", cfg.Backend.Timeout)
	}
}

func TestLoadRejectsPartialHiddenCredentials(t *testing.T) {
	env := map[string]string{
		"BACKEND_DRIVER":  "memory",
		"HIDDEN_USERNAME": "editor",
	}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := vErr.Fields(); len(got) != 1 || got[0] != "Hidden.Credentials" {
		t.Fatalf("unexpected fields: %v", got)
	}
}

func TestLoadResolvesSecretReferences(t *testing.T) {
	env := map[string]string{
		"BACKEND_URL":      "https://example.supabase.co",
		"BACKEND_ANON_KEY": "sm://supabase-anon-key",
		"CSRF_KEY":         "secret://csrf-key",
	}
	resolved := map[string]string{
		"secret://supabase-anon-key": "anon-from-manager",
		"secret://csrf-key":          "0123456789abcdef0123456789abcdef",
	}
	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		value, ok := resolved[ref]
		if !ok {
			return "", errors.New("unknown secret")
		}
		return value, nil
	})

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend.AnonKey != "anon-from-manager" {
		t.Errorf("expected resolved anon key, got %s", cfg.Backend.AnonKey)
	}
	if cfg.Security.CSRFKey != resolved["secret://csrf-key"] {
		t.Errorf("expected resolved csrf key, got %s", cfg.Security.CSRFKey)
	}
}

func TestLoadFailsWithoutSecretResolver(t *testing.T) {
	env := map[string]string{
		"BACKEND_URL":      "https://example.supabase.co",
		"BACKEND_ANON_KEY": "sm://supabase-anon-key",
	}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var sErr *SecretError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SecretError, got %v", err)
	}
	if sErr.Ref != "secret://supabase-anon-key" {
		t.Errorf("unexpected ref %s", sErr.Ref)
	}
}

func TestLoadReadsDotEnvWithLowestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "BACKEND_DRIVER=memory\nPORT=7070\nSITE_NAME=\"태백 로컬\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"PORT": "6060"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "6060" {
		t.Errorf("expected env map to override dotenv, got %s", cfg.Server.Port)
	}
	if cfg.Backend.Driver != DriverMemory {
		t.Errorf("expected driver from dotenv, got %s", cfg.Backend.Driver)
	}
	if cfg.Site.Name != "태백 로컬" {
		t.Errorf("expected quoted dotenv value to be unquoted, got %q", cfg.Site.Name)
	}
}

func TestLoadIgnoresMissingDotEnv(t *testing.T) {
	_, err := Load(context.Background(),
		WithEnvFile(filepath.Join(t.TempDir(), "missing.env")),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{"BACKEND_DRIVER": "memory"}),
	)
	if err != nil {
		t.Fatalf("expected missing dotenv to be ignored, got %v", err)
	}
}
