package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/cyber924/taebaek/internal/httpserver"
	"github.com/cyber924/taebaek/internal/platform/backend"
	"github.com/cyber924/taebaek/internal/repositories/tables"
	"github.com/cyber924/taebaek/internal/services"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithServices wires a custom service set, e.g. one backed by a failing client.
func WithServices(svc *services.Services) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Services = svc
	}
}

// WithHiddenCredentials enables basic auth on the hidden routes.
func WithHiddenCredentials(username, password string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.HiddenUsername = username
		cfg.HiddenPassword = password
	}
}

// WithClock fixes the time used by the post generator.
func WithClock(now func() time.Time) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Now = now
	}
}

// NewServices builds services over client with a test logger.
func NewServices(t testing.TB, client backend.Client) *services.Services {
	t.Helper()
	return services.New(tables.NewRegistry(client), zaptest.NewLogger(t))
}

// NewServer constructs an httptest server running the site HTTP stack over an
// in-memory backend unless WithServices says otherwise.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:  ":0",
		Logger:   zaptest.NewLogger(t),
		SiteName: "태백 유래맵",
		CSRFKey:  []byte(strings.Repeat("t", 32)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Services == nil {
		cfg.Services = NewServices(t, tables.NewMemoryBackend())
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns a client that keeps cookies and does not follow redirects.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
