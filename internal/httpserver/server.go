package httpserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	custommw "github.com/cyber924/taebaek/internal/httpserver/middleware"
	"github.com/cyber924/taebaek/internal/httpserver/ui"
	"github.com/cyber924/taebaek/internal/platform/observability"
	"github.com/cyber924/taebaek/internal/services"
	"github.com/cyber924/taebaek/public"
)

// Config holds runtime options for the site HTTP server.
type Config struct {
	Address  string
	Services *services.Services
	Logger   *zap.Logger
	SiteName string

	// SiteURL is the public origin used for canonical links; empty derives it per request.
	SiteURL    string
	SiteLocale string

	// HiddenUsername and HiddenPassword enable basic auth on /hidden when both are set.
	HiddenUsername string
	HiddenPassword string

	// CSRFKey must be 32 bytes; a random key is generated when empty.
	CSRFKey       []byte
	SecureCookies bool

	// TemplatesDir reloads templates from disk on every request when set.
	TemplatesDir string

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	Now            func() time.Time
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	if cfg.Services == nil {
		return nil, errors.New("httpserver: services are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}
	templates, reload, err := templateSource(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}
	renderer, err := ui.NewRenderer(templates, reload)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	csrfKey := cfg.CSRFKey
	if len(csrfKey) == 0 {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		logger.Warn("CSRF_KEY not set; using an ephemeral key")
	}

	handlers := ui.New(ui.Config{
		Services: cfg.Services,
		Renderer: renderer,
		SiteName: cfg.SiteName,
		SiteURL:  cfg.SiteURL,
		Locale:   cfg.SiteLocale,
		Now:      cfg.Now,
	})

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLoggerMiddleware(logger))
	router.Use(observability.RequestLoggerMiddleware())
	router.Use(observability.RecoveryMiddleware(logger, handlers.ServerError))
	router.Use(chimw.Timeout(requestTimeout))
	router.Use(custommw.HTMX())

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	router.Get("/healthz", handlers.Healthz)
	router.Handle("/static/*", http.StripPrefix("/static/", custommw.Assets(staticContent)))

	mountPublicRoutes(router, handlers)
	mountHiddenRoutes(router, handlers, hiddenOptions{
		Username: cfg.HiddenUsername,
		Password: cfg.HiddenPassword,
		CSRF: custommw.CSRFConfig{
			Key:          csrfKey,
			CookiePath:   "/hidden",
			Secure:       cfg.SecureCookies,
			ErrorHandler: http.HandlerFunc(handlers.Forbidden),
		},
	})

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       durationOr(cfg.IdleTimeout, 60*time.Second),
	}, nil
}

func mountPublicRoutes(router chi.Router, h *ui.Handlers) {
	router.Get("/", h.Home)

	router.Get("/dong", h.DongList)
	RegisterFragment(router, "/fragments/dong-grid", h.DongGrid, h.NotFound)
	router.Get("/dong/{dongId}", h.DongDetail)

	router.Get("/places", h.PlaceList)
	RegisterFragment(router, "/fragments/place-grid", h.PlaceGrid, h.NotFound)
	router.Get("/places/{placeId}", h.PlaceDetail)

	router.Get("/visit", h.VisitList)
	router.Get("/visit/{slug}", h.VisitDetail)
}

type hiddenOptions struct {
	Username string
	Password string
	CSRF     custommw.CSRFConfig
}

func mountHiddenRoutes(router chi.Router, h *ui.Handlers, opts hiddenOptions) {
	router.Route("/hidden", func(r chi.Router) {
		r.Use(custommw.Hidden())
		r.Use(custommw.NoStore())
		r.Use(custommw.BasicAuth(opts.Username, opts.Password))
		r.Use(custommw.CSRF(opts.CSRF))

		r.Get("/dong-register", h.DongRegisterForm)
		r.Post("/dong-register", h.DongRegister)
		r.Get("/place-register", h.PlaceRegisterForm)
		r.Post("/place-register", h.PlaceRegister)

		r.Get("/visit", h.HiddenVisitList)
		r.Get("/visit/new", h.VisitNewForm)
		r.Post("/visit/new", h.VisitCreate)
		RegisterFragment(r, "/visit/{id}/edit", h.VisitEditForm, h.NotFound)
		RegisterFragment(r, "/visit/{id}/card", h.VisitCard, h.NotFound)
		r.Post("/visit/{id}", h.VisitUpdate)
		r.Post("/visit/{id}/delete", h.VisitDelete)

		r.Get("/visit-prepost", h.PrePostForm)
		r.Post("/visit-prepost", h.PrePostGenerate)
	})
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler, notFound http.HandlerFunc) {
	r.With(custommw.RequireHTMX(notFound)).Get(pattern, handler)
}

func templateSource(dir string) (fs.FS, bool, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, false, fmt.Errorf("templates dir: %w", err)
		}
		return os.DirFS(dir), true, nil
	}
	embedded, err := public.TemplatesFS()
	if err != nil {
		return nil, false, fmt.Errorf("embed templates: %w", err)
	}
	return embedded, false, nil
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
