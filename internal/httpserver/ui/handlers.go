package ui

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/content"
	"github.com/cyber924/taebaek/internal/httpserver/middleware"
	"github.com/cyber924/taebaek/internal/platform/requestctx"
	"github.com/cyber924/taebaek/internal/services"
)

const (
	loadingDongList  = "행정동 목록을 불러오는 중입니다..."
	loadingPlaceList = "지역정보를 불러오는 중입니다..."

	heroImage = "https://images.pexels.com/photos/12762311/pexels-photo-12762311.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"
)

// Config wires the handler dependencies.
type Config struct {
	Services  *services.Services
	Renderer  *Renderer
	Sanitizer *content.Sanitizer
	SiteName  string
	SiteURL   string
	Locale    string
	Now       func() time.Time
}

// Handlers serves the public and hidden pages.
type Handlers struct {
	districts *services.DistrictService
	places    *services.PlaceService
	visits    *services.VisitService
	renderer  *Renderer
	sanitizer *content.Sanitizer
	siteName  string
	siteURL   string
	locale    string
	now       func() time.Time
}

// New constructs the handlers.
func New(cfg Config) *Handlers {
	sanitizer := cfg.Sanitizer
	if sanitizer == nil {
		sanitizer = content.NewSanitizer()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	siteName := cfg.SiteName
	if siteName == "" {
		siteName = "태백 유래맵"
	}
	return &Handlers{
		districts: cfg.Services.Districts,
		places:    cfg.Services.Places,
		visits:    cfg.Services.Visits,
		renderer:  cfg.Renderer,
		sanitizer: sanitizer,
		siteName:  siteName,
		siteURL:   cfg.SiteURL,
		locale:    cfg.Locale,
		now:       now,
	}
}

type errorPage struct {
	Layout
	Status  int
	Heading string
	Message string
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	page := errorPage{
		Layout:  h.layout(r, "페이지를 찾을 수 없습니다", ""),
		Status:  http.StatusNotFound,
		Heading: "페이지를 찾을 수 없습니다",
		Message: "요청하신 페이지가 존재하지 않거나 다른 URL로 변경되었을 수 있습니다.",
	}
	page.Crumbs, page.SEO, page.JSONLD = nil, nil, nil
	if err := h.renderer.Page(w, http.StatusNotFound, "error", page); err != nil {
		requestctx.Logger(r.Context()).Error("render not found page", zap.Error(err))
		http.NotFound(w, r)
	}
}

// ServerError renders the 500 page. It is also the panic fallback.
func (h *Handlers) ServerError(w http.ResponseWriter, r *http.Request) {
	page := errorPage{
		Layout:  h.layout(r, "오류가 발생했습니다", ""),
		Status:  http.StatusInternalServerError,
		Heading: "오류가 발생했습니다",
		Message: "잠시 후 다시 시도해주세요.",
	}
	page.Crumbs, page.SEO, page.JSONLD = nil, nil, nil
	if err := h.renderer.Page(w, http.StatusInternalServerError, "error", page); err != nil {
		requestctx.Logger(r.Context()).Error("render error page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Forbidden renders the 403 page shown for rejected form submissions.
func (h *Handlers) Forbidden(w http.ResponseWriter, r *http.Request) {
	page := errorPage{
		Layout:  h.layout(r, "요청이 거부되었습니다", ""),
		Status:  http.StatusForbidden,
		Heading: "요청이 거부되었습니다",
		Message: "페이지를 새로고침한 뒤 다시 시도해주세요.",
	}
	if err := h.renderer.Page(w, http.StatusForbidden, "error", page); err != nil {
		requestctx.Logger(r.Context()).Error("render forbidden page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	}
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) page(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.renderer.Page(w, status, name, data); err != nil {
		requestctx.Logger(r.Context()).Error("render page", zap.String("template", name), zap.Error(err))
		h.ServerError(w, r)
	}
}

func (h *Handlers) fragments(w http.ResponseWriter, r *http.Request, status int, parts ...Part) {
	if err := h.renderer.Fragments(w, status, parts...); err != nil {
		requestctx.Logger(r.Context()).Error("render fragment", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// redirect sends htmx clients an HX-Redirect and everyone else a 303.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if middleware.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
