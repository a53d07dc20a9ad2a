package ui

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"github.com/cyber924/taebaek/internal/content"
	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/format"
	"github.com/cyber924/taebaek/internal/nav"
	"github.com/cyber924/taebaek/internal/platform/requestctx"
	"github.com/cyber924/taebaek/internal/seo"
)

const (
	dongSummaryFallback  = "행정동 유래 정보를 확인해보세요."
	placeSummaryFallback = "지역 정보를 확인해보세요."
	cardExcerptRunes     = 100
)

// Layout carries the values every page shares.
type Layout struct {
	Title       string
	Description string
	SiteName    string
	Nav         []nav.RenderedItem
	Crumbs      []nav.Crumb
	Admin       bool
	CSRFToken   string
	CSRFField   template.HTML
	Toast       *Toast

	// SEO and JSONLD are only set on public pages.
	SEO     *seo.Meta
	JSONLD  []template.JS
	baseURL string
}

// Toast is a transient notification.
type Toast struct {
	Kind      string // success or error
	Message   string
	LinkHref  string
	LinkLabel string
}

func successToast(message, href string) *Toast {
	t := &Toast{Kind: "success", Message: message}
	if href != "" {
		t.LinkHref = href
		t.LinkLabel = "확인하기"
	}
	return t
}

func errorToast(message string) *Toast {
	return &Toast{Kind: "error", Message: message}
}

func (h *Handlers) layout(r *http.Request, title, leaf string) Layout {
	l := Layout{
		SiteName: h.siteName,
		Nav:      nav.Build(r.URL.Path),
		Admin:    requestctx.IsAdmin(r.Context()),
	}
	if title == "" {
		l.Title = h.siteName
	} else {
		l.Title = title + " | " + h.siteName
	}
	if l.Admin {
		l.CSRFToken = csrf.Token(r)
		l.CSRFField = csrf.TemplateField(r)
		return l
	}

	l.Crumbs = nav.Breadcrumbs(r.URL.Path, leaf)
	l.baseURL = seo.BaseURL(h.siteURL, r)
	l.SEO = &seo.Meta{
		Canonical: seo.Absolute(l.baseURL, r.URL.Path),
		OG:        seo.OpenGraph{Type: "website", URL: seo.Absolute(l.baseURL, r.URL.Path)},
	}
	if len(l.Crumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(l.Crumbs))
		for _, c := range l.Crumbs {
			items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: l.absolute(c.Href)})
		}
		l.addJSONLD(seo.BreadcrumbList(items))
	}
	return l
}

func (l *Layout) addJSONLD(v any) {
	if out := seo.JSON(v); out != "" {
		l.JSONLD = append(l.JSONLD, template.JS(out))
	}
}

// absolute resolves path against the page's public origin.
func (l *Layout) absolute(path string) string {
	return seo.Absolute(l.baseURL, path)
}

// DongCard is the list view of a district.
type DongCard struct {
	DongID   string
	DongName string
	Summary  string
	ImageURL string
}

func newDongCard(d domain.DistrictHeritage) DongCard {
	return DongCard{
		DongID:   d.DongID,
		DongName: d.DongName,
		Summary:  orDefault(d.Summary, dongSummaryFallback),
		ImageURL: orDefault(d.ImageURL, content.DistrictPlaceholder),
	}
}

// PlaceCard is the list view of a place.
type PlaceCard struct {
	ID        int64
	Href      string
	Name      string
	Type      string
	TypeLabel string
	Excerpt   string
	ImageURL  string
	Tags      []string
}

func newPlaceCard(p domain.Place) PlaceCard {
	excerpt := placeSummaryFallback
	if p.Description != nil && *p.Description != "" {
		excerpt = content.Excerpt(*p.Description, cardExcerptRunes)
	}
	return PlaceCard{
		ID:        p.ID,
		Href:      "/places/" + strconv.FormatInt(p.ID, 10),
		Name:      p.PlaceName,
		Type:      string(p.Type),
		TypeLabel: p.Type.Label(),
		Excerpt:   excerpt,
		ImageURL:  orDefault(p.ImageURL, content.PlacePlaceholder),
		Tags:      p.Tags,
	}
}

// VisitCard is the list view of a visit post. Admin cards carry edit and delete
// controls.
type VisitCard struct {
	ID        string
	Title     string
	Slug      string
	Date      string
	ISODate   string
	Thumbnail string
	Published bool
	Admin     bool
	CSRFField template.HTML
}

func newVisitCard(v domain.VisitPost, admin bool, csrfField template.HTML) VisitCard {
	body := ""
	if v.Content != nil {
		body = *v.Content
	}
	card := VisitCard{
		ID:        v.ID,
		Title:     v.Title,
		Slug:      v.Slug,
		Date:      format.Date(v.CreatedAt),
		ISODate:   format.ISODate(v.CreatedAt),
		Thumbnail: content.Thumbnail(body),
		Published: v.Published,
		Admin:     admin,
	}
	if admin {
		card.CSRFField = csrfField
	}
	return card
}

// Category is a tab on the places page.
type Category struct {
	Value  string
	Label  string
	Active bool
}

func categories(active string) []Category {
	out := []Category{{Value: "all", Label: "전체", Active: active == "all"}}
	for _, t := range []domain.PlaceType{
		domain.PlaceTypeRestaurant,
		domain.PlaceTypeCafe,
		domain.PlaceTypeAttraction,
		domain.PlaceTypeRecommendation,
	} {
		out = append(out, Category{Value: string(t), Label: t.Label(), Active: active == string(t)})
	}
	return out
}

// TypeOption is an entry in the place type select box.
type TypeOption struct {
	Value    string
	Label    string
	Selected bool
}

func typeOptions(selected string) []TypeOption {
	out := make([]TypeOption, 0, len(domain.PlaceTypes))
	for _, t := range domain.PlaceTypes {
		out = append(out, TypeOption{Value: string(t), Label: t.Label(), Selected: selected == string(t)})
	}
	return out
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
