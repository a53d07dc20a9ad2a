package ui

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyber924/taebaek/internal/content"
	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/format"
	"github.com/cyber924/taebaek/internal/seo"
	"github.com/cyber924/taebaek/internal/services"
)

type homePage struct {
	Layout
	HeroImage string
}

// Home renders the landing page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	page := homePage{Layout: h.layout(r, "", ""), HeroImage: heroImage}
	page.Description = "태백시의 역사와 행정동 유래, 지역 명소를 소개하는 서비스입니다."
	page.SEO.OG.Image = heroImage
	page.addJSONLD(seo.WebSite(h.siteName, page.absolute("/"), h.locale))
	h.page(w, r, http.StatusOK, "home", page)
}

type listPage struct {
	Layout
	Skeleton   skeleton
	Categories []Category
	Category   string
}

// skeleton is the placeholder grid that htmx replaces once loaded.
type skeleton struct {
	ID      string
	URL     string
	Message string
	Slots   []int
}

func newSkeleton(id, url, message string) skeleton {
	return skeleton{ID: id, URL: url, Message: message, Slots: []int{1, 2, 3, 4, 5, 6}}
}

type dongGrid struct {
	Cards []DongCard
}

// DongList renders the district page; the grid itself is loaded by htmx.
func (h *Handlers) DongList(w http.ResponseWriter, r *http.Request) {
	page := listPage{
		Layout:   h.layout(r, "행정동 유래", ""),
		Skeleton: newSkeleton("dong-grid", "/fragments/dong-grid", loadingDongList),
	}
	h.page(w, r, http.StatusOK, "dong_list", page)
}

// DongGrid renders the district cards fragment.
func (h *Handlers) DongGrid(w http.ResponseWriter, r *http.Request) {
	dongs := h.districts.List(r.Context())
	grid := dongGrid{Cards: make([]DongCard, 0, len(dongs))}
	for _, d := range dongs {
		grid.Cards = append(grid.Cards, newDongCard(d))
	}
	h.fragments(w, r, http.StatusOK, Part{Name: "dong-grid", Data: grid})
}

type dongDetailPage struct {
	Layout
	Name     string
	Summary  string
	Origin   template.HTML
	History  template.HTML
	ImageURL string
}

// DongDetail renders one district. Blank ids never reach the backend.
func (h *Handlers) DongDetail(w http.ResponseWriter, r *http.Request) {
	dongID := chi.URLParam(r, "dongId")
	if !domain.ValidDongID(dongID) {
		h.NotFound(w, r)
		return
	}
	dong := h.districts.Get(r.Context(), dongID)
	if dong == nil {
		h.NotFound(w, r)
		return
	}

	page := dongDetailPage{
		Layout:   h.layout(r, dong.DongName, dong.DongName),
		Name:     dong.DongName,
		ImageURL: orDefault(dong.ImageURL, content.DistrictPlaceholder),
	}
	if dong.Summary != nil {
		page.Summary = *dong.Summary
		page.Description = *dong.Summary
	} else {
		page.Description = dong.DongName + "의 유래와 역사적 배경을 소개합니다."
	}
	if dong.Origin != nil {
		page.Origin = content.Narrative(*dong.Origin)
	}
	if dong.History != nil {
		page.History = content.Narrative(*dong.History)
	}
	page.SEO.OG.Image = page.absolute(page.ImageURL)
	page.addJSONLD(seo.Place("AdministrativeArea", dong.DongName, page.Description, page.SEO.Canonical, page.ImageURL, ""))
	h.page(w, r, http.StatusOK, "dong_detail", page)
}

type placeGrid struct {
	Cards []PlaceCard
}

// PlaceList renders the places page with category tabs.
func (h *Handlers) PlaceList(w http.ResponseWriter, r *http.Request) {
	category := categoryParam(r)
	page := listPage{
		Layout:     h.layout(r, "지역정보", ""),
		Skeleton:   newSkeleton("place-grid", "/fragments/place-grid?type="+category, loadingPlaceList),
		Categories: categories(category),
		Category:   category,
	}
	h.page(w, r, http.StatusOK, "place_list", page)
}

// PlaceGrid renders the place cards for the requested category.
func (h *Handlers) PlaceGrid(w http.ResponseWriter, r *http.Request) {
	places := h.places.List(r.Context(), categoryParam(r))
	grid := placeGrid{Cards: make([]PlaceCard, 0, len(places))}
	for _, p := range places {
		grid.Cards = append(grid.Cards, newPlaceCard(p))
	}
	h.fragments(w, r, http.StatusOK, Part{Name: "place-grid", Data: grid})
}

func placeSchemaType(t domain.PlaceType) string {
	switch t {
	case domain.PlaceTypeRestaurant:
		return "Restaurant"
	case domain.PlaceTypeCafe:
		return "CafeOrCoffeeShop"
	case domain.PlaceTypeAttraction, domain.PlaceTypeRecommendation:
		return "TouristAttraction"
	}
	return "Place"
}

func categoryParam(r *http.Request) string {
	category := string(services.ParseCategory(r.URL.Query().Get("type")))
	if category == "" {
		return services.CategoryAll
	}
	return category
}

type placeDetailPage struct {
	Layout
	Place   PlaceCard
	Intro   template.HTML
	Address string
}

// PlaceDetail renders one place. Non-numeric ids never reach the backend.
func (h *Handlers) PlaceDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParsePlaceID(chi.URLParam(r, "placeId"))
	if !ok {
		h.NotFound(w, r)
		return
	}
	place := h.places.Get(r.Context(), id)
	if place == nil {
		h.NotFound(w, r)
		return
	}

	page := placeDetailPage{
		Layout:  h.layout(r, place.PlaceName, place.PlaceName),
		Place:   newPlaceCard(*place),
		Address: orDefault(place.Address, ""),
	}
	if place.Description != nil && *place.Description != "" {
		page.Intro = content.Narrative(*place.Description)
		page.Description = content.Excerpt(*place.Description, 160)
	} else {
		page.Description = place.PlaceName + "에 대한 정보를 소개합니다."
	}
	page.SEO.OG.Image = page.absolute(page.Place.ImageURL)
	page.addJSONLD(seo.Place(placeSchemaType(place.Type), place.PlaceName, page.Description,
		page.SEO.Canonical, page.Place.ImageURL, page.Address))
	h.page(w, r, http.StatusOK, "place_detail", page)
}

type visitListPage struct {
	Layout
	Cards []VisitCard
}

// VisitList renders the published posts.
func (h *Handlers) VisitList(w http.ResponseWriter, r *http.Request) {
	posts := h.visits.ListPublished(r.Context())
	page := visitListPage{Layout: h.layout(r, "태백 현황", ""), Cards: make([]VisitCard, 0, len(posts))}
	for _, p := range posts {
		page.Cards = append(page.Cards, newVisitCard(p, false, ""))
	}
	h.page(w, r, http.StatusOK, "visit_list", page)
}

type visitDetailPage struct {
	Layout
	PostTitle string
	Date      string
	ISODate   string
	Body      template.HTML
}

// VisitDetail renders a published post with its body sanitised.
func (h *Handlers) VisitDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !domain.ValidSlug(slug) {
		h.NotFound(w, r)
		return
	}
	post := h.visits.GetBySlug(r.Context(), slug)
	if post == nil || !post.Published {
		h.NotFound(w, r)
		return
	}

	page := visitDetailPage{
		Layout:    h.layout(r, post.Title, post.Title),
		PostTitle: post.Title,
		Date:      format.Date(post.CreatedAt),
		ISODate:   format.ISODate(post.CreatedAt),
	}
	page.Description = "태백 현황: " + post.Title
	var thumbnail string
	if post.Content != nil {
		clean := h.sanitizer.Clean(*post.Content)
		page.Body = template.HTML(clean)
		thumbnail = content.Thumbnail(clean)
		if text := content.PlainText(clean); text != "" {
			page.Description = content.Excerpt(text, 160)
		}
	}
	page.SEO.OG.Type = "article"
	page.SEO.OG.Image = page.absolute(thumbnail)
	page.addJSONLD(seo.Article(post.Title, page.SEO.Canonical, thumbnail, post.CreatedAt, post.UpdatedAt))
	h.page(w, r, http.StatusOK, "visit_detail", page)
}
