package ui

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/content"
	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/httpserver/middleware"
	"github.com/cyber924/taebaek/internal/platform/requestctx"
	"github.com/cyber924/taebaek/internal/services"
)

const (
	msgDongCreated   = "행정동 정보가 성공적으로 등록되었습니다."
	msgDongFailed    = "행정동 등록 중 오류가 발생했습니다."
	msgPlaceCreated  = "지역정보가 성공적으로 등록되었습니다."
	msgPlaceFailed   = "지역정보 등록 중 오류가 발생했습니다."
	msgVisitUpdated  = "수정되었습니다."
	msgVisitFailed   = "저장 중 오류가 발생했습니다."
	msgDeleteFailed  = "삭제 중 오류가 발생했습니다."
	msgVisitNotFound = "이미 삭제되었거나 존재하지 않는 글입니다."
)

type dongForm struct {
	Values domain.DistrictInput
	Errors map[string]string
}

type dongRegisterPage struct {
	Layout
	Form dongForm
}

// DongRegisterForm renders the empty district form.
func (h *Handlers) DongRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, "dong_register", dongRegisterPage{Layout: h.layout(r, "행정동 등록", "")})
}

// DongRegister creates a district. The form is cleared on success and keeps the
// submitted values otherwise.
func (h *Handlers) DongRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := domain.DistrictInput{
		DongID:   r.PostFormValue("dong_id"),
		DongName: r.PostFormValue("dong_name"),
		Origin:   r.PostFormValue("origin"),
		History:  r.PostFormValue("history"),
		Summary:  r.PostFormValue("summary"),
		ImageURL: r.PostFormValue("image_url"),
	}

	page := dongRegisterPage{Layout: h.layout(r, "행정동 등록", "")}
	if _, err := h.districts.Create(r.Context(), in); err != nil {
		page.Form = dongForm{Values: in, Errors: services.FieldErrors(err)}
		if page.Form.Errors == nil {
			page.Toast = errorToast(msgDongFailed)
		}
		h.page(w, r, statusForWriteError(err), "dong_register", page)
		return
	}
	page.Toast = successToast(msgDongCreated, "/dong")
	h.page(w, r, http.StatusOK, "dong_register", page)
}

type placeForm struct {
	Values domain.PlaceInput
	Errors map[string]string
	Types  []TypeOption
}

type placeRegisterPage struct {
	Layout
	Form placeForm
}

// PlaceRegisterForm renders the empty place form; the type defaults to attraction.
func (h *Handlers) PlaceRegisterForm(w http.ResponseWriter, r *http.Request) {
	page := placeRegisterPage{
		Layout: h.layout(r, "지역정보 등록", ""),
		Form:   placeForm{Types: typeOptions(string(domain.PlaceTypeAttraction))},
	}
	h.page(w, r, http.StatusOK, "place_register", page)
}

// PlaceRegister creates a place.
func (h *Handlers) PlaceRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := domain.PlaceInput{
		PlaceName:   r.PostFormValue("place_name"),
		Type:        r.PostFormValue("type"),
		Address:     r.PostFormValue("address"),
		Description: r.PostFormValue("description"),
		ImageURL:    r.PostFormValue("image_url"),
		Tags:        r.PostFormValue("tags"),
	}

	page := placeRegisterPage{Layout: h.layout(r, "지역정보 등록", "")}
	if _, err := h.places.Create(r.Context(), in); err != nil {
		page.Form = placeForm{Values: in, Errors: services.FieldErrors(err), Types: typeOptions(in.Type)}
		if page.Form.Errors == nil {
			page.Toast = errorToast(msgPlaceFailed)
		}
		h.page(w, r, statusForWriteError(err), "place_register", page)
		return
	}
	page.Form = placeForm{Types: typeOptions(string(domain.PlaceTypeAttraction))}
	page.Toast = successToast(msgPlaceCreated, "/places")
	h.page(w, r, http.StatusOK, "place_register", page)
}

// HiddenVisitList renders every post, published or not, with edit and delete controls.
func (h *Handlers) HiddenVisitList(w http.ResponseWriter, r *http.Request) {
	posts := h.visits.ListAll(r.Context())
	page := visitListPage{Layout: h.layout(r, "태백 현황 관리", ""), Cards: make([]VisitCard, 0, len(posts))}
	field := csrf.TemplateField(r)
	for _, p := range posts {
		page.Cards = append(page.Cards, newVisitCard(p, true, field))
	}
	h.page(w, r, http.StatusOK, "hidden_visit_list", page)
}

type visitForm struct {
	ID        string
	Values    domain.VisitInput
	Published bool
	Errors    map[string]string
	CSRFField template.HTML
}

type visitNewPage struct {
	Layout
	Form visitForm
}

// VisitNewForm renders the creation form.
func (h *Handlers) VisitNewForm(w http.ResponseWriter, r *http.Request) {
	page := visitNewPage{
		Layout: h.layout(r, "태백 현황 등록", ""),
		Form:   visitForm{Published: true, CSRFField: csrf.TemplateField(r)},
	}
	h.page(w, r, http.StatusOK, "visit_new", page)
}

// VisitCreate stores a post and redirects to it, or to the admin list when the post
// is not published.
func (h *Handlers) VisitCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	published := checkbox(r, "published")
	in := domain.VisitInput{
		Title:     r.PostFormValue("title"),
		Slug:      r.PostFormValue("slug"),
		Content:   r.PostFormValue("content"),
		Published: &published,
	}

	post, err := h.visits.Create(r.Context(), in)
	if err != nil {
		page := visitNewPage{
			Layout: h.layout(r, "태백 현황 등록", ""),
			Form: visitForm{
				Values:    in,
				Published: published,
				Errors:    services.FieldErrors(err),
				CSRFField: csrf.TemplateField(r),
			},
		}
		if page.Form.Errors == nil {
			page.Toast = errorToast(msgVisitFailed)
		}
		h.page(w, r, statusForWriteError(err), "visit_new", page)
		return
	}

	requestctx.Logger(r.Context()).Info("visit created", zap.String("slug", post.Slug))
	if !post.Published {
		redirect(w, r, "/hidden/visit")
		return
	}
	redirect(w, r, "/visit/"+post.Slug)
}

// VisitEditForm swaps a card for its edit form.
func (h *Handlers) VisitEditForm(w http.ResponseWriter, r *http.Request) {
	post := h.visits.GetByID(r.Context(), chi.URLParam(r, "id"))
	if post == nil {
		h.fragments(w, r, http.StatusOK, Part{Name: "toast-oob", Data: errorToast(msgVisitNotFound)})
		return
	}
	form := visitForm{
		ID:        post.ID,
		Values:    domain.VisitInput{Title: post.Title, Slug: post.Slug, Content: orDefault(post.Content, "")},
		Published: post.Published,
		CSRFField: csrf.TemplateField(r),
	}
	h.fragments(w, r, http.StatusOK, Part{Name: "visit-edit", Data: form})
}

// VisitCard renders a single admin card; used to cancel editing.
func (h *Handlers) VisitCard(w http.ResponseWriter, r *http.Request) {
	post := h.visits.GetByID(r.Context(), chi.URLParam(r, "id"))
	if post == nil {
		h.fragments(w, r, http.StatusOK, Part{Name: "toast-oob", Data: errorToast(msgVisitNotFound)})
		return
	}
	h.fragments(w, r, http.StatusOK, Part{Name: "visit-card", Data: newVisitCard(*post, true, csrf.TemplateField(r))})
}

// VisitUpdate saves an edit and returns the refreshed card with a toast.
func (h *Handlers) VisitUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	in := domain.VisitInput{
		Title:   r.PostFormValue("title"),
		Slug:    r.PostFormValue("slug"),
		Content: r.PostFormValue("content"),
	}
	published := checkbox(r, "published")
	if r.PostFormValue("published_field") != "" {
		in.Published = &published
	}

	post, err := h.visits.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.fragments(w, r, http.StatusOK, Part{Name: "toast-oob", Data: errorToast(msgVisitNotFound)})
			return
		}
		form := visitForm{
			ID:        id,
			Values:    in,
			Published: published,
			Errors:    services.FieldErrors(err),
			CSRFField: csrf.TemplateField(r),
		}
		parts := []Part{{Name: "visit-edit", Data: form}}
		if form.Errors == nil {
			parts = append(parts, Part{Name: "toast-oob", Data: errorToast(msgVisitFailed)})
		}
		h.fragments(w, r, http.StatusOK, parts...)
		return
	}

	if !middleware.IsHTMXRequest(r.Context()) {
		redirect(w, r, "/hidden/visit")
		return
	}
	h.fragments(w, r, http.StatusOK,
		Part{Name: "visit-card", Data: newVisitCard(post, true, csrf.TemplateField(r))},
		Part{Name: "toast-oob", Data: successToast(msgVisitUpdated, "")},
	)
}

// VisitDelete removes a post and asks htmx for a full reload.
func (h *Handlers) VisitDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.visits.Delete(r.Context(), id); err != nil {
		if middleware.IsHTMXRequest(r.Context()) {
			w.Header().Set("HX-Reswap", "none")
			h.fragments(w, r, http.StatusOK, Part{Name: "toast-oob", Data: errorToast(msgDeleteFailed)})
			return
		}
		h.ServerError(w, r)
		return
	}
	requestctx.Logger(r.Context()).Info("visit deleted", zap.String("id", id))
	if middleware.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/hidden/visit", http.StatusSeeOther)
}

type layoutChoice struct {
	Value    content.Layout
	Label    string
	Selected bool
}

type prePostPage struct {
	Layout
	Values  content.PrePostInput
	Layouts []layoutChoice
	Output  string
	Preview template.HTML
	Error   string
}

// PrePostForm renders the post body generator.
func (h *Handlers) PrePostForm(w http.ResponseWriter, r *http.Request) {
	page := prePostPage{
		Layout:  h.layout(r, "HTML 생성기", ""),
		Layouts: layoutChoices(content.LayoutWebzine),
		Values:  content.PrePostInput{Layout: content.LayoutWebzine},
	}
	h.page(w, r, http.StatusOK, "visit_prepost", page)
}

// PrePostGenerate renders the generated body with a preview.
func (h *Handlers) PrePostGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := content.PrePostInput{
		Title:     r.PostFormValue("title"),
		Body:      r.PostFormValue("body"),
		ImageURLs: r.PostFormValue("images"),
		Layout:    content.Layout(r.PostFormValue("layout")),
		Date:      h.now(),
	}
	page := prePostPage{
		Layout:  h.layout(r, "HTML 생성기", ""),
		Layouts: layoutChoices(in.Layout),
		Values:  in,
	}

	out, err := content.PrePost(in)
	switch {
	case err != nil:
		requestctx.Logger(r.Context()).Error("generate post body", zap.Error(err))
		page.Toast = errorToast("HTML 생성 중 오류가 발생했습니다.")
	case out == "":
		page.Error = "제목과 본문을 입력해주세요."
	default:
		page.Output = out
		page.Preview = h.sanitizer.HTML(out)
	}
	h.page(w, r, http.StatusOK, "visit_prepost", page)
}

func layoutChoices(selected content.Layout) []layoutChoice {
	out := make([]layoutChoice, 0, len(content.Layouts))
	for _, l := range content.Layouts {
		out = append(out, layoutChoice{Value: l.Value, Label: l.Label, Selected: l.Value == selected})
	}
	return out
}

func checkbox(r *http.Request, name string) bool {
	switch strings.ToLower(r.PostFormValue(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func statusForWriteError(err error) int {
	if services.FieldErrors(err) != nil {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
