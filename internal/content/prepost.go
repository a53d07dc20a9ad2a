package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Layout selects one of the generator's visual templates.
type Layout string

const (
	LayoutWebzine Layout = "1"
	LayoutNature  Layout = "2"
	LayoutArticle Layout = "3"
)

// LayoutOption describes a layout for the generator's select box.
type LayoutOption struct {
	Value Layout
	Label string
}

// Layouts lists the generator layouts in display order.
var Layouts = []LayoutOption{
	{Value: LayoutWebzine, Label: "1. 웹진형 템플릿 (감성 후기)"},
	{Value: LayoutNature, Label: "2. 자연 중심 템플릿 (풍경/계곡)"},
	{Value: LayoutArticle, Label: "3. 전문 기사형 템플릿 (워크/축제)"},
}

type layoutStyle struct {
	MaxWidth     string
	Padding      string
	Background   string
	Accent       string
	TitleColor   string
	TitleSize    string
	HeaderMargin string
	Tagline      string
	TaglineColor string
	TaglineSize  string
	Gap          string
}

var layoutStyles = map[Layout]layoutStyle{
	LayoutWebzine: {
		MaxWidth: "800px", Padding: "32px", Background: "#f1f5f9", Accent: "#3b82f6",
		TitleColor: "#1d4ed8", TitleSize: "1.5rem", HeaderMargin: "24px",
		Tagline: "태백에서의 소중한 기록", TaglineColor: "#475569", TaglineSize: "0.875rem", Gap: "24px",
	},
	LayoutNature: {
		MaxWidth: "880px", Padding: "40px", Background: "#ecfdf5", Accent: "#10b981",
		TitleColor: "#047857", TitleSize: "1.5rem", HeaderMargin: "28px",
		Tagline: "자연이 주는 휴식과 회복의 공간", TaglineColor: "#065f46", TaglineSize: "0.875rem", Gap: "20px",
	},
	LayoutArticle: {
		MaxWidth: "880px", Padding: "40px", Background: "#eff6ff", Accent: "#3b82f6",
		TitleColor: "#1d4ed8", TitleSize: "1.6rem", HeaderMargin: "28px",
		Tagline: "도시를 떠나 찾은 태백의 특별한 순간", TaglineColor: "#334155", TaglineSize: "0.9rem", Gap: "26px",
	},
}

// The generated markup is pasted into a visit body, so the style attributes are built
// from the fixed layout table and marked as trusted CSS.
var prePostTemplate = template.Must(template.New("prepost").Funcs(template.FuncMap{
	"css": func(format string, args ...any) template.CSS {
		return template.CSS(fmt.Sprintf(format, args...))
	},
}).Parse(`<section style="{{css "max-width: %s; margin: 0 auto; padding: %s; font-family: sans-serif; font-size: 15px; line-height: 1.8; color: #1f2937;" .Style.MaxWidth .Style.Padding}}">
  <div style="{{css "background-color: %s; padding: 16px 20px; border-left: 6px solid %s; border-radius: 6px; margin-bottom: %s;" .Style.Background .Style.Accent .Style.HeaderMargin}}">
    <h1 style="{{css "margin: 0; font-size: %s; color: %s; font-weight: bold;" .Style.TitleSize .Style.TitleColor}}">{{.Title}}</h1>
    <p style="{{css "margin-top: 4px; color: %s; font-size: %s;" .Style.TaglineColor .Style.TaglineSize}}">{{.Style.Tagline}}</p>
  </div>
{{- range .Images}}
  <div style="margin-bottom: 24px;">
    <img src="{{.}}" alt="이미지" style="width: 100%; max-height: 320px; object-fit: cover; border-radius: 6px; box-shadow: 0 2px 6px rgba(0,0,0,0.1);" />
  </div>
{{- end}}
  <article style="{{css "display: flex; flex-direction: column; gap: %s;" .Style.Gap}}">
{{- range .Paragraphs}}
    <p>{{.}}</p>
{{- end}}
  </article>
  <div style="background-color: #f8fafc; border: 1px solid #cbd5e1; border-radius: 6px; padding: 16px 20px; margin-top: 24px;">
    <h3 style="margin: 0; color: #0f172a; font-weight: bold; font-size: 1rem; margin-bottom: 8px;">📝 짧은 메모</h3>
    <ul style="padding-left: 1.2em; margin: 0; color: #334155;">
      <li>장소명: {{.Title}}</li>
      <li>작성일: {{.Date}}</li>
      <li>추천 포인트: 자연, 풍경, 휴식</li>
    </ul>
  </div>
</section>
`))

// PrePostInput is the raw generator form.
type PrePostInput struct {
	Title     string
	Body      string
	ImageURLs string
	Layout    Layout
	Date      time.Time
}

// Paragraphs splits body into non-empty lines.
func Paragraphs(body string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ImageURLs keeps the lines of raw that start with http.
func ImageURLs(raw string) []string {
	var out []string
	for _, line := range Paragraphs(raw) {
		if strings.HasPrefix(line, "http") {
			out = append(out, line)
		}
	}
	return out
}

// PrePost renders a visit body from a title, newline separated paragraphs and image URLs.
// It returns "" when the title or body is empty. Unknown layouts fall back to the article layout.
func PrePost(in PrePostInput) (string, error) {
	title := strings.TrimSpace(in.Title)
	paragraphs := Paragraphs(in.Body)
	if title == "" || len(paragraphs) == 0 {
		return "", nil
	}
	style, ok := layoutStyles[in.Layout]
	if !ok {
		style = layoutStyles[LayoutArticle]
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	var buf bytes.Buffer
	err := prePostTemplate.Execute(&buf, struct {
		Title      string
		Paragraphs []string
		Images     []string
		Style      layoutStyle
		Date       string
	}{
		Title:      title,
		Paragraphs: paragraphs,
		Images:     ImageURLs(in.ImageURLs),
		Style:      style,
		Date:       date.Format("2006. 1. 2."),
	})
	if err != nil {
		return "", fmt.Errorf("render post body: %w", err)
	}
	return buf.String(), nil
}
