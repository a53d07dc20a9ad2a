package content

import (
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// postStyles are the inline style properties emitted by the post generator.
var postStyles = []string{
	"background-color", "border", "border-left", "border-radius", "box-shadow", "color",
	"display", "flex-direction", "font-family", "font-size", "font-weight", "gap",
	"line-height", "margin", "margin-bottom", "margin-top", "max-height", "max-width",
	"object-fit", "padding", "padding-left", "text-align", "width",
}

var styleValue = regexp.MustCompile(`^[#(),.%\w\s-]+$`)

// Sanitizer cleans stored visit bodies before they are rendered.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the visit body policy: user generated content plus the layout
// elements and inline styles produced by the post generator.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("section", "article", "div", "span", "figure", "figcaption")
	p.AllowStyles(postStyles...).Matching(styleValue).Globally()
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")
	return &Sanitizer{policy: p}
}

// Clean returns body with disallowed markup removed.
func (s *Sanitizer) Clean(body string) string {
	return s.policy.Sanitize(body)
}

// HTML returns the cleaned body marked safe for templates.
func (s *Sanitizer) HTML(body string) template.HTML {
	return template.HTML(s.Clean(body))
}
