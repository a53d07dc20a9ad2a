// Package content holds the text and HTML helpers shared by the page templates.
package content

import (
	"bytes"
	"html"
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Placeholder images used when a record has no image of its own.
const (
	DistrictPlaceholder = "https://images.pexels.com/photos/681335/pexels-photo-681335.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"
	PlacePlaceholder    = "https://images.pexels.com/photos/3278215/pexels-photo-3278215.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"
)

var (
	imgSrcPattern = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)

	narrative = goldmark.New(goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()))
)

// Thumbnail returns the src of the first <img> tag in body, or "" when there is none.
// It is a pattern scan, not an HTML parse, so malformed markup simply yields "".
func Thumbnail(body string) string {
	match := imgSrcPattern.FindStringSubmatch(body)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

// Narrative renders plain narrative text (origin, history, descriptions) as paragraphs
// with hard line breaks. Raw HTML in the input is not passed through.
func Narrative(text string) template.HTML {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := narrative.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(buf.String())
}

// Excerpt truncates text to at most n runes, appending an ellipsis when cut.
func Excerpt(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// PlainText strips tags from an HTML body and collapses whitespace, for page descriptions.
func PlainText(body string) string {
	stripped := html.UnescapeString(tagPattern.ReplaceAllString(body, " "))
	return strings.Join(strings.Fields(stripped), " ")
}
