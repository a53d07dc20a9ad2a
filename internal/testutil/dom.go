package testutil

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses the provided HTML payload into a goquery document for assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// CSRFToken returns the token gorilla/csrf embeds in the page's hidden form field.
func CSRFToken(t testing.TB, doc *goquery.Document) string {
	t.Helper()

	token, ok := doc.Find(`input[name="gorilla.csrf.Token"]`).First().Attr("value")
	if !ok || token == "" {
		t.Fatalf("csrf token field not found")
	}
	return token
}
