// Package seo builds the canonical, OpenGraph and structured data values rendered in
// the page head.
package seo

import (
	"net/http"
	"strings"
)

type OpenGraph struct {
	Type  string
	URL   string
	Image string
}

// Meta is attached to public pages only; hidden pages are noindex.
type Meta struct {
	Canonical string
	OG        OpenGraph
}

// BaseURL returns configured when set, otherwise the scheme and host the request arrived on.
func BaseURL(configured string, r *http.Request) string {
	if configured = strings.TrimRight(strings.TrimSpace(configured), "/"); configured != "" {
		return configured
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// Absolute joins base and path. Absolute URLs are returned unchanged.
func Absolute(base, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}
