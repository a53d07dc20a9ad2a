package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Path  string // e.g. "/dong"
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/dong", Label: "행정동 유래"},
	{Path: "/places", Label: "지역정보"},
	{Path: "/visit", Label: "태백현황"},
}

// Build renders navigation items with active state given the current path.
// Hidden pages highlight the section they administer.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	currentPath = publicPath(currentPath)
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/dong" or "/dong/..."
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// publicPath maps /hidden/visit/... and /hidden/dong-register to their public sections.
func publicPath(p string) string {
	if !strings.HasPrefix(p, "/hidden/") {
		return p
	}
	rest := strings.TrimPrefix(p, "/hidden")
	switch {
	case strings.HasPrefix(rest, "/dong"):
		return "/dong"
	case strings.HasPrefix(rest, "/place"):
		return "/places"
	case strings.HasPrefix(rest, "/visit"):
		return "/visit"
	}
	return p
}

// Breadcrumbs builds breadcrumb entries for a public page. leaf labels the final
// segment of detail pages (the record name); it is ignored on section pages.
func Breadcrumbs(currentPath, leaf string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: "홈", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	top := "/" + parts[0]
	label := parts[0]
	for _, it := range Main {
		if it.Path == top {
			label = it.Label
			break
		}
	}
	crumbs = append(crumbs, Crumb{Href: top, Label: label, Active: len(parts) == 1})

	if len(parts) > 1 {
		if leaf == "" {
			leaf = parts[len(parts)-1]
		}
		crumbs = append(crumbs, Crumb{Href: clean, Label: leaf, Active: true})
	}
	return crumbs
}
