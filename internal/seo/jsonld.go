package seo

import (
	"encoding/json"
	"time"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, locale string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if locale != "" {
		m["inLanguage"] = locale
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// Article describes a visit post.
func Article(headline, url, imageURL string, published, modified time.Time) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Article",
		"headline": headline,
	}
	if url != "" {
		m["mainEntityOfPage"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if !published.IsZero() {
		m["datePublished"] = published.Format(time.RFC3339)
	}
	if !modified.IsZero() {
		m["dateModified"] = modified.Format(time.RFC3339)
	}
	return m
}

// Place describes a point of interest or district. schemaType is a schema.org Place
// subtype such as TouristAttraction or Restaurant.
func Place(schemaType, name, description, url, imageURL, address string) map[string]any {
	if schemaType == "" {
		schemaType = "Place"
	}
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    schemaType,
		"name":     name,
	}
	if description != "" {
		m["description"] = description
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if address != "" {
		m["address"] = address
	}
	return m
}
