package domain

import "time"

// DistrictHeritage records the naming origin and history of an administrative district (dong).
type DistrictHeritage struct {
	ID       int64
	DongID   string
	DongName string
	Origin   *string
	History  *string
	Summary  *string
	ImageURL *string
}

// PlaceType classifies a point of interest.
type PlaceType string

const (
	PlaceTypeCafe           PlaceType = "cafe"
	PlaceTypeRestaurant     PlaceType = "restaurant"
	PlaceTypeAttraction     PlaceType = "attraction"
	PlaceTypeRecommendation PlaceType = "recommendation"
)

// PlaceTypes lists every valid place type in display order.
var PlaceTypes = []PlaceType{
	PlaceTypeCafe,
	PlaceTypeRestaurant,
	PlaceTypeAttraction,
	PlaceTypeRecommendation,
}

// Valid reports whether t is one of the known place types.
func (t PlaceType) Valid() bool {
	switch t {
	case PlaceTypeCafe, PlaceTypeRestaurant, PlaceTypeAttraction, PlaceTypeRecommendation:
		return true
	}
	return false
}

// Label returns the Korean display label.
func (t PlaceType) Label() string {
	switch t {
	case PlaceTypeCafe:
		return "카페"
	case PlaceTypeRestaurant:
		return "맛집"
	case PlaceTypeAttraction:
		return "관광지"
	case PlaceTypeRecommendation:
		return "추천"
	}
	return string(t)
}

// Place is a point of interest.
type Place struct {
	ID          int64
	PlaceName   string
	Type        PlaceType
	Address     *string
	Description *string
	ImageURL    *string
	Tags        []string
}

// VisitPost is a status or news post addressed by slug.
type VisitPost struct {
	ID        string
	Title     string
	Slug      string
	Content   *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Published bool
}

// DistrictInput carries the fields accepted when registering a district.
type DistrictInput struct {
	DongID   string
	DongName string
	Origin   string
	History  string
	Summary  string
	ImageURL string
}

// PlaceInput carries the fields accepted when registering a place. Tags is the raw
// comma separated form value.
type PlaceInput struct {
	PlaceName   string
	Type        string
	Address     string
	Description string
	ImageURL    string
	Tags        string
}

// VisitInput carries the fields accepted when creating or editing a visit post.
// Slug is ignored on update.
type VisitInput struct {
	Title     string
	Slug      string
	Content   string
	Published *bool
}
