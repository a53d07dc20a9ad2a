package tables

import (
	"time"

	"github.com/cyber924/taebaek/internal/domain"
)

// Backend table names.
const (
	DistrictTable = "taebaek_dong_heritage"
	PlaceTable    = "spot"
	VisitTable    = "visit"
)

type districtRow struct {
	ID       int64   `json:"id,omitempty" gorm:"column:id;primaryKey"`
	DongID   string  `json:"dong_id" gorm:"column:dong_id;uniqueIndex;not null"`
	DongName string  `json:"dong_name" gorm:"column:dong_name;not null"`
	Origin   *string `json:"origin" gorm:"column:origin;type:text"`
	History  *string `json:"history" gorm:"column:history;type:text"`
	Summary  *string `json:"summary" gorm:"column:summary;type:text"`
	ImageURL *string `json:"image_url" gorm:"column:image_url"`
}

func (r districtRow) toDomain() domain.DistrictHeritage {
	return domain.DistrictHeritage{
		ID:       r.ID,
		DongID:   r.DongID,
		DongName: r.DongName,
		Origin:   r.Origin,
		History:  r.History,
		Summary:  r.Summary,
		ImageURL: r.ImageURL,
	}
}

func districtFromDomain(d domain.DistrictHeritage) districtRow {
	return districtRow{
		ID:       d.ID,
		DongID:   d.DongID,
		DongName: d.DongName,
		Origin:   d.Origin,
		History:  d.History,
		Summary:  d.Summary,
		ImageURL: d.ImageURL,
	}
}

type placeRow struct {
	ID          int64    `json:"id,omitempty" gorm:"column:id;primaryKey"`
	PlaceName   string   `json:"place_name" gorm:"column:place_name;not null"`
	Type        string   `json:"type" gorm:"column:type;index;not null"`
	Address     *string  `json:"address" gorm:"column:address"`
	Description *string  `json:"description" gorm:"column:description;type:text"`
	ImageURL    *string  `json:"image_url" gorm:"column:image_url"`
	Tags        []string `json:"tags" gorm:"column:tags;serializer:json"`
}

func (r placeRow) toDomain() domain.Place {
	return domain.Place{
		ID:          r.ID,
		PlaceName:   r.PlaceName,
		Type:        domain.PlaceType(r.Type),
		Address:     r.Address,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
	}
}

func placeFromDomain(p domain.Place) placeRow {
	return placeRow{
		ID:          p.ID,
		PlaceName:   p.PlaceName,
		Type:        string(p.Type),
		Address:     p.Address,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Tags:        p.Tags,
	}
}

type visitRow struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey;size:36"`
	Title     string    `json:"title" gorm:"column:title;not null"`
	Slug      string    `json:"slug" gorm:"column:slug;uniqueIndex;not null"`
	Content   *string   `json:"content" gorm:"column:content;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null"`
	Published bool      `json:"published" gorm:"column:published;not null"`
}

func (r visitRow) toDomain() domain.VisitPost {
	return domain.VisitPost{
		ID:        r.ID,
		Title:     r.Title,
		Slug:      r.Slug,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Published: r.Published,
	}
}

func visitFromDomain(v domain.VisitPost) visitRow {
	return visitRow{
		ID:        v.ID,
		Title:     v.Title,
		Slug:      v.Slug,
		Content:   v.Content,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
		Published: v.Published,
	}
}
