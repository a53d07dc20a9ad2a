package repositories

import (
	"context"
	"time"

	"github.com/cyber924/taebaek/internal/domain"
)

// Registry exposes typed repository accessors for dependency injection.
type Registry interface {
	Districts() DistrictRepository
	Places() PlaceRepository
	Visits() VisitRepository
	// Migrate creates missing tables when the backend owns its schema.
	Migrate(ctx context.Context) error
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// DistrictRepository persists district heritage records.
type DistrictRepository interface {
	List(ctx context.Context) ([]domain.DistrictHeritage, error)
	FindByDongID(ctx context.Context, dongID string) (domain.DistrictHeritage, error)
	Insert(ctx context.Context, district domain.DistrictHeritage) (domain.DistrictHeritage, error)
}

// PlaceRepository persists points of interest.
type PlaceRepository interface {
	// List returns every place, or only those of placeType when it is non-empty.
	List(ctx context.Context, placeType domain.PlaceType) ([]domain.Place, error)
	FindByID(ctx context.Context, id int64) (domain.Place, error)
	Insert(ctx context.Context, place domain.Place) (domain.Place, error)
}

// VisitFilter narrows visit listings.
type VisitFilter struct {
	PublishedOnly bool
}

// VisitPatch lists the mutable visit columns. The slug is never patched and a nil
// Published leaves the flag untouched.
type VisitPatch struct {
	Title     string
	Content   *string
	Published *bool
	UpdatedAt time.Time
}

// VisitRepository persists visit posts.
type VisitRepository interface {
	List(ctx context.Context, filter VisitFilter) ([]domain.VisitPost, error)
	FindBySlug(ctx context.Context, slug string) (domain.VisitPost, error)
	FindByID(ctx context.Context, id string) (domain.VisitPost, error)
	Insert(ctx context.Context, post domain.VisitPost) (domain.VisitPost, error)
	Update(ctx context.Context, id string, patch VisitPatch) (domain.VisitPost, error)
	Delete(ctx context.Context, id string) error
}
