// Package tables implements the repositories on top of a backend.Client.
package tables

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/platform/backend"
	"github.com/cyber924/taebaek/internal/repositories"
)

// Registry wires every repository to one backend client.
type Registry struct {
	districts *DistrictRepository
	places    *PlaceRepository
	visits    *VisitRepository
}

var _ repositories.Registry = (*Registry)(nil)

// NewRegistry builds the repositories for client.
func NewRegistry(client backend.Client) *Registry {
	return &Registry{
		districts: NewDistrictRepository(client),
		places:    NewPlaceRepository(client),
		visits:    NewVisitRepository(client),
	}
}

// Districts implements repositories.Registry.
func (r *Registry) Districts() repositories.DistrictRepository { return r.districts }

// Places implements repositories.Registry.
func (r *Registry) Places() repositories.PlaceRepository { return r.places }

// Visits implements repositories.Registry.
func (r *Registry) Visits() repositories.VisitRepository { return r.visits }

// Migrate implements repositories.Registry.
func (r *Registry) Migrate(ctx context.Context) error {
	return errors.Join(
		r.districts.table.Migrate(ctx),
		r.places.table.Migrate(ctx),
		r.visits.table.Migrate(ctx),
	)
}

// UniqueColumns lists the columns the hosted schema keeps unique, for drivers that
// must enforce them themselves.
func UniqueColumns() map[string][]string {
	return map[string][]string{
		DistrictTable: {"dong_id"},
		VisitTable:    {"slug"},
	}
}

// NewMemoryBackend returns an in-memory backend enforcing UniqueColumns.
func NewMemoryBackend() *backend.Memory {
	opts := make([]backend.MemoryOption, 0, len(UniqueColumns()))
	for table, columns := range UniqueColumns() {
		opts = append(opts, backend.WithUniqueColumns(table, columns...))
	}
	return backend.NewMemory(opts...)
}

// DistrictRepository reads and writes the district heritage table.
type DistrictRepository struct {
	table *backend.Table[districtRow]
}

// NewDistrictRepository binds the repository to client.
func NewDistrictRepository(client backend.Client) *DistrictRepository {
	return &DistrictRepository{table: backend.NewTable[districtRow](client, DistrictTable)}
}

// List returns every district ordered by name.
func (r *DistrictRepository) List(ctx context.Context) ([]domain.DistrictHeritage, error) {
	rows, err := r.table.List(ctx, backend.Query{}.OrderBy(backend.Asc("dong_name")))
	if err != nil {
		return nil, err
	}
	out := make([]domain.DistrictHeritage, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// FindByDongID returns the district addressed by its URL key.
func (r *DistrictRepository) FindByDongID(ctx context.Context, dongID string) (domain.DistrictHeritage, error) {
	row, err := r.table.One(ctx, backend.Eq("dong_id", dongID))
	if err != nil {
		return domain.DistrictHeritage{}, err
	}
	return row.toDomain(), nil
}

// Insert stores a district; the backend assigns the numeric id.
func (r *DistrictRepository) Insert(ctx context.Context, district domain.DistrictHeritage) (domain.DistrictHeritage, error) {
	row := districtFromDomain(district)
	row.ID = 0
	stored, err := r.table.Insert(ctx, row)
	if err != nil {
		return domain.DistrictHeritage{}, err
	}
	return stored.toDomain(), nil
}

// PlaceRepository reads and writes the place table.
type PlaceRepository struct {
	table *backend.Table[placeRow]
}

// NewPlaceRepository binds the repository to client.
func NewPlaceRepository(client backend.Client) *PlaceRepository {
	return &PlaceRepository{table: backend.NewTable[placeRow](client, PlaceTable)}
}

// List returns places ordered by name, restricted to placeType when set.
func (r *PlaceRepository) List(ctx context.Context, placeType domain.PlaceType) ([]domain.Place, error) {
	q := backend.Query{}
	if placeType != "" {
		q = backend.Where(backend.Eq("type", string(placeType)))
	}
	rows, err := r.table.List(ctx, q.OrderBy(backend.Asc("place_name")))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Place, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// FindByID returns the place with the given numeric id.
func (r *PlaceRepository) FindByID(ctx context.Context, id int64) (domain.Place, error) {
	row, err := r.table.One(ctx, backend.Eq("id", id))
	if err != nil {
		return domain.Place{}, err
	}
	return row.toDomain(), nil
}

// Insert stores a place; the backend assigns the numeric id.
func (r *PlaceRepository) Insert(ctx context.Context, place domain.Place) (domain.Place, error) {
	row := placeFromDomain(place)
	row.ID = 0
	stored, err := r.table.Insert(ctx, row)
	if err != nil {
		return domain.Place{}, err
	}
	return stored.toDomain(), nil
}

// VisitRepository reads and writes the visit table.
type VisitRepository struct {
	table *backend.Table[visitRow]
	newID func() string
	now   func() time.Time
}

// VisitOption customises a VisitRepository.
type VisitOption func(*VisitRepository)

// WithVisitClock overrides the timestamp source.
func WithVisitClock(now func() time.Time) VisitOption {
	return func(r *VisitRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithVisitIDs overrides the id generator.
func WithVisitIDs(newID func() string) VisitOption {
	return func(r *VisitRepository) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// NewVisitRepository binds the repository to client.
func NewVisitRepository(client backend.Client, opts ...VisitOption) *VisitRepository {
	r := &VisitRepository{
		table: backend.NewTable[visitRow](client, VisitTable),
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns posts newest first.
func (r *VisitRepository) List(ctx context.Context, filter repositories.VisitFilter) ([]domain.VisitPost, error) {
	q := backend.Query{}
	if filter.PublishedOnly {
		q = backend.Where(backend.Eq("published", true))
	}
	rows, err := r.table.List(ctx, q.OrderBy(backend.Desc("created_at")))
	if err != nil {
		return nil, err
	}
	out := make([]domain.VisitPost, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// FindBySlug returns the post addressed by slug.
func (r *VisitRepository) FindBySlug(ctx context.Context, slug string) (domain.VisitPost, error) {
	row, err := r.table.One(ctx, backend.Eq("slug", slug))
	if err != nil {
		return domain.VisitPost{}, err
	}
	return row.toDomain(), nil
}

// FindByID returns the post with the given id.
func (r *VisitRepository) FindByID(ctx context.Context, id string) (domain.VisitPost, error) {
	row, err := r.table.One(ctx, backend.Eq("id", id))
	if err != nil {
		return domain.VisitPost{}, err
	}
	return row.toDomain(), nil
}

// Insert stores a post, assigning an id and timestamps when absent.
func (r *VisitRepository) Insert(ctx context.Context, post domain.VisitPost) (domain.VisitPost, error) {
	row := visitFromDomain(post)
	if strings.TrimSpace(row.ID) == "" {
		row.ID = r.newID()
	}
	now := r.now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	stored, err := r.table.Insert(ctx, row)
	if err != nil {
		return domain.VisitPost{}, err
	}
	return stored.toDomain(), nil
}

// Update patches the mutable columns of the post with the given id.
func (r *VisitRepository) Update(ctx context.Context, id string, patch repositories.VisitPatch) (domain.VisitPost, error) {
	if strings.TrimSpace(id) == "" {
		return domain.VisitPost{}, fmt.Errorf("visit update: id is required")
	}
	updatedAt := patch.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.now()
	}
	var content any
	if patch.Content != nil {
		content = *patch.Content
	}
	values := map[string]any{
		"title":      patch.Title,
		"content":    content,
		"updated_at": updatedAt,
	}
	if patch.Published != nil {
		values["published"] = *patch.Published
	}
	row, err := r.table.Update(ctx, values, backend.Eq("id", id))
	if err != nil {
		return domain.VisitPost{}, err
	}
	return row.toDomain(), nil
}

// Delete removes the post with the given id. Deleting a missing id is not an error.
func (r *VisitRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, backend.Eq("id", id))
}
