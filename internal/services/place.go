package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/repositories"
)

// CategoryAll selects every place type.
const CategoryAll = "all"

// PlaceService serves points of interest.
type PlaceService struct {
	base
	repo     repositories.PlaceRepository
	validate *validator.Validate
}

type placeSchema struct {
	PlaceName string `form:"place_name" validate:"required"`
	Type      string `form:"type" validate:"required,oneof=cafe restaurant attraction recommendation"`
	ImageURL  string `form:"image_url" validate:"omitempty,url"`
}

// NewPlaceService constructs a PlaceService.
func NewPlaceService(repo repositories.PlaceRepository, logger *zap.Logger) *PlaceService {
	return &PlaceService{base: newBase(logger, "places"), repo: repo, validate: newValidator()}
}

// ParseCategory maps a category query value to a place type. "all", empty and unknown
// values select every type and yield "".
func ParseCategory(category string) domain.PlaceType {
	t := domain.PlaceType(strings.ToLower(strings.TrimSpace(category)))
	if t.Valid() {
		return t
	}
	return ""
}

// List returns places ordered by name, restricted to category when it names a place type.
func (s *PlaceService) List(ctx context.Context, category string) []domain.Place {
	placeType := ParseCategory(category)
	list, err := s.repo.List(ctx, placeType)
	if err != nil {
		s.readFailed(ctx, "places.list", err, zap.String("type", string(placeType)))
		return []domain.Place{}
	}
	return list
}

// Get returns the place with id, or nil when it is absent or the read fails.
func (s *PlaceService) Get(ctx context.Context, id int64) *domain.Place {
	place, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.readFailed(ctx, "places.get", err, zap.Int64("id", id))
		return nil
	}
	return &place
}

// Create validates and stores a new place. An empty type defaults to attraction.
func (s *PlaceService) Create(ctx context.Context, in domain.PlaceInput) (domain.Place, error) {
	schema := placeSchema{
		PlaceName: clean(in.PlaceName),
		Type:      strings.ToLower(clean(in.Type)),
		ImageURL:  clean(in.ImageURL),
	}
	if schema.Type == "" {
		schema.Type = string(domain.PlaceTypeAttraction)
	}
	if err := check(s.validate, schema); err != nil {
		return domain.Place{}, err
	}

	stored, err := s.repo.Insert(ctx, domain.Place{
		PlaceName:   schema.PlaceName,
		Type:        domain.PlaceType(schema.Type),
		Address:     optional(in.Address),
		Description: optionalText(in.Description),
		ImageURL:    optional(in.ImageURL),
		Tags:        splitTags(in.Tags),
	})
	if err != nil {
		s.writeFailed(ctx, "places.create", err)
		return domain.Place{}, fmt.Errorf("create place: %w", err)
	}
	return stored, nil
}
