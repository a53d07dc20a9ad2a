package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/platform/backend"
	"github.com/cyber924/taebaek/internal/platform/observability"
	"github.com/cyber924/taebaek/internal/repositories"
)

// DistrictService serves district heritage records.
type DistrictService struct {
	base
	repo     repositories.DistrictRepository
	validate *validator.Validate
}

type districtSchema struct {
	DongID   string `form:"dong_id" validate:"required"`
	DongName string `form:"dong_name" validate:"required"`
	ImageURL string `form:"image_url" validate:"omitempty,url"`
}

// NewDistrictService constructs a DistrictService.
func NewDistrictService(repo repositories.DistrictRepository, logger *zap.Logger) *DistrictService {
	return &DistrictService{base: newBase(logger, "districts"), repo: repo, validate: newValidator()}
}

// List returns every district ordered by name, or an empty slice when the read fails.
func (s *DistrictService) List(ctx context.Context) []domain.DistrictHeritage {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.readFailed(ctx, "districts.list", err)
		return []domain.DistrictHeritage{}
	}
	return list
}

// Get returns the district for dongID, or nil when it is absent or the read fails.
func (s *DistrictService) Get(ctx context.Context, dongID string) *domain.DistrictHeritage {
	district, err := s.repo.FindByDongID(ctx, dongID)
	if err != nil {
		s.readFailed(ctx, "districts.get", err, zap.String("dong_id", observability.SanitizeValue(dongID)))
		return nil
	}
	return &district
}

// Create validates and stores a new district.
func (s *DistrictService) Create(ctx context.Context, in domain.DistrictInput) (domain.DistrictHeritage, error) {
	schema := districtSchema{
		DongID:   clean(in.DongID),
		DongName: clean(in.DongName),
		ImageURL: clean(in.ImageURL),
	}
	if err := check(s.validate, schema); err != nil {
		return domain.DistrictHeritage{}, err
	}

	stored, err := s.repo.Insert(ctx, domain.DistrictHeritage{
		DongID:   schema.DongID,
		DongName: schema.DongName,
		Origin:   optionalText(in.Origin),
		History:  optionalText(in.History),
		Summary:  optionalText(in.Summary),
		ImageURL: optional(in.ImageURL),
	})
	if err != nil {
		s.writeFailed(ctx, "districts.create", err, zap.String("dong_id", schema.DongID))
		if backend.IsConflict(err) {
			return domain.DistrictHeritage{}, &ValidationError{Fields: map[string]string{"dong_id": msgDongIDInUse}}
		}
		return domain.DistrictHeritage{}, fmt.Errorf("create district: %w", err)
	}
	return stored, nil
}
