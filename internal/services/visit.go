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

// VisitService serves visit posts.
type VisitService struct {
	base
	repo     repositories.VisitRepository
	validate *validator.Validate
}

type visitCreateSchema struct {
	Title string `form:"title" validate:"required"`
	Slug  string `form:"slug" validate:"required,slug"`
}

type visitUpdateSchema struct {
	Title string `form:"title" validate:"required"`
}

// NewVisitService constructs a VisitService.
func NewVisitService(repo repositories.VisitRepository, logger *zap.Logger) *VisitService {
	return &VisitService{base: newBase(logger, "visits"), repo: repo, validate: newValidator()}
}

// ListPublished returns published posts newest first, or an empty slice when the read fails.
func (s *VisitService) ListPublished(ctx context.Context) []domain.VisitPost {
	return s.list(ctx, repositories.VisitFilter{PublishedOnly: true})
}

// ListAll returns every post newest first, drafts included.
func (s *VisitService) ListAll(ctx context.Context) []domain.VisitPost {
	return s.list(ctx, repositories.VisitFilter{})
}

func (s *VisitService) list(ctx context.Context, filter repositories.VisitFilter) []domain.VisitPost {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.readFailed(ctx, "visits.list", err, zap.Bool("published_only", filter.PublishedOnly))
		return []domain.VisitPost{}
	}
	return list
}

// GetBySlug returns the post for slug, or nil when it is absent or the read fails.
func (s *VisitService) GetBySlug(ctx context.Context, slug string) *domain.VisitPost {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		s.readFailed(ctx, "visits.get_by_slug", err, zap.String("slug", observability.SanitizeValue(slug)))
		return nil
	}
	return &post
}

// GetByID returns the post with id, or nil when it is absent or the read fails.
func (s *VisitService) GetByID(ctx context.Context, id string) *domain.VisitPost {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.readFailed(ctx, "visits.get_by_id", err, zap.String("id", observability.SanitizeValue(id)))
		return nil
	}
	return &post
}

// Create validates and stores a new post. Posts are published unless the input says otherwise.
func (s *VisitService) Create(ctx context.Context, in domain.VisitInput) (domain.VisitPost, error) {
	schema := visitCreateSchema{Title: clean(in.Title), Slug: clean(in.Slug)}
	if err := check(s.validate, schema); err != nil {
		return domain.VisitPost{}, err
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}
	stored, err := s.repo.Insert(ctx, domain.VisitPost{
		Title:     schema.Title,
		Slug:      schema.Slug,
		Content:   optionalText(in.Content),
		Published: published,
	})
	if err != nil {
		s.writeFailed(ctx, "visits.create", err, zap.String("slug", schema.Slug))
		if backend.IsConflict(err) {
			return domain.VisitPost{}, &ValidationError{Fields: map[string]string{"slug": msgSlugInUse}}
		}
		return domain.VisitPost{}, fmt.Errorf("create visit: %w", err)
	}
	return stored, nil
}

// Update patches the title, content and optionally the published flag of post id.
// The slug is immutable once created.
func (s *VisitService) Update(ctx context.Context, id string, in domain.VisitInput) (domain.VisitPost, error) {
	schema := visitUpdateSchema{Title: clean(in.Title)}
	if err := check(s.validate, schema); err != nil {
		return domain.VisitPost{}, err
	}

	updated, err := s.repo.Update(ctx, id, repositories.VisitPatch{
		Title:     schema.Title,
		Content:   optionalText(in.Content),
		Published: in.Published,
	})
	if err != nil {
		s.writeFailed(ctx, "visits.update", err, zap.String("id", observability.SanitizeValue(id)))
		if backend.IsNotFound(err) {
			return domain.VisitPost{}, fmt.Errorf("update visit %s: %w", id, ErrNotFound)
		}
		return domain.VisitPost{}, fmt.Errorf("update visit: %w", err)
	}
	return updated, nil
}

// Delete removes post id.
func (s *VisitService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.writeFailed(ctx, "visits.delete", err, zap.String("id", observability.SanitizeValue(id)))
		return fmt.Errorf("delete visit: %w", err)
	}
	return nil
}
