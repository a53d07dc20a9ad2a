// Package seed loads YAML fixtures through the services so seeded rows pass the
// same validation and normalisation as form input.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/services"
)

// File is the seed document.
type File struct {
	Dongs  []Dong  `yaml:"dongs"`
	Places []Place `yaml:"places"`
	Visits []Visit `yaml:"visits"`
}

// Dong is a district entry.
type Dong struct {
	DongID   string `yaml:"dong_id"`
	DongName string `yaml:"dong_name"`
	Summary  string `yaml:"summary"`
	Origin   string `yaml:"origin"`
	History  string `yaml:"history"`
	ImageURL string `yaml:"image_url"`
}

// Place is a point of interest entry.
type Place struct {
	PlaceName   string   `yaml:"place_name"`
	Type        string   `yaml:"type"`
	Address     string   `yaml:"address"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	Tags        []string `yaml:"tags"`
}

// Visit is a visit post entry.
type Visit struct {
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug"`
	Content   string `yaml:"content"`
	Published *bool  `yaml:"published"`
}

// Result counts created and skipped records.
type Result struct {
	Dongs   int
	Places  int
	Visits  int
	Skipped int
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("decode seed: %w", err)
	}
	return f, nil
}

// LoadFile reads and parses the seed document at path.
func LoadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Apply creates every record that does not exist yet. Districts are matched by
// dong_id, visits by slug and places by name, so applying the same file twice is a no-op.
func Apply(ctx context.Context, svc *services.Services, f File, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var res Result

	for i, d := range f.Dongs {
		if svc.Districts.Get(ctx, strings.TrimSpace(d.DongID)) != nil {
			res.Skipped++
			continue
		}
		_, err := svc.Districts.Create(ctx, domain.DistrictInput{
			DongID:   d.DongID,
			DongName: d.DongName,
			Summary:  d.Summary,
			Origin:   d.Origin,
			History:  d.History,
			ImageURL: d.ImageURL,
		})
		if err != nil {
			return res, fmt.Errorf("seed dongs[%d] %q: %w", i, d.DongID, err)
		}
		res.Dongs++
	}

	existing := map[string]bool{}
	for _, p := range svc.Places.List(ctx, services.CategoryAll) {
		existing[p.PlaceName] = true
	}
	for i, p := range f.Places {
		if existing[strings.TrimSpace(p.PlaceName)] {
			res.Skipped++
			continue
		}
		created, err := svc.Places.Create(ctx, domain.PlaceInput{
			PlaceName:   p.PlaceName,
			Type:        p.Type,
			Address:     p.Address,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Tags:        strings.Join(p.Tags, ","),
		})
		if err != nil {
			return res, fmt.Errorf("seed places[%d] %q: %w", i, p.PlaceName, err)
		}
		existing[created.PlaceName] = true
		res.Places++
	}

	for i, v := range f.Visits {
		if svc.Visits.GetBySlug(ctx, strings.TrimSpace(v.Slug)) != nil {
			res.Skipped++
			continue
		}
		_, err := svc.Visits.Create(ctx, domain.VisitInput{
			Title:     v.Title,
			Slug:      v.Slug,
			Content:   v.Content,
			Published: v.Published,
		})
		if err != nil {
			return res, fmt.Errorf("seed visits[%d] %q: %w", i, v.Slug, err)
		}
		res.Visits++
	}

	logger.Info("seed applied",
		zap.Int("dongs", res.Dongs),
		zap.Int("places", res.Places),
		zap.Int("visits", res.Visits),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}
