package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/platform/config"
)

const seedDoc = `
dongs:
  - dong_id: hwangji
    dong_name: 황지동
visits:
  - title: 안내
    slug: notice
`

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedDoc), 0o600))
	return path
}

func TestNewContainerMemorySeeds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.Config{Backend: config.BackendConfig{
		Driver:   config.DriverMemory,
		SeedFile: writeSeed(t),
		Migrate:  true,
	}}

	c, err := NewContainer(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close(ctx)) })

	require.NotNil(t, c.Services.Districts.Get(ctx, "hwangji"))
	require.NotNil(t, c.Services.Visits.GetBySlug(ctx, "notice"))
}

func TestNewContainerSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.Config{Backend: config.BackendConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "taebaek.db"),
		Migrate:      true,
		MaxOpenConns: 1,
	}}

	c, err := NewContainer(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Close(ctx)) })

	created, err := c.Services.Places.Create(ctx, domain.PlaceInput{PlaceName: "황지연못", Type: "attraction"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got := c.Services.Places.Get(ctx, created.ID)
	require.NotNil(t, got)
	require.Equal(t, "황지연못", got.PlaceName)
}

func TestNewContainerRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := NewContainer(context.Background(), config.Config{Backend: config.BackendConfig{Driver: "mongo"}}, nil)
	require.ErrorContains(t, err, "unsupported backend driver")
}

func TestNewContainerFailsOnBadSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("places:\n  - place_name: x\n    type: museum\n"), 0o600))

	_, err := NewContainer(context.Background(), config.Config{Backend: config.BackendConfig{
		Driver:   config.DriverMemory,
		SeedFile: path,
	}}, nil)
	require.ErrorContains(t, err, "seed backend")
}
