package tables

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cyber924/taebaek/internal/domain"
	"github.com/cyber924/taebaek/internal/platform/backend"
	"github.com/cyber924/taebaek/internal/platform/backend/sqlstore"
	"github.com/cyber924/taebaek/internal/repositories"
)

func newMemoryRegistry() *Registry {
	return NewRegistry(NewMemoryBackend())
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestDistrictRepositoryOrdersByName(t *testing.T) {
	t.Parallel()

	repo := newMemoryRegistry().Districts()
	ctx := context.Background()
	for _, d := range []domain.DistrictHeritage{
		{DongID: "hwangji", DongName: "황지동"},
		{DongID: "munkok", DongName: "문곡소도동", Origin: strPtr("문곡과 소도가 합쳐진 이름")},
		{DongID: "sangjang", DongName: "상장동"},
	} {
		_, err := repo.Insert(ctx, d)
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "문곡소도동", list[0].DongName)
	require.Equal(t, "상장동", list[1].DongName)
	require.Equal(t, "황지동", list[2].DongName)

	found, err := repo.FindByDongID(ctx, "munkok")
	require.NoError(t, err)
	require.NotNil(t, found.Origin)
	require.Nil(t, found.History)

	_, err = repo.FindByDongID(ctx, "nowhere")
	require.True(t, backend.IsNotFound(err))
}

func TestPlaceRepositoryFiltersByType(t *testing.T) {
	t.Parallel()

	repo := newMemoryRegistry().Places()
	ctx := context.Background()
	for _, p := range []domain.Place{
		{PlaceName: "바람의 언덕", Type: domain.PlaceTypeAttraction},
		{PlaceName: "산소카페", Type: domain.PlaceTypeCafe, Tags: []string{"커피", "전망"}},
		{PlaceName: "구와우 마을", Type: domain.PlaceTypeAttraction},
	} {
		_, err := repo.Insert(ctx, p)
		require.NoError(t, err)
	}

	attractions, err := repo.List(ctx, domain.PlaceTypeAttraction)
	require.NoError(t, err)
	require.Len(t, attractions, 2)
	for _, p := range attractions {
		require.Equal(t, domain.PlaceTypeAttraction, p.Type)
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	cafe, err := repo.FindByID(ctx, all[2].ID)
	require.NoError(t, err)
	require.Equal(t, all[2].PlaceName, cafe.PlaceName)
}

func TestVisitRepositoryLifecycle(t *testing.T) {
	t.Parallel()

	clock := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	repo := NewVisitRepository(backend.NewMemory(backend.WithUniqueColumns(VisitTable, "slug")),
		WithVisitClock(func() time.Time { return clock }),
		WithVisitIDs(func() string { return "00000000-0000-0000-0000-000000000001" }),
	)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.VisitPost{Title: "T", Slug: "sample-post", Published: true})
	require.NoError(t, err)
	require.Equal(t, "00000000-0000-0000-0000-000000000001", created.ID)
	require.True(t, created.CreatedAt.Equal(clock))
	require.Nil(t, created.Content)

	bySlug, err := repo.FindBySlug(ctx, "sample-post")
	require.NoError(t, err)
	require.Equal(t, created.ID, bySlug.ID)

	clock = clock.Add(time.Hour)
	updated, err := repo.Update(ctx, created.ID, repositories.VisitPatch{Title: "T2", Content: strPtr("<p>hi</p>"), Published: boolPtr(false)})
	require.NoError(t, err)
	require.Equal(t, "T2", updated.Title)
	require.Equal(t, "sample-post", updated.Slug)
	require.False(t, updated.Published)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	published, err := repo.List(ctx, repositories.VisitFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Empty(t, published)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindBySlug(ctx, "sample-post")
	require.True(t, backend.IsNotFound(err))
}

func TestVisitRepositoryListsNewestFirst(t *testing.T) {
	t.Parallel()

	repo := NewVisitRepository(backend.NewMemory())
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": 0, "mid": time.Hour, "new": 2 * time.Hour}[slug]
		_, err := repo.Insert(ctx, domain.VisitPost{Title: slug, Slug: slug, CreatedAt: base.Add(offset), Published: i%2 == 0})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, repositories.VisitFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"new", "mid", "old"}, []string{all[0].Slug, all[1].Slug, all[2].Slug})

	published, err := repo.List(ctx, repositories.VisitFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 2)
}

func TestRegistryOnSQLite(t *testing.T) {
	store, err := sqlstore.Open(sqlstore.DialectSQLite, "file::memory:", sqlstore.WithMaxOpenConns(1))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	registry := NewRegistry(store)
	ctx := context.Background()
	require.NoError(t, registry.Migrate(ctx))

	place, err := registry.Places().Insert(ctx, domain.Place{PlaceName: "태백산", Type: domain.PlaceTypeAttraction, Tags: []string{"등산"}})
	require.NoError(t, err)
	require.NotZero(t, place.ID)

	got, err := registry.Places().FindByID(ctx, place.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"등산"}, got.Tags)
	require.Nil(t, got.Address)

	post, err := registry.Visits().Insert(ctx, domain.VisitPost{Title: "T", Slug: "sample-post", Published: true})
	require.NoError(t, err)
	_, err = registry.Visits().Insert(ctx, domain.VisitPost{Title: "dup", Slug: "sample-post"})
	require.True(t, backend.IsConflict(err))

	updated, err := registry.Visits().Update(ctx, post.ID, repositories.VisitPatch{Title: "T"})
	require.NoError(t, err)
	require.Nil(t, updated.Content)
	require.True(t, updated.Published)

	district, err := registry.Districts().Insert(ctx, domain.DistrictHeritage{DongID: "hwangji", DongName: "황지동"})
	require.NoError(t, err)
	require.NotZero(t, district.ID)
}
