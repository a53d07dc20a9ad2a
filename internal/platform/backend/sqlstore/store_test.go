package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cyber924/taebaek/internal/platform/backend"
)

type postRow struct {
	ID        string    `gorm:"primaryKey"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	Title     string    `gorm:"not null"`
	Content   *string   `gorm:"type:text"`
	Tags      []string  `gorm:"serializer:json"`
	CreatedAt time.Time `gorm:"not null"`
}

type counterRow struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(DialectSQLite, "file::memory:", WithMaxOpenConns(1))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	table := backend.NewTable[postRow](store, "visit")
	require.NoError(t, table.Migrate(ctx))

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	inserted, err := table.Insert(ctx, postRow{ID: "a", Slug: "sample-post", Title: "T", Tags: []string{"x"}, CreatedAt: created})
	require.NoError(t, err)
	require.Equal(t, "a", inserted.ID)

	_, err = table.Insert(ctx, postRow{ID: "b", Slug: "later-post", Title: "U", CreatedAt: created.Add(time.Hour)})
	require.NoError(t, err)

	got, err := table.One(ctx, backend.Eq("slug", "sample-post"))
	require.NoError(t, err)
	require.Equal(t, "T", got.Title)
	require.Nil(t, got.Content)
	require.Equal(t, []string{"x"}, got.Tags)

	rows, err := table.List(ctx, backend.Query{}.OrderBy(backend.Desc("created_at")))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "later-post", rows[0].Slug)

	_, err = table.One(ctx, backend.Eq("slug", "missing"))
	require.True(t, backend.IsNotFound(err))
}

func TestStoreDuplicateSlugIsConflict(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	table := backend.NewTable[postRow](store, "visit")
	require.NoError(t, table.Migrate(ctx))

	_, err := table.Insert(ctx, postRow{ID: "a", Slug: "dup", Title: "A"})
	require.NoError(t, err)
	_, err = table.Insert(ctx, postRow{ID: "b", Slug: "dup", Title: "B"})
	require.True(t, backend.IsConflict(err), "got %v", err)
}

func TestStoreUpdateAndDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	table := backend.NewTable[postRow](store, "visit")
	require.NoError(t, table.Migrate(ctx))

	_, err := table.Insert(ctx, postRow{ID: "a", Slug: "s", Title: "before"})
	require.NoError(t, err)

	content := "<p>본문</p>"
	updated, err := table.Update(ctx, map[string]any{"title": "after", "content": content}, backend.Eq("id", "a"))
	require.NoError(t, err)
	require.Equal(t, "after", updated.Title)
	require.NotNil(t, updated.Content)
	require.Equal(t, content, *updated.Content)

	_, err = table.Update(ctx, map[string]any{"title": "x"}, backend.Eq("id", "zzz"))
	require.True(t, backend.IsNotFound(err))

	require.NoError(t, table.Delete(ctx, backend.Eq("id", "a")))
	_, err = table.One(ctx, backend.Eq("slug", "s"))
	require.True(t, backend.IsNotFound(err))
}

func TestStoreGeneratesIntegerIDs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	table := backend.NewTable[counterRow](store, "spot")
	require.NoError(t, table.Migrate(ctx))

	first, err := table.Insert(ctx, counterRow{Name: "가"})
	require.NoError(t, err)
	second, err := table.Insert(ctx, counterRow{Name: "나"})
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.Greater(t, second.ID, first.ID)

	rows, err := table.List(ctx, backend.Where(backend.Eq("name", "나")))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open("mysql", "dsn")
	require.Error(t, err)
}
