package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type migratingClient struct {
	*Memory
	migrated []string
}

func (m *migratingClient) Migrate(_ context.Context, table string, _ any) error {
	m.migrated = append(m.migrated, table)
	return nil
}

func TestTracedDelegatesCalls(t *testing.T) {
	t.Parallel()

	traced := NewTraced(NewMemory(), "memory", noop.NewTracerProvider().Tracer("test"))
	table := NewTable[testRow](traced, "things")
	ctx := context.Background()

	row, err := table.Insert(ctx, testRow{Name: "a"})
	require.NoError(t, err)

	got, err := table.One(ctx, Eq("id", row.ID))
	require.NoError(t, err)
	require.Equal(t, "a", got.Name)

	_, err = table.One(ctx, Eq("id", 99))
	require.True(t, IsNotFound(err))
}

func TestTracedForwardsMigrations(t *testing.T) {
	t.Parallel()

	inner := &migratingClient{Memory: NewMemory()}
	traced := NewTraced(inner, "sqlite", nil)

	require.NoError(t, NewTable[testRow](traced, "things").Migrate(context.Background()))
	require.Equal(t, []string{"things"}, inner.migrated)

	require.NoError(t, NewTable[testRow](NewTraced(NewMemory(), "memory", nil), "things").Migrate(context.Background()))
}
