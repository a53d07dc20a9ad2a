package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Table provides typed helpers over a Client for one table.
type Table[T any] struct {
	client Client
	name   string
}

// NewTable binds a Table to the named backend table.
func NewTable[T any](client Client, name string) *Table[T] {
	return &Table[T]{client: client, name: strings.TrimSpace(name)}
}

// Name returns the backend table name.
func (t *Table[T]) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// List returns every row matching q.
func (t *Table[T]) List(ctx context.Context, q Query) ([]T, error) {
	if err := t.check("list"); err != nil {
		return nil, err
	}
	var rows []T
	if err := t.client.Select(ctx, t.name, q, &rows); err != nil {
		return nil, WrapError(t.op("list"), err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// One returns the first row matching filters.
func (t *Table[T]) One(ctx context.Context, filters ...Filter) (T, error) {
	var row T
	if err := t.check("one"); err != nil {
		return row, err
	}
	if err := t.client.SelectOne(ctx, t.name, Where(filters...), &row); err != nil {
		var zero T
		return zero, WrapError(t.op("one"), err)
	}
	return row, nil
}

// Insert stores row and returns the stored representation.
func (t *Table[T]) Insert(ctx context.Context, row T) (T, error) {
	if err := t.check("insert"); err != nil {
		return row, err
	}
	if err := t.client.Insert(ctx, t.name, &row); err != nil {
		var zero T
		return zero, WrapError(t.op("insert"), err)
	}
	return row, nil
}

// Update patches the rows matching filters and returns the updated row.
func (t *Table[T]) Update(ctx context.Context, patch map[string]any, filters ...Filter) (T, error) {
	var row T
	if err := t.check("update"); err != nil {
		return row, err
	}
	if len(filters) == 0 {
		return row, WrapError(t.op("update"), errors.New("backend: update requires at least one filter"))
	}
	if err := t.client.Update(ctx, t.name, filters, patch, &row); err != nil {
		var zero T
		return zero, WrapError(t.op("update"), err)
	}
	return row, nil
}

// Delete removes the rows matching filters.
func (t *Table[T]) Delete(ctx context.Context, filters ...Filter) error {
	if err := t.check("delete"); err != nil {
		return err
	}
	if len(filters) == 0 {
		return WrapError(t.op("delete"), errors.New("backend: delete requires at least one filter"))
	}
	var model T
	return WrapError(t.op("delete"), t.client.Delete(ctx, t.name, filters, &model))
}

// Migrate creates or alters the table when the driver owns its schema.
func (t *Table[T]) Migrate(ctx context.Context) error {
	if err := t.check("migrate"); err != nil {
		return err
	}
	migrator, ok := t.client.(Migrator)
	if !ok {
		return nil
	}
	var model T
	return WrapError(t.op("migrate"), migrator.Migrate(ctx, t.name, &model))
}

func (t *Table[T]) check(action string) error {
	if t == nil || t.client == nil {
		return WrapError(t.op(action), errors.New("backend: client is nil"))
	}
	if t.name == "" {
		return WrapError(t.op(action), errors.New("backend: table name is required"))
	}
	return nil
}

func (t *Table[T]) op(action string) string {
	name := "backend"
	if t != nil && t.name != "" {
		name = t.name
	}
	return fmt.Sprintf("%s.%s", name, strings.ToLower(action))
}
