package backend

import (
	"context"
)

// Client is the generic table surface every storage driver implements. Each call maps to a
// single round trip against the backend; drivers never retry.
type Client interface {
	// Select decodes every row matching q into dest, which must point at a slice.
	Select(ctx context.Context, table string, q Query, dest any) error
	// SelectOne decodes the first row matching q into dest. A miss yields a not-found Error.
	SelectOne(ctx context.Context, table string, q Query, dest any) error
	// Insert writes row and refreshes it in place with the stored representation.
	Insert(ctx context.Context, table string, row any) error
	// Update applies patch to the rows matching filters and decodes the updated row into dest.
	// Zero matching rows yields a not-found Error.
	Update(ctx context.Context, table string, filters []Filter, patch map[string]any, dest any) error
	// Delete removes the rows matching filters. model points at the row type for drivers that need a schema.
	Delete(ctx context.Context, table string, filters []Filter, model any) error
}

// Migrator is implemented by drivers that own their schema.
type Migrator interface {
	Migrate(ctx context.Context, table string, model any) error
}

// Filter is an equality predicate on one column.
type Filter struct {
	Column string
	Value  any
}

// Order sorts results by one column.
type Order struct {
	Column    string
	Ascending bool
}

// Query combines equality filters and ordering.
type Query struct {
	Filters []Filter
	Order   []Order
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Asc orders by column ascending.
func Asc(column string) Order {
	return Order{Column: column, Ascending: true}
}

// Desc orders by column descending.
func Desc(column string) Order {
	return Order{Column: column}
}

// Where starts a query from filters.
func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

// OrderBy returns a copy of q with the given ordering appended.
func (q Query) OrderBy(orders ...Order) Query {
	next := Query{
		Filters: append([]Filter(nil), q.Filters...),
		Order:   append(append([]Order(nil), q.Order...), orders...),
	}
	return next
}
