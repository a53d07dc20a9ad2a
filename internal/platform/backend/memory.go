package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Client used for local development and tests. Rows are held as
// JSON objects so filters and ordering address the same column names as the hosted backend.
type Memory struct {
	mu     sync.Mutex
	tables map[string]*memoryTable
	unique map[string][]string
}

type memoryTable struct {
	rows   []map[string]any
	nextID int64
}

// MemoryOption customises a Memory client.
type MemoryOption func(*Memory)

// WithUniqueColumns declares columns whose values must be unique within table.
func WithUniqueColumns(table string, columns ...string) MemoryOption {
	return func(m *Memory) {
		m.unique[table] = append(m.unique[table], columns...)
	}
}

// NewMemory constructs an empty in-memory backend.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		tables: make(map[string]*memoryTable),
		unique: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Select implements Client.
func (m *Memory) Select(ctx context.Context, table string, q Query, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	matches := m.match(table, q.Filters)
	m.mu.Unlock()

	sortRows(matches, q.Order)
	return decodeInto(table+".select", matches, dest)
}

// SelectOne implements Client.
func (m *Memory) SelectOne(ctx context.Context, table string, q Query, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	matches := m.match(table, q.Filters)
	m.mu.Unlock()

	if len(matches) == 0 {
		return NotFoundError(table + ".select_one")
	}
	sortRows(matches, q.Order)
	return decodeInto(table+".select_one", matches[0], dest)
}

// Insert implements Client.
func (m *Memory) Insert(ctx context.Context, table string, row any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	op := table + ".insert"
	record, err := toRecord(row)
	if err != nil {
		return WrapError(op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(table)
	if isZeroID(record["id"]) {
		t.nextID++
		record["id"] = float64(t.nextID)
	} else if id, ok := record["id"].(float64); ok && int64(id) > t.nextID {
		t.nextID = int64(id)
	}
	if err := m.checkUnique(table, record, -1); err != nil {
		return err
	}
	t.rows = append(t.rows, record)
	return decodeInto(op, record, row)
}

// Update implements Client.
func (m *Memory) Update(ctx context.Context, table string, filters []Filter, patch map[string]any, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	op := table + ".update"
	values, err := toRecord(patch)
	if err != nil {
		return WrapError(op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(table)
	var updated map[string]any
	for i, row := range t.rows {
		if !matches(row, filters) {
			continue
		}
		next := cloneRecord(row)
		for key, value := range values {
			next[key] = value
		}
		if err := m.checkUnique(table, next, i); err != nil {
			return err
		}
		t.rows[i] = next
		if updated == nil {
			updated = next
		}
	}
	if updated == nil {
		return NotFoundError(op)
	}
	return decodeInto(op, updated, dest)
}

// Delete implements Client.
func (m *Memory) Delete(ctx context.Context, table string, filters []Filter, _ any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.table(table)
	kept := t.rows[:0]
	for _, row := range t.rows {
		if !matches(row, filters) {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return nil
}

func (m *Memory) table(name string) *memoryTable {
	t, ok := m.tables[name]
	if !ok {
		t = &memoryTable{}
		m.tables[name] = t
	}
	return t
}

func (m *Memory) match(table string, filters []Filter) []map[string]any {
	t := m.table(table)
	out := make([]map[string]any, 0, len(t.rows))
	for _, row := range t.rows {
		if matches(row, filters) {
			out = append(out, cloneRecord(row))
		}
	}
	return out
}

func (m *Memory) checkUnique(table string, record map[string]any, skip int) error {
	columns := append([]string{"id"}, m.unique[table]...)
	for i, row := range m.table(table).rows {
		if i == skip {
			continue
		}
		for _, column := range columns {
			value, ok := record[column]
			if !ok || value == nil {
				continue
			}
			if formatValue(row[column]) == formatValue(value) {
				return ConflictError(table+".unique", fmt.Errorf("duplicate value for %s", column))
			}
		}
	}
	return nil
}

func matches(row map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if formatValue(row[f.Column]) != formatValue(f.Value) {
			return false
		}
	}
	return true
}

func sortRows(rows []map[string]any, orders []Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			c := compareValues(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	as, bs := formatValue(a), formatValue(b)
	if at, err := time.Parse(time.RFC3339Nano, as); err == nil {
		if bt, err := time.Parse(time.RFC3339Nano, bs); err == nil {
			return at.Compare(bt)
		}
	}
	return strings.Compare(as, bs)
}

// formatValue renders filter and row values alike, so 3, int64(3) and float64(3) compare equal.
func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano)
	case *string:
		if value == nil {
			return ""
		}
		return *value
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return t.UTC().Format(time.RFC3339Nano)
		}
		return value
	}
	return fmt.Sprint(v)
}

func isZeroID(v any) bool {
	switch id := v.(type) {
	case nil:
		return true
	case float64:
		return id == 0
	case string:
		return id == ""
	}
	return false
}

func toRecord(v any) (map[string]any, error) {
	if v == nil {
		return nil, errors.New("backend: nil row")
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("backend: encode row: %w", err)
	}
	record := make(map[string]any)
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("backend: decode row: %w", err)
	}
	return record, nil
}

func cloneRecord(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func decodeInto(op string, src, dest any) error {
	if dest == nil {
		return nil
	}
	payload, err := json.Marshal(src)
	if err != nil {
		return WrapError(op, fmt.Errorf("backend: encode result: %w", err))
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return WrapError(op, fmt.Errorf("backend: decode result: %w", err))
	}
	return nil
}
