// Package sqlstore implements backend.Client on a direct relational connection through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cyber924/taebaek/internal/platform/backend"
)

// Dialect names accepted by Open.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Store is a backend.Client backed by gorm.
type Store struct {
	db *gorm.DB
}

var (
	_ backend.Client   = (*Store)(nil)
	_ backend.Migrator = (*Store)(nil)
)

type options struct {
	logger       *zap.Logger
	maxOpenConns int
}

// Option customises Open.
type Option func(*options)

// WithLogger routes gorm diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxOpenConns caps the underlying connection pool.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		o.maxOpenConns = n
	}
}

// Open connects to the database named by dialect and dsn.
func Open(dialect, dsn string, opts ...Option) (*Store, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	case DialectSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(o.logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", dialect, err)
	}
	if o.maxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlstore: pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(o.maxOpenConns)
	}
	return &Store{db: db}, nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Select implements backend.Client.
func (s *Store) Select(ctx context.Context, table string, q backend.Query, dest any) error {
	tx := s.scoped(ctx, table, q.Filters)
	for _, o := range q.Order {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: !o.Ascending})
	}
	return wrap(table+".select", tx.Find(dest).Error)
}

// SelectOne implements backend.Client.
func (s *Store) SelectOne(ctx context.Context, table string, q backend.Query, dest any) error {
	tx := s.scoped(ctx, table, q.Filters)
	for _, o := range q.Order {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: !o.Ascending})
	}
	return wrap(table+".select_one", tx.Take(dest).Error)
}

// Insert implements backend.Client.
func (s *Store) Insert(ctx context.Context, table string, row any) error {
	return wrap(table+".insert", s.db.WithContext(ctx).Table(table).Create(row).Error)
}

// Update implements backend.Client. The update and the re-read run in one transaction.
func (s *Store) Update(ctx context.Context, table string, filters []backend.Filter, patch map[string]any, dest any) error {
	op := table + ".update"
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := applyFilters(tx.Table(table), filters).Updates(patch)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return backend.NotFoundError(op)
		}
		return applyFilters(tx.Table(table), filters).Take(dest).Error
	})
	return wrap(op, err)
}

// Delete implements backend.Client.
func (s *Store) Delete(ctx context.Context, table string, filters []backend.Filter, model any) error {
	if model == nil {
		return wrap(table+".delete", errors.New("sqlstore: delete requires a model"))
	}
	return wrap(table+".delete", s.scoped(ctx, table, filters).Delete(model).Error)
}

// Migrate implements backend.Migrator.
func (s *Store) Migrate(ctx context.Context, table string, model any) error {
	return wrap(table+".migrate", s.db.WithContext(ctx).Table(table).AutoMigrate(model))
}

func (s *Store) scoped(ctx context.Context, table string, filters []backend.Filter) *gorm.DB {
	return applyFilters(s.db.WithContext(ctx).Table(table), filters)
}

func applyFilters(tx *gorm.DB, filters []backend.Filter) *gorm.DB {
	for _, f := range filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	return tx
}

func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return backend.NotFoundError(op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return backend.ConflictError(op, err)
	}
	return backend.WrapError(op, err)
}
