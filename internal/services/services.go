// Package services implements the data access contract used by the HTTP layer: reads never
// fail (a failure is logged and reported as absent) while writes validate, normalise and
// propagate errors.
package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/platform/backend"
	"github.com/cyber924/taebaek/internal/platform/requestctx"
	"github.com/cyber924/taebaek/internal/repositories"
)

// Services bundles the content services.
type Services struct {
	Districts *DistrictService
	Places    *PlaceService
	Visits    *VisitService
}

// New builds every service on top of registry.
func New(registry repositories.Registry, logger *zap.Logger) *Services {
	return &Services{
		Districts: NewDistrictService(registry.Districts(), logger),
		Places:    NewPlaceService(registry.Places(), logger),
		Visits:    NewVisitService(registry.Visits(), logger),
	}
}

type base struct {
	logger *zap.Logger
}

func newBase(logger *zap.Logger, name string) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{logger: logger.Named(name)}
}

// log prefers the request scoped logger so read failures carry the request id.
func (b base) log(ctx context.Context) *zap.Logger {
	if logger := requestctx.Logger(ctx); logger != requestctx.NoopLogger() {
		return logger
	}
	return b.logger
}

// readFailed logs a failed read. Missing rows are expected and only logged at debug.
func (b base) readFailed(ctx context.Context, op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("op", op), zap.Error(err))
	if backend.IsNotFound(err) {
		b.log(ctx).Debug("record not found", fields...)
		return
	}
	b.log(ctx).Warn("read failed", fields...)
}

func (b base) writeFailed(ctx context.Context, op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("op", op), zap.Error(err))
	b.log(ctx).Error("write failed", fields...)
}
