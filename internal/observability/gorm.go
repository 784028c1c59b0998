package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	gormSpanKey      = "csc:gorm:span"
	gormStartTimeKey = "csc:gorm:start"
)

// RegisterGORMCallbacks registers GORM callbacks that trace product archive queries
// and record their duration. Without a tracer provider or with detailed DB tracing
// disabled, nothing is registered.
func RegisterGORMCallbacks(db *gorm.DB, cfg *Config) error {
	if cfg == nil || cfg.TracerProvider == nil || !cfg.EnableDetailedDBTracing {
		return nil
	}

	tracer := cfg.Tracer()
	metrics := cfg.Metrics()
	cb := db.Callback()

	type register func(name string, fn func(*gorm.DB)) error
	hooks := []struct {
		operation     string
		before, after register
	}{
		{"select", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"insert", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		op := h.operation
		if err := h.before("csc:before_"+op, func(db *gorm.DB) {
			startSpan(db, tracer, op)
		}); err != nil {
			return err
		}
		if err := h.after("csc:after_"+op, func(db *gorm.DB) {
			endSpan(db, tracer, metrics, op)
		}); err != nil {
			return err
		}
	}

	return nil
}

func startSpan(db *gorm.DB, tracer *Tracer, operation string) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := tracer.StartDBQuery(ctx, operation)
	span.SetAttributes(attribute.String("db.system", db.Dialector.Name()))

	db.Statement.Context = ctx
	db.InstanceSet(gormSpanKey, span)
	db.InstanceSet(gormStartTimeKey, time.Now())
}

func endSpan(db *gorm.DB, tracer *Tracer, metrics *Metrics, operation string) {
	spanVal, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}

	span, ok := spanVal.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if db.Statement != nil {
		if table := db.Statement.Table; table != "" {
			span.SetAttributes(attribute.String("db.sql.table", table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
	}

	tracer.RecordError(span, db.Error)

	if startTimeVal, ok := db.InstanceGet(gormStartTimeKey); ok {
		if startTime, ok := startTimeVal.(time.Time); ok {
			metrics.RecordDBQuery(db.Statement.Context, operation, time.Since(startTime))
		}
	}
}
