// Package store archives fetched catalogue products in a relational database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/observability"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/response"
)

// ErrNotFound is returned when no archived product has the requested id.
var ErrNotFound = errors.New("product not archived")

// Record is the archived form of a catalogue product.
type Record struct {
	ID               string `gorm:"primaryKey;size:36"`
	Name             string `gorm:"index;size:255"`
	ContentType      string
	ContentLength    int64
	Online           bool
	S3Path           string
	Footprint        string `gorm:"type:text"`
	OriginDate       time.Time
	PublicationDate  time.Time `gorm:"index"`
	ModificationDate time.Time
	ContentStart     time.Time `gorm:"index"`
	ContentEnd       time.Time
	Attributes       string `gorm:"type:text"`
	ArchivedAt       time.Time
}

// TableName pins the table name independent of the struct name.
func (Record) TableName() string {
	return "products"
}

// ProductAttributes decodes the archived expanded attributes, if any.
func (r *Record) ProductAttributes() ([]response.ProductAttribute, error) {
	if r.Attributes == "" {
		return nil, nil
	}
	var attrs []response.ProductAttribute
	if err := json.Unmarshal([]byte(r.Attributes), &attrs); err != nil {
		return nil, fmt.Errorf("decode attributes of %s: %w", r.ID, err)
	}
	return attrs, nil
}

// Store persists products through GORM.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	logger        *slog.Logger
	observability *observability.Config
}

// WithLogger sets the logger used for archive operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// WithObservability traces archive queries when detailed DB tracing is enabled.
func WithObservability(cfg *observability.Config) Option {
	return func(c *storeConfig) {
		c.observability = cfg
	}
}

// Dialector picks the GORM driver for dsn. postgres:// and postgresql:// URLs and
// key=value strings containing host= select PostgreSQL; everything else is a SQLite
// path, optionally prefixed with sqlite://.
func Dialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return postgres.Open(dsn)
	default:
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	}
}

// Open connects to dsn and prepares the schema.
func Open(dsn string, opts ...Option) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("store: empty DSN")
	}
	db, err := gorm.Open(Dialector(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if strings.Contains(dsn, ":memory:") {
		// Every SQLite connection to :memory: is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db, opts...)
}

// New wraps an existing connection, migrates the schema and registers tracing callbacks.
func New(db *gorm.DB, opts ...Option) (*Store, error) {
	cfg := &storeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	if err := observability.RegisterGORMCallbacks(db, cfg.observability); err != nil {
		return nil, fmt.Errorf("store: register callbacks: %w", err)
	}

	return &Store{db: db, logger: cfg.logger, now: time.Now}, nil
}

// Save upserts products by id and returns the number written.
func (s *Store) Save(ctx context.Context, products []response.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	// A single upsert statement may touch each id once, so the last copy of a
	// repeated product wins.
	records := make([]Record, 0, len(products))
	seen := make(map[string]int, len(products))
	for i := range products {
		rec, err := s.toRecord(&products[i])
		if err != nil {
			return 0, err
		}
		if j, ok := seen[rec.ID]; ok {
			records[j] = rec
			continue
		}
		seen[rec.ID] = len(records)
		records = append(records, rec)
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&records)
	if result.Error != nil {
		return 0, fmt.Errorf("store: save products: %w", result.Error)
	}

	s.logger.Debug("archived products", "count", len(records))
	return len(records), nil
}

// Get returns the archived product with id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	return &rec, nil
}

// List returns archived products ordered by publication date, newest first.
// A limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	q := s.db.WithContext(ctx).Order("publication_date desc").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var records []Record
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return records, nil
}

// Count returns the number of archived products.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) toRecord(p *response.Product) (Record, error) {
	if p.ID == uuid.Nil {
		return Record{}, fmt.Errorf("store: product %q has no id", p.Name)
	}

	var attrs string
	if len(p.Attributes) > 0 {
		b, err := json.Marshal(p.Attributes)
		if err != nil {
			return Record{}, fmt.Errorf("store: encode attributes of %s: %w", p.ID, err)
		}
		attrs = string(b)
	}

	return Record{
		ID:               p.ID.String(),
		Name:             p.Name,
		ContentType:      p.ContentType,
		ContentLength:    p.ContentLength,
		Online:           p.Online,
		S3Path:           p.S3Path,
		Footprint:        p.Footprint,
		OriginDate:       p.OriginDate.Time().UTC(),
		PublicationDate:  p.PublicationDate.Time().UTC(),
		ModificationDate: p.ModificationDate.Time().UTC(),
		ContentStart:     p.ContentDate.Start.Time().UTC(),
		ContentEnd:       p.ContentDate.End.Time().UTC(),
		Attributes:       attrs,
		ArchivedAt:       s.now().UTC(),
	}, nil
}
