package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parchmentlab/parchment/internal/doctree"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

// TreeRecord stores one serialized document tree per storage key.
type TreeRecord struct {
	StorageKey       string `gorm:"column:storage_key;primaryKey;size:190;not null"`
	PayloadJSON      string `gorm:"column:payload_json;type:text;not null"`
	UpdatedAtSeconds int64  `gorm:"column:updated_at_s;not null;default:0"`
}

// TableName provides the explicit table binding for GORM.
func (TreeRecord) TableName() string {
	return "document_trees"
}

// SQLiteStoreConfig captures the dependencies of a SQLiteStore.
type SQLiteStoreConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// SQLiteStore persists document trees as JSON rows in a local SQLite
// database, the durable stand-in for the browser storage the editor used.
type SQLiteStore struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewSQLiteStore validates the configuration and returns a SQLiteStore.
func NewSQLiteStore(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &SQLiteStore{db: cfg.Database, clock: clock, logger: logger}, nil
}

// Load returns the tree saved under key, or false when never saved.
func (s *SQLiteStore) Load(ctx context.Context, key string) (doctree.Tree, bool, error) {
	if key == "" {
		return nil, false, ErrMissingKey
	}

	var record TreeRecord
	err := s.db.WithContext(ctx).
		Where("storage_key = ?", key).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		s.logger.Error("tree load failed", zap.String("key", key), zap.Error(err))
		return nil, false, fmt.Errorf("storage: load %q: %w", key, err)
	}

	var tree doctree.Tree
	if err := json.Unmarshal([]byte(record.PayloadJSON), &tree); err != nil {
		s.logger.Error("tree payload unreadable", zap.String("key", key), zap.Error(err))
		return nil, false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return tree, true, nil
}

// Save replaces the tree saved under key.
func (s *SQLiteStore) Save(ctx context.Context, key string, tree doctree.Tree) error {
	if key == "" {
		return ErrMissingKey
	}

	payload, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}

	record := TreeRecord{
		StorageKey:       key,
		PayloadJSON:      string(payload),
		UpdatedAtSeconds: s.clock().UTC().Unix(),
	}
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		s.logger.Error("tree save failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("storage: save %q: %w", key, err)
	}
	return nil
}
