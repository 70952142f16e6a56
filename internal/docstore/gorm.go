package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"todo-api/internal/config"
)

// documentRecord is the single table backing every collection. Documents
// are stored as JSON blobs keyed by (collection, doc_id).
type documentRecord struct {
	Collection string `gorm:"primaryKey;size:64"`
	DocID      string `gorm:"primaryKey;column:doc_id;size:64"`
	Data       []byte `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRecord) TableName() string {
	return "documents"
}

// OpenDatabase opens the configured database connection. Postgres is the
// default; sqlite is used for local development and tests.
func OpenDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	case "postgres", "":
		return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the documents table and returns a store bound to db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Collection(name string) Collection {
	return &gormCollection{db: s.db, name: name}
}

type gormCollection struct {
	db   *gorm.DB
	name string
}

func (c *gormCollection) All(ctx context.Context) ([]Document, error) {
	var records []documentRecord
	result := c.db.WithContext(ctx).
		Where("collection = ?", c.name).
		Order("created_at").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	docs := make([]Document, 0, len(records))
	for _, record := range records {
		doc, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *gormCollection) Get(ctx context.Context, id string) (Document, bool, error) {
	var record documentRecord
	result := c.db.WithContext(ctx).
		First(&record, "collection = ? AND doc_id = ?", c.name, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Document{}, false, nil
		}
		return Document{}, false, result.Error
	}

	doc, err := decodeRecord(record)
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

func (c *gormCollection) Add(ctx context.Context, data map[string]interface{}) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate document id: %w", err)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	record := documentRecord{
		Collection: c.name,
		DocID:      id.String(),
		Data:       raw,
	}
	if result := c.db.WithContext(ctx).Create(&record); result.Error != nil {
		return "", result.Error
	}
	return id.String(), nil
}

func (c *gormCollection) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	var record documentRecord
	result := c.db.WithContext(ctx).
		First(&record, "collection = ? AND doc_id = ?", c.name, id)
	if result.Error != nil {
		return result.Error
	}

	var data map[string]interface{}
	if err := json.Unmarshal(record.Data, &data); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	for field, value := range patch {
		data[field] = value
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	return c.db.WithContext(ctx).
		Model(&documentRecord{}).
		Where("collection = ? AND doc_id = ?", c.name, id).
		Update("data", raw).Error
}

func (c *gormCollection) Delete(ctx context.Context, id string) error {
	return c.db.WithContext(ctx).
		Delete(&documentRecord{}, "collection = ? AND doc_id = ?", c.name, id).Error
}

func (c *gormCollection) Where(ctx context.Context, field string, value interface{}, limit int) ([]Document, error) {
	docs, err := c.All(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]Document, 0)
	for _, doc := range docs {
		if doc.Data[field] == value {
			matched = append(matched, doc)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

func decodeRecord(record documentRecord) (Document, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(record.Data, &data); err != nil {
		return Document{}, fmt.Errorf("failed to decode document %s: %w", record.DocID, err)
	}
	return Document{ID: record.DocID, Data: data}, nil
}
