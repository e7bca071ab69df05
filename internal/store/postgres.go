package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/murmur-social/murmur/internal/apperrors"
)

// documentRow is the relational shape of a document: one JSONB blob per
// (collection path, id) pair.
type documentRow struct {
	Path      string `gorm:"primaryKey;size:255"`
	DocID     string `gorm:"primaryKey;size:64"`
	Data      []byte `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (documentRow) TableName() string { return "documents" }

// PostgresStore implements Store on top of postgres JSONB documents.
type PostgresStore struct {
	db *gorm.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to postgres and migrates the documents table.
func NewPostgresStore(dsn string, debug bool) (*PostgresStore, error) {
	gl := gormlogger.Default
	if debug {
		gl = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gl,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Feed pagination orders on the createdAt field inside the blob.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_documents_path_created ON documents (path, (data->>'createdAt') DESC, doc_id DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_documents_data ON documents USING GIN (data)")

	return &PostgresStore{db: db}, nil
}

// Close closes the underlying connection pool
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks database connectivity
func (s *PostgresStore) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *PostgresStore) Get(ctx context.Context, path, id string) (Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).First(&row, "path = ? AND doc_id = ?", path, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, apperrors.NotFound("document " + path + "/" + id)
	}
	if err != nil {
		return Document{}, apperrors.Unavailable("document get", err)
	}
	return rowToDocument(row)
}

func (s *PostgresStore) Set(ctx context.Context, path, id string, data map[string]any) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	err = s.db.WithContext(ctx).Exec(
		`INSERT INTO documents (path, doc_id, data, updated_at) VALUES (?, ?, ?, NOW())
		 ON CONFLICT (path, doc_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		path, id, blob,
	).Error
	if err != nil {
		return apperrors.Unavailable("document set", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, path, id string, fields map[string]any) error {
	blob, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}

	res := s.db.WithContext(ctx).Exec(
		"UPDATE documents SET data = data || ?::jsonb, updated_at = NOW() WHERE path = ? AND doc_id = ?",
		blob, path, id,
	)
	if res.Error != nil {
		return apperrors.Unavailable("document update", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("document " + path + "/" + id)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, path, id string) error {
	err := s.db.WithContext(ctx).Delete(&documentRow{}, "path = ? AND doc_id = ?", path, id).Error
	if err != nil {
		return apperrors.Unavailable("document delete", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, path string, data map[string]any) (string, error) {
	id := uuid.NewString()
	return id, s.Set(ctx, path, id, data)
}

func (s *PostgresStore) Query(ctx context.Context, path string, filters ...Filter) ([]Document, error) {
	q := s.db.WithContext(ctx).Where("path = ?", path)
	for _, f := range filters {
		q = q.Where(fmt.Sprintf("data->>'%s' = ?", f.Field), f.Value)
	}

	var rows []documentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperrors.Unavailable("document query", err)
	}
	return rowsToDocuments(rows)
}

func (s *PostgresStore) Page(ctx context.Context, path, orderField string, after *Cursor, limit int) ([]Document, *Cursor, error) {
	key := fmt.Sprintf("data->>'%s'", orderField)

	q := s.db.WithContext(ctx).Where("path = ?", path)
	if after != nil {
		// Row-wise comparison keeps equal sort keys unambiguous.
		q = q.Where(fmt.Sprintf("(%s, doc_id) < (?, ?)", key), after.SortKey, after.DocID)
	}
	q = q.Order(fmt.Sprintf("%s DESC, doc_id DESC", key))
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []documentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, nil, apperrors.Unavailable("document page", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	docs, err := rowsToDocuments(rows)
	if err != nil {
		return nil, nil, err
	}

	last := docs[len(docs)-1]
	next := &Cursor{SortKey: sortKeyString(last.Data[orderField]), DocID: last.ID}
	return docs, next, nil
}

func rowToDocument(row documentRow) (Document, error) {
	var data map[string]any
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return Document{}, fmt.Errorf("failed to decode document %s/%s: %w", row.Path, row.DocID, err)
	}
	return Document{ID: row.DocID, Data: data}, nil
}

func rowsToDocuments(rows []documentRow) ([]Document, error) {
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := rowToDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
