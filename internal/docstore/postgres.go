package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Store backed by the documents table.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresStore{pool: pool, logger: logger}
}

func (s *postgresStore) ListAll(ctx context.Context, collection string) ([]Record, error) {
	const q = `
SELECT id::text, data
FROM documents
WHERE collection = $1
ORDER BY created_at ASC
`
	rows, err := s.pool.Query(ctx, q, collection)
	if err != nil {
		s.logger.Printf("docstore: list collection=%s error=%v", collection, err)
		return nil, err
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		s.logger.Printf("docstore: list rows collection=%s error=%v", collection, err)
		return nil, err
	}
	s.logger.Printf("docstore: list collection=%s count=%d", collection, len(records))
	return records, nil
}

func (s *postgresStore) GetByID(ctx context.Context, collection, id string) (*Record, error) {
	const q = `
SELECT id::text, data
FROM documents
WHERE collection = $1 AND id = $2
`
	rec, err := scanRecord(s.pool.QueryRow(ctx, q, collection, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Printf("docstore: get collection=%s id=%s error=%v", collection, id, err)
		return nil, err
	}
	return rec, nil
}

func (s *postgresStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	const q = `
INSERT INTO documents (id, collection, data)
VALUES ($1, $2, $3)
RETURNING id::text
`
	data, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	var id string
	if err := s.pool.QueryRow(ctx, q, uuid.NewString(), collection, data).Scan(&id); err != nil {
		s.logger.Printf("docstore: create collection=%s error=%v", collection, err)
		return "", err
	}
	s.logger.Printf("docstore: created collection=%s id=%s", collection, id)
	return id, nil
}

func (s *postgresStore) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	const q = `
UPDATE documents
SET data = data || $3
WHERE collection = $1 AND id = $2
`
	data, err := json.Marshal(partial)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, q, collection, id, data)
	if err != nil {
		s.logger.Printf("docstore: update collection=%s id=%s error=%v", collection, id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, collection, id string) error {
	const q = `
DELETE FROM documents
WHERE collection = $1 AND id = $2
`
	tag, err := s.pool.Exec(ctx, q, collection, id)
	if err != nil {
		s.logger.Printf("docstore: delete collection=%s id=%s error=%v", collection, id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *postgresStore) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Record, error) {
	const q = `
SELECT id::text, data
FROM documents
WHERE collection = $1 AND data ->> $2 = $3
ORDER BY created_at ASC
`
	rows, err := s.pool.Query(ctx, q, collection, field, stringify(value))
	if err != nil {
		s.logger.Printf("docstore: query collection=%s field=%s error=%v", collection, field, err)
		return nil, err
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		s.logger.Printf("docstore: query rows collection=%s field=%s error=%v", collection, field, err)
		return nil, err
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var data []byte
	if err := row.Scan(&rec.ID, &data); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &rec.Fields); err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func stringify(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	b, _ := json.Marshal(value)
	return string(b)
}
