package tariff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDocument is returned when no fare table has been published.
var ErrNoDocument = errors.New("tariff: no published fare table")

const fareTablesSchema = `
CREATE TABLE IF NOT EXISTS fare_tables (
    id           BIGSERIAL PRIMARY KEY,
    version      TEXT        NOT NULL,
    published_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    document     JSONB       NOT NULL
)`

// PGStore keeps published fare tables in PostgreSQL. It implements Source by
// returning the most recently published document.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// NewPGPool opens a pgx connection pool.
func NewPGPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, dsn)
}

func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fareTablesSchema)
	return err
}

// Fetch implements Source.
func (s *PGStore) Fetch(ctx context.Context) (*Document, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT document FROM fare_tables ORDER BY published_at DESC, id DESC LIMIT 1`,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("query fare table: %w", err)
	}
	return Decode(raw)
}

// Publish stores doc as the newest fare table.
func (s *PGStore) Publish(ctx context.Context, doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO fare_tables (version, document) VALUES ($1, $2)`,
		doc.Version, raw,
	)
	return err
}

// Versions lists published versions, newest first.
func (s *PGStore) Versions(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT version FROM fare_tables ORDER BY published_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
