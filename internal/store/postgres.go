package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/snapshot"
	"github.com/inamate/vecscene/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS scene_snapshots (
	id         TEXT PRIMARY KEY,
	scene_id   TEXT NOT NULL,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (scene_id, version)
)`

// PostgresStore keeps every saved version of a scene as a JSONB snapshot row.
// Load returns the newest version.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPool opens a connection pool and checks that the database answers.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the snapshot table if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, id string, scene document.Scene) error {
	if id == "" {
		return ErrInvalidID
	}
	doc, err := snapshot.Marshal(scene)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var version int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM scene_snapshots WHERE scene_id = $1`,
		id,
	).Scan(&version)
	if err != nil {
		return fmt.Errorf("latest version: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO scene_snapshots (id, scene_id, version, document) VALUES ($1, $2, $3, $4)`,
		typeid.NewSnapshotID(), id, version+1, doc,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Load(ctx context.Context, id string) (document.Scene, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM scene_snapshots WHERE scene_id = $1 ORDER BY version DESC LIMIT 1`,
		id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Scene{}, ErrNotFound
		}
		return document.Scene{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot.Unmarshal(doc)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scene_snapshots WHERE scene_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT scene_id FROM scene_snapshots ORDER BY scene_id`)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	return ids, nil
}
