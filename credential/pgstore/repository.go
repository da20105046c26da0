// Package pgstore implements [credential.Repository] on PostgreSQL using
// pgx.
//
// Records live in a single table:
//
//	CREATE TABLE credentials (
//	    identity  text PRIMARY KEY,
//	    digest    text NOT NULL,
//	    algorithm text NOT NULL
//	);
//
// [Repository.EnsureSchema] creates it when missing.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hasbyte1/go-credentials/credential"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS credentials (
    identity  text PRIMARY KEY,
    digest    text NOT NULL,
    algorithm text NOT NULL
)`

	createSQL = `INSERT INTO credentials (identity, digest, algorithm) VALUES ($1, $2, $3)`
	findSQL   = `SELECT identity, digest, algorithm FROM credentials WHERE identity = $1`
	updateSQL = `UPDATE credentials SET digest = $2, algorithm = $3 WHERE identity = $1`
	deleteSQL = `DELETE FROM credentials WHERE identity = $1`
	listSQL   = `SELECT identity, digest, algorithm FROM credentials ORDER BY identity`
	countSQL  = `SELECT count(*) FROM credentials`
)

var _ credential.Repository = (*Repository)(nil)

// Repository stores credential records in PostgreSQL.
type Repository struct {
	db DBTX
}

// New returns a repository running its queries on db.
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// Open connects a pool to dsn and checks it with a ping.  The caller closes
// the pool.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: failed to open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: failed to reach database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the credentials table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("pgstore: failed to create schema: %w", err)
	}
	return nil
}

// Create inserts a new record.
func (r *Repository) Create(ctx context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, createSQL, rec.Identity, rec.Digest, rec.Algorithm); err != nil {
		return mapError("create", rec.Identity, err)
	}

	return nil
}

// Find returns the record for identity.
func (r *Repository) Find(ctx context.Context, identity string) (credential.Record, error) {
	var rec credential.Record

	err := r.db.QueryRow(ctx, findSQL, identity).Scan(&rec.Identity, &rec.Digest, &rec.Algorithm)
	if err != nil {
		return credential.Record{}, mapError("find", identity, err)
	}

	return rec, nil
}

// Update sets digest and algorithm in one statement.
func (r *Repository) Update(ctx context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, updateSQL, rec.Identity, rec.Digest, rec.Algorithm)
	if err != nil {
		return mapError("update", rec.Identity, err)
	}
	if tag.RowsAffected() == 0 {
		return credential.ErrNotFound
	}

	return nil
}

// Delete removes the record for identity.
func (r *Repository) Delete(ctx context.Context, identity string) error {
	tag, err := r.db.Exec(ctx, deleteSQL, identity)
	if err != nil {
		return mapError("delete", identity, err)
	}
	if tag.RowsAffected() == 0 {
		return credential.ErrNotFound
	}

	return nil
}

// List returns every record ordered by identity.
func (r *Repository) List(ctx context.Context) ([]credential.Record, error) {
	rows, err := r.db.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("pgstore: failed to list: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (credential.Record, error) {
		var rec credential.Record
		err := row.Scan(&rec.Identity, &rec.Digest, &rec.Algorithm)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("pgstore: failed to list: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgstore: failed to count: %w", err)
	}
	return n, nil
}

func mapError(op, identity string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return credential.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return credential.ErrAlreadyExists
	}

	return fmt.Errorf("pgstore: failed to %s %q: %w", op, identity, err)
}
