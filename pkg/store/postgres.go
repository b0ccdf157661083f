package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"siglo-server/pkg/db"
	"siglo-server/pkg/round"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

// Postgres is a Store backed by the rounds table
// The version column guards every update; the record itself is kept as JSONB.
type Postgres struct {
	db         *sql.DB
	maxRetries int
}

var _ Store = (*Postgres)(nil)

// NewPostgres returns a store using the given connection
func NewPostgres(db *sql.DB, maxRetries int) *Postgres {
	return &Postgres{
		db:         db,
		maxRetries: retries(maxRetries),
	}
}

func getRecordByRow(row db.Scanner) (*round.Record, error) {
	var data []byte
	var version int64
	var created, updated time.Time
	if err := row.Scan(&version, &data, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	var r round.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	r.Version = version
	r.CreatedAt = created
	r.UpdatedAt = updated
	return &r, nil
}

// Get returns the current record
func (p *Postgres) Get(ctx context.Context, roomCode string) (*round.Record, error) {
	const query = `
SELECT version, data, created, updated
FROM rounds
WHERE room_code = $1`

	row := p.db.QueryRowContext(ctx, query, roomCode)
	return getRecordByRow(row)
}

// Create stores a new record at version 1
func (p *Postgres) Create(ctx context.Context, r *round.Record) (*round.Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	const query = `
INSERT INTO rounds (room_code, version, data)
VALUES ($1, 1, $2)
RETURNING version, data, created, updated`

	row := p.db.QueryRowContext(ctx, query, r.RoomCode, data)
	created, err := getRecordByRow(row)
	if err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == pqDuplicateKeyErrorCode {
			return nil, ErrExists
		}

		return nil, err
	}

	return created, nil
}

// Transact atomically replaces the record with the result of fn
func (p *Postgres) Transact(ctx context.Context, roomCode string, fn TransactFunc) (*round.Record, error) {
	return transact(ctx, roomCode, p.maxRetries, p.Get, p.commit, fn)
}

func (p *Postgres) commit(ctx context.Context, cur, next *round.Record) (bool, error) {
	data, err := json.Marshal(next)
	if err != nil {
		return false, err
	}

	const query = `
UPDATE rounds
SET version = version + 1,
    data    = $1,
    updated = (NOW() AT TIME ZONE 'UTC')
WHERE room_code = $2
  AND version = $3
RETURNING version, updated`

	row := p.db.QueryRowContext(ctx, query, data, cur.RoomCode, cur.Version)
	if err := row.Scan(&next.Version, &next.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	next.RoomCode = cur.RoomCode
	next.CreatedAt = cur.CreatedAt
	return true, nil
}

// Delete removes the record
func (p *Postgres) Delete(ctx context.Context, roomCode string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM rounds WHERE room_code = $1`, roomCode)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
