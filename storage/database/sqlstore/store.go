package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core"
)

// Store keeps records in the `records` table of an sqlite or postgres database.
type Store struct {
	db *sqlx.DB

	getQuery string
	putQuery string
}

var _ core.RecordStore = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:       db,
		getQuery: db.Rebind(`SELECT payload FROM records WHERE record_key = ?`),
		putQuery: db.Rebind(`INSERT INTO records (record_key, payload, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (record_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, s.getQuery, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "selecting record %q", key)
	}
	return []byte(payload), nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.putQuery, key, string(data), time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "upserting record %q", key)
	}
	return nil
}
