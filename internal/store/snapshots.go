package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/loomworks/tradeledger/internal/state"
)

// SaveSnapshot overwrites the stored document with the given snapshot.
// The write is idempotent: saving the same snapshot twice is harmless, so
// a failed save can always be retried.
func (s *Store) SaveSnapshot(ctx context.Context, snap state.Snapshot) error {
	snap.Normalize()
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.writer.ExecContext(ctx,
		`INSERT INTO snapshots (id, version, body, saved_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET version = excluded.version, body = excluded.body, saved_at = excluded.saved_at`,
		snap.Version, string(body), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored document. ok is false when nothing has
// been saved yet.
func (s *Store) LoadSnapshot(ctx context.Context) (snap state.Snapshot, ok bool, err error) {
	var body string
	err = s.reader.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE id = 1`).Scan(&body)
	if err == sql.ErrNoRows {
		return state.Snapshot{}, false, nil
	}
	if err != nil {
		return state.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return state.Snapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}
