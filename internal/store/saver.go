package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/loomworks/tradeledger/internal/state"
)

// SaveStatus is the tri-state persistence indicator surfaced to callers.
// A save error never rolls back the in-memory mutation; it is reported
// here and the save retried.
type SaveStatus string

const (
	StatusSaving SaveStatus = "saving"
	StatusSynced SaveStatus = "synced"
	StatusError  SaveStatus = "error"
)

// Saver persists snapshots in the background, fire-and-forget from the
// caller's perspective. Only the latest scheduled snapshot matters: a
// newer one supersedes any still-pending save.
type Saver struct {
	store *Store

	mu      sync.Mutex
	status  SaveStatus
	lastErr error

	pending chan state.Snapshot
	done    chan struct{}
}

func NewSaver(st *Store) *Saver {
	s := &Saver{
		store:   st,
		status:  StatusSynced,
		pending: make(chan state.Snapshot, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Schedule queues a snapshot for persistence, replacing any snapshot that
// has not started saving yet.
func (s *Saver) Schedule(snap state.Snapshot) {
	s.setStatus(StatusSaving, nil)
	for {
		select {
		case s.pending <- snap:
			return
		default:
			select {
			case <-s.pending: // drop the superseded snapshot
			default:
			}
		}
	}
}

// Status reports the current persistence state and the last save error.
func (s *Saver) Status() (SaveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastErr
}

// Close drains the queue and stops the saver.
func (s *Saver) Close() {
	close(s.pending)
	<-s.done
}

func (s *Saver) run() {
	defer close(s.done)
	for snap := range s.pending {
		s.save(snap)
	}
}

func (s *Saver) save(snap state.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.store.SaveSnapshot(ctx, snap)
	if err != nil {
		// One immediate retry; the overwrite is idempotent.
		err = s.store.SaveSnapshot(ctx, snap)
	}
	if err != nil {
		log.Printf("snapshot save failed (version %d): %v", snap.Version, err)
		s.setStatus(StatusError, err)
		return
	}
	s.setStatus(StatusSynced, nil)
}

func (s *Saver) setStatus(status SaveStatus, err error) {
	s.mu.Lock()
	s.status = status
	s.lastErr = err
	s.mu.Unlock()
}
