package repositories

import (
	"context"
	"sync"
	"time"

	"smarthire/internal/models"
)

// UpdateFunc mutates a copy of a pending record. Returning remove=true deletes
// the record instead of storing the copy. A non-nil error discards the
// change and is returned to the caller unchanged.
type UpdateFunc func(rec *models.PendingRecord) (remove bool, err error)

// PendingRepository stores in-flight signups and password resets by token.
// Update is the only way to change an existing record and is atomic per
// token.
type PendingRepository interface {
	Create(ctx context.Context, rec *models.PendingRecord) error
	Get(ctx context.Context, token string) (*models.PendingRecord, error)
	Update(ctx context.Context, token string, fn UpdateFunc) (*models.PendingRecord, error)
	Delete(ctx context.Context, token string) error
	// PurgeExpired drops records whose ExpiresAt is before cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int, error)
}

type pendingEntry struct {
	mu      sync.Mutex
	rec     models.PendingRecord
	removed bool
}

type memoryPendingRepository struct {
	mu      sync.RWMutex
	entries map[string]*pendingEntry
}

// NewMemoryPendingRepository returns a process-local store. Records live until
// they are consumed, deleted or purged.
func NewMemoryPendingRepository() PendingRepository {
	return &memoryPendingRepository{entries: make(map[string]*pendingEntry)}
}

func (r *memoryPendingRepository) Create(_ context.Context, rec *models.PendingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[rec.Token]; ok {
		return ErrAlreadyExists
	}
	r.entries[rec.Token] = &pendingEntry{rec: *rec}
	return nil
}

func (r *memoryPendingRepository) lookup(token string) *pendingEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[token]
}

func (r *memoryPendingRepository) Get(_ context.Context, token string) (*models.PendingRecord, error) {
	e := r.lookup(token)
	if e == nil {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, ErrNotFound
	}
	rec := e.rec
	return &rec, nil
}

func (r *memoryPendingRepository) Update(_ context.Context, token string, fn UpdateFunc) (*models.PendingRecord, error) {
	e := r.lookup(token)
	if e == nil {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil, ErrNotFound
	}
	rec := e.rec
	remove, err := fn(&rec)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if !remove {
		e.rec = rec
		e.mu.Unlock()
		return &rec, nil
	}
	e.removed = true
	e.mu.Unlock()

	r.drop(token, e)
	return &rec, nil
}

func (r *memoryPendingRepository) Delete(_ context.Context, token string) error {
	e := r.lookup(token)
	if e == nil {
		return nil
	}

	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()

	r.drop(token, e)
	return nil
}

func (r *memoryPendingRepository) PurgeExpired(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.RLock()
	snapshot := make(map[string]*pendingEntry, len(r.entries))
	for token, e := range r.entries {
		snapshot[token] = e
	}
	r.mu.RUnlock()

	purged := 0
	for token, e := range snapshot {
		e.mu.Lock()
		expired := !e.removed && e.rec.ExpiresAt.Before(cutoff)
		if expired {
			e.removed = true
		}
		e.mu.Unlock()

		if expired {
			r.drop(token, e)
			purged++
		}
	}
	return purged, nil
}

// drop removes token from the map if it still points at e.
func (r *memoryPendingRepository) drop(token string, e *pendingEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[token] == e {
		delete(r.entries, token)
	}
}
