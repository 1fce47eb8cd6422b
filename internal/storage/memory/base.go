package memory

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	"github.com/google/uuid"
)

// recordLog is an append-only slice of rows with an id index. Rows are
// listed in the order they were first created, which for the delivery log is
// also creation-time order.
type recordLog[T any] struct {
	mu    sync.RWMutex
	rows  []T
	index map[uuid.UUID]int
	meta  func(*T) *domain.RecordMeta
}

func newRecordLog[T any](meta func(*T) *domain.RecordMeta) *recordLog[T] {
	return &recordLog[T]{
		index: make(map[uuid.UUID]int),
		meta:  meta,
	}
}

// create stamps id and timestamps on row and stores a copy. Creating a row
// with a known id replaces it in place.
func (l *recordLog[T]) create(_ context.Context, row *T) error {
	m := l.meta(row)
	m.EnsureID()
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	l.mu.Lock()
	defer l.mu.Unlock()
	if pos, ok := l.index[m.ID]; ok {
		l.rows[pos] = *row
		return nil
	}
	l.index[m.ID] = len(l.rows)
	l.rows = append(l.rows, *row)
	return nil
}

func (l *recordLog[T]) update(_ context.Context, row *T) error {
	m := l.meta(row)

	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.index[m.ID]
	if m.ID == uuid.Nil || !ok {
		return store.ErrNotFound
	}
	m.UpdatedAt = time.Now().UTC()
	l.rows[pos] = *row
	return nil
}

func (l *recordLog[T]) get(_ context.Context, id uuid.UUID) (*T, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pos, ok := l.index[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	row := l.rows[pos]
	if !l.meta(&row).DeletedAt.IsZero() {
		return nil, store.ErrNotFound
	}
	return &row, nil
}

// scan returns the rows accepted by opts and match (nil matches all), paged
// by opts.Offset/Limit. Total counts every accepted row.
func (l *recordLog[T]) scan(opts store.ListOptions, match func(*T) bool) store.ListResult[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var (
		items []T
		total int
	)
	for i := range l.rows {
		row := l.rows[i]
		if !visible(l.meta(&row), opts) || (match != nil && !match(&row)) {
			continue
		}
		if total >= opts.Offset && (opts.Limit <= 0 || len(items) < opts.Limit) {
			items = append(items, row)
		}
		total++
	}
	return store.ListResult[T]{Items: items, Total: total}
}

func (l *recordLog[T]) softDelete(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.index[id]
	if !ok {
		return store.ErrNotFound
	}
	if m := l.meta(&l.rows[pos]); m.DeletedAt.IsZero() {
		m.DeletedAt = time.Now().UTC()
	}
	return nil
}

func visible(m *domain.RecordMeta, opts store.ListOptions) bool {
	switch {
	case !opts.IncludeSoftDeleted && !m.DeletedAt.IsZero():
		return false
	case !opts.Since.IsZero() && m.CreatedAt.Before(opts.Since):
		return false
	case !opts.Until.IsZero() && m.CreatedAt.After(opts.Until):
		return false
	}
	return true
}
