package bunrepo

import (
	"context"
	"time"

	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// table is the go-repository-bun repository for one delivery-log model plus
// the accessor for its embedded RecordMeta.
type table[T any] struct {
	repo repository.Repository[*T]
	db   *bun.DB
	meta func(*T) *domain.RecordMeta
}

func newTable[T any](db *bun.DB, meta func(*T) *domain.RecordMeta) table[T] {
	handlers := repository.ModelHandlers[*T]{
		NewRecord:          func() *T { return new(T) },
		GetID:              func(row *T) uuid.UUID { return meta(row).ID },
		SetID:              func(row *T, id uuid.UUID) { meta(row).ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(row *T) string { return meta(row).ID.String() },
	}
	return table[T]{
		repo: repository.MustNewRepository[*T](db, handlers),
		db:   db,
		meta: meta,
	}
}

// stamp assigns an id on first save and refreshes timestamps.
func (t table[T]) stamp(row *T) *domain.RecordMeta {
	m := t.meta(row)
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return m
}

func (t table[T]) create(ctx context.Context, row *T) error {
	t.stamp(row).EnsureID()
	_, err := t.repo.CreateTx(ctx, conn(ctx, t.db), row)
	return mapError(err)
}

func (t table[T]) update(ctx context.Context, row *T) error {
	if t.meta(row).ID == uuid.Nil {
		return store.ErrNotFound
	}
	t.stamp(row)
	_, err := t.repo.UpdateTx(ctx, conn(ctx, t.db), row)
	return mapError(err)
}

func (t table[T]) get(ctx context.Context, id uuid.UUID) (*T, error) {
	row, err := t.repo.GetTx(ctx, conn(ctx, t.db), withID(id))
	if err != nil {
		return nil, mapError(err)
	}
	return row, nil
}

func (t table[T]) list(ctx context.Context, opts store.ListOptions, extra ...repository.SelectCriteria) (store.ListResult[T], error) {
	rows, total, err := t.repo.ListTx(ctx, conn(ctx, t.db), append([]repository.SelectCriteria{withListOptions(opts)}, extra...)...)
	if err != nil {
		return store.ListResult[T]{}, mapError(err)
	}
	return store.ListResult[T]{Items: values(rows), Total: total}, nil
}

// softDelete stamps deleted_at through bun's soft_delete column.
func (t table[T]) softDelete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, t.db).NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func values[T any](rows []*T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsRecordNotFound(err):
		return store.ErrNotFound
	default:
		return err
	}
}
