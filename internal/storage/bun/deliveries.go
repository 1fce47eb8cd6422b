package bunrepo

import (
	"context"

	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DeliveryRepository stores delivery attempts in lead_delivery_attempts.
type DeliveryRepository struct {
	table table[domain.DeliveryAttempt]
}

var _ store.DeliveryAttemptRepository = (*DeliveryRepository)(nil)

func NewDeliveryRepository(db *bun.DB) *DeliveryRepository {
	return &DeliveryRepository{
		table: newTable(db, func(d *domain.DeliveryAttempt) *domain.RecordMeta { return &d.RecordMeta }),
	}
}

func (r *DeliveryRepository) Create(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	if attempt.Status == "" {
		attempt.Status = domain.AttemptStatusPending
	}
	return r.table.create(ctx, attempt)
}

func (r *DeliveryRepository) Update(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	return r.table.update(ctx, attempt)
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryAttempt, error) {
	return r.table.get(ctx, id)
}

func (r *DeliveryRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.DeliveryAttempt], error) {
	return r.table.list(ctx, opts)
}

func (r *DeliveryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.table.softDelete(ctx, id)
}

// ListByNotification returns attempts ordered by attempt number.
func (r *DeliveryRepository) ListByNotification(ctx context.Context, notificationID uuid.UUID) ([]domain.DeliveryAttempt, error) {
	rows, _, err := r.table.repo.ListTx(ctx, conn(ctx, r.table.db),
		withColumn("notification_id", notificationID),
		func(q *bun.SelectQuery) *bun.SelectQuery { return q.Order("number ASC") },
	)
	if err != nil {
		return nil, mapError(err)
	}
	return values(rows), nil
}
