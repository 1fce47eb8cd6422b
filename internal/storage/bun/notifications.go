package bunrepo

import (
	"context"

	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotificationRepository stores lead notifications in lead_notifications.
type NotificationRepository struct {
	table table[domain.LeadNotification]
}

var _ store.LeadNotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(db *bun.DB) *NotificationRepository {
	return &NotificationRepository{
		table: newTable(db, func(n *domain.LeadNotification) *domain.RecordMeta { return &n.RecordMeta }),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.LeadNotification) error {
	if n.Status == "" {
		n.Status = domain.NotificationStatusPending
	}
	return r.table.create(ctx, n)
}

func (r *NotificationRepository) Update(ctx context.Context, n *domain.LeadNotification) error {
	return r.table.update(ctx, n)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadNotification, error) {
	return r.table.get(ctx, id)
}

func (r *NotificationRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.LeadNotification], error) {
	return r.table.list(ctx, opts)
}

func (r *NotificationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.table.softDelete(ctx, id)
}

func (r *NotificationRepository) ListByStatus(ctx context.Context, status string, opts store.ListOptions) (store.ListResult[domain.LeadNotification], error) {
	return r.table.list(ctx, opts, withColumn("status", status))
}
