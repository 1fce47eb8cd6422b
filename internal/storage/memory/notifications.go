package memory

import (
	"context"

	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	"github.com/google/uuid"
)

// NotificationRepository keeps lead notifications in memory.
type NotificationRepository struct {
	log *recordLog[domain.LeadNotification]
}

var _ store.LeadNotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		log: newRecordLog(func(n *domain.LeadNotification) *domain.RecordMeta { return &n.RecordMeta }),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.LeadNotification) error {
	if n.Status == "" {
		n.Status = domain.NotificationStatusPending
	}
	return r.log.create(ctx, n)
}

func (r *NotificationRepository) Update(ctx context.Context, n *domain.LeadNotification) error {
	return r.log.update(ctx, n)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadNotification, error) {
	return r.log.get(ctx, id)
}

func (r *NotificationRepository) List(_ context.Context, opts store.ListOptions) (store.ListResult[domain.LeadNotification], error) {
	return r.log.scan(opts, nil), nil
}

func (r *NotificationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.log.softDelete(ctx, id)
}

func (r *NotificationRepository) ListByStatus(_ context.Context, status string, opts store.ListOptions) (store.ListResult[domain.LeadNotification], error) {
	return r.log.scan(opts, func(n *domain.LeadNotification) bool {
		return n.Status == status
	}), nil
}
