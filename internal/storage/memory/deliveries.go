package memory

import (
	"context"
	"sort"

	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	"github.com/google/uuid"
)

// DeliveryRepository keeps delivery attempts in memory.
type DeliveryRepository struct {
	log *recordLog[domain.DeliveryAttempt]
}

var _ store.DeliveryAttemptRepository = (*DeliveryRepository)(nil)

func NewDeliveryRepository() *DeliveryRepository {
	return &DeliveryRepository{
		log: newRecordLog(func(d *domain.DeliveryAttempt) *domain.RecordMeta { return &d.RecordMeta }),
	}
}

func (r *DeliveryRepository) Create(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	if attempt.Status == "" {
		attempt.Status = domain.AttemptStatusPending
	}
	return r.log.create(ctx, attempt)
}

func (r *DeliveryRepository) Update(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	return r.log.update(ctx, attempt)
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryAttempt, error) {
	return r.log.get(ctx, id)
}

func (r *DeliveryRepository) List(_ context.Context, opts store.ListOptions) (store.ListResult[domain.DeliveryAttempt], error) {
	return r.log.scan(opts, nil), nil
}

func (r *DeliveryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.log.softDelete(ctx, id)
}

// ListByNotification returns attempts ordered by attempt number.
func (r *DeliveryRepository) ListByNotification(_ context.Context, notificationID uuid.UUID) ([]domain.DeliveryAttempt, error) {
	attempts := r.log.scan(store.ListOptions{}, func(a *domain.DeliveryAttempt) bool {
		return a.NotificationID == notificationID
	}).Items
	sort.SliceStable(attempts, func(i, j int) bool { return attempts[i].Number < attempts[j].Number })
	return attempts, nil
}
