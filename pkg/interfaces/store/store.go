// Package store declares the delivery-log persistence contracts implemented by
// internal/storage/memory and internal/storage/bun.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a row does not exist or was soft deleted.
var ErrNotFound = errors.New("store: not found")

// ListOptions pages and filters list queries. Since and Until bound
// created_at inclusively; zero values leave that side open.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult holds one page and the total number of matching rows.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Repository is the CRUD surface shared by the delivery-log tables.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, opts ListOptions) (ListResult[T], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// LeadNotificationRepository stores one row per Notify call.
type LeadNotificationRepository interface {
	Repository[domain.LeadNotification]
	ListByStatus(ctx context.Context, status string, opts ListOptions) (ListResult[domain.LeadNotification], error)
}

// DeliveryAttemptRepository stores one row per webhook POST.
type DeliveryAttemptRepository interface {
	Repository[domain.DeliveryAttempt]
	ListByNotification(ctx context.Context, notificationID uuid.UUID) ([]domain.DeliveryAttempt, error)
}

// TransactionManager runs fn in one transaction, passing the transactional
// context to the repositories.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DeliveryLog groups the repositories that record notifications and their
// attempts. A zero DeliveryLog disables persistence.
type DeliveryLog struct {
	Notifications LeadNotificationRepository
	Attempts      DeliveryAttemptRepository
	Transaction   TransactionManager
}

// Enabled reports whether notifications can be recorded.
func (l DeliveryLog) Enabled() bool {
	return l.Notifications != nil
}

// Within runs fn through the transaction manager when one is set.
func (l DeliveryLog) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	if l.Transaction == nil {
		return fn(ctx)
	}
	return l.Transaction.WithinTransaction(ctx, fn)
}
