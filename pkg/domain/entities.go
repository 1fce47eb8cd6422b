package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary metadata fields as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

const (
	NotificationStatusPending   = "pending"
	NotificationStatusDelivered = "delivered"
	NotificationStatusFailed    = "failed"
	NotificationStatusRejected  = "rejected"
)

const (
	AttemptStatusPending   = "pending"
	AttemptStatusSucceeded = "succeeded"
	AttemptStatusFailed    = "failed"
)

// LeadNotification is one Notify call: the lead it described, where it was
// routed and how it ended.
type LeadNotification struct {
	bun.BaseModel `bun:"table:lead_notifications"`
	RecordMeta

	CompanyName  string  `bun:",nullzero" json:"company_name,omitempty"`
	UserName     string  `bun:",nullzero" json:"user_name,omitempty"`
	UserEmail    string  `bun:",nullzero" json:"user_email,omitempty"`
	MentionKey   string  `bun:",nullzero" json:"mention_key,omitempty"`
	LeadRating   string  `bun:",nullzero" json:"lead_rating,omitempty"`
	Channel      string  `bun:",nullzero,notnull" json:"channel"`
	Adapter      string  `bun:",nullzero" json:"adapter,omitempty"`
	Locale       string  `bun:",nullzero" json:"locale,omitempty"`
	Status       string  `bun:",nullzero,notnull" json:"status"`
	Detail       string  `bun:",nullzero" json:"detail,omitempty"`
	AttemptCount int     `bun:",notnull,default:0" json:"attempt_count"`
	TraceID      string  `bun:",nullzero" json:"trace_id,omitempty"`
	Fields       JSONMap `bun:"type:jsonb,nullzero" json:"fields,omitempty"`
}

// DeliveryAttempt tracks a single webhook try for a notification.
type DeliveryAttempt struct {
	bun.BaseModel `bun:"table:lead_delivery_attempts"`
	RecordMeta

	NotificationID uuid.UUID `bun:"type:uuid,nullzero,notnull" json:"notification_id"`
	Adapter        string    `bun:",nullzero,notnull" json:"adapter"`
	Number         int       `bun:",notnull" json:"number"`
	Status         string    `bun:",nullzero" json:"status"`
	StatusCode     int       `bun:",nullzero" json:"status_code,omitempty"`
	Error          string    `bun:",nullzero" json:"error,omitempty"`
	DurationMS     int64     `bun:",nullzero" json:"duration_ms,omitempty"`
	Payload        JSONMap   `bun:"type:jsonb,nullzero" json:"payload,omitempty"`
}

// Models lists the persisted entities, in creation order.
func Models() []any {
	return []any{
		(*LeadNotification)(nil),
		(*DeliveryAttempt)(nil),
	}
}
