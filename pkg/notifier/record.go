package notifier

import (
	"context"
	"time"

	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
	"github.com/goliatone/go-leadcards/pkg/lead"
)

// record stores the notification and one row per attempt. Storage errors
// are logged and never change the delivery outcome.
func (s *Service) record(ctx context.Context, traceID string, rec lead.Record, adapterName, status string, out adapters.Outcome) {
	if !s.log.Enabled() {
		return
	}

	notification := newNotification(rec, s.channel, adapterName, s.locale, status, out)
	notification.TraceID = traceID
	err := s.log.Within(ctx, func(ctx context.Context) error {
		if err := s.log.Notifications.Create(ctx, notification); err != nil {
			return err
		}
		if s.log.Attempts == nil {
			return nil
		}
		for _, att := range out.Attempts {
			if err := s.log.Attempts.Create(ctx, newAttempt(notification, adapterName, att)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("delivery log write failed", logger.Field{Key: "trace_id", Value: traceID}, logger.Err(err))
	}
}

func newNotification(rec lead.Record, channel, adapterName, locale, status string, out adapters.Outcome) *domain.LeadNotification {
	n := &domain.LeadNotification{
		CompanyName:  rec.Company.Name,
		UserName:     rec.User.Name,
		UserEmail:    rec.User.Email,
		LeadRating:   rec.Evaluation.LeadRating,
		Channel:      channel,
		Adapter:      adapterName,
		Locale:       locale,
		Status:       status,
		Detail:       out.Detail,
		AttemptCount: len(out.Attempts),
	}
	if target, ok := rec.MentionTarget(); ok {
		n.MentionKey = target.Key
	}
	if fields := rec.ToMap(); len(fields) > 0 {
		n.Fields = make(domain.JSONMap, len(fields))
		for k, v := range fields {
			n.Fields[k] = v
		}
	}
	return n
}

func newAttempt(n *domain.LeadNotification, adapterName string, att adapters.Attempt) *domain.DeliveryAttempt {
	row := &domain.DeliveryAttempt{
		NotificationID: n.ID,
		Adapter:        adapterName,
		Number:         att.Number,
		Status:         domain.AttemptStatusSucceeded,
		StatusCode:     att.StatusCode,
		DurationMS:     att.Duration.Milliseconds(),
	}
	if att.Err != nil {
		row.Status = domain.AttemptStatusFailed
		row.Error = att.Err.Error()
	}
	if !att.StartedAt.IsZero() {
		row.Payload = domain.JSONMap{"started_at": att.StartedAt.UTC().Format(time.RFC3339Nano)}
	}
	return row
}
