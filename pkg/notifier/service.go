package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/card"
	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	"github.com/goliatone/go-leadcards/pkg/lead"
	"github.com/google/uuid"
)

const (
	ChannelTeams   = "teams"
	ChannelConsole = "console"

	DetailInvalidInput = "Input validation failed: %s"
	DetailInternal     = "Internal tool error: %s"
	DetailUnexpected   = "Tool execution failed: An unexpected error occurred (%T)."
)

var (
	ErrMissingComposer = errors.New("notifier: card composer is required")
	ErrMissingRegistry = errors.New("notifier: adapter registry is required")
)

// Dependencies groups the collaborators required by the notifier.
type Dependencies struct {
	Composer      *card.Composer
	Registry      *adapters.Registry
	DeliveryLog   store.DeliveryLog
	Logger        logger.Logger
	Channel       string
	DryRun        bool
	Locale        string
	DecodeOptions []lead.DecodeOption
}

// Service turns raw lead input into a delivered card and records the result.
type Service struct {
	composer   *card.Composer
	registry   *adapters.Registry
	log        store.DeliveryLog
	logger     logger.Logger
	channel    string
	locale     string
	decodeOpts []lead.DecodeOption
}

// New builds the notifier service.
func New(deps Dependencies) (*Service, error) {
	if deps.Composer == nil {
		return nil, ErrMissingComposer
	}
	if deps.Registry == nil {
		return nil, ErrMissingRegistry
	}

	channel := strings.TrimSpace(deps.Channel)
	if channel == "" {
		channel = ChannelTeams
	}
	if deps.DryRun {
		channel = ChannelConsole
	}

	return &Service{
		composer:   deps.Composer,
		registry:   deps.Registry,
		log:        deps.DeliveryLog,
		logger:     logger.Ensure(deps.Logger),
		channel:    channel,
		locale:     deps.Locale,
		decodeOpts: deps.DecodeOptions,
	}, nil
}

// Channel returns the route used for deliveries.
func (s *Service) Channel() string { return s.channel }

// Compose decodes input and renders the card without sending it.
func (s *Service) Compose(ctx context.Context, input map[string]any) (card.Document, error) {
	rec, err := lead.Decode(input, s.decodeOpts...)
	if err != nil {
		return card.Document{}, err
	}
	return s.composer.Compose(rec), nil
}

// Notify composes and delivers a card for input. It never panics and never
// returns an error; every failure is reported in the outcome.
func (s *Service) Notify(ctx context.Context, input map[string]any) (out adapters.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notifier panicked", logger.Field{Key: "panic", Value: fmt.Sprint(r)})
			out = adapters.Failure(fmt.Sprintf(DetailUnexpected, r), nil)
		}
	}()

	traceID := uuid.NewString()
	log := s.logger.With(logger.Field{Key: "trace_id", Value: traceID})

	rec, err := lead.Decode(input, s.decodeOpts...)
	if err != nil {
		log.Warn("lead input rejected", logger.Err(err))
		out = adapters.Failure(fmt.Sprintf(DetailInvalidInput, err), nil)
		s.record(ctx, traceID, lead.Record{}, "", domain.NotificationStatusRejected, out)
		return out
	}

	payload, err := s.composer.Compose(rec).Marshal()
	if err != nil {
		log.Error("card serialization failed", logger.Err(err))
		return adapters.Failure(fmt.Sprintf(DetailInternal, err), nil)
	}

	messenger, err := s.registry.Route(s.channel)
	if err != nil {
		log.Error("no messenger for channel", logger.Field{Key: "channel", Value: s.channel}, logger.Err(err))
		out = adapters.Failure(fmt.Sprintf(DetailInternal, err), nil)
		s.record(ctx, traceID, rec, "", domain.NotificationStatusFailed, out)
		return out
	}

	out = s.deliver(ctx, messenger, traceID, payload)
	log.Info("notification attempt finished",
		logger.Field{Key: "status", Value: string(out.Status)},
		logger.Field{Key: "adapter", Value: messenger.Name()},
		logger.Field{Key: "attempts", Value: len(out.Attempts)},
	)
	s.record(ctx, traceID, rec, messenger.Name(), statusOf(out), out)
	return out
}

func statusOf(out adapters.Outcome) string {
	if out.OK() {
		return domain.NotificationStatusDelivered
	}
	return domain.NotificationStatusFailed
}

func (s *Service) deliver(ctx context.Context, messenger adapters.Messenger, traceID string, payload []byte) adapters.Outcome {
	if deliverer, ok := messenger.(adapters.Deliverer); ok {
		return deliverer.Deliver(ctx, payload)
	}

	msg := adapters.Message{
		Channel:     s.channel,
		Provider:    messenger.Name(),
		Body:        string(payload),
		ContentType: "application/json",
		TraceID:     traceID,
	}
	if err := messenger.Send(ctx, msg); err != nil {
		return adapters.Failure(err.Error(), []adapters.Attempt{{Number: 1, Err: err}})
	}
	return adapters.Success("Notification sent successfully.", []adapters.Attempt{{Number: 1}})
}
