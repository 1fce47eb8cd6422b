package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/card"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
)

// TextCodeDeliveryFailed tags NotifyLead failures.
const TextCodeDeliveryFailed = "LEADCARD_DELIVERY_FAILED"

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	NotifyLead  command.Commander[NotifyLead]
	PreviewCard command.Commander[PreviewCard]
}

type notifierService interface {
	Notify(ctx context.Context, input map[string]any) adapters.Outcome
	Compose(ctx context.Context, input map[string]any) (card.Document, error)
}

// Dependencies wires services into the command catalog.
type Dependencies struct {
	Notifier notifierService
	Logger   logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Notifier == nil {
		return nil, errors.New("commands: notifier service is required")
	}
	deps.Logger = logger.Ensure(deps.Logger)

	return &Catalog{
		NotifyLead:  notifyLeadCommand{svc: deps.Notifier, logger: deps.Logger},
		PreviewCard: previewCardCommand{svc: deps.Notifier},
	}, nil
}

// NotifyLead carries raw lead fields keyed by their wire names.
type NotifyLead struct {
	Fields map[string]any `json:"fields"`
	// OnOutcome receives the delivery outcome, success or not.
	OnOutcome func(adapters.Outcome) `json:"-"`
}

func (NotifyLead) Type() string { return "leadcards.notify" }

type notifyLeadCommand struct {
	svc    notifierService
	logger logger.Logger
}

func (c notifyLeadCommand) Execute(ctx context.Context, msg NotifyLead) error {
	out := c.svc.Notify(ctx, msg.Fields)
	if msg.OnOutcome != nil {
		msg.OnOutcome(out)
	}
	if out.OK() {
		return nil
	}
	c.logger.Warn("notify lead command failed", logger.Field{Key: "detail", Value: out.Detail})
	return goerrors.New(out.Detail, goerrors.CategoryOperation).
		WithTextCode(TextCodeDeliveryFailed).
		WithMetadata(map[string]any{"attempts": len(out.Attempts)})
}

// PreviewCard renders the card for Fields and writes its JSON to Output.
type PreviewCard struct {
	Fields map[string]any `json:"fields"`
	Output io.Writer      `json:"-"`
	Indent bool           `json:"indent"`
}

func (PreviewCard) Type() string { return "leadcards.preview" }

type previewCardCommand struct {
	svc notifierService
}

func (c previewCardCommand) Execute(ctx context.Context, msg PreviewCard) error {
	if msg.Output == nil {
		return errors.New("commands: preview output is required")
	}
	doc, err := c.svc.Compose(ctx, msg.Fields)
	if err != nil {
		return err
	}
	payload, err := doc.Marshal()
	if err != nil {
		return err
	}
	if msg.Indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, payload, "", "  "); err != nil {
			return err
		}
		payload = buf.Bytes()
	}
	_, err = msg.Output.Write(append(payload, '\n'))
	return err
}
