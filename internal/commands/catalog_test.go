package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/card"
	"github.com/goliatone/go-leadcards/pkg/lead"
)

type stubNotifier struct {
	outcome adapters.Outcome
	inputs  []map[string]any
}

func (s *stubNotifier) Notify(ctx context.Context, input map[string]any) adapters.Outcome {
	s.inputs = append(s.inputs, input)
	return s.outcome
}

func (s *stubNotifier) Compose(ctx context.Context, input map[string]any) (card.Document, error) {
	rec, err := lead.Decode(input)
	if err != nil {
		return card.Document{}, err
	}
	return card.NewComposer().Compose(rec), nil
}

func TestNotifyLeadCommand(t *testing.T) {
	ctx := context.Background()
	stub := &stubNotifier{outcome: adapters.Success("Notification sent successfully.", nil)}
	cat, err := NewCatalog(Dependencies{Notifier: stub})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	var seen adapters.Outcome
	msg := NotifyLead{Fields: map[string]any{"userName": "Jane"}, OnOutcome: func(o adapters.Outcome) { seen = o }}
	if err := cat.NotifyLead.Execute(ctx, msg); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(stub.inputs) != 1 || stub.inputs[0]["userName"] != "Jane" || !seen.OK() {
		t.Fatalf("unexpected notifier calls %v / %+v", stub.inputs, seen)
	}

	stub.outcome = adapters.Failure("Request timed out after multiple retries.", []adapters.Attempt{{Number: 1}, {Number: 2}, {Number: 3}})
	err = cat.NotifyLead.Execute(ctx, NotifyLead{Fields: map[string]any{}})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != TextCodeDeliveryFailed {
		t.Fatalf("expected delivery failure error, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected detail in error, got %v", err)
	}
}

func TestPreviewCardCommand(t *testing.T) {
	cat, _ := NewCatalog(Dependencies{Notifier: &stubNotifier{}})

	var buf bytes.Buffer
	err := cat.PreviewCard.Execute(context.Background(), PreviewCard{
		Fields: map[string]any{"LeadCompanyName": "Acme"},
		Output: &buf,
		Indent: true,
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(buf.String(), `"type": "AdaptiveCard"`) || !strings.Contains(buf.String(), "Acme") {
		t.Fatalf("unexpected preview %s", buf.String())
	}

	if err := cat.PreviewCard.Execute(context.Background(), PreviewCard{Fields: map[string]any{}}); err == nil {
		t.Fatalf("expected missing output error")
	}
	err = cat.PreviewCard.Execute(context.Background(), PreviewCard{Fields: map[string]any{"userName": func() {}}, Output: &buf})
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewCatalogRequiresNotifier(t *testing.T) {
	if _, err := NewCatalog(Dependencies{}); err == nil {
		t.Fatalf("expected error for missing notifier")
	}
	if (NotifyLead{}).Type() == "" || (PreviewCard{}).Type() == "" {
		t.Fatalf("expected message types")
	}
}
