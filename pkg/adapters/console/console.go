package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
)

// DetailDryRun is reported when a card was printed instead of posted.
const DetailDryRun = "Dry run: notification rendered but not sent."

// Adapter writes cards to a writer and/or the logger for previews and dry runs.
type Adapter struct {
	name string
	base adapters.BaseAdapter
	caps adapters.Capability
	opts Options
	mu   sync.Mutex
}

type Option func(*Adapter)

// Options tweak console output.
type Options struct {
	Output io.Writer // when set, the card JSON is written here
	Indent bool      // pretty-print the JSON
}

// WithName overrides the adapter provider name (defaults to "console").
func WithName(name string) Option {
	return func(a *Adapter) {
		if name != "" {
			a.name = name
		}
	}
}

// WithOutput prints every delivered card to w.
func WithOutput(w io.Writer) Option {
	return func(a *Adapter) {
		a.opts.Output = w
	}
}

// WithIndent enables pretty-printed output.
func WithIndent(enabled bool) Option {
	return func(a *Adapter) {
		a.opts.Indent = enabled
	}
}

// New constructs a console adapter.
func New(l logger.Logger, opts ...Option) *Adapter {
	adapter := &Adapter{
		name: "console",
		caps: adapters.Capability{
			Name:     "console",
			Channels: []string{"console"},
			Formats:  []string{"application/json"},
		},
	}
	adapter.base = adapters.NewBaseAdapter(l)
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter
}

// Name implements adapters.Messenger.
func (a *Adapter) Name() string {
	return a.name
}

// Capabilities implements adapters.Messenger.
func (a *Adapter) Capabilities() adapters.Capability {
	return a.caps
}

// Send prints msg.Body.
func (a *Adapter) Send(ctx context.Context, msg adapters.Message) error {
	if err := a.print([]byte(msg.Body)); err != nil {
		a.base.LogFailure(a.name, msg, err)
		return err
	}
	a.base.LogSuccess(a.name, msg)
	return nil
}

// Deliver implements adapters.Deliverer. It records a single synthetic attempt.
func (a *Adapter) Deliver(ctx context.Context, payload []byte) adapters.Outcome {
	att := adapters.Attempt{Number: 1}
	if err := a.print(payload); err != nil {
		att.Err = err
		return adapters.Failure(fmt.Sprintf("Console output failed: %v", err), []adapters.Attempt{att})
	}
	att.StatusCode = 200
	a.base.Logger().Info("[console] card rendered", logger.Field{Key: "bytes", Value: len(payload)})
	return adapters.Success(DetailDryRun, []adapters.Attempt{att})
}

func (a *Adapter) print(payload []byte) error {
	if a.opts.Output == nil {
		a.base.Logger().Debug("[console] card payload", logger.Field{Key: "payload", Value: string(payload)})
		return nil
	}
	out := payload
	if a.opts.Indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, payload, "", "  "); err == nil {
			out = buf.Bytes()
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.opts.Output.Write(out); err != nil {
		return err
	}
	_, err := io.WriteString(a.opts.Output, "\n")
	return err
}
