// Package leadcards is the entry point for hosts embedding the lead card
// notifier: one constructor wires storage, adapters, composer, notifier,
// and commands from a Config.
package leadcards

import (
	"context"
	"io"
	"net/http"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-leadcards/internal/di"
	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/adapters/teams"
	"github.com/goliatone/go-leadcards/pkg/card"
	"github.com/goliatone/go-leadcards/pkg/commands"
	"github.com/goliatone/go-leadcards/pkg/config"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
	"github.com/goliatone/go-leadcards/pkg/notifier"
	"github.com/goliatone/go-leadcards/pkg/storage"
)

// ModuleOptions configure the module facade.
type ModuleOptions struct {
	Config       config.Config
	Storage      storage.Providers
	Logger       logger.Logger
	Translator   i18n.Translator
	Output       io.Writer
	HTTPClient   *http.Client
	TeamsOptions []teams.Option
	Adapters     []adapters.Messenger
}

// Module bundles the container and exposes high-level accessors.
type Module struct {
	container *di.Container
}

// NewModule assembles the container.
func NewModule(ctx context.Context, opts ModuleOptions) (*Module, error) {
	container, err := di.New(ctx, di.Options{
		Config:       opts.Config,
		Storage:      opts.Storage,
		Logger:       opts.Logger,
		Translator:   opts.Translator,
		Output:       opts.Output,
		HTTPClient:   opts.HTTPClient,
		TeamsOptions: opts.TeamsOptions,
		Adapters:     opts.Adapters,
	})
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Notify decodes, composes, and delivers one lead.
func (m *Module) Notify(ctx context.Context, fields map[string]any) adapters.Outcome {
	return m.Notifier().Notify(ctx, fields)
}

// Notifier returns the notifier service.
func (m *Module) Notifier() *notifier.Service {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Notifier
}

// Composer returns the card composer.
func (m *Module) Composer() *card.Composer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Composer
}

// Commands returns the go-command registry.
func (m *Module) Commands() *commands.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Commands
}

// AdapterRegistry exposes the configured messenger registry.
func (m *Module) AdapterRegistry() *adapters.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Adapters
}

// Storage exposes the delivery log repositories.
func (m *Module) Storage() storage.Providers {
	if m == nil || m.container == nil {
		return storage.Providers{}
	}
	return m.container.Storage
}

// Config returns the effective module configuration.
func (m *Module) Config() config.Config {
	if m == nil || m.container == nil {
		return config.Config{}
	}
	return m.container.Config
}

// Close releases the storage providers.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Storage.Close()
}
