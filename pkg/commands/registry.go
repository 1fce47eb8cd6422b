package commands

import (
	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-leadcards/internal/commands"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
	"github.com/goliatone/go-leadcards/pkg/notifier"
)

// Re-export request types so consumers need not import internal packages.
type (
	NotifyLead  = internalcommands.NotifyLead
	PreviewCard = internalcommands.PreviewCard
)

// Registry exposes go-command compatible handlers backed by the notifier.
type Registry struct {
	Catalog     *internalcommands.Catalog
	NotifyLead  command.Commander[NotifyLead]
	PreviewCard command.Commander[PreviewCard]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Notifier *notifier.Service
	Logger   logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	internalDeps := internalcommands.Dependencies{Logger: deps.Logger}
	if deps.Notifier != nil {
		internalDeps.Notifier = deps.Notifier
	}
	catalog, err := internalcommands.NewCatalog(internalDeps)
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:     catalog,
		NotifyLead:  catalog.NotifyLead,
		PreviewCard: catalog.PreviewCard,
	}, nil
}

// Commanders returns every handler so callers can register them with go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.NotifyLead,
		r.PreviewCard,
	}
}
