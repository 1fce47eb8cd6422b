package di

import (
	"context"
	"io"
	"net/http"
	"os"
	"reflect"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/adapters/console"
	"github.com/goliatone/go-leadcards/pkg/adapters/teams"
	"github.com/goliatone/go-leadcards/pkg/card"
	"github.com/goliatone/go-leadcards/pkg/commands"
	"github.com/goliatone/go-leadcards/pkg/config"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
	"github.com/goliatone/go-leadcards/pkg/lead"
	"github.com/goliatone/go-leadcards/pkg/notifier"
	"github.com/goliatone/go-leadcards/pkg/storage"
)

// Options configure the DI container.
type Options struct {
	Config     config.Config
	Storage    storage.Providers
	Logger     logger.Logger
	Translator i18n.Translator
	// Output receives dry-run cards. Defaults to stdout.
	Output       io.Writer
	HTTPClient   *http.Client
	TeamsOptions []teams.Option
	// Adapters are registered after the built-in teams and console adapters.
	Adapters []adapters.Messenger
}

// Container wires storage, adapters, composer, notifier, and commands.
type Container struct {
	Config   config.Config
	Storage  storage.Providers
	Composer *card.Composer
	Adapters *adapters.Registry
	Notifier *notifier.Service
	Commands *commands.Registry
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

func isZeroStorage(p storage.Providers) bool {
	return p.Notifications == nil || p.Attempts == nil
}

// New constructs the container. When opts.Storage is empty the providers are
// opened from the configured driver and owned by the container.
func New(ctx context.Context, opts Options) (*Container, error) {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backoff, err := cfg.Teams.RetryBackoff()
	if err != nil {
		return nil, err
	}

	lgr := logger.Ensure(opts.Logger)

	providers := opts.Storage
	owned := false
	if isZeroStorage(providers) {
		opened, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		providers = opened
		owned = true
	}
	release := func() {
		if owned {
			_ = providers.Close()
		}
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	teamsOpts := []teams.Option{teams.WithConfig(teams.Config{
		WebhookURL:  cfg.Teams.WebhookURL,
		Timeout:     cfg.Teams.Timeout(),
		MaxAttempts: cfg.Teams.MaxAttempts,
		RetryDelay:  cfg.Teams.RetryDelay(),
		Headers:     cfg.Teams.Headers,
	}), teams.WithBackoff(backoff)}
	if opts.HTTPClient != nil {
		teamsOpts = append(teamsOpts, teams.WithClient(opts.HTTPClient))
	}
	teamsOpts = append(teamsOpts, opts.TeamsOptions...)

	messengers := []adapters.Messenger{
		teams.New(lgr, teamsOpts...),
		console.New(lgr, console.WithOutput(out), console.WithIndent(true)),
	}
	adapterRegistry := adapters.NewRegistry(append(messengers, opts.Adapters...)...)

	composerOpts := []card.Option{
		card.WithLocale(cfg.Card.Locale),
		card.WithDefaultSourceURL(cfg.Card.DefaultSourceURL),
		card.WithDefaultUserImage(cfg.Card.DefaultUserImage),
		card.WithLogger(lgr),
	}
	if opts.Translator != nil {
		composerOpts = append(composerOpts, card.WithTranslator(opts.Translator))
	}
	composer := card.NewComposer(composerOpts...)

	svc, err := notifier.New(notifier.Dependencies{
		Composer:      composer,
		Registry:      adapterRegistry,
		DeliveryLog:   providers.DeliveryLog(),
		Logger:        lgr,
		DryRun:        cfg.Teams.DryRun,
		Locale:        cfg.Card.Locale,
		DecodeOptions: []lead.DecodeOption{lead.WithPlainText(cfg.Card.PlainText)},
	})
	if err != nil {
		release()
		return nil, err
	}

	cmdRegistry, err := commands.New(commands.Dependencies{
		Notifier: svc,
		Logger:   lgr,
	})
	if err != nil {
		release()
		return nil, err
	}

	return &Container{
		Config:   cfg,
		Storage:  providers,
		Composer: composer,
		Adapters: adapterRegistry,
		Notifier: svc,
		Commands: cmdRegistry,
	}, nil
}
