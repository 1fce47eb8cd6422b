package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/goliatone/go-leadcards/pkg/adapters"
	"github.com/goliatone/go-leadcards/pkg/commands"
	"github.com/goliatone/go-leadcards/pkg/config"
	"github.com/goliatone/go-leadcards/pkg/interfaces/logger"
	"github.com/goliatone/go-leadcards/pkg/leadcards"
	"github.com/goliatone/go-leadcards/pkg/secrets"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON config file")
		inputPath  = flag.String("input", "-", "lead JSON file, - for stdin")
		envFile    = flag.String("env", ".env", "dotenv file to load")
		dryRun     = flag.Bool("dry-run", false, "print the card instead of posting it")
		preview    = flag.Bool("preview", false, "compose the card and exit")
		locale     = flag.String("locale", "", "label locale (en, ja)")
	)
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("load env: %v", err)
	}

	cfg, err := loadConfig(*configPath, *dryRun || *preview, *locale)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lgr := logger.New("leadcard",
		logger.WithOutput(os.Stderr),
		logger.WithLevel(logger.ParseLevel(cfg.Logging.Level)),
	)

	fields, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("input: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	module, err := leadcards.NewModule(ctx, leadcards.ModuleOptions{
		Config: cfg,
		Logger: lgr,
		Output: os.Stdout,
	})
	if err != nil {
		log.Fatalf("failed to create module: %v", err)
	}
	defer module.Close()
	lgr.Info("leadcard ready",
		logger.Field{Key: "channel", Value: module.Notifier().Channel()},
		logger.Field{Key: "config", Value: configSnapshot(cfg)},
	)

	if *preview {
		err := module.Commands().PreviewCard.Execute(ctx, commands.PreviewCard{Fields: fields, Output: os.Stdout, Indent: true})
		if err != nil {
			log.Fatalf("preview: %v", err)
		}
		return
	}

	var outcome adapters.Outcome
	err = module.Commands().NotifyLead.Execute(ctx, commands.NotifyLead{
		Fields:    fields,
		OnOutcome: func(o adapters.Outcome) { outcome = o },
	})
	fmt.Println(outcome.Detail)
	if err != nil {
		module.Close()
		os.Exit(1)
	}
}

// loadConfig reads the optional file, overlays the environment and applies
// command-line overrides.
func loadConfig(path string, dryRun bool, locale string) (config.Config, error) {
	base := config.Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return config.Config{}, err
		}
		if err := json.Unmarshal(raw, &base); err != nil {
			return config.Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	base = base.ApplyEnv(os.LookupEnv)
	if dryRun {
		base.Teams.DryRun = true
	}
	if strings.TrimSpace(locale) != "" {
		base.Card.Locale = locale
	}
	return config.Load(base)
}

func readInput(path string) (map[string]any, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(raw)
	}
	return decodeFields(r)
}

func decodeFields(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode lead json: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// configSnapshot is the startup view of cfg with credentials masked.
func configSnapshot(cfg config.Config) map[string]string {
	return secrets.MaskFields(cfg.Summary())
}
