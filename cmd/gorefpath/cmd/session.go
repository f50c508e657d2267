package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gorefpath/internal/config"
	"github.com/dbsmedya/gorefpath/internal/database"
	"github.com/dbsmedya/gorefpath/internal/display"
	"github.com/dbsmedya/gorefpath/internal/fixture"
	"github.com/dbsmedya/gorefpath/internal/logger"
	"github.com/dbsmedya/gorefpath/internal/presentation"
	"github.com/dbsmedya/gorefpath/internal/record"
	"github.com/dbsmedya/gorefpath/internal/schema"
)

// session holds what every command needs once configuration is loaded.
type session struct {
	cfg      *config.Config
	log      *logger.Logger
	registry schema.Registry
	records  *record.Store // nil when the schema is introspected
	text     *presentation.TextRegistry
}

// loadConfig reads the configuration file and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat, overrides.Fixture)
	return cfg, nil
}

// openSession loads and validates the configuration, then loads the schema
// from the configured source.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newSession(commandContext(cmd), cfg)
}

func newSession(ctx context.Context, cfg *config.Config) (*session, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	s := &session{cfg: cfg, log: log, text: presentation.NewTextRegistry()}

	switch cfg.Schema.Source {
	case config.SchemaSourceMySQL:
		reg, err := introspect(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		s.registry = reg
	default:
		fx, err := fixture.Load(cfg.Schema.Fixture)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixture: %w", err)
		}
		log.Debugf("Loaded fixture %s with %d record(s)", cfg.Schema.Fixture, fx.Records.Len())
		s.registry = fx.Schema
		s.records = fx.Records
	}
	return s, nil
}

// introspect builds the registry from the configured MySQL database.
// SIGINT and SIGTERM abort a slow introspection.
func introspect(parent context.Context, cfg *config.Config, log *logger.Logger) (schema.Registry, error) {
	ctx, stop := database.SetupSignalHandler(parent, func(sig os.Signal) {
		log.Warnf("Received %s, aborting schema introspection", sig)
	})
	defer stop()

	dbManager := database.NewManager(&cfg.Database, log)
	if err := dbManager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbManager.Close()

	in, err := schema.NewIntrospector(dbManager.DB, cfg.Database.Database, log)
	if err != nil {
		return nil, err
	}
	reg, err := in.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect schema: %w", err)
	}
	return reg, nil
}

// display builds the request-scoped context of a configured display.
func (s *session) display(name string) (*display.Display, error) {
	dcfg, err := s.cfg.GetDisplay(name)
	if err != nil {
		return nil, err
	}

	root := dcfg.Root
	field, err := schema.LookupField(s.registry, root.Type, root.SubType, root.Field)
	if err != nil {
		return nil, fmt.Errorf("display %q: root field %s.%s.%s: %w", name, root.Type, root.SubType, root.Field, err)
	}
	if !field.IsReference() {
		return nil, fmt.Errorf("display %q: root field %s is not a reference field", name, field.Name)
	}

	return display.New(display.Options{
		Name:          name,
		Schema:        s.registry,
		Presentations: s.text,
		Renderer:      s.text,
		RootField:     field,
		Config:        *dcfg,
		Logger:        s.log,
	})
}

func (s *session) close() {
	_ = s.log.Sync()
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
