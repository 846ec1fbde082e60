package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/config"
	"github.com/reflectionapp/reflection/api/internal/pkg/logger"
	"github.com/reflectionapp/reflection/api/internal/repository"
	"github.com/reflectionapp/reflection/api/internal/service"
	"github.com/reflectionapp/reflection/api/internal/telemetry"
)

// cli holds the global flags and the lazily opened store
type cli struct {
	configFile string
	backend    string
	output     string

	cfg    *config.Config
	logger *zap.Logger
	store  *repository.GuardedStore
	values *service.ValuesServices
}

// execute runs one command line and releases the store afterwards
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "valuesctl",
		Short: "Query and seed the confidence, energy and focus datasets",
		Long: `valuesctl runs the same lookups as the HTTP API directly against the
configured table store.

Configuration is read from config.yaml and the environment exactly like the
server. Results are written to stdout, logs to stderr.

Examples:
  valuesctl tables
  valuesctl for-user confidence someone@example.com
  valuesctl by-ids focus 0a000000-0000-4000-8000-000000000001 null -o yaml
  STORE_BACKEND=sqlite valuesctl seed seed.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "Config file (default: ./config.yaml if present)")
	root.PersistentFlags().StringVar(&c.backend, "backend", "", "Override the store backend")
	root.PersistentFlags().StringVarP(&c.output, "output", "o", formatJSON, "Output format (json, yaml)")

	root.AddCommand(
		newTablesCmd(c),
		newForUserCmd(c),
		newByIDCmd(c),
		newByIDsCmd(c),
		newOneCmd(c),
		newSeedCmd(c),
		newTokenCmd(c),
	)
	return root
}

func (c *cli) loadConfig(cmd *cobra.Command) error {
	if err := validateFormat(c.output); err != nil {
		return err
	}

	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}

	c.cfg = cfg
	c.logger, _ = logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// openStore connects to the configured backend on first use
func (c *cli) openStore(ctx context.Context) (*repository.GuardedStore, error) {
	if c.store != nil {
		return c.store, nil
	}

	store, err := repository.OpenGuarded(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.store = store
	c.values = service.NewValuesServices(store, telemetry.NewRecorder(c.logger, false), c.logger)
	return store, nil
}

func (c *cli) services(ctx context.Context) (*service.ValuesServices, error) {
	if _, err := c.openStore(ctx); err != nil {
		return nil, err
	}
	return c.values, nil
}

func (c *cli) close() error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	if err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
