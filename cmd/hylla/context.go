package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"hylla/internal/config"
	"hylla/internal/ledger"
	"hylla/internal/logging"
	"hylla/internal/notifications"
	"hylla/internal/reconcile"
)

type commandContext struct {
	configFlag *string
	actorFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
}

func newCommandContext(configFlag, actorFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		actorFlag:  actorFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		c.log = logger
	})
	return c.log
}

// actor resolves who gets recorded in the ledger: the --actor flag, the
// HYLLA_ACTOR environment variable, then the OS user.
func (c *commandContext) actor() (string, error) {
	if c.actorFlag != nil {
		if actor := strings.TrimSpace(*c.actorFlag); actor != "" {
			return actor, nil
		}
	}
	if actor := strings.TrimSpace(os.Getenv("HYLLA_ACTOR")); actor != "" {
		return actor, nil
	}
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username, nil
	}
	return "", fmt.Errorf("cannot determine actor; pass --actor or set HYLLA_ACTOR")
}

// withStore opens the catalog store, reconciles state against the ledger,
// and hands the store to fn. Divergence found at open is repaired (or held)
// before the command runs, so commands never see a torn catalog.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(context.Context, *ledger.Store) error) error {
	return c.withStoreRaw(cmd, func(ctx context.Context, store *ledger.Store) error {
		cfg, _ := c.ensureConfig()
		notifier := notifications.NewService(cfg)
		report, err := reconcile.Run(ctx, store, notifier, c.logger())
		if err != nil {
			return fmt.Errorf("reconcile catalog: %w", err)
		}
		if len(report.Held) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d entries placed under integrity hold; run 'hylla reconcile' for details\n", len(report.Held))
		}
		return fn(ctx, store)
	})
}

// withStoreRaw opens the store without the reconciliation sweep. Only the
// reconcile command itself uses this, so its report reflects what it found.
func (c *commandContext) withStoreRaw(cmd *cobra.Command, fn func(context.Context, *ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cmd.Context(), store)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
