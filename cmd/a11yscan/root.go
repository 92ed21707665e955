package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	a11ylog "github.com/mhdismailalsayad/Accessiblity-analyzer/internal/log"
)

// envPrefix is the prefix of environment variables that set flag values,
// e.g. A11YSCAN_MAX_PAGES=5.
const envPrefix = "A11YSCAN"

// NewRootCmd creates the root command for a11yscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "a11yscan",
		Short: "Accessibility auditing tool for websites",
		Long: `a11yscan audits the accessibility of a website.

It collects the internal pages of a site, runs pa11y, axe-core and Lighthouse
on each of them, merges the findings into one list per page and computes an
accessibility score with a prioritized list of the most harmful problems.

The analyzers are run through npx and need Node.js 20 or newer.
Every flag can also be set through an A11YSCAN_<FLAG> environment variable.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewCombineCmd())
	cmd.AddCommand(NewScoreCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewTaxonomyCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newViper binds the command's flags to A11YSCAN_* environment variables.
// A flag given on the command line wins over the environment.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

// setupLogger creates the secure stderr logger and makes it the default.
func setupLogger(verbose bool) *slog.Logger {
	logger := a11ylog.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// splitList flattens comma separated values, as given in A11YSCAN_TOOLS.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
