// Command coqreport reads the COQ workbook offline: it prints the overview,
// exports it as CSV, or runs the ratio simulator.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"coqboard/internal/config"
	"coqboard/internal/coq"
	"coqboard/internal/services"
	"coqboard/internal/workbook"
	"coqboard/pkg/contracts"
	"coqboard/pkg/contracts/domain"
)

// cli holds flag values and the state built by PersistentPreRunE
type cli struct {
	configFile string
	locator    string
	strict     bool
	verbose    bool
	timeout    time.Duration

	cfg    *config.Config
	logger *slog.Logger
	loader services.WorkbookLoader
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:     "coqreport",
		Short:   "Inspect the cost-of-quality workbook from the command line",
		Version: contracts.Version,
		Long: `coqreport loads the COQ dashboard workbook with the same configuration
as the web service (config.yaml, .env and COQ_* variables) and works on
the resulting overview without starting a server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd.ErrOrStderr())
		},
	}

	root.SetVersionTemplate(contracts.GetFullVersionString() + "\n")

	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "YAML config file (default: COQ_CONFIG or ./config.yaml)")
	root.PersistentFlags().StringVarP(&c.locator, "workbook", "w", "", "workbook locator overriding the configured one")
	root.PersistentFlags().BoolVar(&c.strict, "strict", false, "fail instead of falling back to placeholder data")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "overall timeout")

	root.AddCommand(c.summaryCmd(), c.exportCmd(), c.simulateCmd())
	return root
}

func (c *cli) init(stderr io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if c.configFile != "" {
		cfg, err = config.LoadFrom(c.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.locator != "" {
		cfg.Workbook.Locator = c.locator
	}
	if c.strict {
		cfg.Workbook.AllowFallback = false
	}
	c.cfg = cfg

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if c.loader == nil {
		c.loader = workbook.NewLoader(cfg.Workbook, c.logger)
	}
	return nil
}

// overview runs one dashboard load under the configured timeout
func (c *cli) overview(ctx context.Context) (*domain.Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc := services.NewDashboardService(c.loader, coq.OptionsFrom(c.cfg), c.logger,
		services.WithFallback(c.cfg.Workbook.AllowFallback),
		services.WithLocator(c.cfg.Workbook.Locator),
	)
	return svc.Overview(ctx)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
