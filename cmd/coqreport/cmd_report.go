package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apperrors "coqboard/internal/errors"
	"coqboard/internal/exporter"
	customMiddleware "coqboard/internal/middleware"
	"coqboard/internal/optimization"
	api "coqboard/pkg/contracts/api/v1"
	"coqboard/pkg/contracts/domain"
)

func (c *cli) summaryCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the recent-window summary of the workbook",
		Long: `Loads the workbook and prints the recent averages and deltas per category.
With --json the full overview document is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.overview(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(o)
			}
			return printSummary(cmd, o)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full overview as JSON")
	return cmd
}

func printSummary(cmd *cobra.Command, o *domain.Overview) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source: %s\n", o.Source)
	if o.FallbackReason != "" {
		fmt.Fprintf(out, "Reason: %s\n", o.FallbackReason)
	}
	fmt.Fprintf(out, "Window: last %d months (%s)\n", o.Recent.Window, o.Recent.Reference)
	fmt.Fprintln(out, strings.Repeat("-", 40))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tAVG %\tDELTA %")
	for _, cat := range domain.Categories {
		fmt.Fprintf(tw, "%s\t%.2f\t%+.2f\n", cat.DisplayName(),
			o.Recent.Averages.Get(cat)*100, o.Recent.DeltaPct.Get(cat))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if n := len(o.SkippedRows); n > 0 {
		fmt.Fprintf(out, "Skipped rows: %d\n", n)
	}
	return nil
}

func (c *cli) exportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the overview as CSV files",
		Long: `Writes ratios.csv, efficiency.csv, timeline.csv and summary.csv
into the output directory. Files carry a UTF-8 BOM so Excel opens them correctly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.overview(cmd.Context())
			if err != nil {
				return err
			}
			paths, err := exporter.ExportOverview(cmd.Context(), exporter.NewCSVWriter(outDir, c.logger), o)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "reports", "output directory")
	return cmd
}

func (c *cli) simulateCmd() *cobra.Command {
	var prevention, appraisal, failure float64
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a prevention/appraisal/failure mix",
		Long: `Computes total COQ, improvement over the initial mix and the model COQ
for the given fractions. Each fraction must lie in [0, 1].

Example:
  coqreport simulate --prevention 0.3 --appraisal 0.3 --failure 0.4`,
		Args: cobra.NoArgs,
		// Simulation needs no workbook or configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.SimulateRequest{Prevention: &prevention, Appraisal: &appraisal, Failure: &failure}
			if err := customMiddleware.NewValidator(c.logger).ValidateStruct(req); err != nil {
				return flagError(err)
			}
			result := optimization.Simulate(req.Ratio())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total COQ:    %.2f\n", result.Total)
			fmt.Fprintf(out, "Improvement:  %.1f%%\n", result.ImprovementPct)
			fmt.Fprintf(out, "Model COQ:    %.2f\n", result.ModelCOQ)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SUBJECT\tCURRENT\tOPTIMAL\tTHEORETICAL")
			for _, item := range result.Radar {
				fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", item.Subject, item.Current, item.Optimal, item.Theoretical)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&prevention, "prevention", 0, "prevention fraction")
	cmd.Flags().Float64Var(&appraisal, "appraisal", 0, "appraisal fraction")
	cmd.Flags().Float64Var(&failure, "failure", 0, "failure fraction")
	for _, name := range []string{"prevention", "appraisal", "failure"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// flagError flattens validation details into one line per flag
func flagError(err error) error {
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	details, ok := apiErr.Details.(apperrors.ValidationErrors)
	if !ok || len(details.Errors) == 0 {
		return err
	}
	msgs := make([]string, 0, len(details.Errors))
	for _, e := range details.Errors {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("invalid flags: %s", strings.Join(msgs, "; "))
}
