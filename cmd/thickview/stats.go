package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chazu/thickview/pkg/field"
	"github.com/chazu/thickview/pkg/report"
	"github.com/spf13/cobra"
)

func newStatsCmd(s *settings) *cobra.Command {
	var (
		hist   string
		bins   int
		bound  float64
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats THICKNESS",
		Short: "Summarize a thickness file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			f, err := field.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("bound") {
				bound = s.cfg.Gradient.Bound
			}

			sum := report.Summarize(f)
			below := report.CountAtOrBelow(f, bound)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(struct {
					report.Summary
					Bound     float64 `json:"bound,omitempty"`
					AtOrBelow int     `json:"atOrBelow"`
				}{sum, bound, below}); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, sum)
				if bound != 0 {
					fmt.Fprintf(out, "%d of %d faces at or below %g %s\n", below, sum.Count, bound, s.cfg.Unit)
				}
			}

			if hist != "" {
				opts := report.DefaultHistogramOptions()
				opts.Bins = bins
				opts.Bound = bound
				opts.Unit = s.cfg.Unit
				if err := report.SaveHistogram(hist, f, opts); err != nil {
					return err
				}
				s.log.Info(fmt.Sprintf("wrote histogram %s", hist))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hist, "hist", "", "write a histogram image (png, svg, pdf by extension)")
	cmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	cmd.Flags().Float64Var(&bound, "bound", 0, "count faces at or below this thickness (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
