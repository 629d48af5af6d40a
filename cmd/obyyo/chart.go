package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Noor7086/Obyyo-sub002/internal/charts"
	"github.com/Noor7086/Obyyo-sub002/internal/generator"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

func newChartCmd(opts *rootOptions) *cobra.Command {
	var (
		game    string
		samples int
		out     string
		seed    uint64
		open    bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a number frequency chart for a game",
		Long: "chart samples many combinations and renders how often each primary number was drawn " +
			"as an HTML bar chart. Non-viable numbers never appear.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if samples < 1 {
				return fmt.Errorf("samples must be positive: %d", samples)
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			samplerOpts := []lottery.SamplerOption{lottery.WithMaxCombinations(cfg.Generator.MaxCombinations)}
			if seed != 0 {
				samplerOpts = append(samplerOpts, lottery.WithRandomSource(lottery.NewSeededSource(seed)))
			}
			svc := generator.NewService(cat, lottery.NewSampler(samplerOpts...), generator.Options{Logger: logger})

			g, counts, err := svc.Frequencies(lottery.ParseGameID(game), samples)
			if err != nil {
				return err
			}

			if out == "" {
				out = string(g.ID) + "-frequency.html"
			}
			if err := charts.WriteFile(out, func(w io.Writer) error {
				return charts.RenderFrequencyChart(w, g, counts, samples)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d combinations, %d distinct numbers)\n", out, samples, len(counts))

			if open {
				return charts.OpenInBrowser(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&game, "game", "", "game id (see obyyo games)")
	cmd.Flags().IntVar(&samples, "samples", 10000, "number of combinations to sample")
	cmd.Flags().StringVar(&out, "out", "", "output HTML file (default <game>-frequency.html)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible output (0 = random)")
	cmd.Flags().BoolVar(&open, "open", false, "open the chart in a browser")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}
