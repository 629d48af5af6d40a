package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Noor7086/Obyyo-sub002/internal/display"
	"github.com/Noor7086/Obyyo-sub002/internal/export"
	"github.com/Noor7086/Obyyo-sub002/internal/generator"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		game   string
		count  int
		seed   uint64
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate combinations for a game",
		Example: "  obyyo generate --game powerball --count 5\n" +
			"  obyyo generate --game pick3 --count 3 --seed 42 --format csv --out picks.csv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var exporter *export.Exporter
			if format != "text" {
				f, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				exporter = export.NewExporter(export.Options{Format: f, PrettyJSON: true})
			} else if out != "" {
				return fmt.Errorf("--out requires --format csv or json")
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
			svc := generator.NewService(cat, lottery.NewSampler(samplerOpts...), generator.Options{
				DefaultCount: cfg.Generator.DefaultCount,
				Logger:       logger,
			})

			req := generator.Request{GameID: game}
			if cmd.Flags().Changed("count") {
				req.Count = &count
			}
			result, err := svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			switch {
			case exporter == nil:
				return display.Result(cmd.OutOrStdout(), result)
			case out != "":
				if err := exporter.ExportFile(out, export.Rows(result)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d combinations to %s\n", len(result.Combinations), out)
				return nil
			default:
				return exporter.Export(cmd.OutOrStdout(), export.Rows(result))
			}
		},
	}
	cmd.Flags().StringVar(&game, "game", "", "game id (see obyyo games)")
	cmd.Flags().IntVar(&count, "count", 0, "number of combinations (default generator.default_count)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible output (0 = random)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write csv or json output to a file")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}
