package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Noor7086/Obyyo-sub002/internal/catalog"
	"github.com/Noor7086/Obyyo-sub002/internal/config"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

// loadCatalog builds the configured catalog for one-shot commands. A remote
// catalog is refreshed once; on failure the built-in table is used.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (lottery.Catalog, error) {
	cat, _, err := catalog.FromConfig(cfg, logger, nil)
	if err != nil {
		return nil, err
	}
	if rc, ok := cat.(*catalog.RemoteCatalog); ok {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := rc.Refresh(ctx); err != nil {
			logger.Warn("Using built-in catalog", "error", err)
		}
	}
	return cat, nil
}

func newGamesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List supported games and their viable pools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPICK\tPRIMARY\tVIABLE\tSECONDARY\tVIABLE")
			for _, g := range cat.Games() {
				_, nv, err := cat.Lookup(g.ID)
				if err != nil {
					return err
				}
				pool := lottery.DerivePool(g, nv)
				secondary, secondaryViable := "-", "-"
				if g.HasSecondary() {
					secondary = fmt.Sprintf("%d-%d", g.SecondaryMin, g.SecondaryMax)
					secondaryViable = fmt.Sprint(len(pool.Secondary))
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d-%d\t%d\t%s\t%s\n",
					g.ID, g.Name, g.PickCount, g.PrimaryMin, g.PrimaryMax, len(pool.Primary), secondary, secondaryViable)
			}
			return tw.Flush()
		},
	}
}
