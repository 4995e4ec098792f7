package cli

import (
	"context"
	"time"

	"bugboard/internal/store"

	"github.com/spf13/cobra"
)

func newPullCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch bugs from the tracker into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			client, err := buildClient(app, cfg)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			bugs, err := client.FetchBugs(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			cache := store.Cache{}
			if err := cache.SaveBugs(ctx, bugs); err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"product": cfg.Product,
					"bugs":    len(bugs),
				},
			})
		},
	}
	return cmd
}
