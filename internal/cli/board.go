package cli

import (
	"context"
	"time"

	"bugboard/internal/ledger"
	"bugboard/internal/store"

	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the board columns (from the local cache)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			cache := store.Cache{}
			bugs, fetchedAt, err := cache.LoadBugs(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			if refresh || len(bugs) == 0 {
				client, err := buildClient(app, cfg)
				if err != nil {
					return writeErr(cmd, err)
				}
				bugs, err = client.FetchBugs(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := cache.SaveBugs(ctx, bugs); err != nil {
					return writeErr(cmd, err)
				}
				fetchedAt = time.Now()
			}

			rules := cfg.Rules()
			cols := rules.Build(bugs, ledger.New())

			out := make([]map[string]any, 0, len(cols))
			for _, c := range cols {
				rows := make([]map[string]any, 0, len(c.Bugs))
				for _, b := range c.Bugs {
					rows = append(rows, map[string]any{
						"id":       b.ID,
						"summary":  b.Summary,
						"assignee": b.AssignedTo,
						"priority": b.Priority,
					})
				}
				out = append(out, map[string]any{
					"column": c.Column.String(),
					"bugs":   rows,
				})
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"product":   cfg.Product,
					"fetchedAt": fetchedAt,
					"columns":   out,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch from the tracker before printing")
	return cmd
}
