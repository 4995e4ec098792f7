package cli

import (
	"fmt"
	"os"

	"bugboard/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bugboard configuration",
	}
	cmd.AddCommand(newConfigInitCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(path); err == nil {
				return writeErr(cmd, fmt.Errorf("config already exists: %s", path))
			}

			cfg := &store.Config{
				BaseURL:    app.BaseURL,
				Product:    app.Product,
				APIKeyFile: "~/.bugboard/api_key",
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": path},
			})
		},
	}
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rules := cfg.Rules()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"baseUrl":      cfg.BaseURL,
					"product":      cfg.Product,
					"sprintMarker": rules.SprintMarker,
					"qaFlag":       rules.QAFlagName,
					"unassigned":   rules.Unassigned,
					"doneWindow":   rules.DoneWindow.String(),
				},
			})
		},
	}
	return cmd
}
