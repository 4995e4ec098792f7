package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"bugboard/internal/remote"
	"bugboard/internal/store"
	"bugboard/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	Product    string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "bugboard",
		Short:        "Sprint board TUI for a Bugzilla tracker",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  bugboard

  # Refresh the local bug cache without opening the TUI
  bugboard pull

  # Scriptable column listing from the cache
  bugboard board
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "url", envOr("BUGBOARD_URL", ""), "Tracker base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Product, "product", envOr("BUGBOARD_PRODUCT", ""), "Tracker product to board (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newPullCmd(app))
	cmd.AddCommand(newBoardCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	client, _ := buildClient(app, cfg)
	// A missing tracker is not fatal here: the board can open from cache.
	var repo remote.Repository
	var updater remote.Updater
	if client != nil {
		repo = client
		updater = client
	}
	return tui.Run(*cfg, repo, updater, store.Cache{})
}

func loadConfig(app *App) (*store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if app.BaseURL != "" {
		cfg.BaseURL = app.BaseURL
	}
	if app.Product != "" {
		cfg.Product = app.Product
	}
	return cfg, nil
}

// buildClient assembles the tracker client, or an error describing what is
// missing from the configuration.
func buildClient(app *App, cfg *store.Config) (*remote.Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("no tracker URL; run `bugboard config init` or pass --url")
	}
	return &remote.Client{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey(),
		Product: cfg.Product,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
