package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gstskill/db"
	"gstskill/internal/app"
	"gstskill/internal/config"
	"gstskill/internal/model"
	"gstskill/internal/repository"
	"gstskill/pkg/rates"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	csvPath     string
	databaseURL string
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gst",
		Short:        "Query the GST skill from the command line",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&csvPath, "csv", "", "GST rates CSV file (overrides GST_RATES_CSV)")
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL for the gst_rate table (overrides DATABASE_URL)")

	root.AddCommand(rateCmd(), newsCmd(), intentCmd(), templatesCmd(), seedCmd())
	return root
}

func loadApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, func() {}, err
	}
	if csvPath != "" {
		cfg.RatesCSV = csvPath
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	return app.New(ctx, cfg)
}

func rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <item>",
		Short: "Print the GST rate of an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeAll, err := loadApp(cmd.Context())
			defer closeAll()
			if err != nil {
				return err
			}

			item := strings.Join(args, " ")
			rate, err := a.Rates.Lookup(cmd.Context(), item)
			if errors.Is(err, rates.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: unknown item\n", item)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", item, rate)
			return nil
		},
	}
}

func newsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Fetch the latest GST headline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeAll, err := loadApp(cmd.Context())
			defer closeAll()
			if err != nil {
				return err
			}

			headline, err := a.News.Headline(cmd.Context())
			if err != nil {
				return err
			}
			if headline == "" {
				headline = "no GST news"
			}

			fmt.Fprintln(cmd.OutOrStdout(), headline)
			return nil
		},
	}
}

func intentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intent <name> [slot=value ...]",
		Short: "Route an intent and print the response as JSON",
		Long:  "Route an intent and print the response as JSON. Use LaunchRequest or SessionEndedRequest as the name to send those request types.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeAll, err := loadApp(cmd.Context())
			defer closeAll()
			if err != nil {
				return err
			}

			req, err := parseIntent(args)
			if err != nil {
				return err
			}

			res := a.Router.Route(cmd.Context(), req)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List response template names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeAll, err := loadApp(cmd.Context())
			defer closeAll()
			if err != nil {
				return err
			}

			for _, name := range a.Templates.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Copy the GST rates CSV into the gst_rate Postgres table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if csvPath != "" {
				cfg.RatesCSV = csvPath
			}
			if databaseURL != "" {
				cfg.DatabaseURL = databaseURL
			}

			entries, err := rates.NewCSVSource(cfg.RatesCSV).Load(cmd.Context())
			if err != nil {
				return err
			}

			if err := db.Connect(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("error connecting to DB: %w", err)
			}
			defer db.Close()

			repo := repository.NewRateRepository(db.DB)
			for _, e := range entries {
				e.Item = strings.TrimSpace(e.Item)
				if err := repo.Upsert(cmd.Context(), e); err != nil {
					return fmt.Errorf("error saving rate for %q: %w", e.Item, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rates\n", len(entries))
			return nil
		},
	}
}

// parseIntent maps CLI args to a request: the first arg is the intent name
// (or a request type), the rest are slot=value pairs.
func parseIntent(args []string) (model.IntentRequest, error) {
	req := model.IntentRequest{
		Kind:  model.RequestIntent,
		Name:  args[0],
		Slots: map[string]string{},
	}

	switch args[0] {
	case model.RequestLaunch, model.RequestSessionEnded:
		req.Kind = args[0]
		req.Name = ""
	}

	for _, arg := range args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return req, fmt.Errorf("invalid slot %q, want name=value", arg)
		}
		req.Slots[name] = value
	}

	return req, nil
}
