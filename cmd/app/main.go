package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/salesdesk/internal"
	pkgconfig "github.com/starford/salesdesk/pkg/config"
)

var version = "dev"

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

func importAction(kind string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.Args().First()
		if path == "" {
			return fmt.Errorf("usage: import %s FILE", kind)
		}
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		return internal.Import(ctx, kind, path, os.Stdout, opts...)
	}
}

func snapshot(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.DumpSnapshot(ctx, os.Stdout, opts...)
}

func main() {
	cmd := &cli.Command{
		Name:    "salesdesk",
		Usage:   "Sales CRM core: reps, clients, catalog and orders with CSV import and snapshot persistence",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (defaults apply when it does not exist)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, SSE stream and inbox watcher",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:  "import",
				Usage: "Merge a CSV file into the store",
				Commands: []*cli.Command{
					{
						Name:      "clients",
						Usage:     "Merge clients (name,address,phone,email)",
						ArgsUsage: "FILE",
						Action:    importAction("clients"),
					},
					{
						Name:      "products",
						Usage:     "Merge products (name,description,unit)",
						ArgsUsage: "FILE",
						Action:    importAction("products"),
					},
				},
			},
			{
				Name:   "snapshot",
				Usage:  "Print the current snapshot as JSON",
				Action: snapshot,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
