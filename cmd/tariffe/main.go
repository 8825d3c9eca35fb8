package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tplfvg/tariffe/alerts"
	"github.com/tplfvg/tariffe/config"
	"github.com/tplfvg/tariffe/formatter"
	"github.com/tplfvg/tariffe/internal"
	"github.com/tplfvg/tariffe/pricing"
	"github.com/tplfvg/tariffe/selection"
	"github.com/tplfvg/tariffe/server"
	"github.com/tplfvg/tariffe/stops"
	"github.com/tplfvg/tariffe/tariff"
)

const appVersion = "1.6.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "tariffe",
		Short:         "TPL FVG extra-urban fare calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			internal.InitLogging(os.Stderr)
			return config.LoadAppConfig(configPath)
		},
	}
	cmd.Version = appVersion
	cmd.SetVersionTemplate("tariffe v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "Path to the YAML configuration")

	cmd.AddCommand(serveCmd(), quoteCmd(), checkCmd(), importCmd())
	return cmd
}

// openRegistry builds a registry over the configured data source. The close
// func must be called once the registry is no longer used.
func openRegistry(ctx context.Context, cfg config.AppConfig) (*tariff.Registry, func(), error) {
	f := newFetcher(cfg.Data.Timeout())
	src, closeSrc, err := f.source(ctx, cfg.Data.Source)
	if err != nil {
		return nil, closeSrc, err
	}
	reg := tariff.NewRegistry(tariff.RegistryOptions{
		Source:    src,
		Updates:   f.updates(cfg.Data.UpdatesSource),
		CachePath: cfg.Data.CachePath,
		Timeout:   cfg.Data.Timeout(),
	})
	return reg, closeSrc, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the fare lookup HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			cfg := config.Config

			reg, closeSrc, err := openRegistry(ctx, cfg)
			defer closeSrc()
			if err != nil {
				return err
			}
			if _, err := reg.Load(ctx); err != nil {
				log.Printf("warn: starting without fare table: %v", err)
			}

			var store selection.Store = selection.NewMemoryStore()
			if cfg.Redis.Addr != "" {
				rdb := selection.NewRedis(cfg.Redis.Addr)
				defer func() { _ = rdb.Close() }()
				if err := rdb.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
				}
				store = selection.NewRedisStore(rdb, cfg.Redis.TTL())
				log.Printf("selections stored in redis at %s", cfg.Redis.Addr)
			}

			var monitor *alerts.Monitor
			if cfg.Alerts.FeedURL != "" {
				monitor = alerts.NewMonitor(alerts.NewClient(cfg.Data.Timeout()), cfg.Alerts.FeedURL, cfg.Alerts.RefreshInterval())
				go monitor.Run(ctx)
			}

			coords := cfg.Coordinates()
			if cfg.Data.GTFSStops != "" {
				gtfsCoords, err := stops.LoadGTFS(cfg.Data.GTFSStops)
				if err != nil {
					return fmt.Errorf("gtfs stops: %w", err)
				}
				coords = stops.Merge(gtfsCoords, coords)
				log.Printf("loaded %d stop positions from %s", len(gtfsCoords), cfg.Data.GTFSStops)
			}

			s := server.New(server.Deps{
				Registry:    reg,
				Selections:  store,
				Alerts:      monitor,
				Config:      cfg,
				Coordinates: coords,
			})
			s.Start()
			s.HandleGracefulShutdown(ctx)
			return nil
		},
	}
}

func quoteCmd() *cobra.Command {
	var line, from, to, format string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a single trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, closeSrc, err := openRegistry(ctx, config.Config)
			defer closeSrc()
			if err != nil {
				return err
			}
			if _, err := reg.Load(ctx); err != nil {
				return err
			}

			sel := pricing.NewSelection(line, from, to)
			table, updates := reg.Snapshot()
			if _, err := pricing.Validate(sel, table); err != nil {
				log.Printf("warn: %v", err)
			}
			q := formatter.NewQuote(sel, table, updates).WithVersion(reg.Version())

			rb := formatter.NewResponseBuilder()
			switch strings.ToLower(format) {
			case "json":
				fmt.Println(string(rb.BuildJSON(q)))
			case "xml":
				fmt.Println(string(rb.BuildXML(q)))
			case "text":
				fmt.Print(rb.BuildText(q))
			default:
				return fmt.Errorf("unknown --format %q (json|xml|text)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&line, "line", "", "Line index")
	cmd.Flags().StringVar(&from, "from", "", "Departure stop index")
	cmd.Flags().StringVar(&to, "to", "", "Arrival stop index")
	cmd.Flags().StringVar(&format, "format", "text", "json|xml|text")
	return cmd
}

func checkCmd() *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare the configured fare table with a remote one",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Config
			if remote == "" {
				return errors.New("--remote is required")
			}
			reg, closeSrc, err := openRegistry(ctx, cfg)
			defer closeSrc()
			if err != nil {
				return err
			}
			if _, err := reg.Load(ctx); err != nil {
				return err
			}

			f := newFetcher(cfg.Data.Timeout())
			src, closeRemote, err := f.source(ctx, remote)
			defer closeRemote()
			if err != nil {
				return err
			}
			st, err := reg.CheckUpdate(ctx, src)
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(st, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "Remote fare table path, URL or postgres DSN")
	return cmd
}

func importCmd() *cobra.Command {
	var (
		csvPath   string
		name      string
		version   string
		noPrices  bool
		publishTo string
		outPath   string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build a fare table line from a CSV code matrix",
		// import reads no configuration, so it replaces the root hook that
		// loads and validates config.yml.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			internal.InitLogging(os.Stderr)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if csvPath == "" {
				return errors.New("--csv is required")
			}

			f := newFetcher(timeout)
			raw, err := f.fetch(ctx, csvPath)
			if err != nil {
				return err
			}
			opts := tariff.ImportOptions{Name: name, PriceList: tariff.DefaultPriceList}
			if noPrices {
				opts.PriceList = nil
			}
			line, err := tariff.ImportCodeMatrixCSV(strings.NewReader(string(raw)), opts)
			if err != nil {
				return err
			}
			doc := &tariff.Document{
				Version:   version,
				UpdatedAt: time.Now().Format("2006-01-02"),
				Lines:     tariff.FareTable{line},
				Updates:   []tariff.FareUpdate{},
			}
			log.Printf("imported %q with %d stops", line.Name, len(line.Stops))

			if publishTo != "" {
				if !isPostgres(publishTo) {
					return fmt.Errorf("--publish needs a postgres DSN")
				}
				pool, err := tariff.NewPGPool(ctx, publishTo)
				if err != nil {
					return err
				}
				defer pool.Close()
				store := tariff.NewPGStore(pool)
				if err := store.EnsureSchema(ctx); err != nil {
					return err
				}
				if err := store.Publish(ctx, doc); err != nil {
					return err
				}
				log.Printf("published version %q", version)
			}

			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			return os.WriteFile(outPath, append(out, '\n'), 0o644)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV code matrix path or URL")
	cmd.Flags().StringVar(&name, "name", "", "Line name")
	cmd.Flags().StringVar(&version, "table-version", "", "Version stamped on the generated table")
	cmd.Flags().BoolVar(&noPrices, "no-prices", false, "Leave the price matrix out")
	cmd.Flags().StringVar(&publishTo, "publish", "", "Publish to this postgres DSN")
	cmd.Flags().StringVar(&outPath, "out", "", "Write JSON here instead of stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout when --csv is a URL")
	return cmd
}
