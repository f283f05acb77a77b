package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/CreditIntel/config"
	"github.com/dyike/CreditIntel/internal/dashboard"
	"github.com/dyike/CreditIntel/internal/dataflows"
	"github.com/dyike/CreditIntel/internal/display"
	"github.com/dyike/CreditIntel/internal/fixtures"
	"github.com/dyike/CreditIntel/internal/storage"
)

const Version = "1.0.0"

// app is what every command shares once flags are parsed.
type app struct {
	cfg *config.Config
	mgr *config.Manager

	configPath string
	apiURL     string
	debug      bool
	width      int
	out        io.Writer
}

func (a *app) load() error {
	cfg, mgr, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(a.apiURL, "/")
	}
	if a.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg, a.mgr = cfg, mgr
	return nil
}

// loadConfig reads path, or the default config file if one exists, through a
// Manager. Without a file the environment defaults are used as is.
func loadConfig(path string) (*config.Config, *config.Manager, error) {
	if path == "" {
		if p, err := config.DefaultConfigPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path == "" {
		return config.DefaultConfig(), nil, nil
	}

	mgr, err := config.NewManager(config.WithConfigPath(path), config.WithInitialConfig(config.DefaultConfig()))
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg := mgr.Get()
	return &cfg, mgr, nil
}

func (a *app) newDataFlows() *dataflows.DataFlowInterface {
	return dataflows.NewDataFlowInterface(a.cfg)
}

func (a *app) newView() *dashboard.View {
	df := a.newDataFlows()
	return dashboard.NewView(df, dashboard.WithQuotes(df), dashboard.WithDebug(a.cfg.Debug))
}

func (a *app) renderOptions() display.Options {
	width := a.width
	if width <= 0 {
		width = terminalWidth(display.DefaultWidth)
	}
	return display.Options{Width: width, BaseURL: a.cfg.APIBaseURL}
}

// loadView runs Load and then selects name when one is given.
func (a *app) loadView(ctx context.Context, name string) (*dashboard.View, error) {
	v := a.newView()
	if err := v.Load(ctx); err != nil {
		return v, err
	}
	if name != "" && (v.Selected == nil || v.Selected.Name != name) {
		if err := v.Select(ctx, name); err != nil {
			return v, err
		}
	}
	return v, nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "creditintel",
		Short: "CreditIntel - Credit Intelligence Dashboard",
		Long: `CreditIntel shows pre-computed credit intelligence scores for companies:
score band, key metrics, score factors, sentiment and the score trend.
Scores are read from a credit API; run 'creditintel serve' for a local one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			if err := a.load(); err != nil {
				return err
			}
			if err := a.cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewInteractiveSession(a).Start(cmd.Context())
		},
	}

	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newSnapshotCmd(a))
	rootCmd.AddCommand(newSnapshotsCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newSeedCmd(a))
	rootCmd.AddCommand(newCacheCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Credit API base URL (overrides configuration)")
	rootCmd.PersistentFlags().IntVar(&a.width, "width", 0, "Render width (terminal width if unset)")

	return rootCmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [NAME]",
		Short: "Render the dashboard once",
		Long: `Render the dashboard for NAME, or for the first company the API lists.
Example: creditintel show "Tesla Inc."`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadView(cmd.Context(), firstArg(args))
			fmt.Fprintln(a.out, display.Render(v, a.renderOptions()))
			return shown(err)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the companies the API knows about",
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, err := a.newDataFlows().ListCompanies(cmd.Context())
			if err != nil {
				DisplayError(a.out, display.ErrorMessage(err, a.cfg.APIBaseURL))
				return shown(err)
			}
			if len(companies) == 0 {
				DisplayWarning(a.out, "No company data available. Please check the backend and refresh.")
				return nil
			}

			rows := make([][]string, 0, len(companies))
			for i, c := range companies {
				ticker := c.Ticker
				if ticker == "" {
					ticker = "-"
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), c.Name, ticker})
			}
			displayTable(a.out, []string{"#", "NAME", "TICKER"}, rows)
			return nil
		},
	}
}

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [NAME]",
		Short: "Save the dashboard as a Markdown report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadView(cmd.Context(), firstArg(args))
			if err != nil {
				DisplayError(a.out, display.ErrorMessage(err, a.cfg.APIBaseURL))
				return shown(err)
			}
			path, err := display.SaveSnapshot(v, a.cfg.ResultsDir, time.Now())
			if err != nil {
				return err
			}
			DisplaySuccess(a.out, "Snapshot saved to "+path)
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var (
		addr   string
		noSeed bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local credit API backed by sqlite",
		Long: `Serve GET /api/companies and GET /api/companies/{name} from the sqlite store.
An empty store is seeded with the bundled demo companies unless --no-seed is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := storage.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if !noSeed {
				n, err := store.Count(ctx)
				if err != nil {
					return err
				}
				if n == 0 {
					if err := seedStore(ctx, store, ""); err != nil {
						return err
					}
					DisplayInfo(a.out, "Seeded empty store with the bundled companies")
				}
			}

			if addr == "" {
				addr = a.cfg.ListenAddr
			}
			return fixtures.NewServer(addr, store, a.cfg.Debug).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from configuration)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "Do not seed an empty store")
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [FILE]",
		Short: "Load company records into the sqlite store",
		Long: `Upsert the companies in FILE, a JSON array in the API detail format,
or the bundled demo companies when FILE is omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := seedStore(cmd.Context(), store, firstArg(args)); err != nil {
				return err
			}
			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			DisplaySuccess(a.out, fmt.Sprintf("%d companies stored in %s", n, a.cfg.DBPath))
			return nil
		},
	}
}

func seedStore(ctx context.Context, store *storage.Store, file string) error {
	var (
		records []storage.Record
		err     error
	)
	if file == "" {
		records, err = storage.DefaultSeed()
	} else {
		records, err = storage.LoadSeedFile(file)
	}
	if err != nil {
		return err
	}
	return store.Seed(ctx, records)
}

func newCacheCmd(a *app) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Response cache management",
	}
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached API responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := PromptForConfirmation("Delete every cached response in "+a.cfg.DataCacheDir+"?", false)
				if err != nil {
					return err
				}
				if !ok {
					DisplayInfo(a.out, "Cache left untouched")
					return nil
				}
			}
			if err := a.newDataFlows().ClearCache(); err != nil {
				return err
			}
			DisplaySuccess(a.out, "Cache cleared")
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cacheCmd.AddCommand(clearCmd)
	return cacheCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// no configuration needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "CreditIntel v%s\n", Version)
			fmt.Fprintln(cmd.OutOrStdout(), "Credit Intelligence Dashboard")
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// isCancelled reports whether err only says the command was interrupted.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
