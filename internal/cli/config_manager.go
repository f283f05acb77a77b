package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/CreditIntel/config"
	"github.com/dyike/CreditIntel/internal/display"
)

var configKeys = []string{
	"api_base_url", "request_timeout", "max_retries",
	"cache_enabled", "cache_ttl", "offline_fallback",
	"refresh_interval", "online_tools", "debug",
	"db_path", "listen_addr",
	"project_dir", "results_dir", "data_dir", "data_cache_dir",
}

// GetConfigValue returns the value of a configuration key
func GetConfigValue(cfg *config.Config, key string) (any, error) {
	switch strings.ToLower(key) {
	case "api_base_url":
		return cfg.APIBaseURL, nil
	case "request_timeout":
		return cfg.RequestTimeout, nil
	case "max_retries":
		return cfg.MaxRetries, nil
	case "cache_enabled":
		return cfg.CacheEnabled, nil
	case "cache_ttl":
		return cfg.CacheTTL, nil
	case "offline_fallback":
		return cfg.OfflineFallback, nil
	case "refresh_interval":
		return cfg.RefreshInterval, nil
	case "online_tools":
		return cfg.OnlineTools, nil
	case "debug":
		return cfg.Debug, nil
	case "db_path":
		return cfg.DBPath, nil
	case "listen_addr":
		return cfg.ListenAddr, nil
	case "project_dir":
		return cfg.ProjectDir, nil
	case "results_dir":
		return cfg.ResultsDir, nil
	case "data_dir":
		return cfg.DataDir, nil
	case "data_cache_dir":
		return cfg.DataCacheDir, nil
	default:
		return nil, fmt.Errorf("unknown configuration key: %s", key)
	}
}

// SetConfigValue parses value and stores it under key. Range checks are
// left to Config.Validate.
func SetConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "api_base_url":
		cfg.APIBaseURL = strings.TrimRight(value, "/")
	case "request_timeout":
		return setDuration(&cfg.RequestTimeout, key, value)
	case "max_retries":
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_retries must be an integer")
		}
		cfg.MaxRetries = i
	case "cache_enabled":
		return setBool(&cfg.CacheEnabled, key, value)
	case "cache_ttl":
		return setDuration(&cfg.CacheTTL, key, value)
	case "offline_fallback":
		return setBool(&cfg.OfflineFallback, key, value)
	case "refresh_interval":
		return setDuration(&cfg.RefreshInterval, key, value)
	case "online_tools":
		return setBool(&cfg.OnlineTools, key, value)
	case "debug":
		return setBool(&cfg.Debug, key, value)
	case "db_path":
		cfg.DBPath = value
	case "listen_addr":
		cfg.ListenAddr = value
	case "results_dir":
		cfg.ResultsDir = value
	case "data_dir":
		cfg.DataDir = value
	case "data_cache_dir":
		cfg.DataCacheDir = value
	default:
		return fmt.Errorf("unknown or read-only configuration key: %s", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be true or false", key)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a duration such as 30s or 5m", key)
	}
	*dst = d
	return nil
}

// newConfigCmd creates the config command
func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Show, validate and edit CreditIntel settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(a)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and check the credit API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(a, cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.mgr != nil {
				fmt.Fprintln(a.out, a.mgr.Path())
				return nil
			}
			p, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (not created yet)\n", p)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List configuration keys",
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range configKeys {
				fmt.Fprintln(a.out, k)
			}
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := GetConfigValue(a.cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, v)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change a setting and save it to the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := a.mgr
			if mgr == nil {
				// a.cfg carries --api-url and --debug, which are not saved
				var err error
				mgr, err = config.NewManager(config.WithConfigPath(a.configPath), config.WithInitialConfig(config.DefaultConfig()))
				if err != nil {
					return err
				}
			}
			next := mgr.Get()
			if err := SetConfigValue(&next, args[0], args[1]); err != nil {
				return err
			}
			if err := mgr.Update(next); err != nil {
				return fmt.Errorf("rejected: %w", err)
			}
			DisplaySuccess(a.out, fmt.Sprintf("%s saved to %s", args[0], mgr.Path()))
			return nil
		},
	})

	return configCmd
}

// showConfig displays the current configuration
func showConfig(a *app) {
	cfg := a.cfg
	w := a.out
	fmt.Fprintln(w, "📋 Current CreditIntel Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	displayKeyValue(w, "Project Directory:", cfg.ProjectDir)
	displayKeyValue(w, "Results Directory:", cfg.ResultsDir)
	displayKeyValue(w, "Data Directory:", cfg.DataDir)
	displayKeyValue(w, "Cache Directory:", cfg.DataCacheDir)
	fmt.Fprintln(w)
	displayKeyValue(w, "Credit API:", cfg.APIBaseURL)
	displayKeyValue(w, "Request Timeout:", cfg.RequestTimeout)
	displayKeyValue(w, "Max Retries:", cfg.MaxRetries)
	displayKeyValue(w, "Cache Enabled:", cfg.CacheEnabled)
	displayKeyValue(w, "Cache TTL:", cfg.CacheTTL)
	displayKeyValue(w, "Offline Fallback:", cfg.OfflineFallback)
	displayKeyValue(w, "Refresh Interval:", cfg.RefreshInterval)
	fmt.Fprintln(w)
	displayKeyValue(w, "Online Tools:", cfg.OnlineTools)
	displayKeyValue(w, "Debug Mode:", cfg.Debug)
	fmt.Fprintln(w)
	displayKeyValue(w, "Store:", cfg.DBPath)
	displayKeyValue(w, "Listen Address:", cfg.ListenAddr)
	if a.mgr != nil {
		displayKeyValue(w, "Config File:", a.mgr.Path())
	} else {
		displayKeyValue(w, "Config File:", "(none, environment only)")
	}
}

// validateConfig checks the settings and that the credit API answers.
func validateConfig(a *app, cmd *cobra.Command) error {
	w := a.out
	fmt.Fprintln(w, "🔍 Validating CreditIntel Configuration...")
	fmt.Fprintln(w, "═══════════════════════════════════════")

	fmt.Fprint(w, "📁 Checking directories... ")
	if err := a.cfg.EnsureDirectories(); err != nil {
		fmt.Fprintln(w, "❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprint(w, "⚙️  Checking configuration values... ")
	if err := a.cfg.Validate(); err != nil {
		fmt.Fprintln(w, "❌")
		return err
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprintf(w, "🌊 Reaching %s... ", a.cfg.APIBaseURL)
	companies, err := a.newDataFlows().ListCompanies(cmd.Context())
	if err != nil {
		fmt.Fprintln(w, "⚠️")
		DisplayWarning(w, display.ErrorMessage(err, a.cfg.APIBaseURL))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "💡 Tips:")
		fmt.Fprintln(w, "  • Set CREDITINTEL_API_URL to point at your credit API")
		fmt.Fprintln(w, "  • Or run 'creditintel serve' for a local one")
		return nil
	}
	fmt.Fprintf(w, "✅ (%d companies)\n", len(companies))

	fmt.Fprintln(w)
	DisplaySuccess(w, "Configuration validation completed successfully!")
	return nil
}
