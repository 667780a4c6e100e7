package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ideafactory/ideas/internal/client"
	"github.com/ideafactory/ideas/internal/config"
	"github.com/ideafactory/ideas/internal/logging"
	"github.com/ideafactory/ideas/internal/session"
	"github.com/ideafactory/ideas/internal/ui"
)

var (
	configFile string
	jsonOutput bool
	verbose    bool
	noColor    bool

	cfg     *config.Config
	logger  = zap.NewNop()
	state   *session.State
	profile session.Profile

	ideasClient client.IdeasClient
)

// credentials selects which token of the active profile a command sends.
type credentials int

const (
	userCredentials credentials = iota
	adminCredentials
)

// loadLocal reads configuration, starts logging and opens the state
// directory. It is all that profile and config commands need.
func loadLocal(cmd *cobra.Command) error {
	var err error
	cfg, err = config.LoadFile(configFile)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		if cfg.AdminAPIURL == cfg.APIURL {
			cfg.AdminAPIURL = v
		}
		cfg.APIURL = v
	}

	logger, err = logging.New(logging.Level(verbose, cfg.LogLevel))
	if err != nil {
		return err
	}
	if noColor || !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}

	state, err = session.Open(cfg.StateDir)
	if err != nil {
		return err
	}
	_, profile, err = state.Active()
	return err
}

// connect runs loadLocal and then builds the API client for the active
// profile, authenticated with the selected credentials.
func connect(cmd *cobra.Command, creds credentials) error {
	if err := loadLocal(cmd); err != nil {
		return err
	}

	apiURL := cfg.APIURL
	if profile.APIURL != "" && !cmd.Flags().Changed("api-url") {
		apiURL = profile.APIURL
	}
	adminURL := cfg.AdminAPIURL
	if profile.AdminURL != "" {
		adminURL = profile.AdminURL
	} else if adminURL == cfg.APIURL {
		adminURL = apiURL
	}

	opts := []client.Option{
		client.WithAdminURL(adminURL),
		client.WithTimeout(cfg.Timeout),
		client.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		client.WithCache(cfg.CacheTTL),
		client.WithLogger(logger.Named("http")),
	}
	switch creds {
	case adminCredentials:
		opts = append(opts, client.WithToken(profile.AdminToken))
	default:
		opts = append(opts, client.WithToken(profile.Token))
	}
	ideasClient = client.NewHTTPClient(apiURL, opts...)
	return nil
}

func natsURL() string {
	if profile.NATSURL != "" {
		return profile.NATSURL
	}
	return cfg.NATSURL
}

var rootCmd = &cobra.Command{
	Use:   "ideas <command>",
	Short: "Browse, filter and submit business ideas",
	Long: `ideas is a command-line client for the 10000 Ideas catalog.

Browse and filter the catalog, keep favorites, submit your own ideas, and
manage the catalog as an administrator.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return connect(cmd, userCredentials)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if ideasClient != nil {
			ideasClient.Close()
		}
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/ideas/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides config and profile)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "catalog", Title: "Catalog:"},
		&cobra.Group{ID: "submit", Title: "Submissions:"},
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "admin", Title: "Administration:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Catalog
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(reviewCmd)

	// Submissions
	rootCmd.AddCommand(submitCmd)

	// Account
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(googleLoginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(verifyEmailCmd)
	rootCmd.AddCommand(accountProfileCmd)

	// Administration
	rootCmd.AddCommand(adminCmd)

	// System
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ae *client.AuthError
		if errors.As(err, &ae) {
			if hint := ae.Code.Hint(); hint != "" {
				fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
			}
		}
		os.Exit(1)
	}
}
