// Package cmd wires the biolens command-line interface.
package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/biolens/biolens/internal/config"
	"github.com/biolens/biolens/internal/inat"
	"github.com/biolens/biolens/internal/observability"
	"github.com/biolens/biolens/internal/tools"
)

var (
	cfgFile string
	verbose bool

	// Version info set by the main package.
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package to set version information.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "biolens",
	Short: "Biodiversity query tools backed by the iNaturalist API",
	Long: `biolens exposes a fixed set of biodiversity query tools — observations,
species counts, taxa, places, projects, and cross-resource search — over a
rate-governed client for the public iNaturalist API.

Use the subcommands to perform specific operations.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/biolens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig loads configuration and initializes the CLI logger.
func initConfig() {
	observability.InitCLILogger(verbose)

	if _, err := config.Load(cfgFile); err != nil {
		observability.CLILogger.Fatal("failed to load configuration", zap.Error(err))
	}
}

// newRegistry builds the tool dispatch table from the loaded configuration.
func newRegistry(logger *zap.Logger) *tools.Registry {
	cfg := config.Get()

	client := &inat.Client{
		BaseURL:    cfg.Upstream.BaseURL,
		UserAgent:  cfg.Upstream.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.Upstream.Timeout},
		Governor:   inat.NewGovernor(cfg.Upstream.RateLimit, cfg.Upstream.RateWindow),
		Logger:     logger,
		MaxRetries: cfg.Upstream.MaxRetries,
	}

	service := &tools.Service{
		Client:   client,
		Resolver: &inat.Resolver{Client: client},
		Logger:   logger,
	}
	return tools.NewRegistry(service)
}
