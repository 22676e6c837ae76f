package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	analyzeCmd "github.com/mpapenbr/pitstop-service-go/pkg/cmd/analyze"
	importCmd "github.com/mpapenbr/pitstop-service-go/pkg/cmd/importcmd"
	migrateCmd "github.com/mpapenbr/pitstop-service-go/pkg/cmd/migrate"
	serverCmd "github.com/mpapenbr/pitstop-service-go/pkg/cmd/server"
	"github.com/mpapenbr/pitstop-service-go/pkg/config"
	"github.com/mpapenbr/pitstop-service-go/pkg/provider/cache"
	"github.com/mpapenbr/pitstop-service-go/pkg/provider/openf1"
	"github.com/mpapenbr/pitstop-service-go/version"
)

const envPrefix = "PITSTOP"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "pitstop",
	Short:   "Pit stop strategy and telemetry analysis",
	Long:    ``,
	Version: version.FullVersion,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:funlen // by design
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.pitstop.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		"postgresql://DB_USERNAME:DB_USER_PASSWORD@DB_HOST:5432/pitstop",
		"Connection string for the database")
	rootCmd.PersistentFlags().StringVar(&config.NatsURL, "nats-url",
		"nats://localhost:4222",
		"URL of the NATS server (used by the nats response cache)")
	rootCmd.PersistentFlags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for other services to be ready")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"info",
		"controls the log level for sql methods")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"filter rules for named loggers (example: \"debug:analysis.* info:*\")")
	rootCmd.PersistentFlags().StringVar(&config.Provider,
		"provider",
		config.ProviderOpenF1,
		"session data source (openf1, db)")
	rootCmd.PersistentFlags().StringVar(&config.OpenF1URL,
		"openf1-url",
		openf1.DefaultBaseURL,
		"base URL of the OpenF1 API")
	rootCmd.PersistentFlags().StringVar(&config.CacheKind,
		"cache",
		string(cache.KindFile),
		"response cache for provider data (file, nats, none)")
	rootCmd.PersistentFlags().StringVar(&config.CacheDir,
		"cache-dir",
		cache.DefaultDir,
		"directory of the file response cache")
	rootCmd.PersistentFlags().StringVar(&config.CacheTTL,
		"cache-ttl",
		"",
		"lifetime of cached responses (empty: no expiry)")
	rootCmd.PersistentFlags().IntVar(&config.ReferenceSeason,
		"reference-season",
		2023,
		"season used for strategy predictions and circuit layouts")
	rootCmd.PersistentFlags().StringVar(&config.CatalogFile,
		"catalog",
		"",
		"yaml file with tracks, drivers and seasons (default: built in catalog)")

	// add commands here
	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
	rootCmd.AddCommand(serverCmd.NewServerCmd())
	rootCmd.AddCommand(importCmd.NewImportCmd())
	rootCmd.AddCommand(analyzeCmd.NewAnalyzeCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pitstop" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pitstop")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range allCommands(rootCmd) {
		bindFlags(cmd, viper.GetViper())
	}
}

func allCommands(cmd *cobra.Command) []*cobra.Command {
	ret := []*cobra.Command{}
	for _, c := range cmd.Commands() {
		ret = append(ret, c)
		ret = append(ret, allCommands(c)...)
	}
	return ret
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --cache-dir to PITSTOP_CACHE_DIR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
