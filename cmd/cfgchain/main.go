package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/cfgchain/config"
	"github.com/sagarc03/cfgchain/output"
)

var (
	version = "dev"

	cfgFile    string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "cfgchain",
	Version: version,
	Short:   "Resolve layered configuration values",
	Long: `cfgchain resolves logical configuration names through a fixed chain:
session instance variable, environment variable, profile file, default.

The first source that has a value wins, even when that value is false, 0
or empty. Instance variables persist per session when database.enabled is set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if cfgFile != "" {
			files = []string{cfgFile}
		}
		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "tool settings file (default: ./cfgchain.yaml)")
	flags.String("session", "", "session name for persistent instance variables (env: CFGCHAIN_SESSION_NAME)")
	flags.String("profile", "", "profile to read from the profile file (env: CFGCHAIN_SESSION_PROFILE)")
	flags.String("config-file", "", "profile file path (env: CFGCHAIN_SESSION_CONFIG_FILE)")
	flags.String("definitions", "", "YAML file of extra logical names (env: CFGCHAIN_SESSION_DEFINITIONS)")
	flags.String("db-type", "", "database type: sqlite, postgres (env: CFGCHAIN_DATABASE_TYPE)")
	flags.String("db-dsn", "", "database connection string (env: CFGCHAIN_DATABASE_DSN)")
	flags.String("db-table", "", "instance variable table (env: CFGCHAIN_DATABASE_TABLE)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text, json")
	flags.BoolVar(&jsonOutput, "json", false, "output as JSON")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() output.Formatter {
	return output.NewFormatter(jsonOutput, quiet)
}
