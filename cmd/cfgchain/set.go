package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/cfgchain/config"
	"github.com/sagarc03/cfgchain/output"
)

var setCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Set a persistent session instance variable",
	Long: `Set a session instance variable. Instance variables take precedence
over environment variables, the profile file and defaults.

The value is read as YAML, so "false", "3" and "[a, b]" keep their types.
Use --string to store the argument verbatim.

Requires database.enabled; the variable is stored under the session name.`,
	Example: `  cfgchain --session ci set region us-west-2
  cfgchain set parameter_validation false
  cfgchain set --string data_path 0755`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var unsetCmd = &cobra.Command{
	Use:   "unset <name>",
	Short: "Remove a persistent session instance variable",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnset,
}

var setRaw bool

func init() {
	setCmd.Flags().BoolVar(&setRaw, "string", false, "store the value as a string")
	rootCmd.AddCommand(setCmd, unsetCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("set: %w", errDatabaseDisabled)
	}

	value, err := parseValue(args[1], setRaw)
	if err != nil {
		return err
	}

	sess, cleanup, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := sess.SetInstanceVariable(ctx, args[0], value); err != nil {
		return err
	}

	return getFormatter().FormatChange(os.Stdout, output.Change{
		Scope: "session " + cfg.Session.Name,
		Name:  args[0],
		Value: value,
	})
}

func runUnset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("unset: %w", errDatabaseDisabled)
	}

	sess, cleanup, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := sess.DeleteInstanceVariable(ctx, args[0]); err != nil {
		return err
	}

	return getFormatter().FormatChange(os.Stdout, output.Change{
		Scope:   "session " + cfg.Session.Name,
		Name:    args[0],
		Removed: true,
	})
}
