package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/cfgchain/config"
	"github.com/sagarc03/cfgchain/output"
)

var errNotSet = errors.New("not set")

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print the resolved value of a logical name",
	Long: `Print the resolved value of a logical name.

Exits with an error when no source provides a value.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Resolve every known logical name",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var explainCmd = &cobra.Command{
	Use:   "explain <name>",
	Short: "Show which source supplied a value",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(getCmd, listCmd, explainCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	sess, cleanup, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	name := args[0]
	value, ok, err := sess.GetConfigVariable(ctx, name)
	if err != nil {
		return fmt.Errorf("get %s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", name, errNotSet)
	}

	return getFormatter().FormatValue(os.Stdout, name, value)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	sess, cleanup, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	store := sess.Store()
	names := store.Names()
	entries := make([]output.Entry, 0, len(names))
	for _, name := range names {
		res, err := store.Explain(ctx, name)
		entries = append(entries, output.Entry{Resolution: res, Err: err})
	}

	return getFormatter().FormatList(os.Stdout, entries)
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	sess, cleanup, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := sess.Store().Explain(ctx, args[0])
	if err != nil {
		return err
	}

	return getFormatter().FormatExplain(os.Stdout, res)
}
