package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/cfgchain/config"
	"github.com/sagarc03/cfgchain/output"
	"github.com/sagarc03/cfgchain/profile"
	"github.com/sagarc03/cfgchain/session"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the profile file",
	Long: `Manage profiles in the profile file.

The file is the one the config_file chain resolves to: --config-file,
then AWS_CONFIG_FILE, then ~/.aws/config. The active profile comes from
--profile, then AWS_DEFAULT_PROFILE or AWS_PROFILE, then "default".`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Long: `List all profiles in the profile file.

The active profile is marked with an asterisk (*).`,
	Args: cobra.NoArgs,
	RunE: runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile settings",
	Long: `Show the settings of a profile, the active profile when no name is given.
Secrets are masked unless --show-secrets is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set <profile> <key> [value]",
	Short: "Set a profile setting",
	Long: `Set a setting in a profile, creating the profile if needed.

When the value is omitted you are prompted for it. Values are read as YAML.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runProfileSet,
}

var profileUnsetCmd = &cobra.Command{
	Use:   "unset <profile> <key>",
	Short: "Remove a profile setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileUnset,
}

var profileRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runProfileRemove,
}

var (
	showSecrets   bool
	profileSetRaw bool
	assumeYes     bool
)

func init() {
	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileSetCmd, profileUnsetCmd, profileRemoveCmd)

	profileShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	profileSetCmd.Flags().BoolVar(&profileSetRaw, "string", false, "store the value as a string")
	profileRemoveCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(profileCmd)
}

// openProfileFile loads the profile file the session resolves to. A missing
// file yields an empty one that Save will create.
func openProfileFile(ctx context.Context) (*session.Session, *profile.File, string, error) {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return nil, nil, "", err
	}

	// Profile commands never read instance variables from the database.
	local := *cfg
	local.Database.Enabled = false

	sess, _, err := openSession(ctx, &local)
	if err != nil {
		return nil, nil, "", err
	}

	path, err := sess.ConfigFilePath(ctx)
	if err != nil {
		return nil, nil, "", err
	}

	f, err := profile.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, "", fmt.Errorf("load profile file: %w", err)
		}
		f = profile.New()
	}

	return sess, f, path, nil
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sess, f, _, err := openProfileFile(ctx)
	if err != nil {
		return err
	}

	active, err := sess.ProfileName(ctx)
	if err != nil {
		return err
	}

	return getFormatter().FormatProfileList(os.Stdout, f.Names(), active)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, f, _, err := openProfileFile(ctx)
	if err != nil {
		return err
	}

	active, err := sess.ProfileName(ctx)
	if err != nil {
		return err
	}

	name := active
	if len(args) > 0 {
		name = args[0]
	}

	settings, ok := f.Section(name)
	if !ok {
		return fmt.Errorf("%w: %s", profile.ErrProfileNotFound, name)
	}

	return getFormatter().FormatProfileShow(os.Stdout, name, settings, name == active, showSecrets)
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, f, path, err := openProfileFile(ctx)
	if err != nil {
		return err
	}

	name, key := args[0], args[1]

	var input string
	if len(args) == 3 {
		input = args[2]
	} else {
		current := ""
		if section, ok := f.Section(name); ok {
			if v, ok := section[key]; ok {
				current = output.FormatAny(v)
			}
		}
		prompt := promptui.Prompt{
			Label:   fmt.Sprintf("%s.%s", name, key),
			Default: current,
		}
		input, err = prompt.Run()
		if err != nil {
			return handlePromptError(err)
		}
	}

	value, err := parseValue(input, profileSetRaw)
	if err != nil {
		return err
	}

	f.Set(name, key, value)
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save profile file: %w", err)
	}

	return getFormatter().FormatChange(os.Stdout, output.Change{Scope: "profile " + name, Name: key, Value: value})
}

func runProfileUnset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, f, path, err := openProfileFile(ctx)
	if err != nil {
		return err
	}

	name, key := args[0], args[1]
	if err := f.Unset(name, key); err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save profile file: %w", err)
	}

	return getFormatter().FormatChange(os.Stdout, output.Change{Scope: "profile " + name, Name: key, Removed: true})
}

func runProfileRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, f, path, err := openProfileFile(ctx)
	if err != nil {
		return err
	}

	name := args[0]
	if _, ok := f.Section(name); !ok {
		return fmt.Errorf("%w: %s", profile.ErrProfileNotFound, name)
	}

	if !assumeYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Remove profile '%s'", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	if err := f.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save profile file: %w", err)
	}

	if !quiet && !jsonOutput {
		fmt.Printf("Profile '%s' removed.\n", name)
	}
	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
