package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diagfmt"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/driver"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/naming"
)

var listCmd = &cobra.Command{
	Use:   "list [flags] [path]",
	Short: "List overload groups without generating code",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("input", "", "directory with *.swiftinterface files (overrides modgen.toml)")
	listCmd.Flags().StringSlice("exclude", nil, "operation names to skip (extends modgen.toml)")
	listCmd.Flags().StringSlice("platform", nil, "platforms to generate for (overrides modgen.toml)")
}

func runList(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	inputFlag, err := cmd.Flags().GetString("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}
	excludeFlag, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return fmt.Errorf("failed to get exclude flag: %w", err)
	}
	platformFlag, err := cmd.Flags().GetStringSlice("platform")
	if err != nil {
		return fmt.Errorf("failed to get platform flag: %w", err)
	}

	opts, err := buildRunOptions(cmd, startDir, inputFlag, "", excludeFlag, platformFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	set, groups, bag, err := driver.ListGroups(ctx, opts)
	if err != nil {
		return err
	}

	bag.Sort()
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, set, diagfmt.PrettyOpts{
		Color:   colorEnabled(),
		Context: true,
	})

	out := cmd.OutOrStdout()
	for _, group := range groups {
		fmt.Fprintf(out, "%s -> %s (%d overload(s))\n",
			group.Name, naming.TypeName(group.Name), len(group.Signatures))
	}
	fmt.Fprintf(out, "%d group(s)\n", len(groups))

	if bag.HasErrors() {
		return fmt.Errorf("listing finished with errors (%s)", diagfmt.Stats(bag))
	}
	return nil
}
