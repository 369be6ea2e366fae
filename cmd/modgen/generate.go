package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/config"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diagfmt"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/driver"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/observ"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [path]",
	Short: "Generate modifier variant code from Swift interface files",
	Long:  "Generate merged variant types, call-shape resolution, and dispatch code for every overloaded modifier found under the input directory. Settings come from modgen.toml; flags override it.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("input", "", "directory with *.swiftinterface files (overrides modgen.toml)")
	generateCmd.Flags().String("output", "", "directory for generated Swift files (overrides modgen.toml)")
	generateCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
	generateCmd.Flags().Bool("no-cache", false, "disable the persistent parse cache")
	generateCmd.Flags().String("summary-json", "", "write per-group summaries as JSON to a file, or - for stdout")
	generateCmd.Flags().StringSlice("exclude", nil, "operation names to skip (extends modgen.toml)")
	generateCmd.Flags().StringSlice("platform", nil, "platforms to generate for (overrides modgen.toml)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	inputFlag, err := cmd.Flags().GetString("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}
	outputFlag, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	summaryJSON, err := cmd.Flags().GetString("summary-json")
	if err != nil {
		return fmt.Errorf("failed to get summary-json flag: %w", err)
	}
	excludeFlag, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return fmt.Errorf("failed to get exclude flag: %w", err)
	}
	platformFlag, err := cmd.Flags().GetStringSlice("platform")
	if err != nil {
		return fmt.Errorf("failed to get platform flag: %w", err)
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	timings := new(observ.RunTimings)
	stopConfigure := timings.Track(observ.StageConfigure)
	opts, err := buildRunOptions(cmd, startDir, inputFlag, outputFlag, excludeFlag, platformFlag)
	stopConfigure(0)
	if err != nil {
		return err
	}
	opts.Timings = timings

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("modgen")
		if cacheErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: parse cache unavailable: %v\n", cacheErr)
		} else {
			opts.Cache = cache
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var res *driver.RunResult
	if shouldUseTUI(uiModeValue) && !quiet {
		res, err = runGenerateWithUI(ctx, opts)
	} else {
		res, err = driver.Run(ctx, opts)
	}
	if err != nil {
		return err
	}

	res.Bag.Sort()
	diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.Set, diagfmt.PrettyOpts{
		Color:   colorEnabled(),
		Context: true,
	})

	if summaryJSON != "" {
		if err := writeSummaryJSON(cmd, summaryJSON, res); err != nil {
			return err
		}
	}

	if !quiet {
		printRunReport(cmd.OutOrStdout(), res)
	}
	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timings.Summary())
	}
	if res.Bag.HasErrors() {
		return fmt.Errorf("generation finished with errors (%s)", diagfmt.Stats(res.Bag))
	}
	return nil
}

// buildRunOptions layers flags over the walked-up modgen.toml. The
// input directory must come from one of the two.
func buildRunOptions(cmd *cobra.Command, startDir, inputFlag, outputFlag string, excludeFlag, platformFlag []string) (driver.Options, error) {
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	opts := driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Exclude:        excludeFlag,
		Platforms:      platformFlag,
	}

	manifest, found, err := config.Load(startDir)
	if err != nil {
		return driver.Options{}, err
	}
	if found {
		opts.InputDir = manifest.InputDir()
		opts.OutputDir = manifest.OutputDir()
		opts.Extra = manifest.Config.Erasure.Extra
		opts.Exclude = append(manifest.Config.Generate.Exclude, excludeFlag...)
		if len(platformFlag) == 0 {
			opts.Platforms = manifest.Config.Generate.Platforms
		}
	}
	if inputFlag != "" {
		opts.InputDir = inputFlag
	}
	if outputFlag != "" {
		opts.OutputDir = outputFlag
	}
	if opts.InputDir == "" {
		return driver.Options{}, fmt.Errorf("no input directory: pass --input or add [input] dir to %s", config.ManifestName)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = config.DefaultOutputDir
	}
	return opts, nil
}

func writeSummaryJSON(cmd *cobra.Command, dest string, res *driver.RunResult) error {
	out := cmd.OutOrStdout()
	if dest != "-" {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Summaries)
}

func printRunReport(out io.Writer, res *driver.RunResult) {
	parsed, cached := 0, 0
	for _, f := range res.Files {
		parsed++
		if f.FromCache {
			cached++
		}
	}
	fmt.Fprintf(out, "parsed %d file(s) (%d cached)\n", parsed, cached)

	failed := 0
	for _, g := range res.Groups {
		if g.Err != nil {
			failed++
			continue
		}
		fmt.Fprintf(out, "  %s -> %s (%d overload(s))\n", g.Operation, g.GeneratedName, g.SignatureCount)
	}
	fmt.Fprintf(out, "wrote %d file(s)", len(res.Written))
	if failed > 0 {
		fmt.Fprintf(out, ", %d group(s) failed", failed)
	}
	if stats := diagfmt.Stats(res.Bag); stats != "" {
		fmt.Fprintf(out, ", %s", stats)
	}
	fmt.Fprintln(out)
}
