// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for webextc.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"webextc/internal/config"
	"webextc/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the loaded configuration, defaulted until initRootConfig runs.
	cfg = config.DefaultConfig()

	// logger is the CLI-wide structured logger.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "webextc",
	})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "webextc",
		Short: "A browser-extension manifest resolver",
		Long: TitleStyle.Render("webextc") + SubtitleStyle.Render(" - A browser-extension manifest resolver") + `

webextc resolves unpacked browser extensions: it parses manifest.json,
localizes it against the bundled _locales catalogs, and resolves every
manifest surface (background, content scripts, commands, permissions,
icons) while accumulating structured errors instead of failing fast.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Point webextc at an unpacked extension directory
  2. Validate the manifest: webextc validate ./my-extension
  3. Inspect resolved values: webextc inspect ./my-extension

` + SubtitleStyle.Render("Examples:") + `
  webextc validate ./ext          Resolve everything and report errors
  webextc validate ./ext --explain  Include remediation guidance
  webextc inspect ./ext --format json  Dump the resolved summary
  webextc icons ./ext --size 32   Show which icon files serve 32pt
  webextc config show             Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/webextc/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(iconsCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	loaded, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Config loading errors never abort the command; defaults apply.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if loaded != nil {
		cfg = loaded
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
