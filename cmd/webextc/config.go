// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"webextc/internal/config"
	"webextc/internal/issue"

	"github.com/spf13/cobra"
)

// configCmd is the `webextc config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage webextc configuration",
	Long: `Manage webextc configuration.

Configuration is stored in:
  - Linux: ~/.config/webextc/config.cue
  - macOS: ~/Library/Application Support/webextc/config.cue
  - Windows: %APPDATA%\webextc\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfigForCommand(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(config.GenerateCUE(loaded))
			return nil
		},
	})
}

// loadConfigForCommand loads configuration for config subcommands, honoring
// the global --config flag.
func loadConfigForCommand(ctx context.Context) (*config.Config, error) {
	return config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}

func showConfig(ctx context.Context) error {
	loaded, err := loadConfigForCommand(ctx)
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render(glamourStyle())
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	// Each call derives the path from the standard config directory; the
	// provider does not cache resolved paths.
	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil && fileExistsCheck(cfgDir+"/config.cue") {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgDir+"/config.cue")
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("platform"), valueStyle.Render(loaded.Platform.String()))
	fmt.Printf("%s: %s\n", keyStyle.Render("display_scales"), valueStyle.Render(formatScales(loaded.DisplayScales)))
	if loaded.DefaultLocale != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("default_locale"), valueStyle.Render(string(loaded.DefaultLocale)))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("default_locale"), SubtitleStyle.Render("(none)"))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("output"))
	fmt.Printf("  format: %s\n", valueStyle.Render(loaded.Output.Format.String()))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(loaded.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(strconv.FormatBool(loaded.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s/config.cue\n", cfgDir)
	return nil
}

func setConfigValue(ctx context.Context, key, value string) error {
	loaded, err := loadConfigForCommand(ctx)
	if err != nil {
		return err
	}

	switch key {
	case "platform":
		mode := config.PlatformMode(value)
		if valid, errs := mode.IsValid(); !valid {
			return errs[0]
		}
		loaded.Platform = mode

	case "default_locale":
		locale := config.LocaleCode(value)
		if valid, errs := locale.IsValid(); !valid {
			return errs[0]
		}
		loaded.DefaultLocale = locale

	case "output.format":
		format := config.OutputFormat(value)
		if valid, errs := format.IsValid(); !valid {
			return errs[0]
		}
		loaded.Output.Format = format

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if valid, errs := scheme.IsValid(); !valid {
			return errs[0]
		}
		loaded.UI.ColorScheme = scheme

	case "ui.verbose":
		loaded.UI.Verbose = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: platform, default_locale, output.format, ui.color_scheme, ui.verbose", key)
	}

	if err := config.Save(loaded); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(key), value)
	return nil
}

func formatScales(scales []float64) string {
	if len(scales) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(scales))
	for _, scale := range scales {
		parts = append(parts, strconv.FormatFloat(scale, 'g', -1, 64))
	}
	return strings.Join(parts, ", ")
}

func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
