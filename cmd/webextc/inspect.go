// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"webextc/internal/config"
	"webextc/pkg/manifest"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	// outputFormat overrides the configured output format when non-empty.
	outputFormat string

	inspectCmd = &cobra.Command{
		Use:   "inspect <extension>",
		Short: "Print the fully resolved manifest summary",
		Long: `Print the fully resolved manifest summary.

Every manifest surface is resolved before printing, so the summary always
includes the complete error ledger alongside the resolved values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
)

func init() {
	inspectCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: text, json, or toml (default from config)")
}

// Summary mirrors the descriptor's resolved surfaces in a form that
// serializes cleanly to JSON and TOML.
type (
	manifestSummary struct {
		Name            string             `json:"name" toml:"name"`
		ShortName       string             `json:"short_name,omitempty" toml:"short_name,omitempty"`
		Version         string             `json:"version" toml:"version"`
		VersionDisplay  string             `json:"version_display,omitempty" toml:"version_display,omitempty"`
		Description     string             `json:"description,omitempty" toml:"description,omitempty"`
		DefaultLocale   string             `json:"default_locale,omitempty" toml:"default_locale,omitempty"`
		ManifestVersion int                `json:"manifest_version" toml:"manifest_version"`
		Platform        string             `json:"platform" toml:"platform"`
		Action          *actionSummary     `json:"action,omitempty" toml:"action,omitempty"`
		Background      *backgroundSummary `json:"background,omitempty" toml:"background,omitempty"`
		Commands        []commandSummary   `json:"commands,omitempty" toml:"commands,omitempty"`
		ContentScripts  []scriptSummary    `json:"content_scripts,omitempty" toml:"content_scripts,omitempty"`
		Permissions     permissionSummary  `json:"permissions" toml:"permissions"`
		Connectable     *connectSummary    `json:"externally_connectable,omitempty" toml:"externally_connectable,omitempty"`
		Rulesets        []rulesetSummary   `json:"declarative_net_request,omitempty" toml:"declarative_net_request,omitempty"`
		WebAccessible   []exposedSummary   `json:"web_accessible_resources,omitempty" toml:"web_accessible_resources,omitempty"`
		CSP             string             `json:"content_security_policy" toml:"content_security_policy"`
		Errors          []errorSummary     `json:"errors,omitempty" toml:"errors,omitempty"`
	}

	actionSummary struct {
		Label     string `json:"label,omitempty" toml:"label,omitempty"`
		PopupPath string `json:"popup_path,omitempty" toml:"popup_path,omitempty"`
	}

	backgroundSummary struct {
		Environment   string   `json:"environment" toml:"environment"`
		ScriptPaths   []string `json:"script_paths,omitempty" toml:"script_paths,omitempty"`
		PagePath      string   `json:"page_path,omitempty" toml:"page_path,omitempty"`
		WorkerPath    string   `json:"service_worker_path,omitempty" toml:"service_worker_path,omitempty"`
		UsesModules   bool     `json:"uses_modules" toml:"uses_modules"`
		IsPersistent  bool     `json:"is_persistent" toml:"is_persistent"`
		GeneratedPath string   `json:"generated_path,omitempty" toml:"generated_path,omitempty"`
	}

	commandSummary struct {
		Identifier  string `json:"identifier" toml:"identifier"`
		Description string `json:"description,omitempty" toml:"description,omitempty"`
		Shortcut    string `json:"shortcut,omitempty" toml:"shortcut,omitempty"`
	}

	scriptSummary struct {
		IncludePatterns []string `json:"include_patterns" toml:"include_patterns"`
		ExcludePatterns []string `json:"exclude_patterns,omitempty" toml:"exclude_patterns,omitempty"`
		ScriptPaths     []string `json:"script_paths,omitempty" toml:"script_paths,omitempty"`
		StyleSheetPaths []string `json:"style_sheet_paths,omitempty" toml:"style_sheet_paths,omitempty"`
		AllFrames       bool     `json:"all_frames" toml:"all_frames"`
		InjectionTime   string   `json:"injection_time" toml:"injection_time"`
		World           string   `json:"world" toml:"world"`
	}

	permissionSummary struct {
		Requested         []string `json:"requested,omitempty" toml:"requested,omitempty"`
		Optional          []string `json:"optional,omitempty" toml:"optional,omitempty"`
		RequestedPatterns []string `json:"requested_patterns,omitempty" toml:"requested_patterns,omitempty"`
		OptionalPatterns  []string `json:"optional_patterns,omitempty" toml:"optional_patterns,omitempty"`
	}

	connectSummary struct {
		MatchPatterns []string `json:"match_patterns,omitempty" toml:"match_patterns,omitempty"`
		ExtensionIDs  []string `json:"extension_ids,omitempty" toml:"extension_ids,omitempty"`
	}

	rulesetSummary struct {
		ID      string `json:"id" toml:"id"`
		Enabled bool   `json:"enabled" toml:"enabled"`
		Path    string `json:"path" toml:"path"`
	}

	exposedSummary struct {
		Resources     []string `json:"resources" toml:"resources"`
		MatchPatterns []string `json:"match_patterns,omitempty" toml:"match_patterns,omitempty"`
		ExtensionIDs  []string `json:"extension_ids,omitempty" toml:"extension_ids,omitempty"`
	}

	errorSummary struct {
		Kind    string `json:"kind" toml:"kind"`
		Message string `json:"message" toml:"message"`
	}
)

func runInspect(target string) error {
	d, err := loadDescriptor(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 2, Err: err}
	}

	format := cfg.Output.Format
	if outputFormat != "" {
		format = config.OutputFormat(outputFormat)
		if valid, errs := format.IsValid(); !valid {
			return errs[0]
		}
	}

	summary := buildSummary(d)
	switch format {
	case config.OutputJSON:
		encoded, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("encode summary as JSON: %w", err)
		}
		fmt.Println(string(encoded))
	case config.OutputTOML:
		encoded, err := toml.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encode summary as TOML: %w", err)
		}
		fmt.Print(string(encoded))
	default:
		printTextSummary(summary)
	}
	return nil
}

func buildSummary(d *manifest.Descriptor) manifestSummary {
	// Errors() forces full resolution, so the ledger below is complete.
	records := d.Errors()

	summary := manifestSummary{
		Name:            d.Name(),
		ShortName:       d.ShortName(),
		Version:         d.Version(),
		VersionDisplay:  d.VersionDisplay(),
		Description:     d.Description(),
		DefaultLocale:   d.DefaultLocale(),
		ManifestVersion: d.SchemaVersion(),
		Platform:        cfg.Platform.String(),
		CSP:             d.ContentSecurityPolicy(),
	}

	if d.HasAction() {
		summary.Action = &actionSummary{
			Label:     d.ActionLabel(),
			PopupPath: d.ActionPopupPath(),
		}
	}

	if content := d.BackgroundContent(); d.HasBackgroundContent() && content != nil {
		summary.Background = &backgroundSummary{
			Environment:   string(content.Environment),
			ScriptPaths:   content.ScriptPaths,
			PagePath:      content.PagePath,
			WorkerPath:    content.ServiceWorkerPath,
			UsesModules:   content.UsesModules,
			IsPersistent:  content.IsPersistent,
			GeneratedPath: content.GeneratedContentPath(),
		}
	}

	for _, command := range d.Commands() {
		summary.Commands = append(summary.Commands, commandSummary{
			Identifier:  command.Identifier,
			Description: command.Description,
			Shortcut:    formatShortcut(command),
		})
	}

	for _, rule := range d.ContentScripts() {
		summary.ContentScripts = append(summary.ContentScripts, scriptSummary{
			IncludePatterns: patternSetStrings(rule.IncludePatterns),
			ExcludePatterns: patternSetStrings(rule.ExcludePatterns),
			ScriptPaths:     rule.ScriptPaths,
			StyleSheetPaths: rule.StyleSheetPaths,
			AllFrames:       rule.AllFrames,
			InjectionTime:   string(rule.InjectionTime),
			World:           string(rule.World),
		})
	}

	summary.Permissions = permissionSummary{
		Requested:         d.RequestedPermissions(),
		Optional:          d.OptionalPermissions(),
		RequestedPatterns: patternStrings(d.RequestedPermissionMatchPatterns()),
		OptionalPatterns:  patternStrings(d.OptionalPermissionMatchPatterns()),
	}

	if connectable := d.ExternallyConnectable(); len(connectable.MatchPatterns) > 0 || len(connectable.ExtensionIDs) > 0 {
		summary.Connectable = &connectSummary{
			MatchPatterns: patternStrings(connectable.MatchPatterns),
			ExtensionIDs:  connectable.ExtensionIDs,
		}
	}

	for _, ruleset := range d.DeclarativeNetRequestRulesets() {
		summary.Rulesets = append(summary.Rulesets, rulesetSummary{
			ID:      ruleset.ID,
			Enabled: ruleset.Enabled,
			Path:    ruleset.Path,
		})
	}

	for _, entry := range d.WebAccessibleResources() {
		summary.WebAccessible = append(summary.WebAccessible, exposedSummary{
			Resources:     entry.Resources,
			MatchPatterns: patternStrings(entry.MatchPatterns),
			ExtensionIDs:  entry.ExtensionIDs,
		})
	}

	for _, record := range records {
		summary.Errors = append(summary.Errors, errorSummary{
			Kind:    string(record.Kind),
			Message: record.Message,
		})
	}

	return summary
}

func patternStrings(patterns []manifest.MatchPattern) []string {
	if len(patterns) == 0 {
		return nil
	}
	out := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		out = append(out, pattern.String())
	}
	return out
}

func patternSetStrings(set *manifest.PatternSet) []string {
	if set == nil {
		return nil
	}
	return patternStrings(set.Patterns())
}

// formatShortcut renders a command's shortcut as "Modifier+Key" text.
func formatShortcut(command manifest.Command) string {
	if !command.HasShortcut() {
		return ""
	}
	var parts []string
	for _, flag := range []struct {
		bit  manifest.ModifierFlags
		name string
	}{
		{manifest.ModifierCommand, "Ctrl"},
		{manifest.ModifierControl, "MacCtrl"},
		{manifest.ModifierOption, "Alt"},
		{manifest.ModifierShift, "Shift"},
	} {
		if command.Modifiers&flag.bit != 0 {
			parts = append(parts, flag.name)
		}
	}
	parts = append(parts, command.ActivationKey)
	out := parts[0]
	for _, part := range parts[1:] {
		out += "+" + part
	}
	return out
}

func printTextSummary(summary manifestSummary) {
	fmt.Println(TitleStyle.Render(summary.Name) + SubtitleStyle.Render(" v"+summary.Version))
	if summary.Description != "" {
		fmt.Println(SubtitleStyle.Render(summary.Description))
	}
	fmt.Println()

	fmt.Printf("%s: %d\n", CmdStyle.Render("manifest_version"), summary.ManifestVersion)
	fmt.Printf("%s: %s\n", CmdStyle.Render("platform"), summary.Platform)
	if summary.DefaultLocale != "" {
		fmt.Printf("%s: %s\n", CmdStyle.Render("default_locale"), summary.DefaultLocale)
	}
	fmt.Printf("%s: %s\n", CmdStyle.Render("csp"), summary.CSP)

	if summary.Action != nil {
		fmt.Println()
		fmt.Printf("%s:\n", CmdStyle.Render("action"))
		fmt.Printf("  label: %s\n", summary.Action.Label)
		if summary.Action.PopupPath != "" {
			fmt.Printf("  popup: %s\n", summary.Action.PopupPath)
		}
	}

	if summary.Background != nil {
		fmt.Println()
		fmt.Printf("%s:\n", CmdStyle.Render("background"))
		fmt.Printf("  environment: %s\n", summary.Background.Environment)
		if len(summary.Background.ScriptPaths) > 0 {
			fmt.Printf("  scripts: %v\n", summary.Background.ScriptPaths)
		}
		if summary.Background.PagePath != "" {
			fmt.Printf("  page: %s\n", summary.Background.PagePath)
		}
		if summary.Background.WorkerPath != "" {
			fmt.Printf("  service_worker: %s\n", summary.Background.WorkerPath)
		}
		fmt.Printf("  persistent: %v\n", summary.Background.IsPersistent)
	}

	if len(summary.Commands) > 0 {
		fmt.Println()
		fmt.Printf("%s:\n", CmdStyle.Render("commands"))
		for _, command := range summary.Commands {
			shortcut := command.Shortcut
			if shortcut == "" {
				shortcut = SubtitleStyle.Render("(unassigned)")
			}
			fmt.Printf("  - %s: %s\n", command.Identifier, shortcut)
		}
	}

	if len(summary.ContentScripts) > 0 {
		fmt.Println()
		fmt.Printf("%s:\n", CmdStyle.Render("content_scripts"))
		for index, rule := range summary.ContentScripts {
			fmt.Printf("  [%d] matches=%v scripts=%d styles=%d at=%s\n",
				index, rule.IncludePatterns, len(rule.ScriptPaths), len(rule.StyleSheetPaths), rule.InjectionTime)
		}
	}

	fmt.Println()
	fmt.Printf("%s:\n", CmdStyle.Render("permissions"))
	if len(summary.Permissions.Requested) == 0 && len(summary.Permissions.RequestedPatterns) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none requested)"))
	}
	for _, permission := range summary.Permissions.Requested {
		fmt.Printf("  - %s\n", permission)
	}
	for _, pattern := range summary.Permissions.RequestedPatterns {
		fmt.Printf("  - %s\n", pattern)
	}

	if len(summary.Rulesets) > 0 {
		fmt.Println()
		fmt.Printf("%s:\n", CmdStyle.Render("declarative_net_request"))
		for _, ruleset := range summary.Rulesets {
			state := "disabled"
			if ruleset.Enabled {
				state = "enabled"
			}
			fmt.Printf("  - %s (%s): %s\n", ruleset.ID, state, ruleset.Path)
		}
	}

	if len(summary.Errors) > 0 {
		fmt.Println()
		fmt.Println(ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(summary.Errors))))
		for _, record := range summary.Errors {
			fmt.Printf("  %s %s\n", ErrorStyle.Render("["+record.Kind+"]"), record.Message)
		}
	} else {
		fmt.Println()
		fmt.Printf("%s no errors\n", SuccessStyle.Render("✓"))
	}
}
