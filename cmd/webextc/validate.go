// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"webextc/internal/issue"
	"webextc/pkg/manifest"

	"github.com/spf13/cobra"
)

var (
	// explain enables rendered remediation guidance per error kind.
	explain bool

	validateCmd = &cobra.Command{
		Use:   "validate <extension>",
		Short: "Resolve every manifest surface and report accumulated errors",
		Long: `Resolve every manifest surface and report accumulated errors.

Resolution never stops at the first problem: all resolvers run and every
structural error is collected. The command exits non-zero when the ledger
is non-empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
)

func init() {
	validateCmd.Flags().BoolVar(&explain, "explain", false, "render remediation guidance for each error kind")
}

func runValidate(target string) error {
	d, err := loadDescriptor(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 2, Err: err}
	}

	records := d.Errors()
	if len(records) == 0 {
		fmt.Printf("%s %s resolves cleanly\n", SuccessStyle.Render("✓"), CmdStyle.Render(displayName(d)))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("%d manifest error(s)", len(records))))
	fmt.Println()
	for _, record := range records {
		fmt.Printf("%s %s\n", ErrorStyle.Render("["+string(record.Kind)+"]"), record.Message)
		if verbose && record.Cause != nil {
			fmt.Printf("  %s\n", VerboseStyle.Render("cause: "+record.Cause.Error()))
		}
	}

	if explain {
		printRemediation(records)
	}

	return &ExitError{Code: 1, Err: fmt.Errorf("%d manifest error(s)", len(records))}
}

// printRemediation renders each distinct error kind's remediation guidance
// once, in first-occurrence order.
func printRemediation(records []*manifest.ErrorRecord) {
	seen := make(map[issue.Id]bool)
	for _, record := range records {
		remediation := issue.ForKind(record.Kind)
		if remediation == nil || seen[remediation.Id()] {
			continue
		}
		seen[remediation.Id()] = true

		rendered, err := remediation.Render(glamourStyle())
		if err != nil {
			logger.Debug("remediation rendering failed", "kind", record.Kind, "error", err)
			continue
		}
		fmt.Println()
		fmt.Print(rendered)
	}
}

// displayName picks something printable for a descriptor, falling back to
// the manifest's emptiness.
func displayName(d *manifest.Descriptor) string {
	if name := d.Name(); name != "" {
		return name
	}
	return "(unnamed extension)"
}
