// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"sort"

	"webextc/internal/extension"
	"webextc/pkg/manifest"

	"github.com/spf13/cobra"
)

var (
	// iconSize is the requested icon point size.
	iconSize float64

	iconsCmd = &cobra.Command{
		Use:   "icons <extension>",
		Short: "Show which icon files serve a given point size",
		Long: `Show which icon files serve a given point size.

For each configured display scale, the resolver picks the best bitmap for
size*scale pixels. Both the primary extension icon and the action icon are
reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIcons(args[0])
		},
	}
)

func init() {
	iconsCmd.Flags().Float64Var(&iconSize, "size", 16, "icon point size to resolve")
}

func runIcons(target string) error {
	if iconSize <= 0 {
		return fmt.Errorf("icon size must be positive, got %v", iconSize)
	}

	d, err := loadDescriptor(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 2, Err: err}
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Icons at %gpt", iconSize)) +
		SubtitleStyle.Render(fmt.Sprintf(" (scales %v)", d.DisplayScales())))
	fmt.Println()

	printIcon("icon", d.Icon(iconSize), d.DisplayScales())
	printIcon("action icon", d.ActionIcon(iconSize), d.DisplayScales())

	for _, record := range d.Ledger().All() {
		if record.Kind == manifest.IconLoadFailed {
			fmt.Printf("%s %s\n", WarningStyle.Render("!"), record.Message)
		}
	}
	return nil
}

// printIcon reports the resolved representation paths for one icon slot.
func printIcon(label string, img manifest.Image, scales []float64) {
	if img == nil {
		fmt.Printf("%s: %s\n", CmdStyle.Render(label), SubtitleStyle.Render("(none)"))
		return
	}

	// Dynamic icons carry a light/dark pair; report the active variant.
	if dynamic, ok := img.(*manifest.DynamicImage); ok {
		img = dynamic.Active()
		if img == nil {
			fmt.Printf("%s: %s\n", CmdStyle.Render(label), SubtitleStyle.Render("(none)"))
			return
		}
		label += " (dynamic)"
	}

	width, height := img.Size()
	fmt.Printf("%s: %dx%d points\n", CmdStyle.Render(label), width, height)

	switch resolved := img.(type) {
	case *extension.MultiScaleImage:
		sorted := append([]float64(nil), scales...)
		sort.Float64s(sorted)
		for _, scale := range sorted {
			path := resolved.PathForScale(scale)
			if path == "" {
				fmt.Printf("  %gx: %s\n", scale, SubtitleStyle.Render("(no representation)"))
				continue
			}
			fmt.Printf("  %gx: %s\n", scale, SuccessStyle.Render(path))
		}
	case *extension.Bitmap:
		fmt.Printf("  file: %s\n", SuccessStyle.Render(resolved.Path))
	}
}
