package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"exprc/internal/diag"
	"exprc/internal/diagfmt"
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().Bool("no-notes", false, "hide diagnostic notes")
}

// printDiagnostics renders bag to stdout in the --format chosen on cmd.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, maxDiagnostics int) error {
	if bag == nil {
		return nil
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noNotes, err := cmd.Flags().GetBool("no-notes")
	if err != nil {
		return fmt.Errorf("failed to get no-notes flag: %w", err)
	}
	out := cmd.OutOrStdout()

	switch strings.ToLower(format) {
	case "json":
		return diagfmt.JSON(out, bag, diagfmt.JSONOpts{Max: maxDiagnostics, IncludeNotes: !noNotes})
	case "pretty":
		if bag.Len() == 0 && bag.Dropped() == 0 {
			return nil
		}
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		useColor, err := readColorMode(colorFlag, stdoutFile(out))
		if err != nil {
			return err
		}
		return diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{
			Color:     useColor,
			ShowNotes: !noNotes,
			Summary:   true,
			Max:       maxDiagnostics,
		})
	default:
		return fmt.Errorf("unknown format %q (must be pretty or json)", format)
	}
}

func stdoutFile(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}

// errorCount counts error diagnostics, including those past the bag limit.
func errorCount(bag *diag.Bag) int {
	return bag.Count(diag.SevError)
}
