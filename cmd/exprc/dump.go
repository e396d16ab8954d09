package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exprc/internal/artifact"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.exo> [file.exo ...]",
	Short: "Disassemble compiled artifacts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for i, path := range args {
			f, err := artifact.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			if err := artifact.Dump(out, f); err != nil {
				return err
			}
		}
		return nil
	},
}
