package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir|manifest]",
	Short: "Validate a manifest without writing artifacts",
	Long: `Check runs the full generation pipeline in dry-run mode: the
manifest is loaded, every declaration is validated and generated in
memory, and all diagnostics are reported, but nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, true)
	},
}
