// Package cli implements the entitlements command: an offline view of the
// plan matrix for support and sales staff.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type options struct {
	output string
}

// NewRootCmd builds the command tree. Output goes to cmd.OutOrStdout so
// callers can capture it.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "entitlements",
		Short: "Inspect JobVance subscription entitlements",
		Long: `entitlements prints the limits and feature gates of each JobVance
subscription tier, and answers single access or row-masking questions
using the same resolver the workers use.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case formatTable, formatJSON, formatYAML:
				return nil
			}
			return fmt.Errorf("unsupported output format %q (want table, json or yaml)", opts.output)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.output, "output", "o", formatTable, "output format: table, json, yaml")

	root.AddCommand(newTiersCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newMaskCmd(opts))
	root.AddCommand(newWorkersCmd(opts))

	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
