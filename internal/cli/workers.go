package cli

import (
	"strconv"
	"strings"

	"jobvance-workers/pkg/registry"

	"github.com/spf13/cobra"
)

func newWorkersCmd(opts *options) *cobra.Command {
	var registryPath string

	cmd := &cobra.Command{
		Use:   "workers",
		Short: "List the task types the worker manager serves",
		Long: `workers prints the activity catalog built into this binary, or the one
stored at --registry when given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			if registryPath != "" {
				loaded, err := registry.LoadRegistry(registryPath)
				if err != nil {
					return err
				}
				reg = loaded
			}

			if opts.output != formatTable {
				return printStructured(cmd.OutOrStdout(), opts.output, reg)
			}

			table := NewTable("TASK TYPE", "CATEGORY", "TIMEOUT", "RETRIES", "ERROR CODES")
			for _, a := range reg.Activities {
				table.AddRow(a.TaskType, a.Category, a.Timeout, strconv.Itoa(a.Retries), strings.Join(a.ErrorCodes, ","))
			}
			return table.Render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&registryPath, "registry", "", "path to an activity registry JSON file")

	return cmd
}
