package cli

import (
	"fmt"
	"strconv"

	"jobvance-workers/internal/entitlement"

	"github.com/spf13/cobra"
)

type maskResult struct {
	Tier         entitlement.Tier `json:"tier" yaml:"tier"`
	Count        int              `json:"count" yaml:"count"`
	VisibleCount int              `json:"visibleCount" yaml:"visibleCount"`
	MaskedCount  int              `json:"maskedCount" yaml:"maskedCount"`
}

func newMaskCmd(opts *options) *cobra.Command {
	var (
		tier  string
		count int
	)

	cmd := &cobra.Command{
		Use:   "mask",
		Short: "Show how many of N result rows a tier sees in full",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative, got %d", count)
			}
			t := entitlement.Normalize(tier)
			visible, masked := entitlement.Partition(count, t)

			res := maskResult{Tier: t, Count: count, VisibleCount: visible, MaskedCount: masked}

			if opts.output != formatTable {
				return printStructured(cmd.OutOrStdout(), opts.output, res)
			}

			table := NewTable("TIER", "ROWS", "VISIBLE", "MASKED")
			table.AddRow(res.Tier.String(), strconv.Itoa(count), strconv.Itoa(visible), strconv.Itoa(masked))
			return table.Render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&tier, "tier", "", "subscription tier (unknown values resolve to free)")
	cmd.Flags().IntVar(&count, "count", 0, "number of result rows")

	return cmd
}
