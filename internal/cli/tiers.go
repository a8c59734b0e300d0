package cli

import (
	"strconv"
	"strings"

	"jobvance-workers/internal/entitlement"

	"github.com/spf13/cobra"
)

type tierRow struct {
	Tier                 entitlement.Tier      `json:"tier" yaml:"tier"`
	MaxResumeVariants    int                   `json:"maxResumeVariants" yaml:"maxResumeVariants"`
	MaxDailyApplications int                   `json:"maxDailyApplications" yaml:"maxDailyApplications"`
	VisibleRows          int                   `json:"visibleRows" yaml:"visibleRows"`
	Features             []entitlement.Feature `json:"features" yaml:"features"`
}

func newTiersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Print the limits and features of every tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]tierRow, 0, len(entitlement.Tiers()))
			for _, t := range entitlement.Tiers() {
				e := entitlement.For(t)
				rows = append(rows, tierRow{
					Tier:                 e.Tier,
					MaxResumeVariants:    e.Limits.MaxResumeVariants,
					MaxDailyApplications: e.Limits.MaxDailyApplications,
					VisibleRows:          e.Limits.VisibleRows,
					Features:             e.Features,
				})
			}

			if opts.output != formatTable {
				return printStructured(cmd.OutOrStdout(), opts.output, rows)
			}

			table := NewTable("TIER", "RESUME VARIANTS", "DAILY APPLICATIONS", "VISIBLE ROWS", "FEATURES")
			for _, r := range rows {
				features := make([]string, len(r.Features))
				for i, f := range r.Features {
					features[i] = f.String()
				}
				list := strings.Join(features, ",")
				if list == "" {
					list = "-"
				}
				table.AddRow(
					r.Tier.String(),
					strconv.Itoa(r.MaxResumeVariants),
					strconv.Itoa(r.MaxDailyApplications),
					strconv.Itoa(r.VisibleRows),
					list,
				)
			}
			return table.Render(cmd.OutOrStdout())
		},
	}
}
