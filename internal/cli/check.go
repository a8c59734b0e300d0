package cli

import (
	"fmt"

	"jobvance-workers/internal/entitlement"

	"github.com/spf13/cobra"
)

type checkResult struct {
	Tier         entitlement.Tier    `json:"tier" yaml:"tier"`
	Feature      entitlement.Feature `json:"feature" yaml:"feature"`
	Allowed      bool                `json:"allowed" yaml:"allowed"`
	RequiredTier entitlement.Tier    `json:"requiredTier" yaml:"requiredTier"`
}

func newCheckCmd(opts *options) *cobra.Command {
	var tier, feature string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a tier may use a feature",
		Example: `  entitlements check --tier pro --feature export
  entitlements check --tier free --feature optimizedCV -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := entitlement.ParseFeature(feature)
			if err != nil {
				return err
			}
			t := entitlement.Normalize(tier)
			required, _ := entitlement.RequiredTier(f)

			res := checkResult{
				Tier:         t,
				Feature:      f,
				Allowed:      entitlement.CanUseFeature(t, f),
				RequiredTier: required,
			}

			if opts.output != formatTable {
				return printStructured(cmd.OutOrStdout(), opts.output, res)
			}

			table := NewTable("TIER", "FEATURE", "ALLOWED", "REQUIRED TIER")
			table.AddRow(res.Tier.String(), res.Feature.String(), yesNo(res.Allowed), res.RequiredTier.String())
			return table.Render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&tier, "tier", "", "subscription tier (unknown values resolve to free)")
	cmd.Flags().StringVar(&feature, "feature", "", fmt.Sprintf("feature to check, one of %v", entitlement.Features()))
	_ = cmd.MarkFlagRequired("feature")

	return cmd
}
