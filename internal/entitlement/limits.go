package entitlement

// Limits holds the per-tier quotas. Every field is non-decreasing
// from free to pro to elite.
type Limits struct {
	MaxResumeVariants    int `json:"maxResumeVariants"`
	MaxDailyApplications int `json:"maxDailyApplications"`
	VisibleRows          int `json:"visibleRows"`
}

var limitsByTier = map[Tier]Limits{
	TierFree: {
		MaxResumeVariants:    1,
		MaxDailyApplications: 5,
		VisibleRows:          2,
	},
	TierPro: {
		MaxResumeVariants:    3,
		MaxDailyApplications: 25,
		VisibleRows:          20,
	},
	TierElite: {
		MaxResumeVariants:    10,
		MaxDailyApplications: 100,
		VisibleRows:          50,
	},
}

// LimitsFor returns the quotas for t. Values outside the enumeration get
// the free-tier limits.
func LimitsFor(t Tier) Limits {
	if l, ok := limitsByTier[t]; ok {
		return l
	}
	return limitsByTier[TierFree]
}

// IsRowVisible reports whether the zero-based result row is shown in full
// for t rather than masked behind an upgrade prompt.
func IsRowVisible(rowIndex int, t Tier) bool {
	return rowIndex >= 0 && rowIndex < LimitsFor(t).VisibleRows
}

// Partition splits an n-row result list into its visible and masked counts.
func Partition(n int, t Tier) (visible, masked int) {
	if n <= 0 {
		return 0, 0
	}
	visible = LimitsFor(t).VisibleRows
	if visible > n {
		visible = n
	}
	return visible, n - visible
}

// Visibility returns one flag per row.
func Visibility(n int, t Tier) []bool {
	if n <= 0 {
		return []bool{}
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = IsRowVisible(i, t)
	}
	return out
}
