// Package entitlement resolves subscription tiers into row visibility,
// usage quotas and gated-feature access. It is the only place plan logic
// lives; workers, the HTTP API and the CLI all call into it.
package entitlement

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is a canonical subscription tier.
type Tier string

const (
	TierFree  Tier = "free"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

var ErrUnknownTier = errors.New("unknown subscription tier")

var tierOrder = []Tier{TierFree, TierPro, TierElite}

// Tiers returns the canonical tiers from lowest to highest.
func Tiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// Normalize maps arbitrary profile input onto a canonical tier.
// Matching is case-insensitive; anything unrecognized, including the
// empty string, is TierFree.
func Normalize(raw string) Tier {
	t, err := ParseTier(raw)
	if err != nil {
		return TierFree
	}
	return t
}

// NormalizePtr is Normalize for nullable columns. A nil pointer is TierFree.
func NormalizePtr(raw *string) Tier {
	if raw == nil {
		return TierFree
	}
	return Normalize(*raw)
}

// ParseTier is the strict form of Normalize.
func ParseTier(raw string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierFree:
		return TierFree, nil
	case TierPro:
		return TierPro, nil
	case TierElite:
		return TierElite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, raw)
}

// Rank orders tiers: free=0, pro=1, elite=2. Non-canonical values rank as free.
func (t Tier) Rank() int {
	for i, c := range tierOrder {
		if c == t {
			return i
		}
	}
	return 0
}

// Next returns the tier directly above t, or false when t is already the top tier.
func (t Tier) Next() (Tier, bool) {
	r := Normalize(string(t)).Rank()
	if r+1 >= len(tierOrder) {
		return "", false
	}
	return tierOrder[r+1], true
}

func (t Tier) String() string { return string(t) }
