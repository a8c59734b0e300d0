package entitlement

// Entitlement is the resolved set of quotas and feature permissions for a tier.
type Entitlement struct {
	Tier     Tier      `json:"tier"`
	Limits   Limits    `json:"limits"`
	Features []Feature `json:"features"`
}

// Resolve normalizes raw and returns its entitlement.
func Resolve(raw string) Entitlement {
	return For(Normalize(raw))
}

// For returns the entitlement of an already-normalized tier.
func For(t Tier) Entitlement {
	if t.Rank() == 0 {
		t = TierFree
	}
	return Entitlement{
		Tier:     t,
		Limits:   LimitsFor(t),
		Features: FeaturesFor(t),
	}
}

// Allows is shorthand for CanUseFeature(e.Tier, f).
func (e Entitlement) Allows(f Feature) bool {
	return CanUseFeature(e.Tier, f)
}
