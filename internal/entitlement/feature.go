package entitlement

import (
	"errors"
	"fmt"
	"strings"
)

// Feature identifies a gated product capability.
type Feature string

const (
	FeatureExport          Feature = "export"
	FeatureATSOptimization Feature = "atsOptimization"
	FeatureOptimizedCV     Feature = "optimizedCV"
	FeatureAnalytics       Feature = "analytics"
	FeaturePrioritySupport Feature = "prioritySupport"
)

var ErrUnknownFeature = errors.New("unknown feature")

var featureOrder = []Feature{
	FeatureExport,
	FeatureATSOptimization,
	FeatureOptimizedCV,
	FeatureAnalytics,
	FeaturePrioritySupport,
}

var allowedTiers = map[Feature]map[Tier]bool{
	FeatureExport:          {TierPro: true, TierElite: true},
	FeatureATSOptimization: {TierPro: true, TierElite: true},
	FeatureOptimizedCV:     {TierElite: true},
	FeatureAnalytics:       {TierPro: true, TierElite: true},
	FeaturePrioritySupport: {TierElite: true},
}

// Features returns every gated feature in canonical order.
func Features() []Feature {
	out := make([]Feature, len(featureOrder))
	copy(out, featureOrder)
	return out
}

// ParseFeature accepts a feature identifier case-insensitively.
func ParseFeature(raw string) (Feature, error) {
	needle := strings.TrimSpace(raw)
	for _, f := range featureOrder {
		if strings.EqualFold(string(f), needle) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, raw)
}

// CanUseFeature reports whether t may use f.
func CanUseFeature(t Tier, f Feature) bool {
	return allowedTiers[f][t]
}

// RequiredTier returns the lowest tier that unlocks f.
func RequiredTier(f Feature) (Tier, bool) {
	for _, t := range tierOrder {
		if CanUseFeature(t, f) {
			return t, true
		}
	}
	return "", false
}

// FeaturesFor lists the features t may use, in canonical order.
func FeaturesFor(t Tier) []Feature {
	out := make([]Feature, 0, len(featureOrder))
	for _, f := range featureOrder {
		if CanUseFeature(t, f) {
			out = append(out, f)
		}
	}
	return out
}

func (f Feature) String() string { return string(f) }
