package api

import (
	"net/http"
	"strconv"

	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/metrics"
	"jobvance-workers/internal/entitlement"

	"github.com/go-chi/chi/v5"
)

// MaxRowCount bounds the count query parameter of the rows endpoint.
const MaxRowCount = 1000

type FeatureAccessResponse struct {
	Tier         entitlement.Tier    `json:"tier"`
	Feature      entitlement.Feature `json:"feature"`
	Allowed      bool                `json:"allowed"`
	RequiredTier entitlement.Tier    `json:"requiredTier"`
}

type RowVisibilityResponse struct {
	Tier         entitlement.Tier `json:"tier"`
	Count        int              `json:"count"`
	VisibleCount int              `json:"visibleCount"`
	MaskedCount  int              `json:"maskedCount"`
	Rows         []bool           `json:"rows"`
}

type EntitlementHandler struct {
	logger logger.Logger
}

func NewEntitlementHandler(log logger.Logger) *EntitlementHandler {
	return &EntitlementHandler{logger: log}
}

// tierParam parses the {tier} path segment. Case and surrounding space are
// ignored, but values outside the enumeration are rejected rather than
// silently resolved to free.
func (h *EntitlementHandler) tierParam(w http.ResponseWriter, r *http.Request) (entitlement.Tier, bool) {
	t, err := entitlement.ParseTier(chi.URLParam(r, "tier"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "UNKNOWN_TIER", err.Error())
		return "", false
	}
	return t, true
}

// Get returns the full entitlement for a tier.
func (h *EntitlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.tierParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, entitlement.For(t))
}

// Feature answers whether a tier may use a feature.
func (h *EntitlementHandler) Feature(w http.ResponseWriter, r *http.Request) {
	t, ok := h.tierParam(w, r)
	if !ok {
		return
	}

	f, err := entitlement.ParseFeature(chi.URLParam(r, "feature"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "UNKNOWN_FEATURE", err.Error())
		return
	}

	allowed := entitlement.CanUseFeature(t, f)
	required, _ := entitlement.RequiredTier(f)
	metrics.RecordFeatureCheck(t.String(), f.String(), allowed)

	writeJSON(w, http.StatusOK, FeatureAccessResponse{
		Tier:         t,
		Feature:      f,
		Allowed:      allowed,
		RequiredTier: required,
	})
}

// Rows returns the per-row visibility of a result list of ?count=N rows.
func (h *EntitlementHandler) Rows(w http.ResponseWriter, r *http.Request) {
	t, ok := h.tierParam(w, r)
	if !ok {
		return
	}

	count := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > MaxRowCount {
			writeError(w, http.StatusBadRequest, "INVALID_COUNT",
				"count must be an integer between 0 and "+strconv.Itoa(MaxRowCount))
			return
		}
		count = n
	}

	visible, masked := entitlement.Partition(count, t)
	writeJSON(w, http.StatusOK, RowVisibilityResponse{
		Tier:         t,
		Count:        count,
		VisibleCount: visible,
		MaskedCount:  masked,
		Rows:         entitlement.Visibility(count, t),
	})
}
