// internal/workers/entitlement/resolve-entitlement/models.go
package resolveentitlement

import "jobvance-workers/internal/entitlement"

type Input struct {
	UserID           string  `json:"userId"`
	SubscriptionTier *string `json:"subscriptionTier,omitempty"`
}

// Output is the resolved entitlement flattened into the process variables.
type Output struct {
	entitlement.Entitlement
	ResolvedFrom string `json:"resolvedFrom"`
}

const (
	ResolvedFromInput    = "input"
	ResolvedFromCache    = "cache"
	ResolvedFromDatabase = "database"
	ResolvedFromDefault  = "default"
)

const InputSchema = `{
	"type": "object",
	"required": ["userId"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"subscriptionTier": {"type": ["string", "null"]}
	}
}`
