// internal/workers/entitlement/check-feature-access/models.go
package checkfeatureaccess

type Input struct {
	Tier    string `json:"tier"`
	Feature string `json:"feature"`
	Enforce bool   `json:"enforce,omitempty"`
}

type Output struct {
	Allowed      bool   `json:"allowed"`
	Tier         string `json:"tier"`
	Feature      string `json:"feature"`
	RequiredTier string `json:"requiredTier"`
}

const InputSchema = `{
	"type": "object",
	"required": ["feature"],
	"properties": {
		"tier": {"type": ["string", "null"]},
		"feature": {"type": "string", "minLength": 1},
		"enforce": {"type": "boolean"}
	}
}`
