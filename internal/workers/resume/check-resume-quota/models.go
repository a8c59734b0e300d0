// internal/workers/resume/check-resume-quota/models.go
package checkresumequota

type Input struct {
	UserID  string `json:"userId"`
	Tier    string `json:"tier"`
	Enforce bool   `json:"enforce,omitempty"`
}

type Output struct {
	Allowed   bool   `json:"allowed"`
	Tier      string `json:"tier"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

const InputSchema = `{
	"type": "object",
	"required": ["userId"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"tier": {"type": ["string", "null"]},
		"enforce": {"type": "boolean"}
	}
}`
