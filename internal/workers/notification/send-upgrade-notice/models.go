// internal/workers/notification/send-upgrade-notice/models.go
package sendupgradenotice

type Input struct {
	UserID  string `json:"userId"`
	Tier    string `json:"tier"`
	Reason  string `json:"reason"`
	Feature string `json:"feature,omitempty"`
	Quota   string `json:"quota,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	SuggestedTier  string `json:"suggestedTier,omitempty"`
	LeadPublished  bool   `json:"leadPublished"`
	SentAt         string `json:"sentAt"` // ISO 8601
	// ErrorCode is NOTIFICATION_SEND_FAILED when the email was rejected.
	ErrorCode string `json:"errorCode,omitempty"`
}

// upgradeLead is published to the sales topic.
type upgradeLead struct {
	Event          string `json:"event"`
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
	CurrentTier    string `json:"currentTier"`
	SuggestedTier  string `json:"suggestedTier"`
	Reason         string `json:"reason"`
	Feature        string `json:"feature,omitempty"`
	Quota          string `json:"quota,omitempty"`
	OccurredAt     string `json:"occurredAt"`
}

const (
	ReasonFeatureLocked = "feature_locked"
	ReasonQuotaExceeded = "quota_exceeded"
	ReasonRowsMasked    = "rows_masked"
)

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"
)

const InputSchema = `{
	"type": "object",
	"required": ["userId", "reason"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"tier": {"type": ["string", "null"]},
		"reason": {"type": "string", "enum": ["feature_locked", "quota_exceeded", "rows_masked"]},
		"feature": {"type": ["string", "null"]},
		"quota": {"type": ["string", "null"]}
	}
}`
