// internal/workers/notification/send-upgrade-notice/config.go
package sendupgradenotice

import "time"

type Config struct {
	Timeout       time.Duration
	EmailEnabled  bool
	FromEmail     string
	SalesTopicARN string // empty disables lead publishing
	UpgradeURL    string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: true,
		FromEmail:    "noreply@jobvance.ai",
		UpgradeURL:   "https://jobvance.ai/pricing",
	}
}
