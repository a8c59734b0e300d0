// internal/workers/resume/check-resume-quota/config.go
package checkresumequota

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
