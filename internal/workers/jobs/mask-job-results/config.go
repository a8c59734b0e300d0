// internal/workers/jobs/mask-job-results/config.go
package maskjobresults

import "time"

type Config struct {
	Timeout time.Duration
	MaxJobs int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		MaxJobs: 500,
	}
}
