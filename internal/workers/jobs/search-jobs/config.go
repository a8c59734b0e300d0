// internal/workers/jobs/search-jobs/config.go
package searchjobs

import "time"

type Config struct {
	Index       string
	Timeout     time.Duration
	DefaultSize int
	MaxSize     int
}

func LoadConfig() *Config {
	return &Config{
		Index:       "job_listings",
		Timeout:     10 * time.Second,
		DefaultSize: 20,
		MaxSize:     100,
	}
}
