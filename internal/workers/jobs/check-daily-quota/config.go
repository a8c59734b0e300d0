// internal/workers/jobs/check-daily-quota/config.go
package checkdailyquota

import "time"

type Config struct {
	Timeout time.Duration
	// CounterTTL outlives the UTC day so late increments never land on an
	// expired key.
	CounterTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    5 * time.Second,
		CounterTTL: 25 * time.Hour,
	}
}
