// internal/workers/entitlement/resolve-entitlement/config.go
package resolveentitlement

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration // 0 disables the tier cache
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 10 * time.Minute,
	}
}
