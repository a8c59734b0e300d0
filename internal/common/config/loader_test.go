package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
app:
  name: jobvance-workers
  environment: test
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: jobvance
    user: jobvance
  redis:
    address: ${JV_TEST_REDIS_ADDR}
  elasticsearch:
    addresses:
      - http://localhost:9200
workers:
  resolve-entitlement:
    enabled: true
    cache_ttl: 300
  check-daily-quota:
    enabled: false
    timeout: 5000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Success(t *testing.T) {
	t.Setenv("JV_TEST_REDIS_ADDR", "redis.internal:6379")

	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "redis.internal:6379", cfg.Database.Redis.Address)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Database.Elasticsearch.Addresses)

	// defaults
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "job_listings", cfg.Database.Elasticsearch.JobsIndex)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	resolve := cfg.Workers["resolve-entitlement"]
	assert.True(t, resolve.Enabled)
	assert.Equal(t, 300, resolve.CacheTTL)
	assert.Equal(t, 5, resolve.MaxJobsActive)
	assert.Equal(t, 30000, resolve.Timeout)
	assert.Equal(t, 3, resolve.MaxRetries)

	quota := cfg.Workers["check-daily-quota"]
	assert.False(t, quota.Enabled)
	assert.Equal(t, 5000, quota.Timeout)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing broker",
			yaml:    "database:\n  postgres:\n    host: h\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name: "missing redis",
			yaml: `
camunda:
  broker_address: b
database:
  postgres:
    host: h
    database: d
    user: u
  elasticsearch:
    addresses: [http://es:9200]
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "email enabled without sender",
			yaml: `
camunda:
  broker_address: b
database:
  postgres:
    host: h
    database: d
    user: u
  redis:
    address: r:6379
  elasticsearch:
    addresses: [http://es:9200]
notifications:
  email:
    enabled: true
`,
			wantErr: "notifications.email.from_email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOverrideEmptyConfig(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("SALES_TOPIC_ARN", "arn:aws:sns:eu-west-1:123:leads")

	cfg := &Config{}
	cfg.Database.Postgres.User = "already-set"
	overrideEmptyConfig(cfg)

	assert.Equal(t, "already-set", cfg.Database.Postgres.User)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "arn:aws:sns:eu-west-1:123:leads", cfg.Notifications.AWS.SalesTopicARN)
}

func TestWorkerConfigHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"mask-job-results": {Enabled: false, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "mask-job-results"))
	assert.True(t, IsWorkerEnabled(cfg, "unlisted"))

	def := GetWorkerConfig(cfg, "unlisted")
	assert.True(t, def.Enabled)
	assert.Equal(t, 30000, def.Timeout)

	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
