package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTiers_Table(t *testing.T) {
	out, err := run(t, "tiers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "TIER")
	assert.Regexp(t, `^free\s+1\s+5\s+2\s+-$`, lines[2])
	assert.Regexp(t, `^pro\s+3\s+25\s+20\s+export,atsOptimization,analytics$`, lines[3])
	assert.Regexp(t, `^elite\s+10\s+100\s+50\s+`, lines[4])
}

func TestTiers_JSON(t *testing.T) {
	out, err := run(t, "tiers", "-o", "json")
	require.NoError(t, err)

	var rows []tierRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "elite", rows[2].Tier.String())
	assert.Equal(t, 50, rows[2].VisibleRows)
	assert.Len(t, rows[2].Features, 5)
}

func TestTiers_YAML(t *testing.T) {
	out, err := run(t, "tiers", "-o", "yaml")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "pro", rows[1]["tier"])
	assert.Equal(t, 25, rows[1]["maxDailyApplications"])
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		allowed  bool
		required string
	}{
		{"pro export", []string{"--tier", "pro", "--feature", "export"}, true, "pro"},
		{"free export", []string{"--tier", "free", "--feature", "export"}, false, "pro"},
		{"pro optimized cv", []string{"--tier", "Pro", "--feature", "optimizedcv"}, false, "elite"},
		{"unknown tier is free", []string{"--tier", "gold", "--feature", "analytics"}, false, "pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"check", "-o", "json"}, tt.args...)...)
			require.NoError(t, err)

			var res checkResult
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			assert.Equal(t, tt.allowed, res.Allowed)
			assert.Equal(t, tt.required, res.RequiredTier.String())
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	_, err := run(t, "check", "--tier", "pro", "--feature", "teleport")
	assert.Error(t, err)

	_, err = run(t, "check", "--tier", "pro")
	assert.Error(t, err)
}

func TestCheck_Table(t *testing.T) {
	out, err := run(t, "check", "--tier", "elite", "--feature", "prioritySupport")
	require.NoError(t, err)
	assert.Regexp(t, `elite\s+prioritySupport\s+yes\s+elite`, out)
}

func TestMask(t *testing.T) {
	out, err := run(t, "mask", "--tier", "pro", "--count", "60", "-o", "json")
	require.NoError(t, err)

	var res maskResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 20, res.VisibleCount)
	assert.Equal(t, 40, res.MaskedCount)

	out, err = run(t, "mask", "--tier", "free", "--count", "1")
	require.NoError(t, err)
	assert.Regexp(t, `free\s+1\s+1\s+0`, out)

	_, err = run(t, "mask", "--count=-3")
	assert.Error(t, err)
}

func TestUnsupportedOutputFormat(t *testing.T) {
	_, err := run(t, "tiers", "-o", "xml")
	assert.Error(t, err)
}

func TestWorkers(t *testing.T) {
	out, err := run(t, "workers")
	require.NoError(t, err)
	assert.Regexp(t, `search-jobs\s+jobs\s+10s\s+3\s+INVALID_INPUT,SEARCH_QUERY_FAILED`, out)
	assert.Contains(t, out, "send-upgrade-notice")

	_, err = run(t, "workers", "--registry", "/nonexistent/registry.json")
	assert.Error(t, err)
}
