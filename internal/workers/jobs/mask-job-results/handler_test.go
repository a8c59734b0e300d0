// internal/workers/jobs/mask-job-results/handler_test.go
package maskjobresults

import (
	"context"
	"fmt"
	"testing"
	"time"

	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/metrics"
	"jobvance-workers/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, config *Config) *Handler {
	if config == nil {
		config = &Config{Timeout: time.Second, MaxJobs: 100}
	}
	return NewHandler(config, logger.NewTestLogger(t))
}

func createJobs(n int) []models.JobListing {
	jobs := make([]models.JobListing, n)
	for i := range jobs {
		jobs[i] = models.JobListing{
			ID:         fmt.Sprintf("job-%03d", i),
			Title:      "Backend Engineer",
			Company:    "Globex",
			Location:   "Remote",
			URL:        fmt.Sprintf("https://jobs.example.com/%d", i),
			MatchScore: 0.75,
		}
	}
	return jobs
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name            string
		tier            string
		rows            int
		visible         int
		masked          int
		upgradeRequired bool
	}{
		{"free sees two of ten", "free", 10, 2, 8, true},
		{"pro sees twenty of fifty", "pro", 50, 20, 30, true},
		{"pro with a short page masks nothing", "pro", 12, 12, 0, false},
		{"elite sees fifty of fifty", "elite", 50, 50, 0, false},
		{"unknown tier treated as free", "diamond", 4, 2, 2, true},
		{"empty result", "free", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := createTestHandler(t, nil).Execute(context.Background(), &Input{
				Tier: tt.tier,
				Jobs: createJobs(tt.rows),
			})

			require.NoError(t, err)
			assert.Len(t, output.Jobs, tt.rows)
			assert.Equal(t, tt.visible, output.VisibleCount)
			assert.Equal(t, tt.masked, output.MaskedCount)
			assert.Equal(t, tt.upgradeRequired, output.UpgradeRequired)
			assert.Equal(t, tt.rows, output.VisibleCount+output.MaskedCount)
		})
	}
}

func TestHandler_Execute_MaskedRowsAreBlanked(t *testing.T) {
	output, err := createTestHandler(t, nil).Execute(context.Background(), &Input{
		Tier: "pro",
		Jobs: createJobs(21),
	})
	require.NoError(t, err)

	assert.True(t, output.Jobs[19].Visible)
	assert.Equal(t, "Globex", output.Jobs[19].Company)

	last := output.Jobs[20]
	assert.True(t, last.Masked)
	assert.Equal(t, "job-020", last.ID)
	assert.Empty(t, last.Title)
	assert.Empty(t, last.Company)
	assert.Empty(t, last.URL)
	assert.Equal(t, 0.75, last.MatchScore)
}

func TestHandler_Execute_OffsetPage(t *testing.T) {
	handler := createTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{Tier: "free", Offset: 2, Jobs: createJobs(4)})
	require.NoError(t, err)

	assert.Equal(t, 0, output.VisibleCount)
	assert.Equal(t, 4, output.MaskedCount)
	for _, row := range output.Jobs {
		assert.True(t, row.Masked, row.ID)
		assert.Empty(t, row.Title)
	}

	output, err = handler.Execute(context.Background(), &Input{Tier: "pro", Offset: 19, Jobs: createJobs(3)})
	require.NoError(t, err)
	assert.Equal(t, 1, output.VisibleCount)
	assert.True(t, output.Jobs[0].Visible)
	assert.True(t, output.Jobs[1].Masked)
}

func TestHandler_Execute_RecordsMaskedRows(t *testing.T) {
	counter := metrics.RowsMasked.WithLabelValues("free")
	before := testutil.ToFloat64(counter)

	_, err := createTestHandler(t, nil).Execute(context.Background(), &Input{Tier: "free", Jobs: createJobs(7)})
	require.NoError(t, err)

	assert.Equal(t, before+5, testutil.ToFloat64(counter))
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_TooManyRows(t *testing.T) {
	handler := createTestHandler(t, &Config{Timeout: time.Second, MaxJobs: 3})

	_, err := handler.Execute(context.Background(), &Input{Tier: "elite", Jobs: createJobs(4)})

	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeBusinessRule, se.Code)
	assert.False(t, se.Retryable)
}

func TestInputSchema(t *testing.T) {
	assert.True(t, inputSchema.ValidateJSON(`{"tier":"pro","jobs":[{"id":"a","title":"x","matchScore":0.4}]}`).Valid)
	assert.True(t, inputSchema.ValidateJSON(`{"jobs":[]}`).Valid)
	assert.False(t, inputSchema.ValidateJSON(`{"tier":"pro"}`).Valid)
	assert.False(t, inputSchema.ValidateJSON(`{"jobs":[{"title":"no id"}]}`).Valid)
	assert.False(t, inputSchema.ValidateJSON(`{"jobs":"none"}`).Valid)
	assert.True(t, inputSchema.ValidateJSON(`{"offset":20,"jobs":[]}`).Valid)
	assert.False(t, inputSchema.ValidateJSON(`{"offset":-1,"jobs":[]}`).Valid)
}
