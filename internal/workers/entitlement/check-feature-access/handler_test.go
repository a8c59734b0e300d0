// internal/workers/entitlement/check-feature-access/handler_test.go
package checkfeatureaccess

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, logger.NewTestLogger(t))
}

// recordingGateway captures the job commands the handler sends. Methods
// the handler never calls stay on the nil embedded client.
type recordingGateway struct {
	pb.GatewayClient
	completed []*pb.CompleteJobRequest
	thrown    []*pb.ThrowErrorRequest
	failed    []*pb.FailJobRequest
}

func (g *recordingGateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *recordingGateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

func (g *recordingGateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func noRetry(context.Context, error) bool { return false }

type jobClient struct {
	gateway *recordingGateway
}

func (c jobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c jobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c jobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}

func createJob(key int64, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       key,
		Type:      TaskType,
		Retries:   3,
		Variables: variables,
	}}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name          string
		variables     string
		wantErr       bool
		wantAllowed   bool
		wantThrowCode string
	}{
		{name: "allowed completes", variables: `{"tier":"elite","feature":"optimizedCV"}`, wantAllowed: true},
		{name: "denied without enforce completes", variables: `{"tier":"free","feature":"export"}`},
		{name: "denied with enforce throws", variables: `{"tier":"free","feature":"export","enforce":true}`, wantErr: true, wantThrowCode: "FEATURE_LOCKED"},
		{name: "unknown feature throws", variables: `{"tier":"pro","feature":"teleport"}`, wantErr: true, wantThrowCode: "INVALID_INPUT"},
		{name: "schema violation throws", variables: `{"tier":"pro"}`, wantErr: true, wantThrowCode: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &recordingGateway{}
			err := createTestHandler(t).Handle(jobClient{gateway: gateway}, createJob(42, tt.variables))

			assert.Empty(t, gateway.failed)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, gateway.completed)
				require.Len(t, gateway.thrown, 1)
				assert.Equal(t, int64(42), gateway.thrown[0].JobKey)
				assert.Equal(t, tt.wantThrowCode, gateway.thrown[0].ErrorCode)
				return
			}

			require.NoError(t, err)
			assert.Empty(t, gateway.thrown)
			require.Len(t, gateway.completed, 1)
			assert.Equal(t, int64(42), gateway.completed[0].JobKey)

			var output Output
			require.NoError(t, json.Unmarshal([]byte(gateway.completed[0].Variables), &output))
			assert.Equal(t, tt.wantAllowed, output.Allowed)
		})
	}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		expected Output
	}{
		{
			name:     "free cannot export",
			input:    &Input{Tier: "free", Feature: "export"},
			expected: Output{Allowed: false, Tier: "free", Feature: "export", RequiredTier: "pro"},
		},
		{
			name:     "pro can export",
			input:    &Input{Tier: "pro", Feature: "export"},
			expected: Output{Allowed: true, Tier: "pro", Feature: "export", RequiredTier: "pro"},
		},
		{
			name:     "pro cannot use optimized cv",
			input:    &Input{Tier: "pro", Feature: "optimizedCV"},
			expected: Output{Allowed: false, Tier: "pro", Feature: "optimizedCV", RequiredTier: "elite"},
		},
		{
			name:     "elite has priority support",
			input:    &Input{Tier: "ELITE", Feature: "prioritySupport"},
			expected: Output{Allowed: true, Tier: "elite", Feature: "prioritySupport", RequiredTier: "elite"},
		},
		{
			name:     "feature name is case insensitive",
			input:    &Input{Tier: "pro", Feature: " ATSOPTIMIZATION "},
			expected: Output{Allowed: true, Tier: "pro", Feature: "atsOptimization", RequiredTier: "pro"},
		},
		{
			name:     "missing tier is free",
			input:    &Input{Feature: "analytics"},
			expected: Output{Allowed: false, Tier: "free", Feature: "analytics", RequiredTier: "pro"},
		},
		{
			name:     "enforce has no effect when allowed",
			input:    &Input{Tier: "elite", Feature: "optimizedCV", Enforce: true},
			expected: Output{Allowed: true, Tier: "elite", Feature: "optimizedCV", RequiredTier: "elite"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := createTestHandler(t).Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *output)
		})
	}
}

func TestHandler_Execute_RecordsMetric(t *testing.T) {
	counter := metrics.FeatureChecks.WithLabelValues("pro", "analytics", "true")
	before := testutil.ToFloat64(counter)

	_, err := createTestHandler(t).Execute(context.Background(), &Input{Tier: "pro", Feature: "analytics"})
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_EnforceThrowsFeatureLocked(t *testing.T) {
	output, err := createTestHandler(t).Execute(context.Background(), &Input{
		Tier:    "free",
		Feature: "optimizedCV",
		Enforce: true,
	})

	assert.Nil(t, output)
	require.Error(t, err)

	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFeatureLocked, se.Code)
	assert.False(t, se.Retryable)
	assert.Equal(t, "elite", se.Metadata["requiredTier"])

	bpmn := errors.ConvertToBPMNError(se)
	assert.Equal(t, "FEATURE_LOCKED", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)
}

func TestHandler_Execute_UnknownFeature(t *testing.T) {
	_, err := createTestHandler(t).Execute(context.Background(), &Input{Tier: "pro", Feature: "teleport"})

	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnknownFeature, se.Code)
}

func TestParseInput(t *testing.T) {
	input, err := parseInput(`{"tier":"pro","feature":"export","enforce":true,"jobId":"j-1"}`)
	require.NoError(t, err)
	assert.Equal(t, &Input{Tier: "pro", Feature: "export", Enforce: true}, input)

	_, err = parseInput(`{"tier":"pro"}`)
	assert.Error(t, err)

	_, err = parseInput(`{"tier":"pro","feature":"export","enforce":"yes"}`)
	assert.Error(t, err)
}
