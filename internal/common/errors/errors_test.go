package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
		retryable       bool
	}{
		{
			name:            "feature locked is thrown with metadata",
			err:             NewFeatureLockedError("free", "export", "pro"),
			expectedCode:    "FEATURE_LOCKED",
			expectedRetries: 0,
		},
		{
			name:            "unknown feature maps to invalid input",
			err:             NewUnknownFeatureError("teleport", nil),
			expectedCode:    "INVALID_INPUT",
			expectedRetries: 0,
		},
		{
			name:            "profile lookup failure is retried",
			err:             NewProfileLookupFailedError("user-1", stderrors.New("connection reset")),
			expectedCode:    "PROFILE_LOOKUP_FAILED",
			expectedRetries: 3,
			retryable:       true,
		},
		{
			name:            "search timeout gets partial retry",
			err:             NewSearchTimeoutError("job_listings"),
			expectedCode:    "SEARCH_TIMEOUT",
			expectedRetries: 2,
			retryable:       true,
		},
		{
			name:            "missing index is surfaced as query failure",
			err:             NewIndexNotFoundError("job_listings"),
			expectedCode:    "SEARCH_QUERY_FAILED",
			expectedRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmn.Code)
			assert.Equal(t, tt.expectedRetries, bpmn.Retries)
			assert.Equal(t, tt.retryable, bpmn.Retryable)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_ForwardsMetadata(t *testing.T) {
	bpmn := ConvertToBPMNError(NewQuotaExceededError("dailyApplications", 5, 5))
	vars := bpmn.ToErrorVariables()

	assert.Equal(t, "QUOTA_EXCEEDED", vars["errorCode"])
	assert.Equal(t, "dailyApplications", vars["quota"])
	assert.Equal(t, 5, vars["limit"])
	assert.Equal(t, false, vars["retryable"])
}

func TestNormalize(t *testing.T) {
	plain := stderrors.New("boom")
	se := Normalize(plain)
	assert.Equal(t, ErrCodeInternal, se.Code)
	assert.False(t, se.Retryable)
	assert.ErrorIs(t, se, plain)

	wrapped := fmt.Errorf("resolve: %w", NewQuotaCheckFailedError("resumeVariants", plain))
	se = Normalize(wrapped)
	assert.Equal(t, ErrCodeQuotaCheckFailed, se.Code)
	assert.True(t, se.Retryable)
}

func TestAsStandardError(t *testing.T) {
	_, ok := AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)

	_, ok = AsStandardError(nil)
	assert.False(t, ok)

	se, ok := AsStandardError(fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", NewInvalidInputError("bad"))))
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidInput, se.Code)
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, int32(3), RemainingRetries(10, 3))
	assert.Equal(t, int32(1), RemainingRetries(2, 3))
	assert.Equal(t, int32(0), RemainingRetries(1, 3))
	assert.Equal(t, int32(0), RemainingRetries(0, 3))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "PROFILE", GetErrorCategory(ErrCodeProfileLookupFailed))
	assert.Equal(t, "ENTITLEMENT", GetErrorCategory(ErrCodeFeatureLocked))
	assert.Equal(t, "ENTITLEMENT", GetErrorCategory(ErrCodeQuotaExceeded))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeTimeout))
	assert.True(t, IsRetryableErrorCode(ErrCodeExternalService))
	assert.False(t, IsRetryableErrorCode(ErrCodeBusinessRule))
}
