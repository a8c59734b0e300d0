// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"jobvance-workers/internal/common/errors"
	cfa "jobvance-workers/internal/workers/entitlement/check-feature-access"
	re "jobvance-workers/internal/workers/entitlement/resolve-entitlement"
	cdq "jobvance-workers/internal/workers/jobs/check-daily-quota"
	mjr "jobvance-workers/internal/workers/jobs/mask-job-results"
	sj "jobvance-workers/internal/workers/jobs/search-jobs"
	sun "jobvance-workers/internal/workers/notification/send-upgrade-notice"
	crq "jobvance-workers/internal/workers/resume/check-resume-quota"
)

const Version = "1.0.0"

// Default returns the catalog of task types built into this binary.
func Default() *ActivityRegistry {
	activities := []Activity{
		activity(re.TaskType, "Resolve Entitlement", "entitlement",
			"Looks up a subscriber's tier and returns its limits and features.",
			re.InputSchema, re.LoadConfig().Timeout.String(),
			errors.ErrCodeInvalidInput, errors.ErrCodeProfileLookupFailed),
		activity(cfa.TaskType, "Check Feature Access", "entitlement",
			"Answers whether a tier may use a gated feature, optionally failing the flow.",
			cfa.InputSchema, cfa.LoadConfig().Timeout.String(),
			errors.ErrCodeInvalidInput, errors.ErrCodeUnknownFeature, errors.ErrCodeFeatureLocked),
		activity(mjr.TaskType, "Mask Job Results", "jobs",
			"Blanks the job rows a tier may not see.",
			mjr.InputSchema, mjr.LoadConfig().Timeout.String(),
			errors.ErrCodeInvalidInput, errors.ErrCodeBusinessRule),
		activity(sj.TaskType, "Search Jobs", "jobs",
			"Queries the job listing index and masks the results for the caller's tier.",
			sj.InputSchema, sj.LoadConfig().Timeout.String(),
			errors.ErrCodeInvalidInput, errors.ErrCodeSearchQueryFailed, errors.ErrCodeSearchTimeout, errors.ErrCodeIndexNotFound),
		activity(cdq.TaskType, "Check Daily Quota", "jobs",
			"Counts today's applications against the tier's daily limit.",
			cdq.InputSchema, cdq.LoadConfig().Timeout.String(),
			errors.ErrCodeInvalidInput, errors.ErrCodeQuotaExceeded, errors.ErrCodeQuotaCheckFailed),
		activity(crq.TaskType, "Check Resume Quota", "resume",
			"Counts stored resume variants against the tier's limit.",
			crq.InputSchema, crq.LoadConfig().Timeout.String(),
			errors.ErrCodeInvalidInput, errors.ErrCodeQuotaExceeded, errors.ErrCodeQuotaCheckFailed),
		activity(sun.TaskType, "Send Upgrade Notice", "notification",
			"Emails an upgrade prompt and publishes a sales lead.",
			sun.InputSchema, sun.LoadConfig().Timeout.String(),
			errors.ErrCodeInvalidInput, errors.ErrCodeProfileLookupFailed),
	}

	return &ActivityRegistry{Version: Version, Activities: activities}
}

func activity(taskType, displayName, category, description, schema, timeout string, codes ...errors.ErrorCode) Activity {
	a := Activity{
		ID:          taskType,
		DisplayName: displayName,
		Description: description,
		Category:    category,
		TaskType:    taskType,
		InputSchema: json.RawMessage(schema),
		Timeout:     timeout,
	}
	for _, c := range codes {
		a.ErrorCodes = append(a.ErrorCodes, string(c))
		if n := errors.GetRetryCount(c); n > a.Retries {
			a.Retries = n
		}
	}
	return a
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Find looks an activity up by task type.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// TaskTypes returns every task type in sorted order.
func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	sort.Strings(out)
	return out
}
