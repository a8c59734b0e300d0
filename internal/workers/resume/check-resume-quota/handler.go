// internal/workers/resume/check-resume-quota/handler.go
package checkresumequota

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/metrics"
	"jobvance-workers/internal/common/validation"
	"jobvance-workers/internal/entitlement"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType  = "check-resume-quota"
	QuotaName = "resumeVariants"

	countQuery = `SELECT COUNT(*) FROM resume_variants WHERE user_id = $1`
)

var inputSchema = validation.MustCompile(InputSchema)

type Handler struct {
	config     *Config
	db         *sql.DB
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := inputSchema.ValidateJSON(job.Variables).Err(); err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return err
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.errHandler.HandleJobError(context.Background(), client, job, stdErr)
		return stdErr
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return err
	}

	return h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	tier := entitlement.Normalize(input.Tier)
	limit := entitlement.LimitsFor(tier).MaxResumeVariants

	var used int
	if err := h.db.QueryRowContext(ctx, countQuery, input.UserID).Scan(&used); err != nil {
		return nil, errors.NewQuotaCheckFailedError(QuotaName, err)
	}

	allowed := used < limit
	if !allowed {
		metrics.RecordQuotaDenial(tier.String(), QuotaName)
		if input.Enforce {
			return nil, errors.NewQuotaExceededError(QuotaName, used, limit)
		}
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}

	return &Output{
		Allowed:   allowed,
		Tier:      tier.String(),
		Used:      used,
		Limit:     limit,
		Remaining: remaining,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}
