// internal/workers/jobs/mask-job-results/handler.go
package maskjobresults

import (
	"context"
	"encoding/json"
	"fmt"

	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/metrics"
	"jobvance-workers/internal/common/validation"
	"jobvance-workers/internal/entitlement"
	"jobvance-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "mask-job-results"

var inputSchema = validation.MustCompile(InputSchema)

type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := inputSchema.ValidateJSON(job.Variables).Err(); err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return err
	}
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if h.config.MaxJobs > 0 && len(input.Jobs) > h.config.MaxJobs {
		return nil, errors.NewBusinessRuleError("Too many job rows to mask",
			fmt.Sprintf("jobs: %d rows exceeds maximum of %d", len(input.Jobs), h.config.MaxJobs))
	}

	tier := entitlement.Normalize(input.Tier)
	jobs, visible, masked := models.MaskListings(input.Jobs, tier, input.Offset)

	metrics.RecordRowsMasked(tier.String(), masked)

	h.logger.Debug("job results masked", map[string]interface{}{
		"tier":    tier,
		"visible": visible,
		"masked":  masked,
	})

	return &Output{
		Jobs:            jobs,
		VisibleCount:    visible,
		MaskedCount:     masked,
		UpgradeRequired: masked > 0,
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
