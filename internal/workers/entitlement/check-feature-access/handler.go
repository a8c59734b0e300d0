// internal/workers/entitlement/check-feature-access/handler.go
package checkfeatureaccess

import (
	"context"
	"encoding/json"

	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/metrics"
	"jobvance-workers/internal/common/validation"
	"jobvance-workers/internal/entitlement"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "check-feature-access"

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

	input, err := parseInput(job.Variables)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return err
	}

	return h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// execute answers the gate question. With Enforce set a denial becomes a
// FEATURE_LOCKED BPMN error so the model can route to the upgrade path.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	feature, err := entitlement.ParseFeature(input.Feature)
	if err != nil {
		return nil, errors.NewUnknownFeatureError(input.Feature, err)
	}

	tier := entitlement.Normalize(input.Tier)
	allowed := entitlement.CanUseFeature(tier, feature)
	required, _ := entitlement.RequiredTier(feature)

	metrics.RecordFeatureCheck(tier.String(), feature.String(), allowed)

	h.logger.Debug("feature gate evaluated", map[string]interface{}{
		"tier":    tier,
		"feature": feature,
		"allowed": allowed,
	})

	if !allowed && input.Enforce {
		return nil, errors.NewFeatureLockedError(tier.String(), feature.String(), required.String())
	}

	return &Output{
		Allowed:      allowed,
		Tier:         tier.String(),
		Feature:      feature.String(),
		RequiredTier: required.String(),
	}, nil
}

func parseInput(variables string) (*Input, error) {
	if err := inputSchema.ValidateJSON(variables).Err(); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	return &input, nil
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
