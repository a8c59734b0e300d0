// internal/workers/jobs/check-daily-quota/handler.go
package checkdailyquota

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/metrics"
	"jobvance-workers/internal/common/validation"
	"jobvance-workers/internal/entitlement"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType  = "check-daily-quota"
	QuotaName = "dailyApplications"
)

var inputSchema = validation.MustCompile(InputSchema)

type Handler struct {
	config     *Config
	redis      *redis.Client
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	now        func() time.Time
}

func NewHandler(config *Config, redis *redis.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		redis:      redis,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
		now:        time.Now,
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
	limit := entitlement.LimitsFor(tier).MaxDailyApplications
	key := CounterKey(input.UserID, h.now())

	var (
		used    int
		allowed bool
		err     error
	)
	if input.Consume {
		used, allowed, err = h.consume(ctx, key, limit)
	} else {
		used, err = h.peek(ctx, key)
		allowed = used < limit
	}
	if err != nil {
		return nil, errors.NewQuotaCheckFailedError(QuotaName, err)
	}

	if !allowed {
		metrics.RecordQuotaDenial(tier.String(), QuotaName)
		h.logger.Info("daily application quota reached", map[string]interface{}{
			"userId": input.UserID,
			"tier":   tier,
			"used":   used,
			"limit":  limit,
		})
		if input.Enforce {
			return nil, errors.NewQuotaExceededError(QuotaName, used, limit)
		}
	}

	return &Output{
		Allowed:   allowed,
		Tier:      tier.String(),
		Used:      used,
		Limit:     limit,
		Remaining: remaining(used, limit),
	}, nil
}

// CounterKey is the per-user counter for the UTC calendar day of at.
func CounterKey(userID string, at time.Time) string {
	return fmt.Sprintf("quota:applications:%s:%s", userID, at.UTC().Format("2006-01-02"))
}

func (h *Handler) peek(ctx context.Context, key string) (int, error) {
	used, err := h.redis.Get(ctx, key).Int()
	if stderrors.Is(err, redis.Nil) {
		return 0, nil
	}
	return used, err
}

// consume takes one unit. An increment past the limit is rolled back so
// the counter never exceeds the allowance.
func (h *Handler) consume(ctx context.Context, key string, limit int) (int, bool, error) {
	var incr *redis.IntCmd
	_, err := h.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, h.config.CounterTTL)
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	used := int(incr.Val())
	if used <= limit {
		return used, true, nil
	}

	if err := h.redis.Decr(ctx, key).Err(); err != nil {
		h.logger.Warn("failed to roll back quota increment", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return used - 1, false, nil
}

func remaining(used, limit int) int {
	if used >= limit {
		return 0
	}
	return limit - used
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
