// internal/workers/entitlement/resolve-entitlement/handler.go
package resolveentitlement

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"

	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/validation"
	"jobvance-workers/internal/entitlement"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "resolve-entitlement"

	cacheKeyPrefix = "entitlement:tier:"
	profileQuery   = `SELECT subscription_tier FROM profiles WHERE id = $1`
)

var inputSchema = validation.MustCompile(InputSchema)

type Handler struct {
	config     *Config
	db         *sql.DB
	redis      *redis.Client
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		redis:      redis,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SubscriptionTier != nil && strings.TrimSpace(*input.SubscriptionTier) != "" {
		return newOutput(entitlement.NormalizePtr(input.SubscriptionTier), ResolvedFromInput), nil
	}

	cacheKey := cacheKeyPrefix + input.UserID
	if tier, ok := h.cachedTier(ctx, cacheKey); ok {
		return newOutput(tier, ResolvedFromCache), nil
	}

	var raw sql.NullString
	err := h.db.QueryRowContext(ctx, profileQuery, input.UserID).Scan(&raw)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			h.logger.Debug("no profile row, using default tier", map[string]interface{}{
				"userId": input.UserID,
			})
			return newOutput(entitlement.TierFree, ResolvedFromDefault), nil
		}
		return nil, errors.NewProfileLookupFailedError(input.UserID, err)
	}

	if !raw.Valid {
		return newOutput(entitlement.TierFree, ResolvedFromDefault), nil
	}

	tier := entitlement.Normalize(raw.String)
	h.cacheTier(ctx, cacheKey, tier)

	return newOutput(tier, ResolvedFromDatabase), nil
}

func (h *Handler) cachedTier(ctx context.Context, key string) (entitlement.Tier, bool) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return "", false
	}

	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			h.logger.Warn("tier cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return "", false
	}

	tier, err := entitlement.ParseTier(val)
	if err != nil {
		return "", false
	}
	return tier, true
}

func (h *Handler) cacheTier(ctx context.Context, key string, tier entitlement.Tier) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return
	}
	if err := h.redis.Set(ctx, key, string(tier), h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("tier cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func newOutput(tier entitlement.Tier, from string) *Output {
	return &Output{
		Entitlement:  entitlement.For(tier),
		ResolvedFrom: from,
	}
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
