// internal/workers/jobs/search-jobs/handler.go
package searchjobs

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/metrics"
	"jobvance-workers/internal/common/validation"
	"jobvance-workers/internal/entitlement"
	"jobvance-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const TaskType = "search-jobs"

var (
	ErrSearchRejected    = stderrors.New("search rejected by cluster")
	ErrMalformedResponse = stderrors.New("malformed search response")
)

var inputSchema = validation.MustCompile(InputSchema)

type Handler struct {
	config     *Config
	client     *elasticsearch.Client
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		client:     client,
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
	size := h.pageSize(input.Size, tier)

	body, err := json.Marshal(buildQuery(input))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	from := input.From
	req := esapi.SearchRequest{
		Index: []string{h.config.Index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}

	start := time.Now()
	res, err := req.Do(ctx, h.client)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewSearchTimeoutError(h.config.Index)
		}
		return nil, errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, errors.NewIndexNotFoundError(h.config.Index)
	}
	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("%w: %s", ErrSearchRejected, res.Status()))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	listings := toListings(&sr)
	jobs, visible, masked := models.MaskListings(listings, tier, input.From)
	metrics.RecordRowsMasked(tier.String(), masked)

	h.logger.Info("job search completed", map[string]interface{}{
		"userId":    input.UserID,
		"tier":      tier,
		"size":      size,
		"totalHits": sr.Hits.Total.Value,
		"returned":  len(jobs),
		"masked":    masked,
	})

	took := sr.Took
	if took == 0 {
		took = time.Since(start).Milliseconds()
	}

	return &Output{
		Jobs:            jobs,
		TotalHits:       sr.Hits.Total.Value,
		VisibleCount:    visible,
		MaskedCount:     masked,
		UpgradeRequired: masked > 0,
		Took:            took,
	}, nil
}

// pageSize applies the configured default and ceiling, then caps the page
// at the tier's daily application allowance.
func (h *Handler) pageSize(requested int, tier entitlement.Tier) int {
	size := requested
	if size <= 0 {
		size = h.config.DefaultSize
	}
	if h.config.MaxSize > 0 && size > h.config.MaxSize {
		size = h.config.MaxSize
	}
	if limit := entitlement.LimitsFor(tier).MaxDailyApplications; size > limit {
		size = limit
	}
	return size
}

func toListings(sr *searchResponse) []models.JobListing {
	maxScore := 0.0
	if sr.Hits.MaxScore != nil {
		maxScore = *sr.Hits.MaxScore
	}

	listings := make([]models.JobListing, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		doc := hit.Source
		id := doc.ID
		if id == "" {
			id = hit.ID
		}

		score := 0.0
		if hit.Score != nil && maxScore > 0 {
			score = *hit.Score / maxScore
		}

		listings = append(listings, models.JobListing{
			ID:         id,
			Title:      doc.Title,
			Company:    doc.Company,
			Location:   doc.Location,
			URL:        doc.URL,
			Remote:     doc.Remote,
			MatchScore: score,
			PostedAt:   doc.PostedAt,
		})
	}
	return listings
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
