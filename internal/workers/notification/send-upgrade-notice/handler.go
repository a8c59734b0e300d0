// internal/workers/notification/send-upgrade-notice/handler.go
package sendupgradenotice

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	awsclients "jobvance-workers/internal/common/aws"
	"jobvance-workers/internal/common/errors"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/validation"
	"jobvance-workers/internal/entitlement"
	"jobvance-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-upgrade-notice"

	profileQuery = `SELECT email, full_name FROM profiles WHERE id = $1`
)

var inputSchema = validation.MustCompile(InputSchema)

type Handler struct {
	config     *Config
	db         *sql.DB
	sesClient  awsclients.SESService
	snsClient  awsclients.SNSService
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, sesClient awsclients.SESService, snsClient awsclients.SNSService, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		sesClient:  sesClient,
		snsClient:  snsClient,
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
	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)
	tier := entitlement.Normalize(input.Tier)

	suggested, ok := SuggestTier(tier, input.Reason, input.Feature)
	if !ok {
		return &Output{NotificationID: notificationID, Status: StatusSkipped, SentAt: sentAt}, nil
	}

	out := &Output{
		NotificationID: notificationID,
		Status:         StatusDisabled,
		SuggestedTier:  suggested.String(),
		SentAt:         sentAt,
	}

	// The recipient is resolved before the lead goes out: a failed lookup
	// is retried by the broker and must not publish a lead per attempt.
	profile, err := h.recipient(ctx, input.UserID)
	if err != nil {
		return nil, errors.NewProfileLookupFailedError(input.UserID, err)
	}

	out.LeadPublished = h.publishLead(ctx, &upgradeLead{
		Event:          "upgrade_lead",
		NotificationID: notificationID,
		UserID:         input.UserID,
		CurrentTier:    tier.String(),
		SuggestedTier:  suggested.String(),
		Reason:         input.Reason,
		Feature:        input.Feature,
		Quota:          input.Quota,
		OccurredAt:     sentAt,
	})

	if profile == nil || profile.Email == "" {
		return out, nil
	}

	tmpl := templates[input.Reason]
	data := map[string]interface{}{
		"name":          displayName(profile),
		"tier":          tier.String(),
		"suggestedTier": suggested.String(),
		"feature":       input.Feature,
		"quota":         input.Quota,
		"upgradeUrl":    h.config.UpgradeURL,
	}

	if err := h.sendEmail(ctx, profile.Email, renderTemplate(tmpl.subject, data), renderTemplate(tmpl.body, data)); err != nil {
		sendErr := errors.NewNotificationSendFailedError("email", err)
		h.logger.Error("email send failed", map[string]interface{}{
			"error":  err,
			"code":   sendErr.Code,
			"userId": input.UserID,
		})
		out.Status = StatusFailed
		out.ErrorCode = string(sendErr.Code)
		return out, nil
	}

	out.Status = StatusSent
	return out, nil
}

// SuggestTier picks the plan to pitch. A locked feature points at the
// cheapest tier that unlocks it; every other reason points one tier up.
// ok is false when there is nothing to upgrade to.
func SuggestTier(current entitlement.Tier, reason, feature string) (entitlement.Tier, bool) {
	if reason == ReasonFeatureLocked && feature != "" {
		if f, err := entitlement.ParseFeature(feature); err == nil {
			if required, ok := entitlement.RequiredTier(f); ok && required.Rank() > current.Rank() {
				return required, true
			}
		}
	}
	return current.Next()
}

// recipient returns nil without error when email is off or the user has
// no profile row.
func (h *Handler) recipient(ctx context.Context, userID string) (*models.Profile, error) {
	if !h.config.EmailEnabled || h.sesClient == nil {
		return nil, nil
	}

	profile, err := h.loadProfile(ctx, userID)
	if stderrors.Is(err, sql.ErrNoRows) {
		h.logger.Warn("recipient not found", map[string]interface{}{
			"userId": userID,
		})
		return nil, nil
	}
	return profile, err
}

func (h *Handler) loadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile := &models.Profile{ID: userID}
	var fullName sql.NullString
	if err := h.db.QueryRowContext(ctx, profileQuery, userID).Scan(&profile.Email, &fullName); err != nil {
		return nil, err
	}
	profile.FullName = fullName.String
	return profile, nil
}

func displayName(p *models.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return "there"
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) publishLead(ctx context.Context, lead *upgradeLead) bool {
	if h.config.SalesTopicARN == "" || h.snsClient == nil {
		return false
	}

	payload, err := json.Marshal(lead)
	if err != nil {
		return false
	}

	_, err = h.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.SalesTopicARN),
		Subject:  aws.String("upgrade_lead"),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		h.logger.Warn("lead publish failed", map[string]interface{}{
			"error":  err.Error(),
			"userId": lead.UserID,
		})
		return false
	}
	return true
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
