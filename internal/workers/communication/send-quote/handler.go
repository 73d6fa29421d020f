// internal/workers/communication/send-quote/handler.go
package sendquote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"travel-inquiry-workers/internal/common/logger"
	"travel-inquiry-workers/internal/models"
)

const (
	TaskType = "send-quote"
)

var (
	ErrSendFailed   = errors.New("QUOTE_SEND_FAILED")
	ErrRenderFailed = errors.New("QUOTE_RENDER_FAILED")
)

// SESService is the slice of the SES API the worker uses;
// *aws.SESClient satisfies it.
type SESService interface {
	SendRawEmail(ctx context.Context, input *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error)
}

// SNSService is the slice of the SNS API the worker uses;
// *aws.SNSClient satisfies it.
type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

func NewHandler(config *Config, sesSvc SESService, snsSvc SNSService, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		ses:    sesSvc,
		sns:    snsSvc,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "QUOTE_SEND_FAILED"
		if errors.Is(err, ErrRenderFailed) {
			errorCode = "QUOTE_RENDER_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	inquiry := input.Inquiry

	output := &Output{}

	if h.config.EmailEnabled {
		messageID, err := h.sendEmail(ctx, input)
		if err != nil {
			return nil, err
		}
		output.EmailMessageID = messageID
	}

	if h.shouldSendSMS(inquiry) {
		messageID, err := h.sendSMS(ctx, inquiry)
		if err != nil {
			return nil, err
		}
		output.SMSMessageID = messageID
	}

	output.Success = true
	output.SentAt = time.Now().UTC().Format(time.RFC3339)

	h.logger.Info("quote sent", map[string]interface{}{
		"inquiryId":      inquiry.InquiryID,
		"emailMessageId": output.EmailMessageID,
		"smsSent":        output.SMSMessageID != "",
	})

	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) (string, error) {
	recipient := input.Inquiry.Customer.Email
	if recipient == "" {
		return "", fmt.Errorf("%w: inquiry has no customer email", ErrRenderFailed)
	}

	raw, err := buildRawEmail(h.config, recipient, input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	result, err := h.ses.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &sestypes.RawMessage{Data: raw},
		Source:       aws.String(h.config.FromEmail),
		Destinations: []string{recipient},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return aws.ToString(result.MessageId), nil
}

// shouldSendSMS gates the SMS alert: modification inquiries at or above
// the configured urgency, with a phone number to reach.
func (h *Handler) shouldSendSMS(inquiry models.StructuredInquiry) bool {
	if !h.config.SMSEnabled || h.sns == nil {
		return false
	}
	if inquiry.Modification == nil || inquiry.Customer.Phone == "" {
		return false
	}
	return urgencyRank(inquiry.Modification.Urgency) >= urgencyRank(h.config.UrgencyThreshold)
}

func urgencyRank(urgency string) int {
	if urgency == "high" {
		return 1
	}
	return 0
}

func (h *Handler) sendSMS(ctx context.Context, inquiry models.StructuredInquiry) (string, error) {
	message := fmt.Sprintf("Your travel quote update for %s is on its way by email (ref %s).",
		inquiry.Location.PrimaryDestination, inquiry.InquiryID)
	if inquiry.Location.PrimaryDestination == "" {
		message = fmt.Sprintf("Your travel quote update is on its way by email (ref %s).", inquiry.InquiryID)
	}

	result, err := h.sns.Publish(ctx, &sns.PublishInput{
		Message:     aws.String(message),
		PhoneNumber: aws.String(inquiry.Customer.Phone),
	})
	if err != nil {
		return "", fmt.Errorf("%w: sms: %v", ErrSendFailed, err)
	}

	return aws.ToString(result.MessageId), nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
