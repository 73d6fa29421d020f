// internal/workers/ingestion/fetch-emails/handler.go
package fetchemails

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"travel-inquiry-workers/internal/common/logger"
	"travel-inquiry-workers/internal/common/metrics"
	"travel-inquiry-workers/internal/common/validation"
)

const (
	TaskType = "fetch-emails"
)

var (
	ErrFetchFailed  = errors.New("MAILBOX_FETCH_FAILED")
	ErrAuthFailed   = errors.New("MAILBOX_AUTH_FAILED")
	ErrDedupeFailed = errors.New("DEDUPE_CHECK_FAILED")
)

// emailSchema is the inbound contract: a record is only forwarded to
// the pipeline when the sender is present; subject and body may be
// empty strings but must be strings.
const emailSchema = `{
	"type": "object",
	"required": ["sender"],
	"properties": {
		"messageId": {"type": "string"},
		"subject": {"type": "string"},
		"body": {"type": "string"},
		"sender": {"type": "string", "minLength": 3}
	}
}`

type Handler struct {
	config *Config
	gmail  *GmailClient
	dedupe Deduper
	schema *validation.Schema
	logger logger.Logger
}

func NewHandler(config *Config, gmail *GmailClient, dedupe Deduper, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	schema, err := validation.CompileSchema(emailSchema)
	if err != nil {
		panic(fmt.Sprintf("fetch-emails: invalid email schema: %v", err))
	}
	return &Handler{
		config: config,
		gmail:  gmail,
		dedupe: dedupe,
		schema: schema,
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
		errorCode := "MAILBOX_FETCH_FAILED"
		if errors.Is(err, ErrAuthFailed) {
			errorCode = "MAILBOX_AUTH_FAILED"
		} else if errors.Is(err, ErrDedupeFailed) {
			errorCode = "DEDUPE_CHECK_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	label := h.config.Label
	if input != nil && input.Label != "" {
		label = input.Label
	}
	maxResults := h.config.MaxResults
	if input != nil && input.MaxResults > 0 {
		maxResults = input.MaxResults
	}

	ids, err := h.gmail.ListMessages(ctx, label, maxResults)
	if err != nil {
		return nil, err
	}

	output := &Output{Emails: []EmailRecord{}}
	for _, id := range ids {
		record, err := h.gmail.GetMessage(ctx, id)
		if err != nil {
			return nil, err
		}
		output.Fetched++

		if !h.validRecord(record) {
			output.Invalid++
			continue
		}

		fresh, err := h.markSeen(ctx, record.MessageID)
		if err != nil {
			return nil, err
		}
		if !fresh {
			metrics.DuplicateEmails.Inc()
			output.Duplicates++
			continue
		}

		output.Emails = append(output.Emails, *record)
	}

	h.logger.Info("mailbox fetched", map[string]interface{}{
		"label":      label,
		"fetched":    output.Fetched,
		"forwarded":  len(output.Emails),
		"duplicates": output.Duplicates,
		"invalid":    output.Invalid,
	})

	return output, nil
}

func (h *Handler) validRecord(record *EmailRecord) bool {
	result, err := h.schema.Validate(record)
	if err != nil {
		h.logger.Warn("email payload validation errored", map[string]interface{}{
			"messageId": record.MessageID,
			"error":     err.Error(),
		})
		return false
	}
	if !result.Valid {
		h.logger.Warn("dropping invalid email payload", map[string]interface{}{
			"messageId": record.MessageID,
			"errors":    result.Errors,
		})
		return false
	}
	return true
}

// markSeen consults the deduper; with FailOpen a broken dedupe store
// degrades to treating every message as new.
func (h *Handler) markSeen(ctx context.Context, messageID string) (bool, error) {
	if h.dedupe == nil {
		return true, nil
	}
	fresh, err := h.dedupe.MarkSeen(ctx, messageID)
	if err != nil {
		if h.config.DedupeFailOpen {
			h.logger.Warn("dedupe check failed, treating message as new", map[string]interface{}{
				"messageId": messageID,
				"error":     err.Error(),
			})
			return true, nil
		}
		return false, fmt.Errorf("%w: %v", ErrDedupeFailed, err)
	}
	return fresh, nil
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
