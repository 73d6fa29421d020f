// internal/workers/inquiry/store-inquiry/handler.go
package storeinquiry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"travel-inquiry-workers/internal/common/logger"
)

const (
	TaskType = "store-inquiry"
)

var (
	ErrStoreFailed = errors.New("INQUIRY_STORE_FAILED")
	ErrIndexFailed = errors.New("INQUIRY_INDEX_FAILED")
)

// Indexer abstracts the search backend. *database.ElasticsearchClient
// satisfies it; a nil Indexer disables indexing.
type Indexer interface {
	Index(ctx context.Context, index, docID, body string) error
}

type Handler struct {
	config  *Config
	db      *sql.DB
	indexer Indexer
	logger  logger.Logger
}

func NewHandler(config *Config, db *sql.DB, indexer Indexer, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config:  config,
		db:      db,
		indexer: indexer,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "INQUIRY_STORE_FAILED"
		if errors.Is(err, ErrIndexFailed) {
			errorCode = "INQUIRY_INDEX_FAILED"
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
	if inquiry.InquiryID == "" {
		return nil, fmt.Errorf("%w: inquiry id is required", ErrStoreFailed)
	}

	payload, err := json.Marshal(inquiry)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal inquiry: %v", ErrStoreFailed, err)
	}

	if err := h.store(ctx, inquiry.InquiryID, string(payload), input); err != nil {
		return nil, err
	}

	indexed := false
	if h.indexer != nil {
		if err := h.indexer.Index(ctx, h.config.Index, inquiry.InquiryID, string(payload)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
		}
		indexed = true
	}

	h.logger.Info("inquiry stored", map[string]interface{}{
		"inquiryId": inquiry.InquiryID,
		"kind":      inquiry.Classification.Kind,
		"indexed":   indexed,
	})

	return &Output{
		InquiryID: inquiry.InquiryID,
		Stored:    true,
		Indexed:   indexed,
	}, nil
}

// store upserts the inquiry row. Reprocessing the same email produces
// the same inquiry id, so conflicts overwrite the previous payload.
func (h *Handler) store(ctx context.Context, inquiryID, payload string, input *Input) error {
	inquiry := input.Inquiry

	query := fmt.Sprintf(`
		INSERT INTO %s (inquiry_id, inquiry_type, language, customer_email, primary_destination, completeness_score, payload, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (inquiry_id) DO UPDATE SET
			inquiry_type = EXCLUDED.inquiry_type,
			language = EXCLUDED.language,
			customer_email = EXCLUDED.customer_email,
			primary_destination = EXCLUDED.primary_destination,
			completeness_score = EXCLUDED.completeness_score,
			payload = EXCLUDED.payload,
			processed_at = EXCLUDED.processed_at`, h.config.Table)

	_, err := h.db.ExecContext(ctx, query,
		inquiryID,
		string(inquiry.Classification.Kind),
		string(inquiry.Language.Primary),
		inquiry.Customer.Email,
		inquiry.Location.PrimaryDestination,
		inquiry.CompletenessScore,
		payload,
		inquiry.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return nil
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
