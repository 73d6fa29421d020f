// internal/workers/inquiry/classify-inquiry/handler.go
package classifyinquiry

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"travel-inquiry-workers/internal/common/logger"
	"travel-inquiry-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "classify-inquiry"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "CLASSIFICATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	result := h.Classify(input.Subject, input.Body)

	h.logger.Info("inquiry classified", map[string]interface{}{
		"kind":       result.Kind,
		"confidence": result.Confidence,
	})

	return &Output{Classification: result}, nil
}

// Classify resolves the inquiry kind by priority: modification first,
// then multi-leg, then single_leg as the default. The first matching
// kind wins and is never revised by later stages.
func (h *Handler) Classify(subject, body string) models.Classification {
	combined := strings.ToLower(subject + " " + body)

	if h.isModification(combined, subject) {
		return models.Classification{
			Kind:       models.KindModification,
			Confidence: h.config.ModificationConfidence,
			Rationale:  "Contains modification indicators",
		}
	}

	isMulti := h.isMultiLeg(combined)
	isSingle := h.isSingleLeg(combined)

	if isMulti && isSingle {
		multiScore := multiLegConfidence(combined)
		singleScore := singleLegConfidence(combined)

		if multiScore > singleScore {
			return models.Classification{
				Kind:       models.KindMultiLeg,
				Confidence: h.config.MultiLegConfidence,
				Rationale:  fmt.Sprintf("Multi-leg confidence: %.2f > Single-leg: %.2f", multiScore, singleScore),
			}
		}
		return models.Classification{
			Kind:       models.KindSingleLeg,
			Confidence: h.config.MultiLegConfidence,
			Rationale:  fmt.Sprintf("Single-leg confidence: %.2f > Multi-leg: %.2f", singleScore, multiScore),
		}
	}

	if isMulti {
		return models.Classification{
			Kind:       models.KindMultiLeg,
			Confidence: h.config.MultiLegConfidence,
			Rationale:  "Multiple destinations with specific preferences detected",
		}
	}

	return models.Classification{
		Kind:       models.KindSingleLeg,
		Confidence: h.config.SingleLegConfidence,
		Rationale:  "Single destination or default classification",
	}
}

func (h *Handler) isModification(combined, subject string) bool {
	subjectLower := strings.ToLower(subject)
	for _, pattern := range modificationPatterns {
		if pattern.MatchString(subjectLower) {
			return true
		}
	}
	for _, pattern := range modificationPatterns {
		if pattern.MatchString(combined) {
			return true
		}
	}
	return false
}

func (h *Handler) isMultiLeg(text string) bool {
	// Tier one: two or more location-scoped preference sections.
	if len(uniqueCaptures(locationPreferencePatterns, text)) >= 2 {
		return true
	}

	// Tier two: explicit paired-destination phrasing with two distinct
	// place names of plausible length.
	for _, pattern := range multiLegPatterns {
		for _, groups := range pattern.FindAllStringSubmatch(text, -1) {
			if len(groups) >= 3 {
				dest1, dest2 := groups[1], groups[2]
				if !strings.EqualFold(dest1, dest2) && len(dest1) > 2 && len(dest2) > 2 {
					return true
				}
			}
		}
	}

	// Tier three: two or more destinations each carrying preference
	// vocabulary.
	if len(uniqueCaptures(preferenceIndicatorPatterns, text)) >= 2 {
		return true
	}

	// Departure cities produce false pairs; a single travel-to
	// destination means the inquiry is single-leg.
	return false
}

func (h *Handler) isSingleLeg(text string) bool {
	for _, pattern := range singleLegPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	count := 0
	for _, pattern := range travelDestPatterns {
		for _, groups := range pattern.FindAllStringSubmatch(text, -1) {
			if len(groups[1]) > 2 {
				count++
			}
		}
	}
	return count == 1
}

func multiLegConfidence(text string) float64 {
	confidence := 0.0

	if len(uniqueCaptures([]*regexp.Regexp{locationSectionRe}, text)) >= 2 {
		confidence += 0.8
	}

	for _, pattern := range destSpecificPatterns {
		if len(pattern.FindAllString(text, -1)) >= 2 {
			confidence += 0.6
		}
	}

	if len(transportPerLocationRe.FindAllString(text, -1)) >= 2 {
		confidence += 0.4
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func singleLegConfidence(text string) float64 {
	confidence := 0.0

	for _, pattern := range singleConfidencePatterns {
		if pattern.MatchString(text) {
			confidence += 0.7
		}
	}

	for _, pattern := range generalPreferencePatterns {
		if pattern.MatchString(text) {
			confidence += 0.2
		}
	}

	if len(uniqueCaptures([]*regexp.Regexp{locationSectionRe}, text)) >= 2 {
		confidence -= 0.8
	}

	if confidence < 0.0 {
		confidence = 0.0
	}
	return confidence
}

// uniqueCaptures collects distinct lowercased first-group captures
// longer than two characters across the given patterns.
func uniqueCaptures(patterns []*regexp.Regexp, text string) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		for _, groups := range pattern.FindAllStringSubmatch(text, -1) {
			if len(groups) >= 2 && len(groups[1]) > 2 {
				seen[strings.ToLower(groups[1])] = struct{}{}
			}
		}
	}
	return seen
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
