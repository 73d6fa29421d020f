// internal/workers/inquiry/detect-language/handler.go
package detectlanguage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"travel-inquiry-workers/internal/common/logger"
	"travel-inquiry-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "detect-language"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.MaxConfidence == 0 {
		config.MaxConfidence = 0.99
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
		h.failJob(client, job, "LANGUAGE_DETECTION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

// execute never fails for well-formed input: detection always returns a
// result, defaulting to english for empty or trivial text.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	text := strings.TrimSpace(input.Subject + " " + input.Body)
	result := h.Detect(text)

	h.logger.Info("language detected", map[string]interface{}{
		"language":   result.Primary,
		"confidence": result.Confidence,
	})

	return &Output{LanguageInfo: result}, nil
}

// Detect scores the text against all four language categories and
// applies the script-composition adjustment pass.
func (h *Handler) Detect(text string) models.LanguageResult {
	if strings.TrimSpace(text) == "" {
		return models.LanguageResult{
			Primary:    models.LanguageEnglish,
			Confidence: 0.8,
			Scores: map[models.Language]float64{
				models.LanguageHindi:        0,
				models.LanguageHindiEnglish: 0,
				models.LanguageHinglish:     0,
				models.LanguageEnglish:      0,
			},
			Rationale: "Empty text defaults to English",
		}
	}

	textLower := strings.ToLower(text)

	scores := map[models.Language]float64{
		models.LanguageHindi:        h.hindiScore(text),
		models.LanguageHindiEnglish: h.hindiEnglishScore(textLower),
		models.LanguageHinglish:     h.hinglishScore(textLower),
		models.LanguageEnglish:      h.englishScore(textLower),
	}

	primary := bestLanguage(scores)
	confidence := scores[primary]

	primary, confidence, rationale := h.adjustForScript(text, primary, confidence, scores)

	if confidence > h.config.MaxConfidence {
		confidence = h.config.MaxConfidence
	}

	return models.LanguageResult{
		Primary:    primary,
		Confidence: confidence,
		Scores:     scores,
		Rationale:  rationale,
	}
}

func (h *Handler) hindiScore(text string) float64 {
	score := 0.0

	runes := len([]rune(text))
	devanagariChars := len(devanagariRe.FindAllString(text, -1))
	if devanagariChars > 0 && runes > 0 {
		density := float64(devanagariChars) / float64(runes) * 2.0
		if density > 0.8 {
			density = 0.8
		}
		score += density
	}

	for _, marker := range hindiMarkers {
		if strings.Contains(text, marker) {
			score += 0.15
		}
	}

	// Each pattern counts once; repeated matches do not inflate the score.
	for _, pattern := range hindiDevanagariPatterns {
		if pattern.MatchString(text) {
			score += 0.15
		}
	}

	return capScore(score)
}

func (h *Handler) hindiEnglishScore(textLower string) float64 {
	score := 0.0

	for _, marker := range hindiEnglishMarkers {
		if strings.Contains(textLower, marker) {
			score += 0.2
		}
	}

	for _, pattern := range hindiEnglishPatterns {
		if pattern.MatchString(textLower) {
			score += 0.15
		}
	}

	// Romanized-Hindi construction: "ke liye" around "yatra"
	if strings.Contains(textLower, "ke liye") && strings.Contains(textLower, "yatra") {
		score += 0.3
	}

	return capScore(score)
}

func (h *Handler) hinglishScore(textLower string) float64 {
	score := 0.0

	for _, marker := range hinglishMarkers {
		if strings.Contains(textLower, marker) {
			score += 0.2
		}
	}

	for _, pattern := range hinglishPatterns {
		if pattern.MatchString(textLower) {
			score += 0.15
		}
	}

	if mixedEnglishWordsRe.MatchString(textLower) && mixedHindiWordsRe.MatchString(textLower) {
		// Both word sets present at once is the strongest code-mix signal
		score += 0.4
	}

	return capScore(score)
}

func (h *Handler) englishScore(textLower string) float64 {
	score := 0.0

	for _, marker := range englishMarkers {
		if strings.Contains(textLower, marker) {
			score += 0.15
		}
	}

	for _, pattern := range englishPatterns {
		if pattern.MatchString(textLower) {
			score += 0.1
		}
	}

	for _, pattern := range formalEnglishPatterns {
		if pattern.MatchString(textLower) {
			score += 0.2
		}
	}

	return capScore(score)
}

// adjustForScript resolves ambiguities word counting cannot settle by
// inspecting raw script composition.
func (h *Handler) adjustForScript(text string, primary models.Language, confidence float64, scores map[models.Language]float64) (models.Language, float64, string) {
	hasDevanagari := devanagariRe.MatchString(text)
	hasLatin := latinRe.MatchString(text)

	var details []string

	switch {
	case hasDevanagari && hasLatin:
		if primary == models.LanguageHindi && confidence > 0.7 {
			details = append(details, "Pure Hindi with some English words")
		} else {
			primary = models.LanguageHinglish
			confidence = scores[models.LanguageHinglish]
			if confidence < 0.8 {
				confidence = 0.8
			}
			details = append(details, "Mixed Devanagari and English script detected")
		}

	case hasDevanagari:
		primary = models.LanguageHindi
		confidence = scores[models.LanguageHindi]
		if confidence < 0.9 {
			confidence = 0.9
		}
		details = append(details, "Pure Devanagari script")

	case hasLatin:
		hinglish := scores[models.LanguageHinglish]
		hindiEnglish := scores[models.LanguageHindiEnglish]
		switch {
		case hinglish > 0.5 && hinglish >= hindiEnglish:
			primary = models.LanguageHinglish
			confidence = hinglish
			details = append(details, "Hinglish detected in English script")
		case hindiEnglish > 0.4:
			primary = models.LanguageHindiEnglish
			confidence = hindiEnglish
			details = append(details, "Hindi written in English script")
		default:
			primary = models.LanguageEnglish
			confidence = scores[models.LanguageEnglish]
			if confidence < 0.8 {
				confidence = 0.8
			}
			details = append(details, "Pure English detected")
		}
	}

	if confidence < 0.6 {
		sorted := sortedScores(scores)
		if len(sorted) > 1 && sorted[0]-sorted[1] < 0.2 {
			details = append(details, "Close scores between languages")
			if confidence < 0.7 {
				confidence = 0.7
			}
		}
	}

	rationale := "Standard detection"
	if len(details) > 0 {
		rationale = strings.Join(details, "; ")
	}

	return primary, confidence, rationale
}

func bestLanguage(scores map[models.Language]float64) models.Language {
	// Ties resolve in a fixed order so detection stays deterministic.
	order := []models.Language{
		models.LanguageHindi,
		models.LanguageHindiEnglish,
		models.LanguageHinglish,
		models.LanguageEnglish,
	}
	best := models.LanguageEnglish
	bestScore := -1.0
	for _, lang := range order {
		if scores[lang] > bestScore {
			best = lang
			bestScore = scores[lang]
		}
	}
	return best
}

func sortedScores(scores map[models.Language]float64) []float64 {
	vals := make([]float64, 0, len(scores))
	for _, v := range scores {
		vals = append(vals, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
	return vals
}

func capScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
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
