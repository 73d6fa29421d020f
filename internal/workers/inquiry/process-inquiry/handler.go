// internal/workers/inquiry/process-inquiry/handler.go
package processinquiry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"travel-inquiry-workers/internal/common/logger"
	"travel-inquiry-workers/internal/common/metrics"
	"travel-inquiry-workers/internal/models"
	classifyinquiry "travel-inquiry-workers/internal/workers/inquiry/classify-inquiry"
	detectlanguage "travel-inquiry-workers/internal/workers/inquiry/detect-language"
	extractfields "travel-inquiry-workers/internal/workers/inquiry/extract-fields"
	segmentlegs "travel-inquiry-workers/internal/workers/inquiry/segment-legs"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "process-inquiry"
)

var senderEmailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// Destinations recognized in subject lines when the body names none.
var subjectDestinations = []string{
	"bali", "singapore", "dubai", "maldives", "goa", "kerala", "thailand",
	"malaysia", "japan", "europe", "usa", "canada", "australia",
}

// ResultCache is the subset of the Redis client used to memoize
// processed inquiries.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Handler composes the pipeline stages in-process: language detection,
// classification, field extraction and leg segmentation run as plain
// function calls, so the full pipeline also works without a broker.
type Handler struct {
	config *Config
	logger logger.Logger
	cache  ResultCache

	detect   *detectlanguage.Handler
	classify *classifyinquiry.Handler
	extract  *extractfields.Handler
	segment  *segmentlegs.Handler

	// now is the single source of time; injectable so tests pin the
	// only nondeterministic part of an inquiry id.
	now func() time.Time
}

func NewHandler(config *Config, log logger.Logger, cache ResultCache) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.CacheKeyPrefix == "" {
		config.CacheKeyPrefix = "inq:result:"
	}

	extractConfig := extractfields.LoadConfig()
	if config.DefaultCurrency != "" {
		extractConfig.DefaultCurrency = config.DefaultCurrency
	}

	return &Handler{
		config:   config,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		cache:    cache,
		detect:   detectlanguage.NewHandler(nil, log),
		classify: classifyinquiry.NewHandler(nil, log),
		extract:  extractfields.NewHandler(extractConfig, log),
		segment:  segmentlegs.NewHandler(nil, log),
		now:      time.Now,
	}
}

// WithClock replaces the time source. Test helper.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "INQUIRY_PROCESSING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	inquiry := h.Process(ctx, models.InquiryText{
		Subject: input.Subject,
		Body:    input.Body,
		Sender:  input.Sender,
	})
	return &Output{Inquiry: inquiry}, nil
}

// Process aggregates all pipeline stages into a StructuredInquiry.
// This is the only containment boundary: a panic in any stage is
// recovered into an error record instead of propagating.
func (h *Handler) Process(ctx context.Context, text models.InquiryText) (inquiry models.StructuredInquiry) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("inquiry processing panicked", map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
			})
			metrics.InquiriesFailed.WithLabelValues("INQUIRY_PROCESSING_FAILED").Inc()
			inquiry = h.errorRecord(text, fmt.Sprintf("%v", r))
		}
	}()

	contentHash := hashContent(text)

	if cached, ok := h.cachedResult(ctx, contentHash); ok {
		return cached
	}

	inquiryID := fmt.Sprintf("INQ_%d_%s", h.now().Unix(), contentHash)

	language := h.detect.Detect(strings.TrimSpace(text.Subject + " " + text.Body))
	classification := h.classify.Classify(text.Subject, text.Body)
	fields := h.extract.Extract(text.Subject, text.Body)

	inquiry = models.StructuredInquiry{
		InquiryID:      inquiryID,
		Classification: classification,
		Language:       language,
		Customer:       h.customerDetails(text.Sender, fields),
		Dates:          dateDetails(fields),
		Travelers:      travelerDetails(fields),
		Location:       h.locationDetails(text.Body, fields, classification),
		Preferences:    preferenceDetails(fields),
		Budget:         budgetDetails(fields),
		DepartureCity:  fields.DepartureCity.Get(),
		Deadline:       fields.Deadline.Get(),
		ProcessedAt:    h.now().UTC().Format(time.RFC3339),
	}

	if classification.Kind == models.KindModification {
		details := modificationDetails(text.Body)
		inquiry.Modification = &details
	}

	h.validateAndEnhance(&inquiry, text.Subject)
	inquiry.CompletenessScore = completenessScore(&inquiry)

	metrics.InquiriesProcessed.WithLabelValues(string(classification.Kind), string(language.Primary)).Inc()
	metrics.InquiryCompleteness.Observe(inquiry.CompletenessScore)

	h.cacheResult(ctx, contentHash, inquiry)

	h.logger.Info("inquiry processed", map[string]interface{}{
		"inquiryId":    inquiry.InquiryID,
		"kind":         classification.Kind,
		"language":     language.Primary,
		"completeness": inquiry.CompletenessScore,
	})

	return inquiry
}

func hashContent(text models.InquiryText) string {
	sum := sha256.Sum256([]byte(text.Subject + text.Body + text.Sender))
	return hex.EncodeToString(sum[:])[:8]
}

func (h *Handler) cachedResult(ctx context.Context, contentHash string) (models.StructuredInquiry, bool) {
	if !h.config.CacheEnabled || h.cache == nil {
		return models.StructuredInquiry{}, false
	}
	raw, err := h.cache.Get(ctx, h.config.CacheKeyPrefix+contentHash)
	if err != nil || raw == "" {
		return models.StructuredInquiry{}, false
	}
	var inquiry models.StructuredInquiry
	if err := json.Unmarshal([]byte(raw), &inquiry); err != nil {
		h.logger.Warn("dropping unreadable cached inquiry", map[string]interface{}{
			"error": err.Error(),
		})
		return models.StructuredInquiry{}, false
	}
	return inquiry, true
}

func (h *Handler) cacheResult(ctx context.Context, contentHash string, inquiry models.StructuredInquiry) {
	if !h.config.CacheEnabled || h.cache == nil {
		return
	}
	raw, err := json.Marshal(inquiry)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, h.config.CacheKeyPrefix+contentHash, string(raw), h.config.CacheTTL); err != nil {
		h.logger.Warn("failed to cache inquiry result", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) customerDetails(sender string, fields extractfields.Fields) models.CustomerDetails {
	email := sender
	if m := senderEmailRe.FindString(sender); m != "" {
		email = m
	}

	name := "Unknown"
	if idx := strings.Index(sender, "<"); idx >= 0 {
		name = strings.TrimSpace(sender[:idx])
	} else if at := strings.Index(sender, "@"); at >= 0 {
		name = titleCase(strings.ReplaceAll(sender[:at], ".", " "))
	}

	return models.CustomerDetails{
		Name:      name,
		Email:     email,
		Phone:     fields.Phone.Get(),
		RawSender: sender,
	}
}

func dateDetails(fields extractfields.Fields) models.DateDetails {
	return models.DateDetails{
		StartDate:        fields.StartDate.Get(),
		EndDate:          fields.EndDate.Get(),
		Duration:         fields.Duration.Get(),
		HasSpecificDates: fields.StartDate.Found() || fields.EndDate.Found(),
	}
}

func travelerDetails(fields extractfields.Fields) models.TravelerDetails {
	adults := fields.Adults.Get()
	children := fields.Children.Get()

	total := fields.TotalTravelers.Get()
	if total == 0 && adults > 0 {
		total = adults + children
	}

	return models.TravelerDetails{
		TotalTravelers:     total,
		Adults:             adults,
		Children:           children,
		BreakdownAvailable: fields.Adults.Found(),
	}
}

func (h *Handler) locationDetails(body string, fields extractfields.Fields, classification models.Classification) models.LocationDetails {
	destinations := fields.Destinations.Get()
	if destinations == nil {
		destinations = []string{}
	}

	details := models.LocationDetails{
		AllDestinations:  destinations,
		DestinationCount: len(destinations),
	}
	if len(destinations) > 0 {
		details.PrimaryDestination = destinations[0]
	}

	if classification.Kind == models.KindMultiLeg && len(destinations) > 1 {
		details.Legs = h.segment.Segment(body, destinations, fields.Hotel.Get(), fields.Meals.Get())
	}

	return details
}

func preferenceDetails(fields extractfields.Fields) models.PreferenceDetails {
	details := models.PreferenceDetails{
		Hotel:               fields.Hotel.Get(),
		Meals:               fields.Meals.Get(),
		Activities:          fields.Activities.Get(),
		SpecialRequirements: fields.SpecialRequirements.Get(),
	}
	if fields.FlightRequired.Found() {
		details.FlightRequired = fields.FlightRequired.Value
	}
	details.HasPreferences = details.Hotel != "" || details.Meals != "" || len(details.Activities) > 0
	return details
}

func budgetDetails(fields extractfields.Fields) models.BudgetDetails {
	if !fields.Budget.Found() {
		return models.BudgetDetails{Currency: "Not specified"}
	}
	budget := fields.Budget.Get()
	return models.BudgetDetails{
		Amount:         budget.Display,
		Currency:       budget.Currency,
		IsPerPerson:    budget.PerPerson,
		BudgetProvided: true,
	}
}

// modificationDetails derives the change list from known modification
// phrasings; unrecognized requests fall back to a generic entry.
func modificationDetails(body string) models.ModificationDetails {
	lower := strings.ToLower(body)

	var changes []string
	if strings.Contains(lower, "add") && strings.Contains(lower, "dinner") {
		changes = append(changes, "Add Indian-style dinners to itinerary")
	}
	if strings.Contains(lower, "increasing the number") ||
		(strings.Contains(lower, "add") && (strings.Contains(lower, "traveler") || strings.Contains(lower, "person"))) {
		changes = append(changes, "Increase number of travelers")
	}
	if strings.Contains(lower, "dates") && strings.Contains(lower, "change") {
		changes = append(changes, "Change travel dates")
	}
	if strings.Contains(lower, "hotel") && (strings.Contains(lower, "change") || strings.Contains(lower, "upgrade")) {
		changes = append(changes, "Modify hotel preferences")
	}
	if len(changes) == 0 {
		changes = []string{"General modifications requested"}
	}

	urgency := "normal"
	for _, word := range []string{"asap", "urgent", "tomorrow"} {
		if strings.Contains(lower, word) {
			urgency = "high"
			break
		}
	}

	return models.ModificationDetails{
		Changes:             changes,
		RequiresQuoteUpdate: true,
		Urgency:             urgency,
	}
}

// validateAndEnhance applies the cross-field rules that need the whole
// aggregate: traveler reconciliation and the subject-line destination
// fallback.
func (h *Handler) validateAndEnhance(inquiry *models.StructuredInquiry, subject string) {
	travelers := &inquiry.Travelers
	if travelers.Adults > 0 {
		calculated := travelers.Adults + travelers.Children
		if travelers.TotalTravelers > 0 && travelers.TotalTravelers != calculated {
			h.logger.Warn("traveler count inconsistency", map[string]interface{}{
				"explicitTotal": travelers.TotalTravelers,
				"calculated":    calculated,
			})
			if calculated > travelers.TotalTravelers {
				travelers.TotalTravelers = calculated
			}
		}
	}

	if inquiry.Location.DestinationCount == 0 {
		subjectLower := strings.ToLower(subject)
		var found []string
		for _, dest := range subjectDestinations {
			if strings.Contains(subjectLower, dest) {
				found = append(found, titleCase(dest))
			}
		}
		if len(found) > 0 {
			inquiry.Location.AllDestinations = found
			inquiry.Location.DestinationCount = len(found)
			inquiry.Location.PrimaryDestination = found[0]
		}
	}
}

// completenessScore weighs five required blocks at 12 points each and
// three optional blocks at 13.33 each, clamped to 100. A block counts
// when any of its sub-fields is non-empty.
func completenessScore(inquiry *models.StructuredInquiry) float64 {
	score := 0.0

	required := []bool{
		inquiry.Classification.Kind != "",
		inquiry.Language.Primary != "",
		inquiry.Customer.Email != "" || inquiry.Customer.RawSender != "",
		inquiry.Location.DestinationCount > 0,
		inquiry.Travelers.TotalTravelers > 0,
	}
	for _, present := range required {
		if present {
			score += 12.0
		}
	}

	optional := []bool{
		inquiry.Dates.StartDate != "" || inquiry.Dates.EndDate != "" || inquiry.Dates.Duration != "",
		inquiry.Preferences.HasPreferences || inquiry.Preferences.FlightRequired != nil ||
			inquiry.Preferences.SpecialRequirements != "",
		inquiry.Budget.BudgetProvided,
	}
	for _, present := range optional {
		if present {
			score += 13.33
		}
	}

	if score > 100.0 {
		score = 100.0
	}
	return score
}

// errorRecord is the terminal shape for an inquiry the pipeline could
// not process: the customer block survives, everything derived is
// dropped.
func (h *Handler) errorRecord(text models.InquiryText, message string) models.StructuredInquiry {
	return models.StructuredInquiry{
		InquiryID:         fmt.Sprintf("ERROR_%d", h.now().Unix()),
		Error:             true,
		ErrorMessage:      message,
		Customer:          h.customerDetails(text.Sender, extractfields.Fields{}),
		ProcessedAt:       h.now().UTC().Format(time.RFC3339),
		CompletenessScore: 0.0,
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
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
