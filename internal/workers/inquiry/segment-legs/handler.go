// internal/workers/inquiry/segment-legs/handler.go
package segmentlegs

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
	TaskType = "segment-legs"
)

var (
	legNightsRe     = regexp.MustCompile(`(\d+)\s+nights?`)
	legHotelRe      = regexp.MustCompile(`(\d+-star)\s+(?:hotel|resort)`)
	nextForRe       = regexp.MustCompile(`for\s+\w+`)
	nextAnchorRe    = regexp.MustCompile(`in\s+\w+|for\s+\w+`)
	legTransportRe  = regexp.MustCompile(`transportation.*?(private car|taxi|public transport|hotel shuttle)`)
	bareTransportRe = regexp.MustCompile(`private car|taxi|public transport|hotel shuttle`)
)

var legMealPatterns = []*regexp.Regexp{
	regexp.MustCompile(`all meals`),
	regexp.MustCompile(`breakfast only`),
	regexp.MustCompile(`veg meals`),
	regexp.MustCompile(`indian-style dinners`),
	regexp.MustCompile(`breakfast and dinner`),
}

var legActivityKeywords = []string{
	"gardens by the bay", "sentosa tour", "beach hopping", "dudhsagar falls",
	"pahalgam valley", "gulmarg gondola", "ubud cultural tour", "kintamani sunrise",
	"dhow cruise", "burj khalifa", "kufri trip", "mall road stroll",
}

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.DurationPlaceholder == "" {
		config.DurationPlaceholder = "To be specified"
	}
	if config.TransportationPlaceholder == "" {
		config.TransportationPlaceholder = "Not specified"
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
		h.failJob(client, job, "SEGMENTATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	legs := h.Segment(input.Body, input.Destinations, input.DefaultHotel, input.DefaultMeals)

	h.logger.Info("legs segmented", map[string]interface{}{
		"destinations": len(input.Destinations),
		"legs":         len(legs),
	})

	return &Output{Legs: legs}, nil
}

// Segment builds one leg per destination. Each leg reads from the text
// span scoped to its destination; fields with no span evidence fall
// back to the whole-inquiry preference, then to a placeholder.
func (h *Handler) Segment(body string, destinations []string, defaultHotel, defaultMeals string) []models.LegDetail {
	legs := make([]models.LegDetail, 0, len(destinations))
	lower := strings.ToLower(body)

	for _, destination := range destinations {
		section := destinationSection(lower, strings.ToLower(destination))

		leg := models.LegDetail{
			Destination:    destination,
			Duration:       h.config.DurationPlaceholder,
			Hotel:          defaultHotel,
			Meals:          defaultMeals,
			Activities:     []string{},
			Transportation: h.config.TransportationPlaceholder,
		}

		if section == "" {
			legs = append(legs, leg)
			continue
		}

		if m := legNightsRe.FindStringSubmatch(section); m != nil {
			leg.Duration = m[1] + " nights"
		}
		if m := legHotelRe.FindStringSubmatch(section); m != nil {
			leg.Hotel = m[1] + " hotel"
		}
		for _, pattern := range legMealPatterns {
			if m := pattern.FindString(section); m != "" {
				leg.Meals = m
				break
			}
		}
		if m := legTransportRe.FindStringSubmatch(section); m != nil {
			leg.Transportation = m[1]
		} else if m := bareTransportRe.FindString(section); m != "" {
			leg.Transportation = m
		}
		for _, keyword := range legActivityKeywords {
			if strings.Contains(section, keyword) {
				leg.Activities = append(leg.Activities, titleCase(keyword))
			}
		}

		legs = append(legs, leg)
	}

	return legs
}

// destinationSection slices the text span belonging to one destination:
// from its "for <dest>" or "in <dest>" anchor up to the next anchor or
// the end of the text.
func destinationSection(lower, dest string) string {
	forDestRe := regexp.MustCompile(`for\s+` + regexp.QuoteMeta(dest))
	if loc := forDestRe.FindStringIndex(lower); loc != nil {
		end := len(lower)
		if next := nextForRe.FindStringIndex(lower[loc[1]:]); next != nil {
			end = loc[1] + next[0]
		}
		return lower[loc[0]:end]
	}

	inDestRe := regexp.MustCompile(`in\s+` + regexp.QuoteMeta(dest))
	if loc := inDestRe.FindStringIndex(lower); loc != nil {
		end := len(lower)
		if next := nextAnchorRe.FindStringIndex(lower[loc[1]:]); next != nil {
			end = loc[1] + next[0]
		}
		return lower[loc[0]:end]
	}

	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
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
