// internal/workers/inquiry/extract-fields/models.go
package extractfields

import "travel-inquiry-workers/internal/models"

// Input contains the email text to extract from.
type Input struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Fields groups every per-field extraction result. Each field carries
// its own confidence and alternatives; a nil value means the field was
// absent from the text.
type Fields struct {
	StartDate           models.Extraction[string]        `json:"startDate"`
	EndDate             models.Extraction[string]        `json:"endDate"`
	Adults              models.Extraction[int]           `json:"numAdults"`
	Children            models.Extraction[int]           `json:"numChildren"`
	TotalTravelers      models.Extraction[int]           `json:"totalTravelers"`
	DepartureCity       models.Extraction[string]        `json:"departureCity"`
	Destinations        models.Extraction[[]string]      `json:"destinations"`
	Duration            models.Extraction[string]        `json:"totalDuration"`
	Hotel               models.Extraction[string]        `json:"hotelPreferences"`
	Meals               models.Extraction[string]        `json:"mealPreferences"`
	Activities          models.Extraction[[]string]      `json:"activities"`
	FlightRequired      models.Extraction[bool]          `json:"needsFlight"`
	Budget              models.Extraction[models.Budget] `json:"totalBudget"`
	SpecialRequirements models.Extraction[string]        `json:"specialRequirements"`
	Deadline            models.Extraction[string]        `json:"deadline"`
	Phone               models.Extraction[string]        `json:"phone"`
	Email               models.Extraction[string]        `json:"email"`
}

// Output contains the extraction results set as process variables.
type Output struct {
	Fields Fields `json:"extractedFields"`
}
