// internal/workers/inquiry/segment-legs/models.go
package segmentlegs

import "travel-inquiry-workers/internal/models"

// Input contains the email body, the ordered destination list and the
// whole-inquiry preferences used as per-leg fallbacks.
type Input struct {
	Body         string   `json:"body"`
	Destinations []string `json:"destinations"`
	DefaultHotel string   `json:"defaultHotel"`
	DefaultMeals string   `json:"defaultMeals"`
}

// Output contains one leg per destination.
type Output struct {
	Legs []models.LegDetail `json:"legs"`
}
