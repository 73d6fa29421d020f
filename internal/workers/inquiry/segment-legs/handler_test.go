// internal/workers/inquiry/segment-legs/handler_test.go
package segmentlegs

import (
	"context"
	"testing"

	"travel-inquiry-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func TestHandler_Execute_TwoScopedSections(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{
		Body: "For Singapore, we'd like to stay 3 nights in a 4-star hotel with breakfast only, " +
			"transportation by private car, and a Sentosa tour. " +
			"For Goa, we'd like 2 nights near the beach with all meals and beach hopping.",
		Destinations: []string{"Singapore", "Goa"},
		DefaultHotel: "4-star hotel",
		DefaultMeals: "all meals",
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, output.Legs, 2)

	singapore := output.Legs[0]
	assert.Equal(t, "Singapore", singapore.Destination)
	assert.Equal(t, "3 nights", singapore.Duration)
	assert.Equal(t, "4-star hotel", singapore.Hotel)
	assert.Equal(t, "breakfast only", singapore.Meals)
	assert.Equal(t, "private car", singapore.Transportation)
	assert.Contains(t, singapore.Activities, "Sentosa Tour")

	goa := output.Legs[1]
	assert.Equal(t, "Goa", goa.Destination)
	assert.Equal(t, "2 nights", goa.Duration)
	assert.Equal(t, "all meals", goa.Meals)
	assert.Contains(t, goa.Activities, "Beach Hopping")
}

func TestSegment_FallsBackToWholeInquiryPreferences(t *testing.T) {
	handler := createTestHandler(t)

	legs := handler.Segment(
		"We are planning Dubai and Maldives this winter.",
		[]string{"Dubai", "Maldives"},
		"5-star resort",
		"breakfast and dinner",
	)

	require.Len(t, legs, 2)
	for _, leg := range legs {
		assert.Equal(t, "To be specified", leg.Duration)
		assert.Equal(t, "5-star resort", leg.Hotel)
		assert.Equal(t, "breakfast and dinner", leg.Meals)
		assert.Equal(t, "Not specified", leg.Transportation)
		assert.Empty(t, leg.Activities)
	}
}

func TestSegment_InAnchorSection(t *testing.T) {
	handler := createTestHandler(t)

	legs := handler.Segment(
		"In Munnar we want 2 nights with veg meals. In Alleppey a houseboat stay of 1 night.",
		[]string{"Munnar", "Alleppey"},
		"",
		"",
	)

	require.Len(t, legs, 2)
	assert.Equal(t, "2 nights", legs[0].Duration)
	assert.Equal(t, "veg meals", legs[0].Meals)
	assert.Equal(t, "1 nights", legs[1].Duration)
}

func TestSegment_NoDestinationsYieldsNoLegs(t *testing.T) {
	handler := createTestHandler(t)

	legs := handler.Segment("trip to bali", nil, "", "")

	assert.Empty(t, legs)
}
