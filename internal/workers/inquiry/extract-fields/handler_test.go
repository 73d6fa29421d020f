// internal/workers/inquiry/extract-fields/handler_test.go
package extractfields

import (
	"context"
	"testing"
	"time"

	"travel-inquiry-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{
		Timeout:         30 * time.Second,
		DefaultCurrency: "INR",
		BookingYear:     2026,
	}, logger.NewTestLogger(t))
}

func TestHandler_Execute_FullInquiry(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{
		Subject: "Travel Inquiry to Thailand",
		Body: "Client is planning a trip to Thailand for 6 adults and 2 children, " +
			"7 nights / 8 days, departing from Mumbai between 18 July and 25 July. " +
			"Preferred hotel is a 4-star beach resort with all meals. " +
			"Budget is ₹45000 per person. Flights are required. " +
			"Special request: birthday cake. Send the quote ASAP.",
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	fields := output.Fields

	require.True(t, fields.Adults.Found())
	assert.Equal(t, 6, fields.Adults.Get())
	assert.InDelta(t, 0.95, fields.Adults.Confidence, 0.001)

	require.True(t, fields.Children.Found())
	assert.Equal(t, 2, fields.Children.Get())

	require.True(t, fields.TotalTravelers.Found())
	assert.Equal(t, 8, fields.TotalTravelers.Get())

	require.True(t, fields.Duration.Found())
	assert.Equal(t, "7 nights / 8 days", fields.Duration.Get())

	require.True(t, fields.Destinations.Found())
	assert.Equal(t, []string{"Thailand"}, fields.Destinations.Get())

	require.True(t, fields.DepartureCity.Found())
	assert.Equal(t, "Mumbai", fields.DepartureCity.Get())

	require.True(t, fields.Budget.Found())
	budget := fields.Budget.Get()
	assert.Equal(t, int64(45000), budget.Amount)
	assert.True(t, budget.PerPerson)
	assert.Equal(t, "₹45,000 per person", budget.Display)
	assert.InDelta(t, 0.95, fields.Budget.Confidence, 0.001)

	require.True(t, fields.StartDate.Found())
	assert.Equal(t, "18/07/2026", fields.StartDate.Get())
	require.True(t, fields.EndDate.Found())
	assert.Equal(t, "25/07/2026", fields.EndDate.Get())

	require.True(t, fields.FlightRequired.Found())
	assert.True(t, fields.FlightRequired.Get())

	require.True(t, fields.SpecialRequirements.Found())
	assert.Contains(t, fields.SpecialRequirements.Get(), "birthday cake")

	require.True(t, fields.Deadline.Found())
	assert.Equal(t, "asap", fields.Deadline.Get())
}

func TestExtractDuration_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"nights and days pair", "we want 5 nights / 6 days in goa", "5 nights / 6 days"},
		{"nights only derives days", "looking at 5 nights", "5 nights / 6 days"},
		{"days only derives nights", "a 6 days trip", "5 nights / 6 days"},
		{"single day means zero nights", "just 1 day in goa", "0 nights / 1 days"},
		{"compact n/d form", "3N/4D package", "3 nights / 4 days"},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := handler.Extract("", tt.text)
			require.True(t, fields.Duration.Found())
			assert.Equal(t, tt.expected, fields.Duration.Get())
		})
	}
}

func TestExtractDestinations_ExcludesDepartureCity(t *testing.T) {
	handler := createTestHandler(t)

	fields := handler.Extract("", "Planning a trip to Goa, departing from Mumbai on 12 May.")

	require.True(t, fields.Destinations.Found())
	assert.Equal(t, []string{"Goa"}, fields.Destinations.Get())
	assert.Equal(t, "Mumbai", fields.DepartureCity.Get())
}

func TestExtractDestinations_FirstMentionOrder(t *testing.T) {
	handler := createTestHandler(t)

	fields := handler.Extract("", "First Singapore, then Bali and finally Dubai.")

	require.True(t, fields.Destinations.Found())
	assert.Equal(t, []string{"Singapore", "Bali", "Dubai"}, fields.Destinations.Get())
}

func TestExtractBudget_IndianShorthand(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expectedAmount int64
		perPerson      bool
	}{
		{"lakh multiplier", "total budget hai 2 lakh rupees", 200000, false},
		{"thousand multiplier", "around 50 thousand total", 50000, false},
		{"crore multiplier", "group budget 1 crore", 10000000, false},
		{"per person rupee amount", "₹45000 per person works", 45000, true},
		{"comma grouped amount", "budget is Rs. 1,20,000", 120000, false},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := handler.Extract("", tt.text)
			require.True(t, fields.Budget.Found(), "budget not found in: %s", tt.text)
			assert.Equal(t, tt.expectedAmount, fields.Budget.Get().Amount)
			assert.Equal(t, tt.perPerson, fields.Budget.Get().PerPerson)
		})
	}
}

func TestExtractTravelers_BreakdownBeatsBareTotal(t *testing.T) {
	handler := createTestHandler(t)

	fields := handler.Extract("", "6 travelers (including 4 adults and 2 children) for the trip")

	assert.Equal(t, 4, fields.Adults.Get())
	assert.Equal(t, 2, fields.Children.Get())
	assert.Equal(t, 6, fields.TotalTravelers.Get())
	assert.InDelta(t, 0.95, fields.TotalTravelers.Confidence, 0.001)
}

func TestExtractChildren_DefaultsToZeroWithAdultsPresent(t *testing.T) {
	handler := createTestHandler(t)

	fields := handler.Extract("", "trip to bali for 4 adults")

	require.True(t, fields.Children.Found())
	assert.Equal(t, 0, fields.Children.Get())
	assert.Equal(t, 4, fields.TotalTravelers.Get())
}

func TestExtractHotel_StarRatingUpgradesToResort(t *testing.T) {
	handler := createTestHandler(t)

	fields := handler.Extract("", "they prefer a 5 star hotel, ideally a beachfront resort")

	require.True(t, fields.Hotel.Found())
	assert.Equal(t, "5-star resort", fields.Hotel.Get())
}

func TestExtract_MissesAreNotErrors(t *testing.T) {
	handler := createTestHandler(t)

	fields := handler.Extract("", "hello, can you help us plan something nice?")

	assert.False(t, fields.Budget.Found())
	assert.Equal(t, 0.0, fields.Budget.Confidence)
	assert.NotEmpty(t, fields.Budget.Rationale)
	assert.False(t, fields.Destinations.Found())
	assert.False(t, fields.Adults.Found())
	assert.False(t, fields.Children.Found())
}

func TestExtract_Idempotent(t *testing.T) {
	handler := createTestHandler(t)
	body := "Trip to Kerala for 2 adults, 4 nights, budget is ₹30000 per person."

	first := handler.Extract("", body)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, handler.Extract("", body))
	}
}

func TestExtractContactDetails(t *testing.T) {
	handler := createTestHandler(t)

	fields := handler.Extract("", "Reach me at rahul.mehta@example.com or +91 9876543210.")

	require.True(t, fields.Email.Found())
	assert.Equal(t, "rahul.mehta@example.com", fields.Email.Get())
	require.True(t, fields.Phone.Found())
	assert.Equal(t, "+91 9876543210", fields.Phone.Get())
}
