// internal/workers/inquiry/process-inquiry/handler_test.go
package processinquiry

import (
	"context"
	"regexp"
	"testing"
	"time"

	"travel-inquiry-workers/internal/common/logger"
	"travel-inquiry-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is an in-memory ResultCache.
type fakeCache struct {
	store map[string]string
	gets  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.gets++
	return c.store[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.sets++
	c.store[key] = value.(string)
	return nil
}

func createTestHandler(t *testing.T) *Handler {
	h := NewHandler(LoadConfig(), logger.NewTestLogger(t), nil)
	return h.WithClock(func() time.Time { return time.Unix(1720000000, 0) })
}

func TestProcess_SingleLegInquiry(t *testing.T) {
	handler := createTestHandler(t)

	inquiry := handler.Process(context.Background(), models.InquiryText{
		Subject: "Travel Inquiry - 4 adults to Bali",
		Body: "Hope you're doing well. A client is planning a 7 nights / 8 days trip to Bali " +
			"for 4 travelers departing from Mumbai between 18 July and 25 July. " +
			"Preferred hotel is water villa with all meals. They would like to include " +
			"Kintamani sunrise, Ubud tour, and Tanah Lot temple. Flights are not required. " +
			"Special request: wheelchair access. Budget is around ₹60000 per person. " +
			"Kindly send 2 package options ASAP.",
		Sender: "mark.henry@example.com",
	})

	assert.Regexp(t, regexp.MustCompile(`^INQ_1720000000_[0-9a-f]{8}$`), inquiry.InquiryID)
	assert.Equal(t, models.KindSingleLeg, inquiry.Classification.Kind)
	assert.Equal(t, models.LanguageEnglish, inquiry.Language.Primary)

	assert.Equal(t, "Mark Henry", inquiry.Customer.Name)
	assert.Equal(t, "mark.henry@example.com", inquiry.Customer.Email)

	assert.Equal(t, 4, inquiry.Travelers.Adults)
	assert.Equal(t, 0, inquiry.Travelers.Children)
	assert.Equal(t, 4, inquiry.Travelers.TotalTravelers)

	assert.Equal(t, []string{"Bali"}, inquiry.Location.AllDestinations)
	assert.Equal(t, "Bali", inquiry.Location.PrimaryDestination)
	assert.Empty(t, inquiry.Location.Legs)
	assert.Equal(t, "Mumbai", inquiry.DepartureCity)

	assert.Regexp(t, `^18/07/\d{4}$`, inquiry.Dates.StartDate)
	assert.Regexp(t, `^25/07/\d{4}$`, inquiry.Dates.EndDate)
	assert.True(t, inquiry.Dates.HasSpecificDates)
	assert.Equal(t, "7 nights / 8 days", inquiry.Dates.Duration)

	assert.Equal(t, "water villa", inquiry.Preferences.Hotel)
	assert.Equal(t, "all meals", inquiry.Preferences.Meals)
	assert.Contains(t, inquiry.Preferences.Activities, "Ubud Tour")
	require.NotNil(t, inquiry.Preferences.FlightRequired)
	assert.False(t, *inquiry.Preferences.FlightRequired)
	assert.Contains(t, inquiry.Preferences.SpecialRequirements, "wheelchair access")

	assert.True(t, inquiry.Budget.BudgetProvided)
	assert.True(t, inquiry.Budget.IsPerPerson)
	assert.Equal(t, "₹60,000 per person", inquiry.Budget.Amount)
	assert.Equal(t, "INR", inquiry.Budget.Currency)

	assert.Nil(t, inquiry.Modification)
	assert.InDelta(t, 99.99, inquiry.CompletenessScore, 0.01)
	assert.False(t, inquiry.Error)
}

func TestProcess_MultiLegInquiryBuildsLegs(t *testing.T) {
	handler := createTestHandler(t)

	inquiry := handler.Process(context.Background(), models.InquiryText{
		Subject: "Travel Plans for 7 Pax - Singapore & Goa (8 Days)",
		Body: "We are a group of 7 (including 6 adults and 1 children) planning a 8-day trip " +
			"from 02 October to 09 October, departing from Chennai. " +
			"For Singapore, we'd like 3 nights in a 5-star hotel with veg meals. " +
			"Activities: Gardens by the Bay and Sentosa tour. " +
			"For Goa, we'd like 3 nights in a 3-star hotel with veg meals. " +
			"Activities: beach hopping and Dudhsagar Falls. " +
			"Flights are not required. Budget is approx ₹50000 per person.",
		Sender: "chloe.sanford@example.com",
	})

	assert.Equal(t, models.KindMultiLeg, inquiry.Classification.Kind)
	assert.Equal(t, []string{"Singapore", "Goa"}, inquiry.Location.AllDestinations)

	require.Len(t, inquiry.Location.Legs, 2)
	singapore := inquiry.Location.Legs[0]
	assert.Equal(t, "Singapore", singapore.Destination)
	assert.Equal(t, "3 nights", singapore.Duration)
	assert.Equal(t, "5-star hotel", singapore.Hotel)
	assert.Equal(t, "veg meals", singapore.Meals)
	assert.Contains(t, singapore.Activities, "Sentosa Tour")

	goa := inquiry.Location.Legs[1]
	assert.Equal(t, "Goa", goa.Destination)
	assert.Equal(t, "3-star hotel", goa.Hotel)
	assert.Contains(t, goa.Activities, "Beach Hopping")

	assert.Equal(t, 6, inquiry.Travelers.Adults)
	assert.Equal(t, 1, inquiry.Travelers.Children)
	assert.Equal(t, 7, inquiry.Travelers.TotalTravelers)
}

func TestProcess_ModificationInquiry(t *testing.T) {
	handler := createTestHandler(t)

	inquiry := handler.Process(context.Background(), models.InquiryText{
		Subject: "Re: Trip - Group Query for 13 November",
		Body: "Client has made some changes. They would like to add 2 Indian-style dinners " +
			"in the itinerary. They are increasing the number of travelers by 1. " +
			"Kindly update the quote and resend by tomorrow.",
		Sender: "Maria Ortiz <maria.ortiz@example.com>",
	})

	assert.Equal(t, models.KindModification, inquiry.Classification.Kind)
	assert.GreaterOrEqual(t, inquiry.Classification.Confidence, 0.98)

	require.NotNil(t, inquiry.Modification)
	assert.Contains(t, inquiry.Modification.Changes, "Add Indian-style dinners to itinerary")
	assert.Contains(t, inquiry.Modification.Changes, "Increase number of travelers")
	assert.Equal(t, "high", inquiry.Modification.Urgency)
	assert.True(t, inquiry.Modification.RequiresQuoteUpdate)

	assert.Equal(t, "Maria Ortiz", inquiry.Customer.Name)
	assert.Equal(t, "maria.ortiz@example.com", inquiry.Customer.Email)
}

func TestProcess_TravelerTotalReconciliation(t *testing.T) {
	handler := createTestHandler(t)

	inquiry := handler.Process(context.Background(), models.InquiryText{
		Subject: "Kerala trip",
		Body:    "5 travelers total: 4 adults and 3 children going to Kerala for 4 nights.",
		Sender:  "a@example.com",
	})

	// Explicit total disagrees with the breakdown; the larger value wins.
	assert.Equal(t, 4, inquiry.Travelers.Adults)
	assert.Equal(t, 3, inquiry.Travelers.Children)
	assert.Equal(t, 7, inquiry.Travelers.TotalTravelers)
}

func TestProcess_DestinationFromSubjectOnly(t *testing.T) {
	handler := createTestHandler(t)

	inquiry := handler.Process(context.Background(), models.InquiryText{
		Subject: "Trip to Bali please",
		Body:    "We need a quote quickly. 2 adults, around 5 nights.",
		Sender:  "b@example.com",
	})

	assert.Equal(t, []string{"Bali"}, inquiry.Location.AllDestinations)
	assert.Equal(t, "Bali", inquiry.Location.PrimaryDestination)
}

func TestProcess_IdempotentExceptTimestamps(t *testing.T) {
	handler := createTestHandler(t)
	text := models.InquiryText{
		Subject: "Goa getaway",
		Body:    "Trip to Goa for 2 adults, 3 nights, budget is ₹20000 per person.",
		Sender:  "c@example.com",
	}

	first := handler.Process(context.Background(), text)
	second := handler.Process(context.Background(), text)

	assert.Equal(t, first, second)
}

func TestProcess_CachesResult(t *testing.T) {
	cache := newFakeCache()
	config := LoadConfig()
	config.CacheEnabled = true

	handler := NewHandler(config, logger.NewTestLogger(t), cache).
		WithClock(func() time.Time { return time.Unix(1720000000, 0) })

	text := models.InquiryText{
		Subject: "Dubai trip",
		Body:    "Trip to Dubai for 2 adults.",
		Sender:  "d@example.com",
	}

	first := handler.Process(context.Background(), text)
	second := handler.Process(context.Background(), text)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
}

func TestProcess_DefaultCurrencyReachesBudget(t *testing.T) {
	cfg := LoadConfig()
	cfg.DefaultCurrency = "USD"
	handler := NewHandler(cfg, logger.NewTestLogger(t), nil).
		WithClock(func() time.Time { return time.Unix(1720000000, 0) })

	inquiry := handler.Process(context.Background(), models.InquiryText{
		Subject: "Goa getaway",
		Body:    "Trip to Goa for 2 adults, 3 nights, budget is ₹20000 per person.",
		Sender:  "f@example.com",
	})

	require.True(t, inquiry.Budget.BudgetProvided)
	assert.Equal(t, "USD", inquiry.Budget.Currency)
}

func TestErrorRecord_Shape(t *testing.T) {
	handler := createTestHandler(t)

	record := handler.errorRecord(models.InquiryText{
		Subject: "broken",
		Sender:  "Jo Doe <jo.doe@example.com>",
	}, "stage blew up")

	assert.Equal(t, "ERROR_1720000000", record.InquiryID)
	assert.True(t, record.Error)
	assert.Equal(t, "stage blew up", record.ErrorMessage)
	assert.Equal(t, "Jo Doe", record.Customer.Name)
	assert.Equal(t, "jo.doe@example.com", record.Customer.Email)
	assert.Equal(t, 0.0, record.CompletenessScore)
}

func TestHandler_Execute_WrapsProcess(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Subject: "Trip to Singapore",
		Body:    "Trip to Singapore for 2 adults, 4 nights.",
		Sender:  "e@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, models.KindSingleLeg, output.Inquiry.Classification.Kind)
	assert.NotEmpty(t, output.Inquiry.InquiryID)
}
