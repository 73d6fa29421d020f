// internal/models/inquiry.go
package models

// Language identifies the primary language category of an inquiry email.
type Language string

const (
	LanguageEnglish      Language = "english"
	LanguageHindi        Language = "hindi"
	LanguageHindiEnglish Language = "hindi_english"
	LanguageHinglish     Language = "hinglish"
)

// InquiryKind identifies the structural shape of a travel inquiry.
type InquiryKind string

const (
	KindSingleLeg    InquiryKind = "single_leg"
	KindMultiLeg     InquiryKind = "multi_leg"
	KindModification InquiryKind = "modification"
)

// InquiryText is the immutable raw input to the pipeline. It is never
// mutated by any stage; every extraction reads from it.
type InquiryText struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Sender  string `json:"sender"`
}

// LanguageResult is the output of language detection. Confidence is
// always clamped to 0.99 - the detector never claims certainty.
type LanguageResult struct {
	Primary    Language             `json:"primaryLanguage"`
	Confidence float64              `json:"confidence"`
	Scores     map[Language]float64 `json:"scores"`
	Rationale  string               `json:"rationale"`
}

// Classification is the output of inquiry-type classification. It is
// computed once per inquiry and never revised, even when later field
// extraction contradicts it.
type Classification struct {
	Kind       InquiryKind `json:"kind"`
	Confidence float64     `json:"confidence"`
	Rationale  string      `json:"rationale"`
}

// Extraction wraps a single field extraction. Every field routine
// produces this shape regardless of the field's type, so downstream
// consumers handle scalars, lists and structs uniformly. A nil Value
// with confidence 0 means the field was absent from the text - that is
// an expected outcome, not an error.
type Extraction[T any] struct {
	Value        *T      `json:"value"`
	Confidence   float64 `json:"confidence"`
	Method       string  `json:"method"`
	Alternatives []T     `json:"alternatives,omitempty"`
	Rationale    string  `json:"rationale,omitempty"`
}

// Extracted builds a populated extraction result.
func Extracted[T any](value T, confidence float64, method, rationale string, alternatives ...T) Extraction[T] {
	return Extraction[T]{
		Value:        &value,
		Confidence:   confidence,
		Method:       method,
		Alternatives: alternatives,
		Rationale:    rationale,
	}
}

// NotFound builds the miss result for a field absent from the text.
func NotFound[T any](rationale string) Extraction[T] {
	return Extraction[T]{Confidence: 0, Method: "rule_based", Rationale: rationale}
}

// Found reports whether the extraction carries a value.
func (e Extraction[T]) Found() bool {
	return e.Value != nil
}

// Get returns the extracted value or the zero value when absent.
func (e Extraction[T]) Get() T {
	if e.Value != nil {
		return *e.Value
	}
	var zero T
	return zero
}

// Budget is a normalized budget amount. Amount is in whole rupees after
// expanding Indian shorthand (lakh, crore, thousand).
type Budget struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PerPerson bool   `json:"perPerson"`
	Display   string `json:"display"`
}

// LegDetail holds the per-destination record of a multi-leg inquiry.
// Field values fall back to the whole-inquiry preference when the
// destination-scoped text span yields nothing.
type LegDetail struct {
	Destination         string   `json:"destination"`
	Duration            string   `json:"duration"`
	Hotel               string   `json:"hotel"`
	Meals               string   `json:"meals"`
	Activities          []string `json:"activities"`
	Transportation      string   `json:"transportation"`
	SpecialRequirements string   `json:"specialRequirements"`
}

// CustomerDetails is the contact block derived from the sender address.
type CustomerDetails struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	RawSender string `json:"rawSender"`
}

// DateDetails is the date/duration block of a structured inquiry.
type DateDetails struct {
	StartDate        string `json:"startDate,omitempty"`
	EndDate          string `json:"endDate,omitempty"`
	Duration         string `json:"duration,omitempty"`
	HasSpecificDates bool   `json:"hasSpecificDates"`
}

// TravelerDetails is the traveler block. After aggregation
// TotalTravelers >= Adults always holds; when an explicit total
// disagrees with adults+children the larger of the two wins.
type TravelerDetails struct {
	TotalTravelers     int  `json:"totalTravelers"`
	Adults             int  `json:"adults"`
	Children           int  `json:"children"`
	BreakdownAvailable bool `json:"breakdownAvailable"`
}

// LocationDetails is the destination block. Legs is populated only for
// multi-leg inquiries.
type LocationDetails struct {
	AllDestinations    []string    `json:"allDestinations"`
	DestinationCount   int         `json:"destinationCount"`
	PrimaryDestination string      `json:"primaryDestination,omitempty"`
	Legs               []LegDetail `json:"legs,omitempty"`
}

// PreferenceDetails is the preference block.
type PreferenceDetails struct {
	Hotel               string   `json:"hotel,omitempty"`
	Meals               string   `json:"meals,omitempty"`
	Activities          []string `json:"activities,omitempty"`
	FlightRequired      *bool    `json:"flightRequired,omitempty"`
	SpecialRequirements string   `json:"specialRequirements,omitempty"`
	HasPreferences      bool     `json:"hasPreferences"`
}

// BudgetDetails is the budget block.
type BudgetDetails struct {
	Amount         string `json:"amount,omitempty"`
	Currency       string `json:"currency"`
	IsPerPerson    bool   `json:"isPerPerson"`
	BudgetProvided bool   `json:"budgetProvided"`
}

// ModificationDetails lists the requested changes of a modification
// inquiry.
type ModificationDetails struct {
	Changes             []string `json:"changes"`
	RequiresQuoteUpdate bool     `json:"requiresQuoteUpdate"`
	Urgency             string   `json:"urgency"`
}

// StructuredInquiry is the terminal aggregate and the stable external
// contract of the pipeline. Renderers and downstream workers key off
// the block and field names, so they must not change.
type StructuredInquiry struct {
	InquiryID         string               `json:"inquiryId"`
	Classification    Classification       `json:"inquiryType"`
	Language          LanguageResult       `json:"languageInfo"`
	Customer          CustomerDetails      `json:"customerDetails"`
	Dates             DateDetails          `json:"dateDetails"`
	Travelers         TravelerDetails      `json:"travelerDetails"`
	Location          LocationDetails      `json:"locationDetails"`
	Preferences       PreferenceDetails    `json:"preferenceDetails"`
	Budget            BudgetDetails        `json:"budgetDetails"`
	DepartureCity     string               `json:"departureCity,omitempty"`
	Deadline          string               `json:"deadline,omitempty"`
	Modification      *ModificationDetails `json:"modificationDetails,omitempty"`
	CompletenessScore float64              `json:"completenessScore"`
	ProcessedAt       string               `json:"processedAt"`
	Error             bool                 `json:"error,omitempty"`
	ErrorMessage      string               `json:"errorMessage,omitempty"`
}
