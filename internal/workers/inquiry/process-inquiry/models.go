// internal/workers/inquiry/process-inquiry/models.go
package processinquiry

import "travel-inquiry-workers/internal/models"

// Input is the raw inquiry email.
type Input struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Sender  string `json:"sender"`
}

// Output contains the aggregated structured inquiry.
type Output struct {
	Inquiry models.StructuredInquiry `json:"structuredInquiry"`
}
