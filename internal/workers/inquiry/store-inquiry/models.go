// internal/workers/inquiry/store-inquiry/models.go
package storeinquiry

import "travel-inquiry-workers/internal/models"

type Input struct {
	Inquiry models.StructuredInquiry `json:"structuredInquiry"`
}

type Output struct {
	InquiryID string `json:"inquiryId"`
	Stored    bool   `json:"stored"`
	Indexed   bool   `json:"indexed"`
}
