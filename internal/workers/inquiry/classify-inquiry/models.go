// internal/workers/inquiry/classify-inquiry/models.go
package classifyinquiry

import "travel-inquiry-workers/internal/models"

// Input contains the email text to classify.
type Input struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Output contains the classification result set as process variables.
type Output struct {
	Classification models.Classification `json:"classification"`
}
