// internal/workers/ingestion/fetch-emails/models.go
package fetchemails

type Input struct {
	Label      string `json:"label,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// EmailRecord is the inbound contract handed to the pipeline.
type EmailRecord struct {
	MessageID string `json:"messageId"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Sender    string `json:"sender"`
}

type Output struct {
	Emails     []EmailRecord `json:"emails"`
	Fetched    int           `json:"fetched"`
	Duplicates int           `json:"duplicates"`
	Invalid    int           `json:"invalid"`
}
