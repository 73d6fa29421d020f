// internal/workers/communication/send-quote/models.go
package sendquote

import "travel-inquiry-workers/internal/models"

type Input struct {
	Inquiry models.StructuredInquiry `json:"structuredInquiry"`

	// QuoteSummary is the body text of the outbound email.
	QuoteSummary string `json:"quoteSummary"`
	// AttachmentPath points at a quote document rendered upstream;
	// empty means a plain-text email.
	AttachmentPath string `json:"attachmentPath,omitempty"`
}

type Output struct {
	Success        bool   `json:"success"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
	SMSMessageID   string `json:"smsMessageId,omitempty"`
	SentAt         string `json:"sentAt"`
}
