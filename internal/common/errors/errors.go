// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Inquiry pipeline error codes.
const (
	ErrCodeLanguageDetectionFailed ErrorCode = "LANGUAGE_DETECTION_FAILED"
	ErrCodeClassificationFailed    ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeExtractionFailed        ErrorCode = "EXTRACTION_FAILED"
	ErrCodeSegmentationFailed      ErrorCode = "SEGMENTATION_FAILED"
	ErrCodeInquiryProcessingFailed ErrorCode = "INQUIRY_PROCESSING_FAILED"
	ErrCodeEmptyInquiry            ErrorCode = "EMPTY_INQUIRY"

	ErrCodeMailboxFetchFailed   ErrorCode = "MAILBOX_FETCH_FAILED"
	ErrCodeMailboxAuthFailed    ErrorCode = "MAILBOX_AUTH_FAILED"
	ErrCodeInvalidEmailPayload  ErrorCode = "INVALID_EMAIL_PAYLOAD"
	ErrCodeDuplicateInquiry     ErrorCode = "DUPLICATE_INQUIRY"
	ErrCodeDedupeCheckFailed    ErrorCode = "DEDUPE_CHECK_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeInquiryStoreFailed       ErrorCode = "INQUIRY_STORE_FAILED"
	ErrCodeInquiryIndexFailed       ErrorCode = "INQUIRY_INDEX_FAILED"
	ErrCodeIndexNotFound            ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeQuoteSendFailed   ErrorCode = "QUOTE_SEND_FAILED"
	ErrCodeQuoteRenderFailed ErrorCode = "QUOTE_RENDER_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewEmptyInquiryError creates a non-retryable error for an inquiry with no text.
func NewEmptyInquiryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyInquiry,
		Message:   "Inquiry has no subject or body text",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLanguageDetectionFailedError creates a non-retryable language detection error.
func NewLanguageDetectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLanguageDetectionFailed,
		Message:   "Language detection failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassificationFailedError creates a non-retryable classification error.
func NewClassificationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationFailed,
		Message:   "Inquiry type classification failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionFailedError creates a non-retryable field extraction error.
func NewExtractionFailedError(field string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Field extraction failed",
		Details:   fmt.Sprintf("field: %s, error: %s", field, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSegmentationFailedError creates a non-retryable leg segmentation error.
func NewSegmentationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSegmentationFailed,
		Message:   "Destination leg segmentation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInquiryProcessingFailedError creates a non-retryable aggregation error.
func NewInquiryProcessingFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInquiryProcessingFailed,
		Message:   "Inquiry processing failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailboxFetchFailedError creates a retryable mailbox fetch error.
func NewMailboxFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailboxFetchFailed,
		Message:   "Mailbox fetch failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailboxAuthFailedError creates a non-retryable mailbox auth error.
func NewMailboxAuthFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailboxAuthFailed,
		Message:   "Mailbox authentication failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidEmailPayloadError creates a non-retryable payload validation error.
func NewInvalidEmailPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidEmailPayload,
		Message:   "Email payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateInquiryError creates a non-retryable duplicate inquiry error.
func NewDuplicateInquiryError(messageID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateInquiry,
		Message:   "Inquiry email already processed",
		Details:   fmt.Sprintf("messageId: %s", messageID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDedupeCheckFailedError creates a retryable dedupe store error.
func NewDedupeCheckFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDedupeCheckFailed,
		Message:   "Duplicate check against Redis failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInquiryStoreFailedError creates a retryable inquiry persistence error.
func NewInquiryStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInquiryStoreFailed,
		Message:   "Inquiry insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInquiryIndexFailedError creates a retryable search index error.
func NewInquiryIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInquiryIndexFailed,
		Message:   "Inquiry search indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuoteSendFailedError creates a retryable quote delivery error.
func NewQuoteSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuoteSendFailed,
		Message:   "Quote delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuoteRenderFailedError creates a non-retryable quote rendering error.
func NewQuoteRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuoteRenderFailed,
		Message:   "Quote template rendering failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(resource, identifier string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("identifier: %s", identifier),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeLanguageDetectionFailed:  "LANGUAGE_DETECTION_FAILED",
	ErrCodeClassificationFailed:     "CLASSIFICATION_FAILED",
	ErrCodeExtractionFailed:         "EXTRACTION_FAILED",
	ErrCodeSegmentationFailed:       "SEGMENTATION_FAILED",
	ErrCodeInquiryProcessingFailed:  "INQUIRY_PROCESSING_FAILED",
	ErrCodeEmptyInquiry:             "EMPTY_INQUIRY",
	ErrCodeMailboxFetchFailed:       "MAILBOX_FETCH_FAILED",
	ErrCodeMailboxAuthFailed:        "MAILBOX_AUTH_FAILED",
	ErrCodeInvalidEmailPayload:      "INVALID_EMAIL_PAYLOAD",
	ErrCodeDuplicateInquiry:         "DUPLICATE_INQUIRY",
	ErrCodeDedupeCheckFailed:        "DEDUPE_CHECK_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeInquiryStoreFailed:       "INQUIRY_STORE_FAILED",
	ErrCodeInquiryIndexFailed:       "INQUIRY_INDEX_FAILED",
	ErrCodeIndexNotFound:            "INDEX_NOT_FOUND",
	ErrCodeQuoteSendFailed:          "QUOTE_SEND_FAILED",
	ErrCodeQuoteRenderFailed:        "QUOTE_RENDER_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeInquiryStoreFailed,
		ErrCodeInquiryIndexFailed,
		ErrCodeMailboxFetchFailed,
		ErrCodeDedupeCheckFailed,
		ErrCodeQuoteSendFailed:
		return 3 // Retryable technical errors

	default:
		return 0 // Pipeline and business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "LANGUAGE") || strings.Contains(codeStr, "CLASSIFICATION") ||
		strings.Contains(codeStr, "EXTRACTION") || strings.Contains(codeStr, "SEGMENTATION") ||
		strings.Contains(codeStr, "INQUIRY_PROCESSING") || strings.Contains(codeStr, "EMPTY_INQUIRY"):
		return "PIPELINE"
	case strings.Contains(codeStr, "MAILBOX") || strings.Contains(codeStr, "EMAIL") ||
		strings.Contains(codeStr, "DUPLICATE") || strings.Contains(codeStr, "DEDUPE"):
		return "INGESTION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "STORE"):
		return "DATABASE"
	case strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "QUOTE"):
		return "COMMUNICATION"
	default:
		return "OTHER"
	}
}
