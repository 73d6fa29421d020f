// internal/workers/inquiry/detect-language/models.go
package detectlanguage

import "travel-inquiry-workers/internal/models"

type Input struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Output struct {
	LanguageInfo models.LanguageResult `json:"languageInfo"`
}
