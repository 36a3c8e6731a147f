package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/moodcal/moodcal-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

// personalityTypes is the sixteen-type inventory accepted for profiles.
var personalityTypes = map[string]struct{}{
	"INTJ": {}, "INTP": {}, "ENTJ": {}, "ENTP": {},
	"INFJ": {}, "INFP": {}, "ENFJ": {}, "ENFP": {},
	"ISTJ": {}, "ISFJ": {}, "ESTJ": {}, "ESFJ": {},
	"ISTP": {}, "ISFP": {}, "ESTP": {}, "ESFP": {},
}

func init() {
	Validate = validator.New()

	// Register custom validators for domain formats
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("entry_date", validateEntryDate); err != nil {
		panic(fmt.Sprintf("failed to register entry_date validator: %v", err))
	}
	if err := Validate.RegisterValidation("personality_type", validatePersonalityType); err != nil {
		panic(fmt.Sprintf("failed to register personality_type validator: %v", err))
	}
}

// validateEntryDate validates that a string is a calendar date in YYYY-MM-DD form
func validateEntryDate(fl validator.FieldLevel) bool {
	return ValidateDate(fl.Field().String()) == nil
}

// validatePersonalityType validates that a string is one of the sixteen types
func validatePersonalityType(fl validator.FieldLevel) bool {
	return ValidatePersonalityType(fl.Field().String()) == nil
}

// ValidateDate validates a YYYY-MM-DD date string.
func ValidateDate(value string) error {
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}

// ValidateMonth validates a YYYY-MM month string.
func ValidateMonth(value string) error {
	if _, err := time.Parse(models.MonthLayout, value); err != nil {
		return fmt.Errorf("invalid month: %s (must be YYYY-MM)", value)
	}
	return nil
}

// ValidatePersonalityType validates a personality type code. The empty string
// is rejected here; callers that treat it as "not set" check before calling.
func ValidatePersonalityType(value string) error {
	if _, ok := personalityTypes[strings.ToUpper(value)]; !ok {
		return fmt.Errorf("invalid personality type: %s", value)
	}
	return nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
