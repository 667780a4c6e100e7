package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateCatalogItem checks a CatalogItem for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the item is valid.
func ValidateCatalogItem(it *CatalogItem) error {
	var ve ValidationError

	if isBlank(it.ID) {
		ve.Errors = append(ve.Errors, FieldError{Field: "id", Message: "is required"})
	}

	if it.Investment.Min < 0 || it.Investment.Max < 0 {
		ve.Errors = append(ve.Errors, FieldError{Field: "investment", Message: "must be non-negative"})
	} else if it.Investment.Min > it.Investment.Max {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "investment",
			Message: fmt.Sprintf("min %v exceeds max %v", it.Investment.Min, it.Investment.Max),
		})
	}

	for _, s := range []struct {
		field string
		score int
	}{
		{"marketScore", it.MarketScore},
		{"painPointScore", it.PainPointScore},
		{"timingScore", it.TimingScore},
	} {
		if s.score < 0 || s.score > 10 {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   s.field,
				Message: fmt.Sprintf("must be between 0 and 10, got %d", s.score),
			})
		}
	}

	if !it.Difficulty.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "difficulty",
			Message: fmt.Sprintf("invalid value %q", it.Difficulty),
		})
	}
	if !it.IdeaType.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "ideaType",
			Message: fmt.Sprintf("invalid value %q", it.IdeaType),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateIdea checks an Idea before it is sent to the API.
func ValidateIdea(i *Idea) error {
	var ve ValidationError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	} else if len([]rune(title)) > 255 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 255 characters or fewer"})
	}
	if isBlank(i.Category) {
		ve.Errors = append(ve.Errors, FieldError{Field: "category", Message: "is required"})
	}
	if i.InvestmentNeeded < 0 {
		ve.Errors = append(ve.Errors, FieldError{Field: "investmentNeeded", Message: "must be non-negative"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
