package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateStringLength validates string length constraints
func ValidateStringLength(field, value string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(value)
	if length < minLen {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", minLen),
		}
	}
	if maxLen > 0 && length > maxLen {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", maxLen),
		}
	}
	return nil
}

// ValidatePositiveInt validates that an integer is positive
func ValidatePositiveInt(field string, value int) error {
	if value <= 0 {
		return &ValidationError{
			Field:   field,
			Message: "must be a positive number",
		}
	}
	return nil
}

// ValidateChoice validates that a value belongs to a fixed vocabulary
func ValidateChoice(field, value string, choices ...string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(choices, ", ")),
	}
}

// ValidateDeckPath validates that a path points at an existing .pptx file
func ValidateDeckPath(field, path string) error {
	if err := ValidateRequired(field, path); err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(path[strings.LastIndex(path, ".")+1:]), "pptx") {
		return &ValidationError{Field: field, Message: "must be a .pptx file"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: field, Message: "file does not exist"}
	}
	if info.IsDir() {
		return &ValidationError{Field: field, Message: "is a directory, not a file"}
	}
	return nil
}

// ValidateLogoPlacement validates the logo position and size vocabularies
func ValidateLogoPlacement(position, size string) error {
	if position != "" {
		if err := ValidateChoice("logo position", position,
			"top-left", "top-right", "bottom-left", "bottom-right", "center"); err != nil {
			return err
		}
	}
	if size != "" {
		if err := ValidateChoice("logo size", size, "small", "medium", "large"); err != nil {
			return err
		}
	}
	return nil
}
