package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits for request fields.
const (
	MaxIDLength      = 128
	MaxPromptLength  = 4 * 1024
	MaxMessageSize   = 16 * 1024
	MaxCommandLength = 1024
	MaxFileSize      = 1 * 1024 * 1024
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateID validates app and window identifiers.
func ValidateID(id, fieldName string) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, true); err != nil {
		return err
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}
	return nil
}

// ValidatePrompt checks a generation prompt. Whitespace-only prompts count as missing.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("Prompt is required")
	}
	return ValidateString(prompt, "prompt", 1, MaxPromptLength, true)
}

// ValidateMessage validates a chat message
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message is required")
	}
	return ValidateString(message, "message", 1, MaxMessageSize, true)
}

// ValidateCommand validates a terminal input line. Empty lines are allowed.
func ValidateCommand(line string) error {
	return ValidateString(line, "command", 0, MaxCommandLength, false)
}

// ValidateFileContent bounds what the editor may save. Empty content is valid.
func ValidateFileContent(content string) error {
	if len(content) > MaxFileSize {
		return fmt.Errorf("content size %d bytes exceeds maximum %d bytes", len(content), MaxFileSize)
	}
	if strings.Contains(content, "\x00") {
		return fmt.Errorf("content contains invalid characters")
	}
	return nil
}
