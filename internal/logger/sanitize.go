package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs.
	MaxPathLength = 500
	// MaxUserIDLength is the maximum length for user ids in logs.
	MaxUserIDLength = 128
	// MaxErrorMessageLength is the maximum length for error messages in logs.
	MaxErrorMessageLength = 1000
	// MaxGeneralStringLength is the maximum length for general strings in logs.
	MaxGeneralStringLength = 2000
	// MaxDebugContentLength is the maximum length for debug content
	// (prompts and model responses).
	MaxDebugContentLength = 10000
)

// SanitizeString validates UTF-8, strips control characters, and truncates
// to maxLength. Used for anything user-supplied that ends up in a log field.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()
	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}

// SanitizePath sanitizes a URL path for safe logging.
func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeUserID sanitizes a user id for safe logging.
func SanitizeUserID(userID string) string {
	return SanitizeString(userID, MaxUserIDLength)
}

// SanitizeError sanitizes an error message for safe logging.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}

// SanitizeDebugContent sanitizes prompt/response previews. Even in debug
// mode content is filtered to prevent log injection and capped in size.
func SanitizeDebugContent(content string) string {
	return SanitizeString(content, MaxDebugContentLength)
}
