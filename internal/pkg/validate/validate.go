// Package validate provides input validation for API path and body parameters.
package validate

import (
	"strings"
	"unicode/utf8"
)

// CaseIDMaxLen is the maximum allowed length for a case id in a path.
const CaseIDMaxLen = 64

// QueryMaxLen bounds the free-text search parameter.
const QueryMaxLen = 200

// ChatMessageMaxLen bounds a single chat message, in characters.
const ChatMessageMaxLen = 4000

// CaseID validates a case id from the path: alphanumeric, hyphen, underscore; 1–CaseIDMaxLen.
func CaseID(id string) bool {
	if id == "" || len(id) > CaseIDMaxLen {
		return false
	}
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// Query validates the free-text search string.
func Query(q string) bool {
	return utf8.ValidString(q) && len(q) <= QueryMaxLen
}

// ChatMessage validates a chat message: non-blank after trimming, valid
// UTF-8, at most ChatMessageMaxLen characters.
func ChatMessage(m string) bool {
	if strings.TrimSpace(m) == "" || !utf8.ValidString(m) {
		return false
	}
	return utf8.RuneCountInString(m) <= ChatMessageMaxLen
}
