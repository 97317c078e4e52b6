package validate

import (
	"strings"
	"testing"
)

func TestCaseID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"C001", true},
		{"case_2025-09", true},
		{strings.Repeat("a", CaseIDMaxLen+1), false},
		{"bad/id", false},
		{"../C001", false},
	}
	for _, tt := range tests {
		if got := CaseID(tt.id); got != tt.want {
			t.Errorf("CaseID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestQuery(t *testing.T) {
	if !Query("") || !Query("B08") {
		t.Error("short queries should be valid")
	}
	if Query(strings.Repeat("x", QueryMaxLen+1)) {
		t.Error("overlong query should be invalid")
	}
	if Query("\xff\xfe") {
		t.Error("invalid UTF-8 should be rejected")
	}
}

func TestChatMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"", false},
		{"   \n\t", false},
		{"How is my account?", true},
		{strings.Repeat("é", ChatMessageMaxLen), true},
		{strings.Repeat("é", ChatMessageMaxLen+1), false},
	}
	for _, tt := range tests {
		if got := ChatMessage(tt.msg); got != tt.want {
			t.Errorf("ChatMessage(len=%d) = %v, want %v", len(tt.msg), got, tt.want)
		}
	}
}
