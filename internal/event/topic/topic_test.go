package topic

import (
	"slices"
	"testing"
)

func TestTopic_Segments(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected []string
		count    int
	}{
		{Topic("document.selection.changed"), []string{"document", "selection", "changed"}, 3},
		{Topic("schema.reloaded"), []string{"schema", "reloaded"}, 2},
		{Topic("single"), []string{"single"}, 1},
		{Topic(""), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			if got := tt.topic.Segments(); !slices.Equal(got, tt.expected) {
				t.Errorf("Topic.Segments() = %v, want %v", got, tt.expected)
			}
			if got := tt.topic.SegmentCount(); got != tt.count {
				t.Errorf("Topic.SegmentCount() = %d, want %d", got, tt.count)
			}
		})
	}
}

func TestTopic_Navigation(t *testing.T) {
	tp := Topic("document.selection.changed")

	if got := tp.Parent(); got != "document.selection" {
		t.Errorf("Parent() = %q", got)
	}
	if got := Topic("single").Parent(); got != "" {
		t.Errorf("Parent() of single segment = %q", got)
	}
	if got := tp.Base(); got != "changed" {
		t.Errorf("Base() = %q", got)
	}
	if got := Topic("document").Child("changed"); got != "document.changed" {
		t.Errorf("Child() = %q", got)
	}
	if got := Topic("").Child("changed"); got != "changed" {
		t.Errorf("Child() of empty = %q", got)
	}
	if got := Join("schema", "reloaded"); got != "schema.reloaded" {
		t.Errorf("Join() = %q", got)
	}
}

func TestTopic_HasPrefix(t *testing.T) {
	tests := []struct {
		topic  Topic
		prefix Topic
		want   bool
	}{
		{"document.changed", "document", true},
		{"document.changed", "document.changed", true},
		{"documents.changed", "document", false},
		{"document.changed", "", true},
		{"schema.reloaded", "document", false},
	}

	for _, tt := range tests {
		if got := tt.topic.HasPrefix(tt.prefix); got != tt.want {
			t.Errorf("%q.HasPrefix(%q) = %v, want %v", tt.topic, tt.prefix, got, tt.want)
		}
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"document.changed", true},
		{"single", true},
		{"", false},
		{".document", false},
		{"document.", false},
		{"document..changed", false},
	}

	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.want)
		}
	}

	if !Topic("document.*").IsWildcard() || Topic("document.changed").IsWildcard() {
		t.Error("IsWildcard mismatch")
	}
}

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"document.changed", "document.changed", true},
		{"document.changed", "document.*", true},
		{"document.selection.changed", "document.*", false},
		{"document.selection.changed", "document.**", true},
		{"document", "document.**", true},
		{"document.changed", "*.changed", true},
		{"schema.reloaded", "document.**", false},
		{"document.selection.changed", "**.changed", true},
		{"document.changed", "**", true},
		{"document.changed", "selection.changed", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.want {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
			}
		})
	}
}
