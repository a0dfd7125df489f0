package speech

import (
	"strings"
	"testing"
)

func TestExtractSpeakableText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "Hello world",
			expected: "Hello world",
		},
		{
			name:     "fenced code block replaced",
			input:    "before ```x=1``` after",
			expected: "before code block. after",
		},
		{
			name:     "multiline fenced code block replaced",
			input:    "intro\n```\nfunc main() {}\n```\noutro",
			expected: "intro code block. outro",
		},
		{
			name:     "inline code keeps content",
			input:    "run `make build` now",
			expected: "run make build now",
		},
		{
			name:     "image removed entirely",
			input:    "see ![diagram](img.png) here",
			expected: "see here",
		},
		{
			name:     "link keeps text",
			input:    "read [the docs](https://example.com) first",
			expected: "read the docs first",
		},
		{
			name:     "heading marker stripped",
			input:    "# Title",
			expected: "Title",
		},
		{
			name:     "deep heading marker stripped",
			input:    "###### Small",
			expected: "Small",
		},
		{
			name:     "list markers stripped",
			input:    "- one\n* two\n+ three\n1. four",
			expected: "one two three four",
		},
		{
			name:     "emphasis characters removed",
			input:    "*bold* _italic_ ~strike~ > quote",
			expected: "bold italic strike quote",
		},
		{
			name:     "whitespace collapsed",
			input:    "a\n\n\nb\t\tc   d",
			expected: "a b c d",
		},
		{
			name:     "empty input falls back",
			input:    "",
			expected: FallbackText,
		},
		{
			name:     "markup-only input falls back",
			input:    "***___~~~",
			expected: FallbackText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSpeakableText(tt.input)
			if got != tt.expected {
				t.Errorf("ExtractSpeakableText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractSpeakableTextNeverEmpty(t *testing.T) {
	inputs := []string{"", "   ", "\n\n", "```only code```", "![img](x.png)", "# \n- \n"}
	for _, input := range inputs {
		if got := ExtractSpeakableText(input); strings.TrimSpace(got) == "" {
			t.Errorf("ExtractSpeakableText(%q) returned empty output", input)
		}
	}
}
