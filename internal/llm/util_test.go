package llm

import (
	"testing"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"name\": \"Tomato Soup\"}\n```",
			expected: `{"name": "Tomato Soup"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"name\": \"Tomato Soup\"}\n```",
			expected: `{"name": "Tomato Soup"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"name\": \"Tomato Soup\"}\n```",
			expected: `{"name": "Tomato Soup"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"name": "Tomato Soup"}`,
			expected: `{"name": "Tomato Soup"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_PreambleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "Here is the extracted recipe:\n{\"name\": \"Pancakes\"}",
			expected: `{"name": "Pancakes"}`,
		},
		{
			name:     "conversational preamble",
			input:    "I've parsed the document. Here's the structured output:\n\n{\"name\": \"Pancakes\", \"servings\": 4}",
			expected: `{"name": "Pancakes", "servings": 4}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Found these recipes:\n[{\"name\": \"Pancakes\"}, {\"name\": \"Waffles\"}]",
			expected: `[{"name": "Pancakes"}, {"name": "Waffles"}]`,
		},
		{
			name:     "JSON with trailing text",
			input:    "{\"name\": \"Pancakes\"}\n\nLet me know if you need anything else!",
			expected: `{"name": "Pancakes"}`,
		},
		{
			name:     "JSON with escaped quotes",
			input:    "Result: {\"note\": \"use \\\"fresh\\\" basil\"}",
			expected: `{"note": "use \"fresh\" basil"}`,
		},
		{
			name:     "nested objects",
			input:    "Output:\n{\"nutrition\": {\"calories\": 250}}",
			expected: `{"nutrition": {"calories": 250}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"name": "value"}`,
			expected: `{"name": "value"}`,
		},
		{
			name:     "object with trailing text",
			input:    `{"name": "value"} and some more text`,
			expected: `{"name": "value"}`,
		},
		{
			name:     "string with braces inside",
			input:    `{"template": "Hello {name}!"}`,
			expected: `{"template": "Hello {name}!"}`,
		},
		{
			name:     "unterminated object",
			input:    `{"name": "value"`,
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not starting with brace",
			input:    "not json",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple array",
			input:    `["a", "b", "c"]`,
			expected: `["a", "b", "c"]`,
		},
		{
			name:     "array of objects",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "array with trailing text",
			input:    `[1, 2, 3] extra stuff`,
			expected: `[1, 2, 3]`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}
