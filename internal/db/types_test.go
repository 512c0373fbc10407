package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIngredientName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "Tomato", want: "tomato"},
		{name: "trailing space", input: "tomato ", want: "tomato"},
		{name: "leading space", input: "  tomato", want: "tomato"},
		{name: "interior whitespace collapsed", input: "olive   oil", want: "olive oil"},
		{name: "tabs and newlines", input: "\tolive\noil ", want: "olive oil"},
		{name: "already normalized", input: "brown sugar", want: "brown sugar"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIngredientName(tt.input))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(StatusProcessing))
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusFailed))
	assert.False(t, IsTerminal("unknown"))
}
