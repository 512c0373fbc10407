package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipeList_Valid(t *testing.T) {
	raw := `[
		{
			"name": "Tomato Soup",
			"description": "A simple soup.",
			"prep_time": 10,
			"cook_time": 25,
			"servings": 4,
			"ingredients": [
				{"name": "Tomato", "quantity": 6, "unit": "whole"},
				{"name": "Salt"}
			],
			"instructions": [
				{"step": 1, "content": "Chop the tomatoes."},
				{"step": 2, "content": "Simmer for 25 minutes."}
			]
		}
	]`

	recipes, err := ParseRecipeList(raw)
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	recipe := recipes[0]
	assert.Equal(t, "Tomato Soup", recipe.Name)
	require.NotNil(t, recipe.Description)
	assert.Equal(t, "A simple soup.", *recipe.Description)
	require.NotNil(t, recipe.Servings)
	assert.Equal(t, 4, *recipe.Servings)

	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "Tomato", recipe.Ingredients[0].Name)
	require.NotNil(t, recipe.Ingredients[0].Quantity)
	assert.Equal(t, 6.0, *recipe.Ingredients[0].Quantity)
	assert.Nil(t, recipe.Ingredients[1].Quantity)
	assert.Nil(t, recipe.Ingredients[1].Unit)

	require.Len(t, recipe.Instructions, 2)
	assert.Equal(t, 1, recipe.Instructions[0].Step)
	assert.Equal(t, "Simmer for 25 minutes.", recipe.Instructions[1].Content)
}

func TestParseRecipeList_MultipleRecipes(t *testing.T) {
	raw := `[
		{"name": "Pancakes", "ingredients": [{"name": "Flour"}], "instructions": [{"step": 1, "content": "Mix."}]},
		{"name": "Waffles", "ingredients": [{"name": "Flour"}], "instructions": [{"step": 1, "content": "Mix."}]}
	]`

	recipes, err := ParseRecipeList(raw)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Pancakes", recipes[0].Name)
	assert.Equal(t, "Waffles", recipes[1].Name)
}

func TestParseRecipeList_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "empty output",
			raw:  "",
		},
		{
			name: "whitespace only",
			raw:  "   \n\t ",
		},
		{
			name: "not JSON",
			raw:  "Sorry, I could not find any recipes in this document.",
		},
		{
			name: "single object instead of list",
			raw:  `{"name": "Pancakes", "ingredients": [], "instructions": []}`,
		},
		{
			name: "empty list",
			raw:  `[]`,
		},
		{
			name: "recipe without name",
			raw:  `[{"ingredients": [{"name": "Flour"}], "instructions": [{"step": 1, "content": "Mix."}]}]`,
		},
		{
			name: "instruction without content",
			raw:  `[{"name": "Pancakes", "ingredients": [], "instructions": [{"step": 1}]}]`,
		},
		{
			name: "step below one",
			raw:  `[{"name": "Pancakes", "ingredients": [], "instructions": [{"step": 0, "content": "Mix."}]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, err := ParseRecipeList(tt.raw)
			assert.Nil(t, recipes)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
		})
	}
}

func TestExtractText_EmptyDocument(t *testing.T) {
	text, err := ExtractText(nil)
	assert.Empty(t, text)

	var extractErr *ExtractionError
	assert.True(t, errors.As(err, &extractErr))
}

func TestExtractText_GarbageDocument(t *testing.T) {
	text, err := ExtractText([]byte("this is not a PDF"))
	assert.Empty(t, text)

	var extractErr *ExtractionError
	assert.True(t, errors.As(err, &extractErr))
}
