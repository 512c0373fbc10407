package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// recipeListSchema is the JSON Schema the model output must satisfy before it
// is trusted as structured recipe data.
const recipeListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["name", "ingredients", "instructions"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "prep_time": {"type": "number", "minimum": 0},
      "cook_time": {"type": "number", "minimum": 0},
      "servings": {"type": "number", "minimum": 1},
      "ingredients": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["name"],
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "quantity": {"type": "number"},
            "unit": {"type": "string"}
          }
        }
      },
      "instructions": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["step", "content"],
          "properties": {
            "step": {"type": "integer", "minimum": 1},
            "content": {"type": "string", "minLength": 1}
          }
        }
      }
    }
  }
}`

// ParseRecipeList validates and decodes model output into recipes. The input
// is expected to already be stripped of markdown fences.
func ParseRecipeList(raw string) ([]ParsedRecipe, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &ParseError{Message: "model returned empty output"}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(recipeListSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, &ParseError{Message: "model output is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		return nil, &ParseError{Message: describeSchemaErrors(result.Errors())}
	}

	var recipes []ParsedRecipe
	if err := json.Unmarshal([]byte(raw), &recipes); err != nil {
		return nil, &ParseError{Message: "failed to decode recipe list", Cause: err}
	}
	return recipes, nil
}

func describeSchemaErrors(errs []gojsonschema.ResultError) string {
	var sb strings.Builder
	sb.WriteString("model output does not match recipe schema:")
	for i, desc := range errs {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		sb.WriteString(fmt.Sprintf(" %d. %s: %s", i+1, field, desc.Description()))
	}
	return sb.String()
}
