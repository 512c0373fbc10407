package extraction

import "strings"

// BuildRecipePrompt constructs the LLM prompt for structuring recipe text.
// The model is asked for a JSON array so that documents containing several
// recipes (a scanned cookbook chapter, a meal plan) parse the same way as a
// single recipe.
func BuildRecipePrompt(text string) string {
	var sb strings.Builder

	sb.WriteString("You are given the text of a recipe document. Extract every recipe it contains.\n\n")

	sb.WriteString("Return ONLY a valid JSON array. Each element must match this exact structure:\n")
	sb.WriteString(`{
  "name": string (required),
  "description": string, // short summary, omit if not present
  "prep_time": number, // minutes, omit if not present
  "cook_time": number, // minutes, omit if not present
  "servings": number, // omit if not present
  "ingredients": [{"name": string (required), "quantity": number, "unit": string}],
  "instructions": [{"step": number (required, starting at 1), "content": string (required)}]
}`)
	sb.WriteString("\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Separate ingredient name, quantity, and unit where possible; omit quantity or unit if unclear.\n")
	sb.WriteString("- Number instruction steps sequentially from 1 in the order they appear.\n")
	sb.WriteString("- Return a JSON array even for a single recipe, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Recipe text:\n\"\"\"\n")
	sb.WriteString(text)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}
