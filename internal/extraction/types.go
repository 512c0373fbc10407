// Package extraction turns uploaded documents into structured recipe data.
// It extracts plain text from PDFs and uses an LLM to parse that text into
// one or more recipes.
package extraction

// ParsedIngredient is a single ingredient reference as it appears in the
// source document, before catalog resolution.
type ParsedIngredient struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
}

// ParsedInstruction is a single ordered preparation step.
type ParsedInstruction struct {
	Step    int    `json:"step"`
	Content string `json:"content"`
}

// ParsedRecipe is the structured output of the AI parsing stage for one recipe.
type ParsedRecipe struct {
	Name         string              `json:"name"`
	Description  *string             `json:"description,omitempty"`
	PrepTime     *int                `json:"prep_time,omitempty"`
	CookTime     *int                `json:"cook_time,omitempty"`
	Servings     *int                `json:"servings,omitempty"`
	Ingredients  []ParsedIngredient  `json:"ingredients"`
	Instructions []ParsedInstruction `json:"instructions"`
}
