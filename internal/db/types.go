package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recipe status values. A recipe row doubles as the extraction job record:
// it is created as StatusProcessing and finalized exactly once.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// PlaceholderRecipeName is used for the empty row created at job start.
const PlaceholderRecipeName = "Untitled recipe"

// Recipe represents a recipe and, while processing, the extraction job itself
type Recipe struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PrepTime    *int      `json:"prep_time,omitempty"` // minutes
	CookTime    *int      `json:"cook_time,omitempty"` // minutes
	Servings    *int      `json:"servings,omitempty"`
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations (loaded on request)
	Ingredients  []RecipeIngredient `json:"ingredients,omitempty"`
	Instructions []Instruction      `json:"instructions,omitempty"`
}

// Ingredient is a catalog entry deduplicated by its normalized name
type Ingredient struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name"`
	CreatedAt      time.Time `json:"created_at"`

	Nutrition *Nutrition `json:"nutrition,omitempty"` // joined
}

// RecipeIngredient links a recipe to a catalog ingredient with amounts
type RecipeIngredient struct {
	RecipeID     uuid.UUID   `json:"recipe_id"`
	IngredientID uuid.UUID   `json:"ingredient_id"`
	Quantity     *float64    `json:"quantity,omitempty"`
	Unit         *string     `json:"unit,omitempty"`
	Ingredient   *Ingredient `json:"ingredient,omitempty"` // joined
}

// Instruction is one ordered step of a recipe
type Instruction struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Step     int       `json:"step"`
	Content  string    `json:"content"`
}

// Nutrition holds per-100g nutrition data for a catalog ingredient
type Nutrition struct {
	IngredientID   uuid.UUID `json:"ingredient_id"`
	CaloriesPer100 *float64  `json:"calories_per_100,omitempty"`
	CaloriesUnit   string    `json:"calories_unit"`
	Protein        *float64  `json:"protein,omitempty"`
	Carbs          *float64  `json:"carbs,omitempty"`
	Fat            *float64  `json:"fat,omitempty"`
	Fiber          *float64  `json:"fiber,omitempty"`
}

// IngredientLinkInput is a resolved ingredient reference for recipe creation
type IngredientLinkInput struct {
	IngredientID uuid.UUID
	Quantity     *float64
	Unit         *string
}

// InstructionInput is one instruction step for recipe creation
type InstructionInput struct {
	Step    int
	Content string
}

// RecipeContentInput holds everything needed to finalize or create a recipe.
// Ingredient references must already be resolved to catalog IDs; resolution is
// deliberately kept outside the write transaction.
type RecipeContentInput struct {
	Name         string
	Description  *string
	PrepTime     *int
	CookTime     *int
	Servings     *int
	Ingredients  []IngredientLinkInput
	Instructions []InstructionInput
}

// NutritionInput holds nutrition fields for create/update
type NutritionInput struct {
	CaloriesPer100 *float64
	CaloriesUnit   string
	Protein        *float64
	Carbs          *float64
	Fat            *float64
	Fiber          *float64
}

// IsTerminal reports whether a recipe status can no longer change
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// NormalizeIngredientName produces the catalog dedup key: lowercase, trimmed,
// with internal whitespace runs collapsed to a single space.
func NormalizeIngredientName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
