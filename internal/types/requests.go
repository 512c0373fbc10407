// Package types provides request definitions for the recipe extractor API.
package types

import (
	"github.com/go-playground/validator/v10"
)

// UpdateRecipeRequest represents a partial recipe update. Absent fields are
// left unchanged.
type UpdateRecipeRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	PrepTime    *int    `json:"prep_time,omitempty" validate:"omitempty,min=0"`
	CookTime    *int    `json:"cook_time,omitempty" validate:"omitempty,min=0"`
	Servings    *int    `json:"servings,omitempty" validate:"omitempty,min=1"`
}

// IngredientRequest represents a direct catalog create or rename.
type IngredientRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// NutritionRequest represents nutrition facts for an ingredient, per 100 of
// the stated unit.
type NutritionRequest struct {
	Calories *float64 `json:"calories" validate:"required,min=0"`
	Unit     string   `json:"unit" validate:"required,oneof=g ml"`
	Protein  *float64 `json:"protein,omitempty" validate:"omitempty,min=0"`
	Carbs    *float64 `json:"carbs,omitempty" validate:"omitempty,min=0"`
	Fat      *float64 `json:"fat,omitempty" validate:"omitempty,min=0"`
	Fiber    *float64 `json:"fiber,omitempty" validate:"omitempty,min=0"`
}

// Validate validates the UpdateRecipeRequest using the validator.
func (r *UpdateRecipeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the IngredientRequest using the validator.
func (r *IngredientRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the NutritionRequest using the validator.
func (r *NutritionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
