// Package db provides PostgreSQL persistence for recipes and the ingredient catalog.
package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
const uniqueViolationCode = "23505"

// ErrRecipeNotFound indicates the referenced recipe does not exist
type ErrRecipeNotFound struct {
	ID uuid.UUID
}

func (e *ErrRecipeNotFound) Error() string {
	return fmt.Sprintf("recipe not found: %s", e.ID)
}

// ErrIngredientNotFound indicates the referenced ingredient does not exist
type ErrIngredientNotFound struct {
	ID uuid.UUID
}

func (e *ErrIngredientNotFound) Error() string {
	return fmt.Sprintf("ingredient not found: %s", e.ID)
}

// ErrDuplicateIngredient indicates an ingredient with the same normalized name
// already exists. Callers resolving ingredients recover from this by re-fetching
// the existing row; it is never surfaced past the resolver.
type ErrDuplicateIngredient struct {
	NormalizedName string
}

func (e *ErrDuplicateIngredient) Error() string {
	return fmt.Sprintf("ingredient already exists: %s", e.NormalizedName)
}

// ErrIngredientInUse indicates an ingredient cannot be deleted because recipes
// still reference it
type ErrIngredientInUse struct {
	ID    uuid.UUID
	Count int
}

func (e *ErrIngredientInUse) Error() string {
	return fmt.Sprintf("ingredient %s is referenced by %d recipe(s)", e.ID, e.Count)
}

// ErrNutritionExists indicates nutrition data already exists for an ingredient
type ErrNutritionExists struct {
	IngredientID uuid.UUID
}

func (e *ErrNutritionExists) Error() string {
	return fmt.Sprintf("nutrition data already exists for ingredient %s", e.IngredientID)
}

// ErrNutritionNotFound indicates no nutrition data exists for an ingredient
type ErrNutritionNotFound struct {
	IngredientID uuid.UUID
}

func (e *ErrNutritionNotFound) Error() string {
	return fmt.Sprintf("no nutrition data for ingredient %s", e.IngredientID)
}

// ErrRecipeNotProcessing indicates a finalize was attempted on a recipe that is
// no longer in processing status. Completed and failed recipes are immutable.
type ErrRecipeNotProcessing struct {
	ID     uuid.UUID
	Status string
}

func (e *ErrRecipeNotProcessing) Error() string {
	return fmt.Sprintf("recipe %s is %s and cannot be finalized", e.ID, e.Status)
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
