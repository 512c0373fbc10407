package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/recipe-extractor/internal/db"
)

// HTTPStatus returns the appropriate HTTP status code for an error. Store
// errors may arrive wrapped, so the chain is inspected rather than the
// outermost value.
func HTTPStatus(err error) int {
	var (
		recipeNotFound     *db.ErrRecipeNotFound
		ingredientNotFound *db.ErrIngredientNotFound
		nutritionNotFound  *db.ErrNutritionNotFound
		duplicate          *db.ErrDuplicateIngredient
		nutritionExists    *db.ErrNutritionExists
		inUse              *db.ErrIngredientInUse
		notProcessing      *db.ErrRecipeNotProcessing
	)

	switch {
	case errors.As(err, &recipeNotFound),
		errors.As(err, &ingredientNotFound),
		errors.As(err, &nutritionNotFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate),
		errors.As(err, &nutritionExists),
		errors.As(err, &inUse),
		errors.As(err, &notProcessing):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// storeError writes an error response with the status mapped from err
func (s *Server) storeError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
