package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/recipe-extractor/internal/db"
	"github.com/jonathan/recipe-extractor/internal/types"
)

// handleListRecipes lists completed recipes with their relations
func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.db.ListCompletedRecipes(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// handleGetRecipe retrieves a single recipe with ingredients and instructions
func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	recipe, err := s.db.GetRecipe(r.Context(), recipeID, true)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, recipe)
}

// handleUpdateRecipe applies a partial update to a recipe's own fields.
// Ingredient links and instructions are extraction output and are not
// editable through this endpoint.
func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var req types.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	recipe, err := s.db.UpdateRecipe(r.Context(), recipeID, &db.RecipeUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		PrepTime:    req.PrepTime,
		CookTime:    req.CookTime,
		Servings:    req.Servings,
	})
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, recipe)
}

// handleDeleteRecipe deletes a recipe and its links and instructions
func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	if err := s.db.DeleteRecipe(r.Context(), recipeID); err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Recipe deleted"})
}
