package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/recipe-extractor/internal/db"
	"github.com/jonathan/recipe-extractor/internal/types"
)

// handleListIngredients lists the ingredient catalog
func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.db.ListIngredients(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"ingredients": catalog,
		"count":       len(catalog),
	})
}

// handleCreateIngredient adds a catalog entry directly, bypassing extraction.
// The same normalization and uniqueness rules apply as for resolved ingredients.
func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	req, ok := s.ingredientRequest(w, r)
	if !ok {
		return
	}

	ingredient, err := s.db.CreateIngredient(r.Context(), req.Name, db.NormalizeIngredientName(req.Name))
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, ingredient)
}

// handleSearchIngredients looks up a catalog entry by name. The query is
// normalized before lookup, so case and whitespace variants match.
func (s *Server) handleSearchIngredients(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing 'name' query parameter")
		return
	}

	normalized := db.NormalizeIngredientName(name)
	ingredient, err := s.db.GetIngredientByNormalizedName(r.Context(), normalized)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if ingredient == nil {
		s.errorResponse(w, http.StatusNotFound, "Ingredient not found: "+name)
		return
	}

	s.jsonResponse(w, http.StatusOK, ingredient)
}

// handleGetIngredient retrieves one catalog entry
func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid ingredient ID")
		return
	}

	ingredient, err := s.db.GetIngredientByID(r.Context(), ingredientID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ingredient)
}

// handleUpdateIngredient renames a catalog entry
func (s *Server) handleUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid ingredient ID")
		return
	}

	req, ok := s.ingredientRequest(w, r)
	if !ok {
		return
	}

	ingredient, err := s.db.UpdateIngredientName(r.Context(), ingredientID, req.Name)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ingredient)
}

// handleDeleteIngredient deletes an unused catalog entry. Entries referenced
// by any recipe are kept; deleting them would orphan recipe links.
func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid ingredient ID")
		return
	}

	if err := s.db.DeleteIngredient(r.Context(), ingredientID); err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Ingredient deleted"})
}

// handleGetNutrition retrieves nutrition facts for an ingredient
func (s *Server) handleGetNutrition(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid ingredient ID")
		return
	}

	nutrition, err := s.db.GetNutrition(r.Context(), ingredientID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, nutrition)
}

// handleAddNutrition attaches nutrition facts to an ingredient
func (s *Server) handleAddNutrition(w http.ResponseWriter, r *http.Request) {
	ingredientID, req, ok := s.nutritionRequest(w, r)
	if !ok {
		return
	}

	nutrition, err := s.db.AddNutrition(r.Context(), ingredientID, nutritionInput(req))
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, nutrition)
}

// handleUpdateNutrition replaces an ingredient's nutrition facts
func (s *Server) handleUpdateNutrition(w http.ResponseWriter, r *http.Request) {
	ingredientID, req, ok := s.nutritionRequest(w, r)
	if !ok {
		return
	}

	nutrition, err := s.db.UpdateNutrition(r.Context(), ingredientID, nutritionInput(req))
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, nutrition)
}

// handleDeleteNutrition removes nutrition facts from an ingredient
func (s *Server) handleDeleteNutrition(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid ingredient ID")
		return
	}

	if err := s.db.DeleteNutrition(r.Context(), ingredientID); err != nil {
		s.storeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Nutrition deleted"})
}

// ingredientRequest parses and validates the shared ingredient request shape
func (s *Server) ingredientRequest(w http.ResponseWriter, r *http.Request) (*types.IngredientRequest, bool) {
	var req types.IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return nil, false
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return nil, false
	}
	return &req, true
}

// nutritionRequest parses and validates the shared nutrition request shape
func (s *Server) nutritionRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, *types.NutritionRequest, bool) {
	ingredientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid ingredient ID")
		return uuid.Nil, nil, false
	}

	var req types.NutritionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return uuid.Nil, nil, false
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return uuid.Nil, nil, false
	}

	return ingredientID, &req, true
}

func nutritionInput(req *types.NutritionRequest) *db.NutritionInput {
	return &db.NutritionInput{
		CaloriesPer100: req.Calories,
		CaloriesUnit:   req.Unit,
		Protein:        req.Protein,
		Carbs:          req.Carbs,
		Fat:            req.Fat,
		Fiber:          req.Fiber,
	}
}
