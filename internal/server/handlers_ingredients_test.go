package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleGetIngredient_InvalidID(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/ingredients/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetIngredient(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ingredient ID")
}

func TestHandleDeleteIngredient_InvalidID(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/ingredients/bad", nil)
	req.SetPathValue("id", "bad")
	w := httptest.NewRecorder()

	s.handleDeleteIngredient(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateIngredient_InvalidBody(t *testing.T) {
	s, _ := newTestServer()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "malformed JSON",
			body: `{name: "salt"}`,
			want: "Invalid JSON",
		},
		{
			name: "missing name",
			body: `{}`,
			want: "Validation failed",
		},
		{
			name: "empty name",
			body: `{"name": ""}`,
			want: "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ingredients", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			s.handleCreateIngredient(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestHandleSearchIngredients_MissingName(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/ingredients/search", nil)
	w := httptest.NewRecorder()

	s.handleSearchIngredients(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name")
}

func TestHandleUpdateIngredient_InvalidID(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPut, "/ingredients/nope", strings.NewReader(`{"name": "salt"}`))
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()

	s.handleUpdateIngredient(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ingredient ID")
}

func TestHandleAddNutrition_InvalidBody(t *testing.T) {
	s, _ := newTestServer()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "malformed JSON",
			body: `{`,
			want: "Invalid JSON",
		},
		{
			name: "missing calories",
			body: `{"unit": "g"}`,
			want: "Validation failed",
		},
		{
			name: "negative calories",
			body: `{"calories": -10, "unit": "g"}`,
			want: "Validation failed",
		},
		{
			name: "unsupported unit",
			body: `{"calories": 100, "unit": "cups"}`,
			want: "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ingredients/6e8bc430-9c3a-11d9-9669-0800200c9a66/nutrition", strings.NewReader(tt.body))
			req.SetPathValue("id", "6e8bc430-9c3a-11d9-9669-0800200c9a66")
			w := httptest.NewRecorder()

			s.handleAddNutrition(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestHandleGetNutrition_InvalidID(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/ingredients/oops/nutrition", nil)
	req.SetPathValue("id", "oops")
	w := httptest.NewRecorder()

	s.handleGetNutrition(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
