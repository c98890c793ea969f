package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/franckalain/recipebook/internal/cms"
	"github.com/franckalain/recipebook/internal/models"
	"github.com/franckalain/recipebook/internal/recipeform"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxHistoryLimit = 100

type validationReport struct {
	FieldErrors     recipeform.FieldErrors `json:"fieldErrors"`
	IsFormValid     bool                   `json:"isFormValid"`
	IngredientError string                 `json:"ingredientError,omitempty"`
}

func (v validationReport) ok() bool {
	return v.IsFormValid && v.IngredientError == ""
}

func validate(draft models.RecipeDraft) validationReport {
	form := &recipeform.Form{RecipeDraft: draft}
	report := validationReport{
		FieldErrors: form.FieldErrors(),
		IsFormValid: form.IsFormValid(),
	}
	if msg, bad := form.ValidateIngredients(); bad {
		report.IngredientError = msg
	}
	return report
}

// validateEdit checks only what an edit sends: the title and the new
// ingredient rows. Description, cuisine and goal are not touched by an edit.
func validateEdit(draft models.RecipeDraft) validationReport {
	form := &recipeform.Form{RecipeDraft: draft}
	report := validationReport{
		FieldErrors: recipeform.FieldErrors{Title: form.FieldErrors().Title},
	}
	report.IsFormValid = !report.FieldErrors.Title
	if msg, bad := form.ValidateIngredients(); bad {
		report.IngredientError = msg
	}
	return report
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var draft models.RecipeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recipe data")
		return
	}
	respondJSON(w, http.StatusOK, validate(draft))
}

func (s *Server) handleImageURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := cms.OptionsFromQuery(q)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	src := &models.ImageSource{Ref: q.Get("ref")}
	u, ok := s.images.URLFor(src, opts)
	if !ok {
		respondError(w, http.StatusNotFound, "Image not available")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": u})
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	items, err := s.db.GetRecentSubmissions(r.Context(), limit)
	if err != nil {
		s.logger.Error("Error retrieving submissions", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to retrieve submissions")
		return
	}
	if items == nil {
		items = []*models.SubmissionRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	rec, err := s.db.GetSubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error("Error retrieving submission", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to retrieve submission")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "Submission not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
