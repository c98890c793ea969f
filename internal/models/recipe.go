package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RecipeDraft represents the in-progress state of the recipe form
type RecipeDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`

	// References into the API's lookup tables; nil when not chosen
	CuisineID *int64 `json:"cuisineId"`
	GoalID    *int64 `json:"goalId"`
	DietID    *int64 `json:"dietId"`
	AllergyID *int64 `json:"allergyId"`

	Ingredients  []RecipeIngredient  `json:"ingredients"`
	Instructions []RecipeInstruction `json:"instructions"`
}

// RecipeIngredient is one ingredient row of a draft
type RecipeIngredient struct {
	IngredientID   int64    `json:"ingredientId"`
	IngredientName string   `json:"ingredientName"`
	Quantity       Quantity `json:"quantity"`
}

// Complete reports whether the row carries both an ingredient reference and a quantity.
func (i RecipeIngredient) Complete() bool {
	return i.IngredientID != 0 && strings.TrimSpace(string(i.Quantity)) != ""
}

// RecipeInstruction is one step of a draft. InstructionID is only set for
// steps loaded from an existing recipe.
type RecipeInstruction struct {
	Description   string `json:"description"`
	InstructionID int64  `json:"instruction_id,omitempty"`
}

// Blank reports whether the step has no text once trimmed.
func (i RecipeInstruction) Blank() bool {
	return strings.TrimSpace(i.Description) == ""
}

// Quantity is the raw quantity typed into the form. Browsers send it either as
// a string or as a number depending on the input type.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*q = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("quantity must be a string or a number: %w", err)
		}
		// A literal 0 is treated like an empty field
		if f, err := n.Float64(); err == nil && f == 0 {
			*q = ""
			return nil
		}
		*q = Quantity(n.String())
	}
	return nil
}

// SubmissionResult is the user-facing outcome of a create or edit attempt
type SubmissionResult struct {
	Loading        bool   `json:"loading"`
	SuccessMessage string `json:"successMessage"`
	ErrorMessage   string `json:"errorMessage"`
}

// SubmissionRecord is a logged orchestrator run
type SubmissionRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`   // "create", "edit"
	RecipeID  int64     `json:"recipe_id,omitempty"`
	Title     string    `json:"title"`
	Status    string    `json:"status"` // "succeeded", "failed"
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	SubmissionCreate = "create"
	SubmissionEdit   = "edit"

	SubmissionSucceeded = "succeeded"
	SubmissionFailed    = "failed"
)
