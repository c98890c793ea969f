package recipeform

import (
	"fmt"

	"github.com/franckalain/recipebook/internal/models"
)

// FieldErrors flags required fields that are still empty.
type FieldErrors struct {
	Title       bool `json:"title"`
	Description bool `json:"description"`
	Cuisine     bool `json:"cuisine"`
	Goal        bool `json:"goal"`
}

// Form holds a recipe draft while it is being edited and derives its
// validity from the current field values.
type Form struct {
	models.RecipeDraft
}

// NewForm returns an empty form.
func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

func (f *Form) FieldErrors() FieldErrors {
	return FieldErrors{
		Title:       f.Title == "",
		Description: f.Description == "",
		Cuisine:     unset(f.CuisineID),
		Goal:        unset(f.GoalID),
	}
}

// IsFormValid reports whether every required field is filled in.
func (f *Form) IsFormValid() bool {
	e := f.FieldErrors()
	return !e.Title && !e.Description && !e.Cuisine && !e.Goal
}

// ValidateIngredients returns the message for the first ingredient that was
// picked but has no usable quantity: empty, blank or not a number.
func (f *Form) ValidateIngredients() (string, bool) {
	for _, ing := range f.Ingredients {
		if ing.IngredientID == 0 {
			continue
		}
		if _, err := parseQuantity(ing.Quantity); err != nil {
			return fmt.Sprintf(msgQuantityEmpty, ing.IngredientName), true
		}
	}
	return "", false
}

// Reset clears every field and both child lists.
func (f *Form) Reset() {
	f.RecipeDraft = models.RecipeDraft{
		Ingredients:  []models.RecipeIngredient{},
		Instructions: []models.RecipeInstruction{},
	}
}

func unset(id *int64) bool {
	return id == nil || *id == 0
}
