package recipeform

import (
	"testing"

	"github.com/franckalain/recipebook/internal/models"
	"github.com/stretchr/testify/assert"
)

func validForm() *Form {
	f := NewForm()
	f.Title = "Pasta"
	f.Description = "Tasty"
	f.CuisineID = int64p(1)
	f.GoalID = int64p(2)
	return f
}

func TestForm_IsFormValid(t *testing.T) {
	f := validForm()
	assert.True(t, f.IsFormValid())
	assert.Equal(t, FieldErrors{}, f.FieldErrors())

	f.Title = ""
	assert.False(t, f.IsFormValid())
	assert.Equal(t, FieldErrors{Title: true}, f.FieldErrors())
}

func TestForm_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		want   FieldErrors
	}{
		{"empty description", func(f *Form) { f.Description = "" }, FieldErrors{Description: true}},
		{"nil cuisine", func(f *Form) { f.CuisineID = nil }, FieldErrors{Cuisine: true}},
		{"zero goal", func(f *Form) { f.GoalID = int64p(0) }, FieldErrors{Goal: true}},
		{"diet and allergy are optional", func(f *Form) { f.DietID = nil; f.AllergyID = nil }, FieldErrors{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(f)
			assert.Equal(t, tt.want, f.FieldErrors())
			assert.Equal(t, tt.want == FieldErrors{}, f.IsFormValid())
		})
	}
}

func TestForm_ValidateIngredients(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []models.RecipeIngredient
		wantMsg     string
		wantErr     bool
	}{
		{
			name:        "no ingredients",
			ingredients: nil,
		},
		{
			name: "all quantities present",
			ingredients: []models.RecipeIngredient{
				{IngredientID: 1, IngredientName: "Farine", Quantity: "200"},
				{IngredientID: 2, IngredientName: "Oeuf", Quantity: "2"},
			},
		},
		{
			name: "unpicked row without quantity is ignored",
			ingredients: []models.RecipeIngredient{
				{IngredientID: 0, IngredientName: "", Quantity: ""},
			},
		},
		{
			name: "first missing quantity is reported",
			ingredients: []models.RecipeIngredient{
				{IngredientID: 1, IngredientName: "Farine", Quantity: "200"},
				{IngredientID: 2, IngredientName: "Sucre", Quantity: ""},
				{IngredientID: 3, IngredientName: "Sel", Quantity: ""},
			},
			wantMsg: `Veuillez remplir la quantité pour l'ingrédient "Sucre"`,
			wantErr: true,
		},
		{
			name: "blank quantity is reported",
			ingredients: []models.RecipeIngredient{
				{IngredientID: 5, IngredientName: "Sel", Quantity: "  "},
			},
			wantMsg: `Veuillez remplir la quantité pour l'ingrédient "Sel"`,
			wantErr: true,
		},
		{
			name: "non numeric quantity is reported",
			ingredients: []models.RecipeIngredient{
				{IngredientID: 1, IngredientName: "Farine", Quantity: "beaucoup"},
			},
			wantMsg: `Veuillez remplir la quantité pour l'ingrédient "Farine"`,
			wantErr: true,
		},
		{
			name: "decimal comma is accepted",
			ingredients: []models.RecipeIngredient{
				{IngredientID: 12, IngredientName: "Huile", Quantity: "1,5"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			f.Ingredients = tt.ingredients
			msg, bad := f.ValidateIngredients()
			assert.Equal(t, tt.wantErr, bad)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestForm_Reset(t *testing.T) {
	f := validForm()
	f.ImageURL = "x"
	f.DietID = int64p(3)
	f.AllergyID = int64p(4)
	f.Ingredients = []models.RecipeIngredient{{IngredientID: 1, Quantity: "1"}}
	f.Instructions = []models.RecipeInstruction{{Description: "Mix"}}

	f.Reset()

	assert.Equal(t, models.RecipeDraft{
		Ingredients:  []models.RecipeIngredient{},
		Instructions: []models.RecipeInstruction{},
	}, f.RecipeDraft)
	assert.False(t, f.IsFormValid())
}
