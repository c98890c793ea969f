package recipeform

import (
	"context"
	"fmt"

	"github.com/franckalain/recipebook/internal/models"
)

// fakeAPI records calls as "METHOD path" strings and fails the call whose
// index matches failAt.
type fakeAPI struct {
	calls    []string
	recipeID int64
	failAt   int
	failErr  error
}

func newFakeAPI(recipeID int64) *fakeAPI {
	return &fakeAPI{recipeID: recipeID, failAt: -1}
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	if len(f.calls)-1 == f.failAt {
		return f.failErr
	}
	return nil
}

func (f *fakeAPI) CreateRecipe(_ context.Context, _ string, draft models.RecipeDraft) (int64, error) {
	if err := f.record("POST /recipes " + draft.Title); err != nil {
		return 0, err
	}
	return f.recipeID, nil
}

func (f *fakeAPI) UpdateTitle(_ context.Context, _ string, recipeID int64, title string) error {
	return f.record(fmt.Sprintf("PUT /recipes/%d/title %s", recipeID, title))
}

func (f *fakeAPI) UpdateAllergy(_ context.Context, _ string, recipeID int64, allergyID *int64) error {
	v := "null"
	if allergyID != nil {
		v = fmt.Sprint(*allergyID)
	}
	return f.record(fmt.Sprintf("PUT /recipes/%d/allergy %s", recipeID, v))
}

func (f *fakeAPI) AddIngredient(_ context.Context, _ string, recipeID, ingredientID int64, quantity float64) error {
	return f.record(fmt.Sprintf("POST /recipes/%d/ingredients %d %g", recipeID, ingredientID, quantity))
}

func (f *fakeAPI) RemoveIngredient(_ context.Context, _ string, recipeID, ingredientID int64) error {
	return f.record(fmt.Sprintf("DELETE /recipes/%d/ingredients/%d", recipeID, ingredientID))
}

func (f *fakeAPI) AddInstruction(_ context.Context, _ string, recipeID int64, step int, description string) error {
	return f.record(fmt.Sprintf("POST /instructions %d #%d %s", recipeID, step, description))
}

func (f *fakeAPI) RemoveInstruction(_ context.Context, _ string, recipeID, instructionID int64) error {
	return f.record(fmt.Sprintf("DELETE /instructions/%d/recipe/%d", instructionID, recipeID))
}

// serverError mimics an API error carrying a message.
type serverError struct{ msg string }

func (e *serverError) Error() string         { return "api error: " + e.msg }
func (e *serverError) ServerMessage() string { return e.msg }

func int64p(v int64) *int64 { return &v }
