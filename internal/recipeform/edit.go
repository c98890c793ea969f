package recipeform

import (
	"context"
	"fmt"

	"github.com/franckalain/recipebook/internal/models"
	"go.uber.org/zap"
)

// Editor rewrites an existing recipe from a new draft. Child records are not
// diffed: every original child is deleted and the draft's children are
// created again.
type Editor struct {
	orchestrator
}

func NewEditor(api API, logger *zap.Logger, opts ...Option) *Editor {
	return &Editor{orchestrator: newOrchestrator(api, logger, opts)}
}

// Edit runs the edit sequence. A failure part way leaves the recipe with
// some children deleted and others not yet recreated.
func (e *Editor) Edit(ctx context.Context, token string, recipeID int64, draft models.RecipeDraft,
	originalIngredients []models.RecipeIngredient, originalInstructions []models.RecipeInstruction) error {
	if err := checkQuantities(draft.Ingredients); err != nil {
		return err
	}
	if err := e.api.UpdateTitle(ctx, token, recipeID, draft.Title); err != nil {
		return fmt.Errorf("failed to update title: %w", err)
	}
	if err := e.api.UpdateAllergy(ctx, token, recipeID, draft.AllergyID); err != nil {
		return fmt.Errorf("failed to update allergy: %w", err)
	}

	for _, ing := range originalIngredients {
		if ing.IngredientID == 0 {
			continue
		}
		if err := e.api.RemoveIngredient(ctx, token, recipeID, ing.IngredientID); err != nil {
			return fmt.Errorf("failed to remove ingredient %d: %w", ing.IngredientID, err)
		}
	}
	if err := e.addIngredients(ctx, token, recipeID, draft.Ingredients); err != nil {
		return err
	}

	for _, instr := range originalInstructions {
		if instr.InstructionID == 0 {
			continue
		}
		if err := e.api.RemoveInstruction(ctx, token, recipeID, instr.InstructionID); err != nil {
			return fmt.Errorf("failed to remove instruction %d: %w", instr.InstructionID, err)
		}
	}
	return e.addInstructions(ctx, token, recipeID, draft.Instructions)
}

// Handle runs Edit and projects the outcome onto status, scheduling reload
// after ReloadDelay on success.
func (e *Editor) Handle(ctx context.Context, status *Status, token string, recipeID int64, draft models.RecipeDraft,
	originalIngredients []models.RecipeIngredient, originalInstructions []models.RecipeInstruction, reload func()) error {
	status.Begin()
	defer status.Done()

	if err := e.Edit(ctx, token, recipeID, draft, originalIngredients, originalInstructions); err != nil {
		e.logger.Warn("Recipe edit failed", zap.Int64("recipe_id", recipeID), zap.Error(err))
		status.Fail(userMessage(err, MsgUpdateFailed))
		return err
	}

	e.logger.Info("Recipe edited", zap.Int64("recipe_id", recipeID))
	status.Succeed(MsgUpdated)
	e.scheduleReload(reload)
	return nil
}
