package recipeform

import (
	"context"
	"fmt"

	"github.com/franckalain/recipebook/internal/models"
	"go.uber.org/zap"
)

// Submitter creates a new recipe together with its ingredients and
// instructions.
type Submitter struct {
	orchestrator
}

func NewSubmitter(api API, logger *zap.Logger, opts ...Option) *Submitter {
	return &Submitter{orchestrator: newOrchestrator(api, logger, opts)}
}

// Submit runs the creation sequence and returns the new recipe id. Quantities
// are checked before the first call. Calls are issued one at a time; the first
// failure stops the sequence and children created so far are left in place.
func (s *Submitter) Submit(ctx context.Context, token string, draft models.RecipeDraft) (int64, error) {
	if err := checkQuantities(draft.Ingredients); err != nil {
		return 0, err
	}
	recipeID, err := s.api.CreateRecipe(ctx, token, draft)
	if err != nil {
		return 0, fmt.Errorf("failed to create recipe: %w", err)
	}
	if recipeID == 0 {
		return 0, ErrMissingIdentifier
	}
	s.logger.Debug("Recipe created", zap.Int64("recipe_id", recipeID))

	if err := s.addIngredients(ctx, token, recipeID, draft.Ingredients); err != nil {
		return recipeID, err
	}
	if err := s.addInstructions(ctx, token, recipeID, draft.Instructions); err != nil {
		return recipeID, err
	}
	return recipeID, nil
}

// Handle runs Submit and projects the outcome onto status. On success reset
// runs immediately and reload is scheduled after ReloadDelay. Either callback
// may be nil.
func (s *Submitter) Handle(ctx context.Context, status *Status, token string, draft models.RecipeDraft, reset, reload func()) (int64, error) {
	status.Begin()
	defer status.Done()

	recipeID, err := s.Submit(ctx, token, draft)
	if err != nil {
		s.logger.Warn("Recipe submission failed", zap.Int64("recipe_id", recipeID), zap.Error(err))
		status.Fail(userMessage(err, MsgCreateFailed))
		return recipeID, err
	}

	s.logger.Info("Recipe submitted",
		zap.Int64("recipe_id", recipeID),
		zap.Int("ingredients", len(draft.Ingredients)),
		zap.Int("instructions", len(draft.Instructions)))
	status.Succeed(MsgCreated)
	if reset != nil {
		reset()
	}
	s.scheduleReload(reload)
	return recipeID, nil
}
