// Package recipeform holds the recipe form state and the sequences of API
// calls that create or edit a recipe from it.
package recipeform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/franckalain/recipebook/internal/models"
	"go.uber.org/zap"
)

// ReloadDelay is how long a successful submission waits before asking the
// page to reload.
const ReloadDelay = 1500 * time.Millisecond

// ErrMissingIdentifier is returned when the API accepted a new recipe but did
// not return its id.
var ErrMissingIdentifier = errors.New(msgMissingID)

// QuantityError names an ingredient whose quantity is not a number.
type QuantityError struct {
	Ingredient string
	Quantity   models.Quantity
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("ingredient %q: invalid quantity %q", e.Ingredient, string(e.Quantity))
}

// API is the subset of the recipe REST API the orchestrators drive.
type API interface {
	CreateRecipe(ctx context.Context, token string, draft models.RecipeDraft) (int64, error)
	UpdateTitle(ctx context.Context, token string, recipeID int64, title string) error
	UpdateAllergy(ctx context.Context, token string, recipeID int64, allergyID *int64) error
	AddIngredient(ctx context.Context, token string, recipeID, ingredientID int64, quantity float64) error
	RemoveIngredient(ctx context.Context, token string, recipeID, ingredientID int64) error
	AddInstruction(ctx context.Context, token string, recipeID int64, step int, description string) error
	RemoveInstruction(ctx context.Context, token string, recipeID, instructionID int64) error
}

// Option configures a Submitter or Editor.
type Option func(*orchestrator)

// WithScheduler replaces time.AfterFunc for the delayed reload.
func WithScheduler(schedule func(time.Duration, func())) Option {
	return func(o *orchestrator) {
		o.schedule = schedule
	}
}

type orchestrator struct {
	api      API
	logger   *zap.Logger
	schedule func(time.Duration, func())
}

func newOrchestrator(api API, logger *zap.Logger, opts []Option) orchestrator {
	o := orchestrator{
		api:    api,
		logger: logger,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o *orchestrator) scheduleReload(reload func()) {
	if reload == nil {
		return
	}
	o.schedule(ReloadDelay, reload)
}

// addIngredients creates one child record per complete ingredient, in order.
func (o *orchestrator) addIngredients(ctx context.Context, token string, recipeID int64, ingredients []models.RecipeIngredient) error {
	for _, ing := range ingredients {
		if !ing.Complete() {
			continue
		}
		qty, err := parseQuantity(ing.Quantity)
		if err != nil {
			return &QuantityError{Ingredient: ing.IngredientName, Quantity: ing.Quantity}
		}
		if err := o.api.AddIngredient(ctx, token, recipeID, ing.IngredientID, qty); err != nil {
			return fmt.Errorf("failed to add ingredient %d: %w", ing.IngredientID, err)
		}
	}
	return nil
}

// checkQuantities returns a *QuantityError for the first complete ingredient
// whose quantity does not parse. It runs before any API call so a bad row
// never leaves a half-written recipe behind.
func checkQuantities(ingredients []models.RecipeIngredient) error {
	for _, ing := range ingredients {
		if !ing.Complete() {
			continue
		}
		if _, err := parseQuantity(ing.Quantity); err != nil {
			return &QuantityError{Ingredient: ing.IngredientName, Quantity: ing.Quantity}
		}
	}
	return nil
}

// addInstructions creates one child record per non-blank step. Step numbers
// follow the position in the full list, so skipped rows leave gaps.
func (o *orchestrator) addInstructions(ctx context.Context, token string, recipeID int64, instructions []models.RecipeInstruction) error {
	for idx, instr := range instructions {
		if instr.Blank() {
			continue
		}
		text := strings.TrimSpace(instr.Description)
		if err := o.api.AddInstruction(ctx, token, recipeID, idx+1, text); err != nil {
			return fmt.Errorf("failed to add instruction %d: %w", idx+1, err)
		}
	}
	return nil
}

func parseQuantity(q models.Quantity) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(string(q)), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", string(q))
	}
	return v, nil
}

// userMessage picks the API's own message when the failure carries one.
func userMessage(err error, fallback string) string {
	var qty *QuantityError
	if errors.As(err, &qty) {
		return fmt.Sprintf(msgQuantityEmpty, qty.Ingredient)
	}
	var withMessage interface{ ServerMessage() string }
	if errors.As(err, &withMessage) && withMessage.ServerMessage() != "" {
		return withMessage.ServerMessage()
	}
	return fallback
}
