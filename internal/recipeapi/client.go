// Package recipeapi is a client for the recipe REST API. Every call carries the
// caller's session token as a bearer credential.
package recipeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/franckalain/recipebook/internal/models"
	"go.uber.org/zap"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // from the response body's "message" field, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("recipe api: %s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("recipe api: %s %s: %d", e.Method, e.Path, e.StatusCode)
}

// ServerMessage returns the message supplied by the API, if any.
func (e *APIError) ServerMessage() string {
	return e.Message
}

// Client talks to the recipe API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for baseURL. A zero timeout leaves request
// deadlines to the caller's context.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type envelope[T any] struct {
	Data    *T     `json:"data"`
	Message string `json:"message"`
}

type createRecipeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	CuisineID   *int64 `json:"cuisine_id"`
	GoalID      *int64 `json:"goal_id"`
	DietID      *int64 `json:"DietaryInformation_id"`
	AllergyID   *int64 `json:"AllergiesInformation_id"`
}

type createRecipeResponse struct {
	RecipeID int64 `json:"recipe_id"`
}

type addIngredientRequest struct {
	IngredientID int64   `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

type addInstructionRequest struct {
	RecipeID    int64  `json:"recipe_id"`
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// CreateRecipe creates the base recipe record and returns its generated id.
// The id is zero when the API response did not carry one.
func (c *Client) CreateRecipe(ctx context.Context, token string, draft models.RecipeDraft) (int64, error) {
	body := createRecipeRequest{
		Title:       draft.Title,
		Description: draft.Description,
		ImageURL:    draft.ImageURL,
		CuisineID:   draft.CuisineID,
		GoalID:      draft.GoalID,
		DietID:      draft.DietID,
		AllergyID:   draft.AllergyID,
	}
	var resp envelope[createRecipeResponse]
	if err := c.do(ctx, http.MethodPost, "/recipes", token, body, &resp); err != nil {
		return 0, err
	}
	if resp.Data == nil {
		return 0, nil
	}
	return resp.Data.RecipeID, nil
}

func (c *Client) UpdateTitle(ctx context.Context, token string, recipeID int64, title string) error {
	body := map[string]string{"title": title}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/recipes/%d/title", recipeID), token, body, nil)
}

func (c *Client) UpdateAllergy(ctx context.Context, token string, recipeID int64, allergyID *int64) error {
	body := map[string]*int64{"AllergiesInformation_id": allergyID}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/recipes/%d/allergy", recipeID), token, body, nil)
}

func (c *Client) AddIngredient(ctx context.Context, token string, recipeID, ingredientID int64, quantity float64) error {
	body := addIngredientRequest{IngredientID: ingredientID, Quantity: quantity}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/recipes/%d/ingredients", recipeID), token, body, nil)
}

func (c *Client) RemoveIngredient(ctx context.Context, token string, recipeID, ingredientID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/recipes/%d/ingredients/%d", recipeID, ingredientID), token, nil, nil)
}

func (c *Client) AddInstruction(ctx context.Context, token string, recipeID int64, step int, description string) error {
	body := addInstructionRequest{RecipeID: recipeID, StepNumber: step, Description: description}
	return c.do(ctx, http.MethodPost, "/instructions", token, body, nil)
}

func (c *Client) RemoveInstruction(ctx context.Context, token string, recipeID, instructionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/instructions/%d/recipe/%d", instructionID, recipeID), token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Calling recipe API", zap.String("method", method), zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recipe api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			apiErr.Message = errBody.Message
		}
		c.logger.Debug("Recipe API returned an error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response from %s %s: %w", method, path, err)
	}
	return nil
}

