package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/franckalain/recipebook/internal/models"
	"github.com/franckalain/recipebook/internal/recipeform"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const historyLimit = 20

type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type editRequest struct {
	RecipeID             int64                      `json:"recipe_id"`
	Draft                models.RecipeDraft         `json:"draft"`
	OriginalIngredients  []models.RecipeIngredient  `json:"original_ingredients"`
	OriginalInstructions []models.RecipeInstruction `json:"original_instructions"`
}

// client is one open form page. Writes are serialized since the reload timer
// sends from its own goroutine.
type client struct {
	conn   *websocket.Conn
	token  string
	logger *zap.Logger
	mu     sync.Mutex
}

func (c *client) send(messageType string, data any) {
	msg := map[string]any{
		"type": messageType,
		"data": data,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Debug("Error sending message", zap.String("type", messageType), zap.Error(err))
	}
}

func (c *client) sendError(message string) {
	msg := map[string]any{
		"type":    "error",
		"message": message,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Debug("Error sending error message", zap.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &client{
		conn:   conn,
		token:  s.guard.Token(r),
		logger: s.logger,
	}

	// Messages are handled one at a time, so a page never has two
	// submissions in flight.
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Error reading message", zap.Error(err))
			}
			return
		}
		s.handleWebSocketMessage(r.Context(), c, msg)
	}
}

func (s *Server) handleWebSocketMessage(ctx context.Context, c *client, msg wsMessage) {
	switch msg.Type {
	case "validate":
		var draft models.RecipeDraft
		if err := json.Unmarshal(msg.Data, &draft); err != nil {
			c.sendError("Invalid recipe data")
			return
		}
		c.send("validation", validate(draft))
	case "submit_recipe":
		s.handleSubmitRecipe(ctx, c, msg.Data)
	case "edit_recipe":
		s.handleEditRecipe(ctx, c, msg.Data)
	case "get_history":
		s.handleGetHistory(ctx, c)
	default:
		c.sendError("Unknown message type")
	}
}

func (s *Server) handleSubmitRecipe(ctx context.Context, c *client, data json.RawMessage) {
	var draft models.RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		c.sendError("Invalid recipe data")
		return
	}
	if report := validate(draft); !report.ok() {
		c.send("validation", report)
		return
	}

	status := recipeform.NewStatus(func(r models.SubmissionResult) { c.send("status", r) })
	recipeID, err := s.submitter.Handle(ctx, status, c.token, draft,
		func() { c.send("reset", nil) },
		func() { c.send("reload", nil) })

	s.record(ctx, models.SubmissionCreate, recipeID, draft.Title, err)
}

func (s *Server) handleEditRecipe(ctx context.Context, c *client, data json.RawMessage) {
	var req editRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RecipeID == 0 {
		c.sendError("Invalid recipe data")
		return
	}
	if report := validateEdit(req.Draft); !report.ok() {
		c.send("validation", report)
		return
	}

	status := recipeform.NewStatus(func(r models.SubmissionResult) { c.send("status", r) })
	err := s.editor.Handle(ctx, status, c.token, req.RecipeID, req.Draft,
		req.OriginalIngredients, req.OriginalInstructions,
		func() { c.send("reload", nil) })

	s.record(ctx, models.SubmissionEdit, req.RecipeID, req.Draft.Title, err)
}

func (s *Server) handleGetHistory(ctx context.Context, c *client) {
	items, err := s.db.GetRecentSubmissions(ctx, historyLimit)
	if err != nil {
		s.logger.Error("Error retrieving history", zap.Error(err))
		c.sendError("Failed to retrieve history")
		return
	}
	c.send("history", map[string]any{"items": items})
}

// record logs the run; a failure to log never changes what the user sees.
func (s *Server) record(ctx context.Context, kind string, recipeID int64, title string, runErr error) {
	rec := &models.SubmissionRecord{
		Kind:     kind,
		RecipeID: recipeID,
		Title:    title,
		Status:   models.SubmissionSucceeded,
	}
	if runErr != nil {
		rec.Status = models.SubmissionFailed
		rec.Error = runErr.Error()
	}
	if err := s.db.SaveSubmission(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Error("Error saving submission record", zap.Error(err))
	}
}
