package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/franckalain/recipebook/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// DB interface defines the methods our database should implement
type DB interface {
	SaveSubmission(ctx context.Context, rec *models.SubmissionRecord) error
	GetSubmission(ctx context.Context, id string) (*models.SubmissionRecord, error)
	GetRecentSubmissions(ctx context.Context, limit int) ([]*models.SubmissionRecord, error)
	Close() error
}

// SQLiteDB implements the DB interface
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(dbPath string, logger *zap.Logger) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One connection keeps the pragmas below in effect for every query
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("error enabling WAL mode: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}
	logger.Info("Database schema initialized", zap.String("path", dbPath))

	return &SQLiteDB{db: db}, nil
}

func initializeSchema(db *sql.DB) error {
	schemaBytes, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}

	if _, err := db.Exec(string(schemaBytes)); err != nil {
		return fmt.Errorf("error executing schema: %w", err)
	}
	return nil
}

// SaveSubmission records an orchestrator run, assigning an id and timestamp
// when they are missing.
func (s *SQLiteDB) SaveSubmission(ctx context.Context, rec *models.SubmissionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO submissions (id, kind, recipe_id, title, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			recipe_id = excluded.recipe_id,
			title = excluded.title,
			status = excluded.status,
			error = excluded.error
	`
	var recipeID sql.NullInt64
	if rec.RecipeID != 0 {
		recipeID = sql.NullInt64{Int64: rec.RecipeID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Kind, recipeID, rec.Title, rec.Status, rec.Error, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("error saving submission: %w", err)
	}
	return nil
}

// GetSubmission returns nil, nil when no record has the id.
func (s *SQLiteDB) GetSubmission(ctx context.Context, id string) (*models.SubmissionRecord, error) {
	query := `
		SELECT id, kind, recipe_id, title, status, error, created_at
		FROM submissions WHERE id = ?
	`
	rec, err := scanSubmission(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRecentSubmissions returns the newest records first
func (s *SQLiteDB) GetRecentSubmissions(ctx context.Context, limit int) ([]*models.SubmissionRecord, error) {
	query := `
		SELECT id, kind, recipe_id, title, status, error, created_at
		FROM submissions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.SubmissionRecord
	for rows.Next() {
		rec, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*models.SubmissionRecord, error) {
	var rec models.SubmissionRecord
	var recipeID sql.NullInt64
	var createdAt int64
	if err := row.Scan(&rec.ID, &rec.Kind, &recipeID, &rec.Title, &rec.Status, &rec.Error, &createdAt); err != nil {
		return nil, err
	}
	rec.RecipeID = recipeID.Int64
	rec.CreatedAt = time.UnixMilli(createdAt)
	return &rec, nil
}
