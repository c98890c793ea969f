package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/franckalain/recipebook/internal/cms"
	"github.com/franckalain/recipebook/internal/config"
	"github.com/franckalain/recipebook/internal/database"
	"github.com/franckalain/recipebook/internal/recipeform"
	"github.com/franckalain/recipebook/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// guestPages maps the routes reserved for signed-out visitors to their files.
var guestPages = map[string]string{
	"/login":    "login.html",
	"/register": "register.html",
}

type Server struct {
	cfg       *config.Config
	db        database.DB
	submitter *recipeform.Submitter
	editor    *recipeform.Editor
	guard     *session.Guard
	images    *cms.Resolver
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

// New wires the server. opts are passed on to both orchestrators.
func New(cfg *config.Config, db database.DB, api recipeform.API, logger *zap.Logger, opts ...recipeform.Option) *Server {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if cfg.Server.Debug {
		// Pages may be served by a dev server on another port
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	return &Server{
		cfg:       cfg,
		db:        db,
		submitter: recipeform.NewSubmitter(api, logger.Named("submit"), opts...),
		editor:    recipeform.NewEditor(api, logger.Named("edit"), opts...),
		guard:     session.NewGuard(cfg.Session.CookieName, cfg.Session.DashboardPath, logger.Named("session")),
		images:    cms.NewResolver(cfg.CMS, logger.Named("cms")),
		logger:    logger,
		upgrader:  upgrader,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(s.guard.GuestOnly)
		for path, file := range guestPages {
			r.Get(path, s.page(file))
		}
	})
	// The page files also sit in the static dir; send direct hits through
	// the guarded route.
	for path, file := range guestPages {
		r.Get("/"+file, redirectTo(path))
	}
	r.Get(s.cfg.Session.DashboardPath, s.page("dashboard.html"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/recipes/validate", s.handleValidate)
		r.Get("/images", s.handleImageURL)
		r.Get("/submissions", s.handleSubmissions)
		r.Get("/submissions/{id}", s.handleSubmission)
	})

	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Server.StaticDir)))
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting server", zap.String("port", s.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) page(name string) http.HandlerFunc {
	path := filepath.Join(s.cfg.Server.StaticDir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusMovedPermanently)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
