// Package server exposes the journal over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chris-regnier/moodjournal/internal/auth"
	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/journal"
	"github.com/chris-regnier/moodjournal/internal/mood"
	"github.com/chris-regnier/moodjournal/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server handles HTTP requests for signed-in users.
type Server struct {
	store    storage.EntryStore
	auth     *auth.Service
	analyzer mood.Analyzer
	logger   *zap.Logger
}

// New wires a Server.
func New(store storage.EntryStore, authSvc *auth.Service, analyzer mood.Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, auth: authSvc, analyzer: analyzer, logger: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggerMiddleware(s.logger))

	api := r.Group("/api")
	api.POST("/auth/signup", s.postSignUp)
	api.POST("/auth/login", s.postLogin)

	authed := api.Group("", AuthMiddleware(s.auth))
	authed.POST(mood.AnalyzePath[len("/api"):], s.postAnalyzeMood)
	authed.POST("/auth/logout", s.postLogout)
	authed.GET("/me", s.getMe)
	authed.GET("/entries", s.getEntries)
	authed.POST("/entries", s.postEntry)
	authed.PATCH("/entries/:id", s.patchEntry)
	authed.PATCH("/entries/:id/mood", s.patchEntryMood)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// --- Auth ---

func (s *Server) postSignUp(c *gin.Context) {
	var in auth.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, s.logger, err, "Invalid signup request")
		return
	}
	u, err := s.auth.SignUp(c.Request.Context(), in)
	if err != nil {
		handleError(c, s.logger, err, "Signup failed")
		return
	}
	handleSuccess(c, http.StatusCreated, u, nil)
}

func (s *Server) postLogin(c *gin.Context) {
	var in auth.SignInInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, s.logger, err, "Invalid login request")
		return
	}
	sess, err := s.auth.SignIn(c.Request.Context(), in)
	if err != nil {
		handleError(c, s.logger, err, "Login failed")
		return
	}
	handleSuccess(c, http.StatusOK, sess, nil)
}

func (s *Server) postLogout(c *gin.Context) {
	sess := currentSession(c)
	if err := s.auth.SignOut(sess.Token); err != nil {
		handleError(c, s.logger, err, "Logout failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getMe(c *gin.Context) {
	handleSuccess(c, http.StatusOK, currentSession(c).User, nil)
}

// --- Entries ---

type entryRequest struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type entryPatchRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type moodPatchRequest struct {
	Mood        string `json:"mood"`
	MoodSummary string `json:"mood_summary" binding:"required"`
}

func (s *Server) getEntries(c *gin.Context) {
	sess := currentSession(c)
	entries, err := s.store.ListEntries(c.Request.Context(), sess.User.ID)
	if err != nil {
		handleError(c, s.logger, err, "Failed to fetch entries")
		return
	}
	total := len(entries)
	if q := c.Query("q"); q != "" {
		entries = journal.Filter(entries, q)
	}
	if d := c.Query("date"); d != "" {
		var match []entry.JournalEntry
		for _, e := range entries {
			if entry.SameDay(e.Date, d) {
				match = append(match, e)
				break
			}
		}
		entries = match
	}
	if entries == nil {
		entries = []entry.JournalEntry{}
	}
	handleSuccess(c, http.StatusOK, entries, map[string]any{"count": len(entries), "total": total})
}

func (s *Server) postEntry(c *gin.Context) {
	sess := currentSession(c)
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, err, "Invalid entry")
		return
	}
	if req.Date == "" {
		req.Date = entry.Today()
	}
	rec := entry.Record{
		UserID:  sess.User.ID,
		Date:    entry.NormalizeDayKey(req.Date),
		Title:   strings.TrimSpace(req.Title),
		Content: strings.TrimSpace(req.Content),
	}
	e, err := s.store.InsertEntry(c.Request.Context(), rec)
	if err != nil {
		handleError(c, s.logger, err, "Failed to save entry")
		return
	}
	handleSuccess(c, http.StatusCreated, e, nil)
}

func (s *Server) patchEntry(c *gin.Context) {
	sess := currentSession(c)
	var req entryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, err, "Invalid entry update")
		return
	}
	patch := entry.Patch{}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		patch.Title = &t
	}
	if req.Content != nil {
		ct := strings.TrimSpace(*req.Content)
		patch.Content = &ct
	}
	if patch.IsEmpty() {
		badRequest(c, s.logger, errors.New("title or content required"), "Invalid entry update")
		return
	}
	e, err := s.store.UpdateEntry(c.Request.Context(), c.Param("id"), sess.User.ID, patch)
	if err != nil {
		handleError(c, s.logger, err, "Failed to update entry")
		return
	}
	handleSuccess(c, http.StatusOK, e, nil)
}

func (s *Server) patchEntryMood(c *gin.Context) {
	sess := currentSession(c)
	var req moodPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, err, "Invalid mood update")
		return
	}
	m, ok := entry.ParseMood(req.Mood)
	if !ok {
		m = entry.MoodNeutral
	}
	e, err := s.store.UpdateEntry(c.Request.Context(), c.Param("id"), sess.User.ID, entry.MoodPatch(m, strings.TrimSpace(req.MoodSummary)))
	if err != nil {
		handleError(c, s.logger, err, "Failed to update mood")
		return
	}
	handleSuccess(c, http.StatusOK, e, nil)
}

// --- Mood proxy ---

type analyzeRequest struct {
	Content string `json:"content"`
}

func (s *Server) postAnalyzeMood(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, err, "Invalid analysis request")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(c, s.logger, mood.ErrEmptyText, "Invalid analysis request")
		return
	}
	if s.analyzer == nil {
		handleError(c, s.logger, mood.ErrUpstream, "Mood analysis unavailable")
		return
	}
	res, err := s.analyzer.Analyze(c.Request.Context(), req.Content)
	if err != nil {
		handleError(c, s.logger, err, "Mood analysis failed")
		return
	}
	handleSuccess(c, http.StatusOK, res, nil)
}
