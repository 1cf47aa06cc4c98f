package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"ai_page_builder/config"
	"ai_page_builder/generator"
	"ai_page_builder/logger"
	"ai_page_builder/store"
)

//go:embed web
var embeddedStatic embed.FS

const (
	msgNoDescription   = "No description provided"
	msgNoBuilds        = "No builds available."
	msgBuildsDirAbsent = "Builds directory not found."
	msgGenerateFailed  = "Failed to generate content."
	msgInvalidFormat   = "Invalid format received from the API"
	msgWriteFailed     = "Failed to write file: "
	msgSaveFailed      = "Failed to save build."
)

type Server struct {
	cfg      config.Config
	genAgent *generator.Agent
	store    *store.Store
	staticFS http.Handler
}

// New wires the handler. A nil agent puts the server in fallback mode, where
// POST /generate hands out a random existing build.
func New(cfg config.Config, genAgent *generator.Agent, st *store.Store) (*Server, error) {
	if st == nil {
		return nil, errors.New("store required")
	}
	if genAgent == nil && cfg.HasProviderKey() {
		return nil, errors.New("generator agent required when a provider key is configured")
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:      cfg,
		genAgent: genAgent,
		store:    st,
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	router := gin.New()
	router.Use(requestID())
	router.Use(recovery())
	router.Use(requestLogger())
	router.Use(secure.New(secure.Config{
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	router.POST("/generate", s.handleGenerate)
	router.GET("/healthz", s.handleHealth)
	router.Static("/builds", s.store.Builds.Dir())
	router.NoRoute(s.staticHandler())
	return router
}

func (s *Server) staticHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		s.staticFS.ServeHTTP(c.Writer, c.Request)
	}
}

// --- Handlers ---

type generateReq struct {
	Description string `json:"description"`
}

type linksResp struct {
	Links []string `json:"links"`
}

type healthResp struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Mode     string `json:"mode"`
	Contract string `json:"contract"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	ctx := c.Request.Context()

	if s.genAgent == nil {
		s.serveFallback(c)
		return
	}

	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		writeError(c, http.StatusBadRequest, msgNoDescription)
		return
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		writeError(c, http.StatusBadRequest, msgNoDescription)
		return
	}

	genCtx := ctx
	if timeout := s.cfg.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	slog.InfoContext(ctx, "generating page",
		"provider", s.cfg.IAUsed,
		"model", s.cfg.Model(),
		"contract", s.genAgent.Contract(),
		"description", logger.Truncate(description, 120))

	out, err := s.genAgent.Generate(genCtx, description)
	if err != nil {
		s.failGeneration(c, err)
		return
	}

	links, err := s.store.Persist(out)
	if err != nil {
		s.failPersist(c, links, err)
		return
	}

	slog.InfoContext(ctx, "page generated", "links", links)
	c.JSON(http.StatusOK, linksResp{Links: links})
}

func (s *Server) serveFallback(c *gin.Context) {
	ctx := c.Request.Context()
	link, err := s.store.Builds.Random()
	switch {
	case err == nil:
		slog.DebugContext(ctx, "no provider key, serving existing build", "link", link)
		c.JSON(http.StatusOK, linksResp{Links: []string{link}})
	case errors.Is(err, store.ErrNoBuilds):
		writeError(c, http.StatusNotFound, msgNoBuilds)
	case errors.Is(err, store.ErrBuildsDirMissing):
		writeError(c, http.StatusNotFound, msgBuildsDirAbsent)
	default:
		slog.ErrorContext(ctx, "list builds failed", "error", err)
		writeError(c, http.StatusInternalServerError, msgBuildsDirAbsent)
	}
}

func (s *Server) failGeneration(c *gin.Context, err error) {
	ctx := c.Request.Context()
	msg := msgGenerateFailed
	if errors.Is(err, generator.ErrInvalidFormat) {
		msg = msgInvalidFormat
	}

	raw := generator.RawResponse(err)
	slog.ErrorContext(ctx, "generation failed",
		"provider", s.cfg.IAUsed,
		"model", s.cfg.Model(),
		"error", err,
		"response", logger.Truncate(raw, 500))
	s.logError(ctx, msg, map[string]any{
		"provider": s.cfg.IAUsed,
		"model":    s.cfg.Model(),
		"error":    err.Error(),
		"response": raw,
	})
	writeError(c, http.StatusBadGateway, msg)
}

func (s *Server) failPersist(c *gin.Context, written []string, err error) {
	ctx := c.Request.Context()
	msg := msgSaveFailed
	var werr *store.WriteError
	if errors.As(err, &werr) {
		msg = msgWriteFailed + werr.Name
	}

	slog.ErrorContext(ctx, "persist build failed", "error", err, "written", written)
	s.logError(ctx, msg, map[string]any{
		"error":   err.Error(),
		"written": written,
	})
	writeError(c, http.StatusInternalServerError, msg)
}

func (s *Server) handleHealth(c *gin.Context) {
	mode := "generate"
	contract := ""
	if s.genAgent == nil {
		mode = "fallback"
	} else {
		contract = string(s.genAgent.Contract())
	}
	c.JSON(http.StatusOK, healthResp{
		Status:   "ok",
		Provider: s.cfg.IAUsed,
		Mode:     mode,
		Contract: contract,
	})
}

// --- Helpers ---

func (s *Server) logError(ctx context.Context, msg string, fields map[string]any) {
	if id := logger.RequestID(ctx); id != "" {
		fields["request_id"] = id
	}
	if err := s.store.Errors.Append(msg, fields); err != nil {
		slog.WarnContext(ctx, "append error log failed", "path", s.store.Errors.Path(), "error", err)
	}
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
