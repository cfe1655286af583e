package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"codeberg.org/snonux/mdtranslate/internal"
	"codeberg.org/snonux/mdtranslate/internal/cache"
	"codeberg.org/snonux/mdtranslate/internal/document"
)

// Translator is the part of the pipeline the server needs
type Translator interface {
	Render(ctx context.Context, src, title, format string) (string, error)
	CacheStats() (cache.Stats, bool)
	ClearCache() error
}

type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// BodyLimit uses echo's size syntax, e.g. "2M"
	BodyLimit string
}

type Server struct {
	translator Translator
	logger     zerolog.Logger
	opts       Options
}

type translateResponse struct {
	Translation string `json:"translation"`
	Format      string `json:"format"`
	RunTimeMS   int64  `json:"run_time_ms"`
}

func NewServer(translator Translator, logger zerolog.Logger, opts Options) *Server {
	if strings.TrimSpace(opts.Addr) == "" {
		opts.Addr = "127.0.0.1:3000"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		// Whole documents go through the provider inside one request
		opts.WriteTimeout = 10 * time.Minute
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = "2M"
	}

	return &Server{
		translator: translator,
		logger:     logger,
		opts:       opts,
	}
}

// Handler builds the echo instance with all routes
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.BodyLimit(s.opts.BodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.POST("/translate", s.handleTranslate)
	api.GET("/cache/stats", s.handleCacheStats)
	api.DELETE("/cache", s.handleCacheClear)
	return e
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.translator == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.Handler()
	httpServer := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", s.opts.Addr).Msg("mdtranslate api server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("mdtranslate api server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "mdtranslate",
		"version": internal.Version,
		"time":    time.Now().UTC(),
	})
}

func (s *Server) handleTranslate(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	req, err := decodeTranslateRequest(raw)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			return failValidation(c, reqErr.fields)
		}
		s.logger.Error().Err(err).Msg("decode translate request failed")
		return internalError(c, "Failed to read request")
	}

	format := req.Format
	if format == "" {
		format = "markdown"
	}

	start := time.Now()
	out, err := s.translator.Render(c.Request().Context(), req.Markdown, req.Title, format)
	if err != nil {
		if errors.Is(err, document.ErrSegmentation) {
			return failUnsegmentable(c)
		}
		s.logger.Error().Err(err).Msg("translate request failed")
		return internalError(c, "Translation failed")
	}

	return success(c, translateResponse{
		Translation: out,
		Format:      format,
		RunTimeMS:   time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleCacheStats(c echo.Context) error {
	stats, ok := s.translator.CacheStats()
	if !ok {
		return failCacheDisabled(c)
	}
	return success(c, map[string]any{
		"stats":    stats,
		"hit_rate": stats.HitRate(),
	})
}

func (s *Server) handleCacheClear(c echo.Context) error {
	if _, ok := s.translator.CacheStats(); !ok {
		return failCacheDisabled(c)
	}
	if err := s.translator.ClearCache(); err != nil {
		s.logger.Error().Err(err).Msg("clear cache failed")
		return internalError(c, "Failed to clear cache")
	}
	return success(c, map[string]any{"cleared": true})
}
