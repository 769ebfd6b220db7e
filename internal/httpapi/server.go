// Package httpapi exposes the engine's RPC methods over local HTTP for
// frontends that cannot drive a stdio child process.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dariafung/fotex/internal/logging"
	"github.com/dariafung/fotex/internal/rpc"
)

const (
	DefaultAddr     = "127.0.0.1:8765"
	maxBodyBytes    = 32 << 20
	shutdownTimeout = 10 * time.Second
)

type Router interface {
	Lookup(method string) (rpc.Handler, bool)
	Methods() []string
}

type Server struct {
	echo   *echo.Echo
	router Router
	logger *slog.Logger
}

type errorBody struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type envelope struct {
	Result any        `json:"result,omitempty"`
	Error  *errorBody `json:"error,omitempty"`
}

func New(router Router, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{echo: echo.New(), router: router, logger: logger.With("component", "httpapi")}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return "req_" + uuid.New().String()[:8] },
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("http.request",
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	}))
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.health)
	s.echo.GET("/rpc", s.listMethods)
	s.echo.POST("/rpc/:method", s.call)
}

// Handler is the underlying http.Handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe blocks until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http.listening", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listMethods(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"methods": s.router.Methods()})
}

// call runs one method with the request body as params. The request context
// ends when the client disconnects, which cancels the handler.
func (s *Server) call(c echo.Context) error {
	method := c.Param("method")
	handler, ok := s.router.Lookup(method)
	if !ok {
		return c.JSON(http.StatusNotFound, envelope{Error: &errorBody{Message: "method not found: " + method}})
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Error: &errorBody{Message: "read body: " + err.Error()}})
	}
	if len(body) > maxBodyBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, envelope{Error: &errorBody{Message: "request too large"}})
	}
	var params json.RawMessage
	if len(body) > 0 {
		if !json.Valid(body) {
			return c.JSON(http.StatusBadRequest, envelope{Error: &errorBody{Message: "invalid json"}})
		}
		params = body
	}
	result, rpcErr := handler(c.Request().Context(), params)
	if rpcErr != nil {
		return c.JSON(http.StatusUnprocessableEntity, envelope{Error: &errorBody{Message: rpcErr.Message, Data: rpcErr.Data}})
	}
	return c.JSON(http.StatusOK, envelope{Result: result})
}
