package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type descriptionRequest struct {
	Description string `json:"description"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Server routes the /todos resource onto a Store.
type Server struct {
	store Store
	log   *zap.Logger
	echo  *echo.Echo
}

// New builds the HTTP handler for store.
func New(store Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{store: store, log: logger.Named("devserver"), echo: echo.New()}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(echomw.Recover())
	s.setupRequestLogger()

	s.echo.GET("/todos", s.list)
	s.echo.POST("/todos", s.create)
	s.echo.PUT("/todos/:id", s.update)
	s.echo.DELETE("/todos/:id", s.remove)
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.echo.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		if err := s.echo.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) setupRequestLogger() {
	s.echo.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				s.log.Error("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			s.log.Info("request", fields...)
			return nil
		},
	}))
}

func (s *Server) list(c echo.Context) error {
	items, err := s.store.List(c.Request().Context())
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) create(c echo.Context) error {
	var req descriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid request body"})
	}
	item, err := s.store.Create(c.Request().Context(), req.Description)
	if err != nil {
		return s.internal(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid id"})
	}
	var req descriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid request body"})
	}
	if err := s.store.Update(c.Request().Context(), id, req.Description); err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Todo was updated!"})
}

func (s *Server) remove(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid id"})
	}
	if err := s.store.Delete(c.Request().Context(), id); err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Todo was deleted!"})
}

func (s *Server) storeError(c echo.Context, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, messageResponse{Message: err.Error()})
	}
	return s.internal(c, err)
}

func (s *Server) internal(c echo.Context, err error) error {
	s.log.Error("store failure", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
}

func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}
