package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
)

// Server is the HTTP API server for lore.
type Server struct {
	app   *fiber.App
	ports *Ports
}

// NewServer creates an API server wired to the given services.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:      "lore",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestID())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	s := &Server{app: app, ports: ports}
	s.registerRoutes()

	return s, nil
}

// Listen serves the API on addr until the context is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		s.app.ShutdownWithTimeout(5 * time.Second) //nolint:errcheck // shutdown error is moot once the context is gone
	}()

	if err := s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		return fmt.Errorf("api server failed: %w", err)
	}

	return nil
}

// registerRoutes wires the route table. Routes backed by optional
// ports are only registered when the service is present, so the
// server never advertises an endpoint it cannot serve.
func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.handleHealth)

	v1 := s.app.Group("/v1")
	v1.Post("/ingest", s.handleIngest)
	v1.Post("/query", s.handleQuery)
	v1.Get("/status", s.handleStatus)
	v1.Delete("/artifacts/*", s.handleRemove)

	if s.ports.Answer != nil {
		v1.Post("/answer", s.handleAnswer)
	}

	if s.ports.Assistant != nil {
		v1.Post("/explain", s.handleExplain)
		v1.Post("/analyze", s.handleAnalyze)
		v1.Post("/generate", s.handleGenerate)
	}

	if s.ports.Dataset != nil {
		v1.Post("/dataset/analyze", s.handleDatasetAnalyze)
	}
}

// requestID tags every request with a UUID so log lines and error
// reports can be correlated across clients.
func requestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}
