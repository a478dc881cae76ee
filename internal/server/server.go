// Package server exposes the analysis pipeline and the chat assistant over
// HTTP for the browser front-end.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pkondratev/contrib-compass/internal/ai"
	"github.com/pkondratev/contrib-compass/internal/analysis"
)

// FetcherFactory builds a GitHub fetcher for one request. The token comes
// from the request when the browser supplies its own, otherwise from config.
type FetcherFactory func(token string) analysis.Fetcher

// GeneratorFactory builds a completion generator for one chat request.
type GeneratorFactory func(ctx context.Context, apiKey, model string) (ai.Generator, error)

type Server struct {
	app          *fiber.App
	logger       *zap.Logger
	org          string
	defaultToken string
	newFetcher   FetcherFactory
	newGenerator GeneratorFactory
}

func New(logger *zap.Logger, org, defaultToken string, fetchers FetcherFactory, generators GeneratorFactory) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	})

	s := &Server{
		app:          app,
		logger:       logger,
		org:          org,
		defaultToken: defaultToken,
		newFetcher:   fetchers,
		newGenerator: generators,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	v1 := s.app.Group("/api/v1")
	v1.Post("/analyze", s.analyze)
	v1.Post("/chat", s.chat)
}

// Listen blocks serving HTTP on the given address.
func (s *Server) Listen(address string) error {
	return s.app.Listen(address)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
