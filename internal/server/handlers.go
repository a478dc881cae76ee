package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/pkondratev/contrib-compass/internal/ai"
	"github.com/pkondratev/contrib-compass/internal/analysis"
	"github.com/pkondratev/contrib-compass/internal/github"
)

type analyzeRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type chatRequest struct {
	// Repo carries the repository context fields as the browser holds them.
	Repo     map[string]any `json:"repo"`
	Question string         `json:"question"`
	Model    string         `json:"model"`
	APIKey   string         `json:"api_key"`
}

// analyze handles POST /api/v1/analyze {username, token?}.
func (s *Server) analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username is required")
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = s.defaultToken
	}

	pipeline := analysis.New(s.newFetcher(token), s.org, s.logger).
		WithStatus(func(status string) {
			s.logger.Info(status, zap.String("username", username))
		})

	result, err := pipeline.Run(c.UserContext(), username)
	if err != nil {
		s.logger.Warn("analysis failed", zap.String("username", username), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "Failed to analyze profile. Check username or rate limits.")
	}

	return c.JSON(result)
}

// chat handles POST /api/v1/chat {repo, question, model?, api_key?}.
func (s *Server) chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	if strings.TrimSpace(req.Question) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "question is required")
	}
	if len(req.Repo) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "repo context is required")
	}

	repo, err := decodeRepo(req.Repo)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid repo context")
	}

	generator, err := s.newGenerator(c.UserContext(), strings.TrimSpace(req.APIKey), strings.TrimSpace(req.Model))
	if err != nil {
		s.logger.Warn("building chat generator failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "Failed to get response. Please check your API key.")
	}

	assistant := ai.NewAssistant(generator, s.logger, 0)
	answer, err := assistant.Answer(c.UserContext(), repo, req.Question)
	if err != nil {
		s.logger.Warn("chat completion failed", zap.String("project", repo.Name), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "Failed to get response. Please check your API key.")
	}

	return c.JSON(fiber.Map{"answer": answer})
}

// decodeRepo maps the loose JSON object onto the typed repository snapshot.
func decodeRepo(raw map[string]any) (*github.Repository, error) {
	var repo github.Repository

	cfg := &mapstructure.DecoderConfig{
		Result:           &repo,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return &repo, nil
}
