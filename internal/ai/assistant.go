// Package ai answers single-turn questions about a repository through a
// pluggable completion provider.
package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/pkondratev/contrib-compass/internal/github"
	"github.com/pkondratev/contrib-compass/internal/util"
)

// Generator produces one completion for one prompt. Implementations live in
// the provider subpackages.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Assistant composes the repository prompt and forwards it to a generator.
// It holds no conversation state; every call is a fresh single-turn request.
type Assistant struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewAssistant(generator Generator, logger *zap.Logger, maxLogLength int) *Assistant {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Assistant{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Answer builds a prompt from the repository context and the user's question
// and returns the generated reply.
func (a *Assistant) Answer(ctx context.Context, repo *github.Repository, question string) (string, error) {
	if repo == nil {
		return "", fmt.Errorf("repository is required")
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is required")
	}

	prompt := buildPrompt(RepoContext(repo), question)

	a.logger.Debug("generate content request",
		zap.String("project", repo.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	answer, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}

	a.logger.Debug("generate content response",
		zap.String("project", repo.Name),
		zap.Int("response_length", utf8.RuneCountInString(answer)),
		zap.String("response_preview", util.TruncateForLog(answer, a.maxLogLen)),
	)

	return answer, nil
}

// RepoContext renders the repository fields into the context block embedded
// in the prompt.
func RepoContext(repo *github.Repository) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", repo.Name)
	fmt.Fprintf(&b, "Description: %s\n", repo.Description)
	fmt.Fprintf(&b, "Language: %s\n", repo.Language)
	fmt.Fprintf(&b, "Topics: %s\n", strings.Join(repo.Topics, ", "))
	fmt.Fprintf(&b, "Stars: %d\n", repo.StargazersCount)
	fmt.Fprintf(&b, "Open Issues: %d\n", repo.OpenIssuesCount)
	fmt.Fprintf(&b, "Last Updated: %s\n", repo.UpdatedAt)
	fmt.Fprintf(&b, "URL: %s", repo.HTMLURL)
	return b.String()
}

func buildPrompt(repoContext, question string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Repository:\n{{REPO_CONTEXT}}\n\nUser Question: {{QUESTION}}"
	}
	prompt := strings.ReplaceAll(template, "{{REPO_CONTEXT}}", repoContext)
	prompt = strings.ReplaceAll(prompt, "{{QUESTION}}", question)
	return prompt
}
