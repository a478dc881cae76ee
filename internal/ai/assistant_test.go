package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/pkondratev/contrib-compass/internal/github"
)

type fakeGenerator struct {
	prompt   string
	response string
	err      error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testRepo() *github.Repository {
	return &github.Repository{
		Name:            "resonate",
		Description:     "Social media aggregator",
		Language:        "TypeScript",
		Topics:          []string{"react", "social"},
		StargazersCount: 120,
		OpenIssuesCount: 14,
		UpdatedAt:       "2026-08-20T10:00:00Z",
		HTMLURL:         "https://github.com/test-org/resonate",
	}
}

func TestAnswerEmbedsContextAndQuestion(t *testing.T) {
	gen := &fakeGenerator{response: "It is a TypeScript project."}
	assistant := NewAssistant(gen, zap.NewNop(), 0)

	answer, err := assistant.Answer(context.Background(), testRepo(), "What language is it written in?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "It is a TypeScript project." {
		t.Fatalf("unexpected answer: %q", answer)
	}

	for _, want := range []string{
		"Name: resonate",
		"Description: Social media aggregator",
		"Language: TypeScript",
		"Topics: react, social",
		"Stars: 120",
		"Open Issues: 14",
		"Last Updated: 2026-08-20T10:00:00Z",
		"URL: https://github.com/test-org/resonate",
		"What language is it written in?",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, gen.prompt)
		}
	}

	if strings.Contains(gen.prompt, "{{REPO_CONTEXT}}") || strings.Contains(gen.prompt, "{{QUESTION}}") {
		t.Fatalf("prompt still contains placeholders:\n%s", gen.prompt)
	}
}

func TestAnswerRequiresRepoAndQuestion(t *testing.T) {
	assistant := NewAssistant(&fakeGenerator{}, zap.NewNop(), 0)

	if _, err := assistant.Answer(context.Background(), nil, "question"); err == nil {
		t.Fatalf("expected error for nil repository")
	}
	if _, err := assistant.Answer(context.Background(), testRepo(), "   "); err == nil {
		t.Fatalf("expected error for blank question")
	}
}

func TestAnswerWrapsGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	assistant := NewAssistant(gen, zap.NewNop(), 0)

	_, err := assistant.Answer(context.Background(), testRepo(), "question")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "generate response") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRepoContextHandlesEmptyFields(t *testing.T) {
	got := RepoContext(&github.Repository{Name: "bare"})

	for _, want := range []string{
		"Name: bare",
		"Description: \n",
		"Topics: \n",
		"Stars: 0",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("context missing %q:\n%s", want, got)
		}
	}
}
