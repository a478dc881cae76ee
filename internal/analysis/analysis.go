// Package analysis runs the profile-to-matches pipeline: fetch the user,
// derive skills, rank the organization's projects, attach good first issues.
package analysis

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pkondratev/contrib-compass/internal/github"
	"github.com/pkondratev/contrib-compass/internal/matching"
	"github.com/pkondratev/contrib-compass/internal/skills"
)

// issueFanout caps how many top matches get a good-first-issue lookup. The
// cutoff is part of the request budget contract, not a tunable.
const issueFanout = 10

// Fetcher is the read-only GitHub surface the pipeline consumes.
// *github.Client satisfies it.
type Fetcher interface {
	GetUser(ctx context.Context, login string) (*github.Profile, error)
	ListUserRepos(ctx context.Context, login string) (*github.Repositories, error)
	ListOrgRepos(ctx context.Context, org string) (*github.Repositories, error)
	ListGoodFirstIssues(ctx context.Context, owner, repo string) ([]*github.Issue, error)
}

// StatusFunc receives a human-readable progress line before each sequential
// step. It is display-only and never part of the result.
type StatusFunc func(status string)

// Result is the final bundle handed to the caller.
type Result struct {
	User    *github.Profile  `json:"user"`
	Skills  []skills.Skill   `json:"skills"`
	Matches []matching.Match `json:"matches"`
}

type Pipeline struct {
	fetcher Fetcher
	org     string
	logger  *zap.Logger
	status  StatusFunc
}

func New(fetcher Fetcher, org string, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		org:     org,
		logger:  logger,
		status:  func(string) {},
	}
}

// WithStatus registers a progress callback. Passing nil resets it to a no-op.
func (p *Pipeline) WithStatus(fn StatusFunc) *Pipeline {
	if fn == nil {
		fn = func(string) {}
	}
	p.status = fn
	return p
}

// Run executes the full analysis for the given user. A failing profile or
// user-repository fetch aborts the run; a failing organization fetch degrades
// to zero matches; a failing issue fetch degrades that single match.
func (p *Pipeline) Run(ctx context.Context, username string) (*Result, error) {
	p.status("Fetching user profile...")
	user, err := p.fetcher.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetch user profile: %w", err)
	}

	p.status("Fetching repositories...")
	repos, err := p.fetcher.ListUserRepos(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetch user repositories: %w", err)
	}

	p.status("Analyzing skills...")
	userSkills := skills.Extract(repos.Items)

	p.status("Fetching organization projects...")
	projects, err := p.fetcher.ListOrgRepos(ctx, p.org)
	if err != nil {
		p.logger.Warn("fetching organization projects failed, continuing with an empty project list",
			zap.String("org", p.org),
			zap.Error(err),
		)
		projects = &github.Repositories{}
	}

	p.status("Matching projects...")
	matches := matching.Rank(userSkills, projects.Items)

	p.status("Finding good first issues...")
	p.attachIssues(ctx, matches)

	return &Result{
		User:    user,
		Skills:  userSkills,
		Matches: matches,
	}, nil
}

// attachIssues fetches good first issues for the top matches concurrently.
// Matches beyond the fan-out keep their empty issue lists.
func (p *Pipeline) attachIssues(ctx context.Context, matches []matching.Match) {
	limit := issueFanout
	if len(matches) < limit {
		limit = len(matches)
	}

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func(match *matching.Match) {
			defer wg.Done()

			issues, err := p.fetcher.ListGoodFirstIssues(ctx, match.Project.Owner.Login, match.Project.Name)
			if err != nil {
				p.logger.Debug("fetching good first issues failed",
					zap.String("project", match.Project.Name),
					zap.Error(err),
				)
				return
			}
			if issues == nil {
				issues = []*github.Issue{}
			}
			match.GoodFirstIssues = issues
		}(&matches[i])
	}

	wg.Wait()
}
