package github

import (
	"context"
	"fmt"
	"net/url"
)

// Repository is an immutable snapshot of a repository as reported by the
// listing endpoints. Timestamps stay as raw strings; nothing downstream does
// date math on them.
type Repository struct {
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	Language        string   `json:"language,omitempty"`
	StargazersCount int      `json:"stargazers_count,omitempty"`
	ForksCount      int      `json:"forks_count,omitempty"`
	Topics          []string `json:"topics,omitempty"`
	HTMLURL         string   `json:"html_url,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
	OpenIssuesCount int      `json:"open_issues_count,omitempty"`
	Owner           struct {
		Login string `json:"login,omitempty"`
	} `json:"owner,omitempty"`
}

type Repositories struct {
	Items []*Repository
}

// ListUserRepos fetches up to 100 most recently updated repositories owned by
// the given user.
func (c *Client) ListUserRepos(ctx context.Context, login string) (*Repositories, error) {
	if login == "" {
		return nil, fmt.Errorf("user login is required")
	}

	apiURLRepos := fmt.Sprintf("%s/users/%s/repos", c.APIURL, login)

	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", repoPerPage)
	// Only repositories owned by the user count toward skills.
	q.Set("type", "owner")

	return c.listRepos(ctx, apiURLRepos, q)
}

// ListOrgRepos fetches up to 100 most recently updated repositories of the
// given organization.
func (c *Client) ListOrgRepos(ctx context.Context, org string) (*Repositories, error) {
	if org == "" {
		return nil, fmt.Errorf("organization is required")
	}

	apiURLRepos := fmt.Sprintf("%s/orgs/%s/repos", c.APIURL, org)

	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", repoPerPage)

	return c.listRepos(ctx, apiURLRepos, q)
}

func (c *Client) listRepos(ctx context.Context, apiURL string, q url.Values) (*Repositories, error) {
	var repos []*Repository
	if err := c.getJSON(ctx, apiURL, q, &repos); err != nil {
		return nil, err
	}

	return &Repositories{Items: repos}, nil
}

func (r *Repositories) Len() int {
	return len(r.Items)
}
