package github

import (
	"context"
	"fmt"
	"net/url"
)

const goodFirstIssueLabel = "good first issue"

// Issue is a snapshot of an open, good-first-issue-labeled issue.
type Issue struct {
	Title   string `json:"title,omitempty"`
	HTMLURL string `json:"html_url,omitempty"`
	Number  int    `json:"number,omitempty"`
	Labels  []struct {
		Name string `json:"name,omitempty"`
	} `json:"labels,omitempty"`
}

// LabelNames returns the plain label strings of the issue.
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// ListGoodFirstIssues fetches up to 5 open issues labeled "good first issue"
// for the given repository, newest-updated first.
func (c *Client) ListGoodFirstIssues(ctx context.Context, owner, repo string) ([]*Issue, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	apiURLIssues := fmt.Sprintf("%s/repos/%s/%s/issues", c.APIURL, owner, repo)

	q := url.Values{}
	q.Set("state", "open")
	q.Set("labels", goodFirstIssueLabel)
	q.Set("sort", "updated")
	q.Set("per_page", issuePerPage)

	var issues []*Issue
	if err := c.getJSON(ctx, apiURLIssues, q, &issues); err != nil {
		return nil, err
	}

	return issues, nil
}
