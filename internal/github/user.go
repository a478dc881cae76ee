package github

import (
	"context"
	"fmt"
)

// Profile is a snapshot of a user's public profile, fetched once per
// analysis run.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	HTMLURL     string `json:"html_url,omitempty"`
}

// GetUser fetches the public profile for the given login. A missing user or a
// rejected request (rate limiting) surfaces as an error.
func (c *Client) GetUser(ctx context.Context, login string) (*Profile, error) {
	if login == "" {
		return nil, fmt.Errorf("user login is required")
	}

	apiURLUser := fmt.Sprintf("%s/users/%s", c.APIURL, login)

	var profile Profile
	if err := c.getJSON(ctx, apiURLUser, nil, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}
