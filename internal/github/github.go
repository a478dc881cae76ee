package github

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.github.com"
	userAgent = "pkondratev/contrib-compass"
	// Max value for repository listing per page.
	repoPerPage = "100"
	// Number of good-first-issue entries fetched per project.
	issuePerPage = "5"
)

// Client is a thin wrapper around the GitHub REST API v3. It covers only the
// endpoints the analysis pipeline needs. The token is optional; without it
// requests run under unauthenticated rate limits.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, token string) *Client {
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}
