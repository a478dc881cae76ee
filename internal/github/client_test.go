package github

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(zap.NewNop(), "test-token")
	client.APIURL = srv.URL

	return client, srv
}

func TestGetUser(t *testing.T) {
	var gotPath, gotAuth, gotAccept, gotAgent string

	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"login": "octocat", "name": "The Octocat", "public_repos": 8}`))
	})

	profile, err := client.GetUser(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/users/octocat" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if gotAccept != "application/vnd.github+json" {
		t.Fatalf("unexpected accept header: %q", gotAccept)
	}
	if !strings.Contains(gotAgent, "contrib-compass") {
		t.Fatalf("unexpected user agent: %q", gotAgent)
	}
	if profile.Login != "octocat" || profile.PublicRepos != 8 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestGetUserNotFound(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Not Found"}`))
	})

	_, err := client.GetUser(context.Background(), "ghost")
	if err == nil {
		t.Fatalf("expected error for missing user")
	}
	if !strings.Contains(err.Error(), "bad status") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetUserRequiresLogin(t *testing.T) {
	client := New(zap.NewNop(), "")

	if _, err := client.GetUser(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty login")
	}
}

func TestAnonymousRequestsSkipAuthHeader(t *testing.T) {
	var gotAuth string
	hasAuth := false

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{"login": "octocat"}`))
	}))
	t.Cleanup(srv.Close)

	client := New(zap.NewNop(), "")
	client.APIURL = srv.URL

	if _, err := client.GetUser(context.Background(), "octocat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasAuth {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestListUserRepos(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[
			{"name": "api", "language": "Go", "topics": ["cli"], "owner": {"login": "octocat"}},
			{"name": "site", "language": "TypeScript"}
		]`))
	})

	repos, err := client.ListUserRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/users/octocat/repos" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	for key, want := range map[string]string{
		"sort":     "updated",
		"per_page": "100",
		"type":     "owner",
	} {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("query %q: expected %q, got %v", key, want, got)
		}
	}

	if repos.Len() != 2 {
		t.Fatalf("expected 2 repositories, got %d", repos.Len())
	}
	if repos.Items[0].Name != "api" || repos.Items[0].Owner.Login != "octocat" {
		t.Fatalf("unexpected repository: %+v", repos.Items[0])
	}
}

func TestListOrgRepos(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"name": "project", "language": "Python"}]`))
	})

	repos, err := client.ListOrgRepos(context.Background(), "test-org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/orgs/test-org/repos" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if got := gotQuery["type"]; len(got) != 0 {
		t.Fatalf("expected no type filter for organizations, got %v", got)
	}
	if repos.Len() != 1 {
		t.Fatalf("expected 1 repository, got %d", repos.Len())
	}
}

func TestListGoodFirstIssues(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[
			{"title": "Fix typo", "number": 42, "labels": [{"name": "good first issue"}]}
		]`))
	})

	issues, err := client.ListGoodFirstIssues(context.Background(), "test-org", "project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/repos/test-org/project/issues" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	for key, want := range map[string]string{
		"state":    "open",
		"labels":   "good first issue",
		"sort":     "updated",
		"per_page": "5",
	} {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("query %q: expected %q, got %v", key, want, got)
		}
	}

	if len(issues) != 1 || issues[0].Number != 42 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if names := issues[0].LabelNames(); len(names) != 1 || names[0] != "good first issue" {
		t.Fatalf("unexpected label names: %v", names)
	}
}

func TestGetJSONDecodesGzip(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte(`{"login": "octocat"}`))
		zw.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	})

	profile, err := client.GetUser(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Login != "octocat" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
