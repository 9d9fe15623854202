package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	ghAdapter "github.com/ericfisherdev/repocard/internal/adapter/driven/github"
	"github.com/ericfisherdev/repocard/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var helloWorld = model.RepositoryReference{Owner: "octocat", Name: "Hello-World"}

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) (*ghAdapter.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/", timeout)
	require.NoError(t, err)

	return client, server
}

// repoJSON is a helper struct for building GitHub API repository responses.
type repoJSON struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Owner       ownerJSON `json:"owner"`
	Stars       int       `json:"stargazers_count"`
	Watchers    int       `json:"watchers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
}

type ownerJSON struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

func helloWorldJSON() repoJSON {
	return repoJSON{
		Name:        "Hello-World",
		Description: "My first repository on GitHub!",
		HTMLURL:     "https://github.com/octocat/Hello-World",
		Owner:       ownerJSON{Login: "octocat", AvatarURL: "https://avatars.githubusercontent.com/u/583231"},
		Stars:       80,
		Watchers:    80,
		Forks:       45,
		OpenIssues:  0,
	}
}

// fakeGitHub serves the repository and contributors endpoints for octocat/Hello-World.
type fakeGitHub struct {
	repoStatus         int
	repoBody           string
	contributorsStatus int
	contributorsBody   string
	contributorCalls   atomic.Int32
	userAgent          atomic.Value
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()

	body, err := json.Marshal(helloWorldJSON())
	require.NoError(t, err)

	return &fakeGitHub{
		repoStatus:         http.StatusOK,
		repoBody:           string(body),
		contributorsStatus: http.StatusOK,
		contributorsBody:   `[{"login":"octocat"},{"login":"hubot"}]`,
	}
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/Hello-World", func(w http.ResponseWriter, r *http.Request) {
		f.userAgent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.repoStatus)
		_, _ = w.Write([]byte(f.repoBody))
	})
	mux.HandleFunc("GET /repos/octocat/Hello-World/contributors", func(w http.ResponseWriter, r *http.Request) {
		f.contributorCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.contributorsStatus)
		_, _ = w.Write([]byte(f.contributorsBody))
	})
	return mux
}

func TestFetchRepository_Success(t *testing.T) {
	fake := newFakeGitHub(t)
	client, _ := newTestClient(t, fake.handler(), 0)

	record, err := client.FetchRepository(context.Background(), helloWorld)

	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octocat/Hello-World", record.URL)
	assert.Equal(t, "https://github.com/octocat/Hello-World", record.HTMLURL)
	assert.Equal(t, "Hello-World", record.Name)
	assert.Equal(t, "octocat", record.OwnerLogin)
	assert.Equal(t, "https://avatars.githubusercontent.com/u/583231", record.OwnerAvatarURL)
	assert.Equal(t, "My first repository on GitHub!", record.Description)
	assert.Equal(t, 80, record.StarCount)
	assert.Equal(t, 80, record.WatcherCount)
	assert.Equal(t, 45, record.ForkCount)
	assert.Equal(t, 0, record.OpenIssueCount)
	assert.Equal(t, 2, record.ContributorCount)
	assert.Equal(t, "repocard", fake.userAgent.Load())
}

func TestFetchRepository_NullDescription(t *testing.T) {
	fake := newFakeGitHub(t)
	fake.repoBody = `{"name":"Hello-World","description":null,"owner":{"login":"octocat"}}`
	client, _ := newTestClient(t, fake.handler(), 0)

	record, err := client.FetchRepository(context.Background(), helloWorld)

	require.NoError(t, err)
	assert.Equal(t, "", record.Description)
	assert.Equal(t, 0, record.StarCount)
}

func TestFetchRepository_MetadataNonSuccess(t *testing.T) {
	statuses := []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError, http.StatusUnprocessableEntity}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			fake := newFakeGitHub(t)
			fake.repoStatus = status
			fake.repoBody = `{"message":"Not Found"}`
			client, _ := newTestClient(t, fake.handler(), 0)

			_, err := client.FetchRepository(context.Background(), helloWorld)

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrNotFound)
			assert.NotErrorIs(t, err, model.ErrTransport)
			assert.Equal(t, int32(0), fake.contributorCalls.Load(), "contributors endpoint must not be called")
		})
	}
}

func TestFetchRepository_EmptyPayloadIsNotFound(t *testing.T) {
	fake := newFakeGitHub(t)
	fake.repoBody = `{}`
	client, _ := newTestClient(t, fake.handler(), 0)

	_, err := client.FetchRepository(context.Background(), helloWorld)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, int32(0), fake.contributorCalls.Load())
}

func TestFetchRepository_MalformedBodyIsTransport(t *testing.T) {
	fake := newFakeGitHub(t)
	fake.repoBody = `not json`
	client, _ := newTestClient(t, fake.handler(), 0)

	_, err := client.FetchRepository(context.Background(), helloWorld)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.Equal(t, int32(0), fake.contributorCalls.Load())
}

func TestFetchRepository_NetworkErrorIsTransport(t *testing.T) {
	fake := newFakeGitHub(t)
	client, server := newTestClient(t, fake.handler(), 0)
	server.Close()

	_, err := client.FetchRepository(context.Background(), helloWorld)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransport)
}

func TestFetchRepository_TimeoutIsTransport(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client, _ := newTestClient(t, handler, 50*time.Millisecond)

	_, err := client.FetchRepository(context.Background(), helloWorld)

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransport)
}

func TestFetchRepository_ContributorFailuresYieldZero(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"message":"boom"}`},
		{name: "not found", status: http.StatusNotFound, body: `{"message":"Not Found"}`},
		{name: "malformed body", status: http.StatusOK, body: `{"not":"an array"}`},
		{name: "no content", status: http.StatusNoContent, body: ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeGitHub(t)
			fake.contributorsStatus = tc.status
			fake.contributorsBody = tc.body
			client, _ := newTestClient(t, fake.handler(), 0)

			record, err := client.FetchRepository(context.Background(), helloWorld)

			require.NoError(t, err)
			assert.Equal(t, 0, record.ContributorCount)
			assert.Equal(t, 80, record.StarCount)
			assert.Equal(t, int32(1), fake.contributorCalls.Load())
		})
	}
}

func TestNewClientWithHTTPClient_InvalidBaseURL(t *testing.T) {
	_, err := ghAdapter.NewClientWithHTTPClient(http.DefaultClient, "://bad", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing base URL")
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client, err := ghAdapter.NewClient("", time.Second)
	require.NoError(t, err)
	assert.NotNil(t, client)
}
