// Package github implements the SourceHost port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/AranL152/GeetCode/internal/domain/model"
	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SourceHost = (*Client)(nil)

// Client implements the driven.SourceHost port using the go-github library.
// A Client is bound to a single token; credential changes produce a new Client.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with token auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// Verify confirms the bound token against the identity endpoint. Transport
// failures and malformed responses are reported the same way as a rejected
// token: the revalidation path must fail closed when it cannot confirm.
func (c *Client) Verify(ctx context.Context) error {
	_, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		if isUnauthorized(resp) {
			return fmt.Errorf("verifying token: %w", driven.ErrUnauthorized)
		}
		return fmt.Errorf("verifying token: %w", err)
	}

	logRateLimit(resp, "user", 1)
	return nil
}

// FetchProfile retrieves the identity behind the bound token.
func (c *Client) FetchProfile(ctx context.Context) (*model.UserProfile, error) {
	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		if isUnauthorized(resp) {
			return nil, fmt.Errorf("fetching profile: %w", driven.ErrUnauthorized)
		}
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	logRateLimit(resp, "user", 1)

	return &model.UserProfile{
		Login:     user.GetLogin(),
		ID:        user.GetID(),
		AvatarURL: user.GetAvatarURL(),
		Name:      user.GetName(),
		HTMLURL:   user.GetHTMLURL(),
	}, nil
}

// GetFileState reads the current state of path on the given branch.
// A 404 maps to Exists=false; a 401 maps to driven.ErrUnauthorized.
func (c *Client) GetFileState(ctx context.Context, repo model.RepoRef, path, branch string) (*model.RemoteFileState, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: branch}

	file, _, resp, err := c.gh.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, opts)
	if err != nil {
		switch {
		case isUnauthorized(resp):
			return nil, fmt.Errorf("reading %s/%s: %w", repo.FullName(), path, driven.ErrUnauthorized)
		case resp != nil && resp.StatusCode == http.StatusNotFound:
			return &model.RemoteFileState{Exists: false}, nil
		default:
			return nil, classify(resp, err, fmt.Sprintf("reading %s/%s", repo.FullName(), path))
		}
	}

	logRateLimit(resp, repo.FullName()+"/contents", 1)

	if file == nil {
		// The path resolved to a directory; the engine only ever writes files,
		// so treat it the same as a missing file and let the write surface
		// whatever conflict the remote reports.
		return &model.RemoteFileState{Exists: false}, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding content of %s/%s: %w", repo.FullName(), path, err)
	}

	return &model.RemoteFileState{
		Exists:  true,
		SHA:     file.GetSHA(),
		Content: []byte(content),
	}, nil
}

// PutFile creates or updates path on the given branch. go-github base64-encodes
// the content on the wire; the SHA in put is forwarded as the
// optimistic-concurrency proof on updates.
func (c *Client) PutFile(ctx context.Context, repo model.RepoRef, path string, put model.FilePut) error {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(put.Message),
		Content: put.Content,
		Branch:  gh.Ptr(put.Branch),
	}
	if put.SHA != "" {
		opts.SHA = gh.Ptr(put.SHA)
	}

	var resp *gh.Response
	var err error
	if put.SHA == "" {
		_, resp, err = c.gh.Repositories.CreateFile(ctx, repo.Owner, repo.Name, path, opts)
	} else {
		_, resp, err = c.gh.Repositories.UpdateFile(ctx, repo.Owner, repo.Name, path, opts)
	}
	if err != nil {
		if isUnauthorized(resp) {
			return fmt.Errorf("writing %s/%s: %w", repo.FullName(), path, driven.ErrUnauthorized)
		}
		return classify(resp, err, fmt.Sprintf("writing %s/%s", repo.FullName(), path))
	}

	logRateLimit(resp, repo.FullName()+"/contents", 1)
	return nil
}

// isUnauthorized reports whether the response is a 401-class rejection of the
// credential.
func isUnauthorized(resp *gh.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusUnauthorized
}

// classify maps a non-401 go-github error to the domain taxonomy: responses
// with a status become a RemoteError carrying the remote-reported message,
// transport-level failures stay wrapped as-is.
func classify(resp *gh.Response, err error, op string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && resp != nil {
		return fmt.Errorf("%s: %w", op, &model.RemoteError{
			StatusCode: resp.StatusCode,
			Message:    ghErr.Message,
		})
	}
	return fmt.Errorf("%s: %w", op, err)
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
