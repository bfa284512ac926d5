package app

import (
	"context"
	"iter"
	"log/slog"

	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/infra/projector"
)

// Client exposes the forge endpoints. Each call performs exactly one request.
//
// Multi-record accessors take an optional handler: with a nil handler they return
// the records as a single-use sequence; otherwise they push every record into the
// handler and return a nil sequence.
type Client struct {
	fetcher domain.Fetcher
}

func NewClient(fetcher domain.Fetcher) *Client {
	return &Client{fetcher: fetcher}
}

// GetUser returns the profile of user.
func (c *Client) GetUser(ctx context.Context, user string) (domain.UserProfile, error) {
	res := projector.User(user)
	seq, err := Fetch(ctx, c.fetcher, res)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return First(res.Name, seq)
}

// GetRepos lists the repositories of user.
func (c *Client) GetRepos(ctx context.Context, user string, fn domain.Handler[domain.RepoSummary]) (iter.Seq[domain.RepoSummary], error) {
	return stream(ctx, c.fetcher, projector.Repos(user), fn)
}

// GetPullRequests lists the open pull requests of owner/repo.
func (c *Client) GetPullRequests(ctx context.Context, owner, repo string, fn domain.Handler[domain.PullSummary]) (iter.Seq[domain.PullSummary], error) {
	return stream(ctx, c.fetcher, projector.Pulls(owner, repo), fn)
}

// FindRepos searches repositories matching keyword.
func (c *Client) FindRepos(ctx context.Context, keyword string, fn domain.Handler[domain.SearchHit]) (iter.Seq[domain.SearchHit], error) {
	return stream(ctx, c.fetcher, projector.Search(keyword), fn)
}

// Raw fetches any path and returns its records as decoded JSON values.
func (c *Client) Raw(ctx context.Context, path string, fn domain.Handler[any]) (iter.Seq[any], error) {
	return stream(ctx, c.fetcher, projector.Raw(path), fn)
}

func stream[R, P any](ctx context.Context, f domain.Fetcher, res domain.Resource[R, P], fn domain.Handler[P]) (iter.Seq[P], error) {
	seq, err := Fetch(ctx, f, res)
	if err != nil {
		return nil, err
	}
	slog.Debug("Delivering records", "resource", res.Name, "path", res.Path, "push", fn != nil)
	return Deliver(seq, fn)
}
