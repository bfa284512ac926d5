package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/infra/projector"
)

// Target is one configured export, written "kind:arg" (e.g. "pulls:rails/rails").
type Target struct {
	Kind string
	Arg  string
}

func (t Target) String() string {
	return t.Kind + ":" + t.Arg
}

func ParseTarget(s string) (Target, error) {
	kind, arg, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || arg == "" {
		return Target{}, fmt.Errorf("invalid target %q: want kind:arg", s)
	}
	switch kind {
	case projector.UserName, projector.ReposName, projector.SearchName:
	case projector.PullsName:
		owner, repo, ok := strings.Cut(arg, "/")
		if !ok || owner == "" || repo == "" {
			return Target{}, fmt.Errorf("invalid target %q: pulls needs owner/repo", s)
		}
	default:
		return Target{}, fmt.Errorf("invalid target %q: unknown kind %q", s, kind)
	}
	return Target{Kind: kind, Arg: arg}, nil
}

func ParseTargets(list []string) ([]Target, error) {
	targets := make([]Target, 0, len(list))
	for _, s := range list {
		t, err := ParseTarget(s)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// Collect runs the target's accessor in handler mode and wraps every projected
// record for export.
func (c *Client) Collect(ctx context.Context, t Target, fetchedAt time.Time) ([]domain.Record, error) {
	var records []domain.Record
	add := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s record %q: %w", t.Kind, key, err)
		}
		r := domain.Record{
			ID:        t.String() + "#" + key,
			Kind:      t.Kind,
			Target:    t.String(),
			Data:      data,
			FetchedAt: fetchedAt,
		}
		r.ContentHash = r.ComputeHash()
		records = append(records, r)
		return nil
	}

	var err error
	switch t.Kind {
	case projector.UserName:
		var u domain.UserProfile
		if u, err = c.GetUser(ctx, t.Arg); err == nil {
			err = add(u.Login, u)
		}
	case projector.ReposName:
		_, err = c.GetRepos(ctx, t.Arg, func(r domain.RepoSummary) error {
			return add(r.Name, r)
		})
	case projector.PullsName:
		owner, repo, _ := strings.Cut(t.Arg, "/")
		_, err = c.GetPullRequests(ctx, owner, repo, func(pr domain.PullSummary) error {
			return add(pullKey(pr), pr)
		})
	case projector.SearchName:
		_, err = c.FindRepos(ctx, t.Arg, func(h domain.SearchHit) error {
			return add(h.Name, h)
		})
	default:
		err = fmt.Errorf("unknown target kind %q", t.Kind)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

// pullKey identifies a pull request by number. Open PRs can share a head commit.
// Responses without numbers fall back to the commit.
func pullKey(pr domain.PullSummary) string {
	if pr.Number > 0 {
		return strconv.Itoa(pr.Number)
	}
	return pr.Commit
}
