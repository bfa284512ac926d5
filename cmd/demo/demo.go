package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ForgeClient/internal/app"
	"github.com/ForgeClient/internal/domain"
)

var separator = strings.Repeat("-", 80)

type options struct {
	User      string
	Owner     string
	Repo      string
	PullsOnly bool
}

type field struct {
	key   string
	value any
}

// run prints the user's profile, their repositories and the repository's open
// pull requests. With PullsOnly set, only the pull requests are listed.
func run(ctx context.Context, w io.Writer, client *app.Client, opts options) error {
	if opts.PullsOnly {
		return printPulls(ctx, w, client, opts, "user")
	}

	section(w, "Info for "+opts.User)
	user, err := client.GetUser(ctx, opts.User)
	if err != nil {
		return fmt.Errorf("get user %s: %w", opts.User, err)
	}
	block(w, field{"name", user.Name}, field{"followers", user.Followers})

	section(w, "Repos for "+opts.User)
	_, err = client.GetRepos(ctx, opts.User, func(r domain.RepoSummary) error {
		block(w, field{"name", r.Name}, field{"description", r.Description})
		return nil
	})
	if err != nil {
		return fmt.Errorf("get repos for %s: %w", opts.User, err)
	}

	section(w, "Open pull requests for "+opts.Owner+"/"+opts.Repo)
	return printPulls(ctx, w, client, opts, "submitter")
}

func printPulls(ctx context.Context, w io.Writer, client *app.Client, opts options, userKey string) error {
	_, err := client.GetPullRequests(ctx, opts.Owner, opts.Repo, func(p domain.PullSummary) error {
		block(w, field{"body", p.Body}, field{userKey, p.User}, field{"commit_id", p.Commit})
		return nil
	})
	if err != nil {
		return fmt.Errorf("get pull requests for %s/%s: %w", opts.Owner, opts.Repo, err)
	}
	return nil
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s:\n%s\n", title, separator)
}

func block(w io.Writer, fields ...field) {
	for i, f := range fields {
		open, end := " ", ","
		if i == 0 {
			open = "{"
		}
		if i == len(fields)-1 {
			end = "}"
		}
		fmt.Fprintf(w, "%s%q: %s%s\n", open, f.key, format(f.value), end)
	}
}

func format(v any) string {
	switch v := v.(type) {
	case string:
		if v == "" {
			return "null"
		}
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}
