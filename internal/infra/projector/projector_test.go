package projector

import (
	"encoding/json"
	"testing"

	"github.com/ForgeClient/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	locate := Key("repositories")

	tests := []struct {
		name    string
		root    string
		want    string
		wantErr bool
	}{
		{name: "array member", root: `{"repositories":[{"name":"a"}]}`, want: `[{"name":"a"}]`},
		{name: "null member", root: `{"repositories":null}`, want: `null`},
		{name: "absent member", root: `{"items":[]}`, wantErr: true},
		{name: "array root", root: `[{"repositories":[]}]`, wantErr: true},
		{name: "scalar root", root: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locate(json.RawMessage(tt.root))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrShape)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestResourcePaths(t *testing.T) {
	assert.Equal(t, "/users/octocat", User("octocat").Path)
	assert.Equal(t, "/users/octocat/repos", Repos("octocat").Path)
	assert.Equal(t, "/repos/rails/rails/pulls", Pulls("rails", "rails").Path)
	assert.Equal(t, "/legacy/repos/search/ruby", Search("ruby").Path)
	assert.Equal(t, "/anything/else", Raw("/anything/else").Path)

	assert.Nil(t, User("x").Root)
	assert.NotNil(t, Search("x").Root)
}

func TestProjections(t *testing.T) {
	var pr domain.PullRequest
	pr.Number = 12
	pr.Body = "Fix"
	pr.User.Login = "alice"
	pr.Head.SHA = "abc"
	assert.Equal(t, domain.PullSummary{Number: 12, User: "alice", Commit: "abc", Body: "Fix"}, ProjectPull(pr))

	hit := ProjectSearchHit(domain.SearchRepository{Type: "repo", Owner: "rails", Name: "rails", Score: 1.5, Forks: 3})
	assert.Equal(t, "rails:rails", hit.Name)
	assert.Equal(t, 1.5, hit.Score)
	assert.Equal(t, 3, hit.Forks)

	repo := ProjectRepo(domain.Repo{Name: "a", OpenIssues: 7, Description: "d"})
	assert.Equal(t, domain.RepoSummary{Name: "a", OpenIssues: 7, Description: "d"}, repo)

	user := ProjectUser(domain.User{Login: "octocat", Followers: 9})
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, 9, user.Followers)
}
