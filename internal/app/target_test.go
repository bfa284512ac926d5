package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ForgeClient/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{in: "user:octocat", want: Target{Kind: "user", Arg: "octocat"}},
		{in: " repos:octocat ", want: Target{Kind: "repos", Arg: "octocat"}},
		{in: "pulls:rails/rails", want: Target{Kind: "pulls", Arg: "rails/rails"}},
		{in: "search:ruby", want: Target{Kind: "search", Arg: "ruby"}},
		{in: "pulls:rails", wantErr: true},
		{in: "pulls:/rails", wantErr: true},
		{in: "issues:rails/rails", wantErr: true},
		{in: "octocat", wantErr: true},
		{in: "user:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind+":"+tt.want.Arg, got.String())
		})
	}
}

func TestParseTargets_StopsAtFirstInvalid(t *testing.T) {
	_, err := ParseTargets([]string{"user:a", "nope"})
	assert.Error(t, err)

	targets, err := ParseTargets([]string{"user:a", "search:b"})
	require.NoError(t, err)
	assert.Len(t, targets, 2)
}

func TestClient_Collect(t *testing.T) {
	fetchedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("pulls", func(t *testing.T) {
		client, _ := newMockClient("/repos/rails/rails/pulls", `[
			{"number":101,"body":"one","user":{"login":"alice"},"head":{"sha":"aaa"}},
			{"number":102,"body":"two","user":{"login":"bob"},"head":{"sha":"bbb"}}
		]`)
		records, err := client.Collect(context.Background(), Target{Kind: "pulls", Arg: "rails/rails"}, fetchedAt)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "pulls:rails/rails#101", records[0].ID)
		assert.Equal(t, "pulls", records[0].Kind)
		assert.Equal(t, fetchedAt, records[0].FetchedAt)
		assert.NotEmpty(t, records[0].ContentHash)

		var pr domain.PullSummary
		require.NoError(t, json.Unmarshal(records[1].Data, &pr))
		assert.Equal(t, domain.PullSummary{Number: 102, User: "bob", Commit: "bbb", Body: "two"}, pr)
	})

	t.Run("pulls sharing a head commit", func(t *testing.T) {
		client, _ := newMockClient("/repos/rails/rails/pulls", `[
			{"number":7,"body":"into main","user":{"login":"alice"},"head":{"sha":"same"}},
			{"number":8,"body":"into 7-1-stable","user":{"login":"alice"},"head":{"sha":"same"}}
		]`)
		records, err := client.Collect(context.Background(), Target{Kind: "pulls", Arg: "rails/rails"}, fetchedAt)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "pulls:rails/rails#7", records[0].ID)
		assert.Equal(t, "pulls:rails/rails#8", records[1].ID)
	})

	t.Run("pulls without numbers", func(t *testing.T) {
		client, _ := newMockClient("/repos/rails/rails/pulls", `[{"body":"x","user":{"login":"bob"},"head":{"sha":"ccc"}}]`)
		records, err := client.Collect(context.Background(), Target{Kind: "pulls", Arg: "rails/rails"}, fetchedAt)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "pulls:rails/rails#ccc", records[0].ID)
	})

	t.Run("user", func(t *testing.T) {
		client, _ := newMockClient("/users/octocat", `{"login":"octocat","followers":42}`)
		records, err := client.Collect(context.Background(), Target{Kind: "user", Arg: "octocat"}, fetchedAt)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "user:octocat#octocat", records[0].ID)
	})

	t.Run("search", func(t *testing.T) {
		client, _ := newMockClient("/legacy/repos/search/go", `{"repositories":[{"owner":"golang","name":"go"}]}`)
		records, err := client.Collect(context.Background(), Target{Kind: "search", Arg: "go"}, fetchedAt)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "search:go#golang:go", records[0].ID)
	})

	t.Run("hash ignores fetch time", func(t *testing.T) {
		body := `[{"name":"hello"}]`
		c1, _ := newMockClient("/users/octocat/repos", body)
		c2, _ := newMockClient("/users/octocat/repos", body)
		target := Target{Kind: "repos", Arg: "octocat"}

		first, err := c1.Collect(context.Background(), target, fetchedAt)
		require.NoError(t, err)
		second, err := c2.Collect(context.Background(), target, fetchedAt.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, first[0].ContentHash, second[0].ContentHash)
	})
}
