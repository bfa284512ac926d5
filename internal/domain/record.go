package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// User is the profile object returned by /users/{user}.
type User struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	Bio       string `json:"bio"`
	Email     string `json:"email"`
	Blog      string `json:"blog"`
	Followers int    `json:"followers"`
}

// Repo is one element of /users/{user}/repos.
type Repo struct {
	Name        string `json:"name"`
	Homepage    string `json:"homepage"`
	Description string `json:"description"`
	Watchers    int    `json:"watchers"`
	Forks       int    `json:"forks"`
	OpenIssues  int    `json:"open_issues"`
}

// PullRequest is one element of /repos/{owner}/{repo}/pulls.
type PullRequest struct {
	Number int    `json:"number"`
	Body   string `json:"body"`
	User struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// SearchRepository is one element of the legacy search "repositories" list.
type SearchRepository struct {
	Type        string  `json:"type"`
	Owner       string  `json:"owner"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
	Followers   int     `json:"followers"`
	Forks       int     `json:"forks"`
}

// UserProfile is the caller-facing shape of a User.
type UserProfile struct {
	Login     string `json:"login" bson:"login"`
	Name      string `json:"name" bson:"name"`
	Company   string `json:"company" bson:"company"`
	Bio       string `json:"bio" bson:"bio"`
	Email     string `json:"email" bson:"email"`
	Blog      string `json:"blog" bson:"blog"`
	Followers int    `json:"followers" bson:"followers"`
}

// RepoSummary is the caller-facing shape of a Repository.
type RepoSummary struct {
	Name        string `json:"name" bson:"name"`
	Homepage    string `json:"homepage" bson:"homepage"`
	Watchers    int    `json:"watchers" bson:"watchers"`
	Forks       int    `json:"forks" bson:"forks"`
	OpenIssues  int    `json:"open_issues" bson:"open_issues"`
	Description string `json:"description" bson:"description"`
}

// PullSummary is the caller-facing shape of a PullRequest.
type PullSummary struct {
	Number int    `json:"number" bson:"number"`
	User   string `json:"user" bson:"user"`
	Commit string `json:"commit" bson:"commit"`
	Body   string `json:"body" bson:"body"`
}

// SearchHit is the caller-facing shape of a SearchRepository.
// Name is "owner:name".
type SearchHit struct {
	Type        string  `json:"type" bson:"type"`
	Name        string  `json:"name" bson:"name"`
	Score       float64 `json:"score" bson:"score"`
	Description string  `json:"description" bson:"description"`
	Followers   int     `json:"followers" bson:"followers"`
	Forks       int     `json:"forks" bson:"forks"`
}

// Record is a projected record wrapped for export to storage and the queue.
type Record struct {
	ID          string          `json:"id" bson:"_id"`
	Kind        string          `json:"kind" bson:"kind"`     // e.g., "repos"
	Target      string          `json:"target" bson:"target"` // e.g., "repos:octocat"
	Data        json.RawMessage `json:"data" bson:"data"`
	ContentHash string          `json:"content_hash" bson:"content_hash"`
	FetchedAt   time.Time       `json:"fetched_at" bson:"fetched_at"`
}

// ComputeHash returns a deterministic hash of the record's identity and payload.
// FetchedAt is excluded so refetching unchanged data yields the same hash.
func (r *Record) ComputeHash() string {
	hasher := sha256.New()
	hasher.Write([]byte(r.Kind))
	hasher.Write([]byte(r.Target))
	hasher.Write([]byte(r.ID))
	hasher.Write(r.Data)
	return hex.EncodeToString(hasher.Sum(nil))
}
