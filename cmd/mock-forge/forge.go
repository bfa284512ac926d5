package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzip"
)

type object = map[string]any

// forge is an in-memory stand-in for the forge API, keyed the way its URLs are.
type forge struct {
	users map[string]object
	repos map[string][]object
	pulls map[string][]object // "owner/repo"
	hits  []object
}

func seed() *forge {
	return &forge{
		users: map[string]object{
			"octocat": {
				"login": "octocat", "name": "The Octocat", "company": "@github",
				"bio": nil, "email": nil, "blog": "https://github.blog", "followers": 9000,
			},
			"mccalltd": {
				"login": "mccalltd", "name": "Tim McCall", "company": nil,
				"bio": nil, "email": nil, "blog": "", "followers": 42,
			},
		},
		repos: map[string][]object{
			"octocat": {
				{"name": "Hello-World", "homepage": "", "description": "My first repository on GitHub!", "watchers": 1500, "forks": 1400, "open_issues": 600},
				{"name": "Spoon-Knife", "homepage": nil, "description": "This repo is for demonstration purposes only.", "watchers": 11000, "forks": 140000, "open_issues": 5000},
			},
			"mccalltd": {
				{"name": "AttributeRouting", "homepage": "", "description": "Define your routes using attributes on actions in ASP.NET MVC and Web API.", "watchers": 300, "forks": 90, "open_issues": 20},
			},
		},
		pulls: map[string][]object{
			"rails/rails": {
				{"number": 101, "body": "Fixes a typo in the guides.", "user": object{"login": "alice"}, "head": object{"sha": "3f4e2a1"}},
				{"number": 102, "body": nil, "user": object{"login": "bob"}, "head": object{"sha": "9b8c7d6"}},
			},
		},
		hits: []object{
			{"type": "repo", "owner": "rails", "name": "rails", "score": 12.5, "description": "Ruby on Rails", "followers": 50000, "forks": 20000},
			{"type": "repo", "owner": "sinatra", "name": "sinatra", "score": 7.25, "description": "Classy web-development dressed in a DSL", "followers": 12000, "forks": 2000},
			{"type": "repo", "owner": "jekyll", "name": "jekyll", "score": 3.0, "description": "Blog-aware static site generator in Ruby", "followers": 47000, "forks": 10000},
		},
	}
}

func newRouter(f *forge) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/users/{user}", f.getUser).Methods("GET")
	r.HandleFunc("/users/{user}/repos", f.getRepos).Methods("GET")
	r.HandleFunc("/repos/{owner}/{repo}/pulls", f.getPulls).Methods("GET")
	r.HandleFunc("/legacy/repos/search/{keyword}", f.search).Methods("GET")
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, nil, http.StatusNotFound, object{"message": "Not Found"})
	})
	return r
}

func (f *forge) getUser(w http.ResponseWriter, r *http.Request) {
	u, ok := f.users[mux.Vars(r)["user"]]
	if !ok {
		writeJSON(w, r, http.StatusNotFound, object{"message": "Not Found"})
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

func (f *forge) getRepos(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	if _, ok := f.users[user]; !ok {
		writeJSON(w, r, http.StatusNotFound, object{"message": "Not Found"})
		return
	}
	writeJSON(w, r, http.StatusOK, nonNil(f.repos[user]))
}

func (f *forge) getPulls(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pulls, ok := f.pulls[vars["owner"]+"/"+vars["repo"]]
	if !ok {
		writeJSON(w, r, http.StatusNotFound, object{"message": "Not Found"})
		return
	}
	writeJSON(w, r, http.StatusOK, pulls)
}

func (f *forge) search(w http.ResponseWriter, r *http.Request) {
	keyword := strings.ToLower(mux.Vars(r)["keyword"])
	matched := []object{}
	for _, h := range f.hits {
		text := strings.ToLower(h["name"].(string) + " " + h["description"].(string))
		if strings.Contains(text, keyword) {
			matched = append(matched, h)
		}
	}
	writeJSON(w, r, http.StatusOK, object{"repositories": matched})
}

func nonNil(list []object) []object {
	if list == nil {
		return []object{}
	}
	return list
}

// writeJSON gzips the body when the request accepts it.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if r == nil || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
		return
	}

	w.Header().Set("Content-Encoding", "gzip")
	w.WriteHeader(status)
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
	if err := gz.Close(); err != nil {
		slog.Error("Failed to flush gzip stream", "error", err)
	}
}
