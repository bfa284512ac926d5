package projector

import "github.com/ForgeClient/internal/domain"

// Repos describes GET /users/{user}/repos.
func Repos(user string) domain.Resource[domain.Repo, domain.RepoSummary] {
	return domain.Resource[domain.Repo, domain.RepoSummary]{
		Name:     ReposName,
		Path:     "/users/" + user + "/repos",
		Required: []string{"name"},
		Project:  ProjectRepo,
	}
}

func ProjectRepo(r domain.Repo) domain.RepoSummary {
	return domain.RepoSummary{
		Name:        r.Name,
		Homepage:    r.Homepage,
		Watchers:    r.Watchers,
		Forks:       r.Forks,
		OpenIssues:  r.OpenIssues,
		Description: r.Description,
	}
}
