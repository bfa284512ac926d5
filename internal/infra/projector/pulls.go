package projector

import "github.com/ForgeClient/internal/domain"

// Pulls describes GET /repos/{owner}/{repo}/pulls.
func Pulls(owner, repo string) domain.Resource[domain.PullRequest, domain.PullSummary] {
	return domain.Resource[domain.PullRequest, domain.PullSummary]{
		Name:     PullsName,
		Path:     "/repos/" + owner + "/" + repo + "/pulls",
		Required: []string{"user.login", "head.sha"},
		Project:  ProjectPull,
	}
}

func ProjectPull(pr domain.PullRequest) domain.PullSummary {
	return domain.PullSummary{
		Number: pr.Number,
		User:   pr.User.Login,
		Commit: pr.Head.SHA,
		Body:   pr.Body,
	}
}
