package projector

import "github.com/ForgeClient/internal/domain"

// Search describes GET /legacy/repos/search/{keyword}. Hits live under "repositories".
func Search(keyword string) domain.Resource[domain.SearchRepository, domain.SearchHit] {
	return domain.Resource[domain.SearchRepository, domain.SearchHit]{
		Name:     SearchName,
		Path:     "/legacy/repos/search/" + keyword,
		Root:     Key("repositories"),
		Required: []string{"name"},
		Project:  ProjectSearchHit,
	}
}

func ProjectSearchHit(r domain.SearchRepository) domain.SearchHit {
	return domain.SearchHit{
		Type:        r.Type,
		Name:        r.Owner + ":" + r.Name,
		Score:       r.Score,
		Description: r.Description,
		Followers:   r.Followers,
		Forks:       r.Forks,
	}
}
