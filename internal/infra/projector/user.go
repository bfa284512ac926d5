package projector

import "github.com/ForgeClient/internal/domain"

// User describes GET /users/{user}. The response is a single object.
func User(user string) domain.Resource[domain.User, domain.UserProfile] {
	return domain.Resource[domain.User, domain.UserProfile]{
		Name:     UserName,
		Path:     "/users/" + user,
		Required: []string{"login"},
		Project:  ProjectUser,
	}
}

func ProjectUser(u domain.User) domain.UserProfile {
	return domain.UserProfile{
		Login:     u.Login,
		Name:      u.Name,
		Company:   u.Company,
		Bio:       u.Bio,
		Email:     u.Email,
		Blog:      u.Blog,
		Followers: u.Followers,
	}
}
