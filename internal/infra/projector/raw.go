package projector

import "github.com/ForgeClient/internal/domain"

// Raw describes an arbitrary path whose records are returned untouched.
func Raw(path string) domain.Resource[any, any] {
	return domain.Resource[any, any]{
		Name:    RawName,
		Path:    path,
		Project: domain.Identity[any](),
	}
}
