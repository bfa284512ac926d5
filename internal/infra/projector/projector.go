// Package projector defines the four forge endpoints as domain.Resource values:
// the path template, where the records live in the response, which fields a raw
// record must carry, and how it is reduced to a caller-facing shape.
package projector

import (
	"encoding/json"
	"fmt"

	"github.com/ForgeClient/internal/domain"
	"github.com/tidwall/gjson"
)

const (
	UserName   = "user"
	ReposName  = "repos"
	PullsName  = "pulls"
	SearchName = "search"
	RawName    = "raw"
)

// Key returns a locator selecting member name of an object root.
// A non-object root or an absent member is a shape error.
func Key(name string) domain.RootLocator {
	return func(root json.RawMessage) (json.RawMessage, error) {
		parsed := gjson.ParseBytes(root)
		if !parsed.IsObject() {
			return nil, fmt.Errorf("locate %q: root is not an object: %w", name, domain.ErrShape)
		}
		member, ok := parsed.Map()[name]
		if !ok {
			return nil, fmt.Errorf("locate %q: key absent: %w", name, domain.ErrShape)
		}
		return json.RawMessage(member.Raw), nil
	}
}
