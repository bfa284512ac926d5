package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/ForgeClient/internal/domain"
	"github.com/tidwall/gjson"
)

// Fetch issues the resource's request and returns its records. Failures of the
// request, of decoding or of any record's shape are reported before a record is yielded.
func Fetch[R, P any](ctx context.Context, f domain.Fetcher, res domain.Resource[R, P]) (iter.Seq[P], error) {
	root, err := f.Fetch(ctx, res.Path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", res.Name, err)
	}
	return Records(res, root)
}

// Records locates the resource root inside a parsed response, wraps a non-array root
// into a one-element list, and decodes every element into R. The returned sequence
// applies res.Project lazily, in response order, and can be ranged over once.
func Records[R, P any](res domain.Resource[R, P], root json.RawMessage) (iter.Seq[P], error) {
	project := res.Project
	if project == nil {
		identity, ok := any(domain.Identity[R]()).(func(R) P)
		if !ok {
			var r R
			var p P
			return nil, fmt.Errorf("%s: no projection from %T to %T", res.Name, r, p)
		}
		project = identity
	}

	located := root
	if res.Root != nil {
		var err error
		if located, err = res.Root(root); err != nil {
			return nil, fmt.Errorf("%s: %w", res.Name, err)
		}
	}

	elems, err := normalize(located)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Name, err)
	}

	raws := make([]R, 0, len(elems))
	for i, elem := range elems {
		if err := requireFields(res.Name, i, elem, res.Required); err != nil {
			return nil, err
		}
		var r R
		if err := json.Unmarshal(elem, &r); err != nil {
			return nil, fmt.Errorf("%s record %d: %w: %w", res.Name, i, domain.ErrShape, err)
		}
		raws = append(raws, r)
	}

	return once(raws, project), nil
}

// Deliver hands seq back to the caller when fn is nil. Otherwise it drains seq into fn,
// stopping at the first error fn returns, and returns a nil sequence.
func Deliver[T any](seq iter.Seq[T], fn domain.Handler[T]) (iter.Seq[T], error) {
	if fn == nil {
		return seq, nil
	}
	for item := range seq {
		if err := fn(item); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// First returns the first record of seq, or a shape error when there is none.
func First[T any](name string, seq iter.Seq[T]) (T, error) {
	for item := range seq {
		return item, nil
	}
	var zero T
	return zero, fmt.Errorf("%s: empty result: %w", name, domain.ErrShape)
}

func normalize(root json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(root)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []json.RawMessage{root}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	return elems, nil
}

func requireFields(resource string, index int, elem json.RawMessage, fields []string) error {
	for _, field := range fields {
		if !gjson.GetBytes(elem, field).Exists() {
			return &domain.ShapeError{Resource: resource, Index: index, Field: field}
		}
	}
	return nil
}

// once yields project(raws[i]) in order on its first range; later ranges yield nothing.
func once[R, P any](raws []R, project func(R) P) iter.Seq[P] {
	used := false
	return func(yield func(P) bool) {
		if used {
			return
		}
		used = true
		pending := raws
		raws = nil
		for _, r := range pending {
			if !yield(project(r)) {
				return
			}
		}
	}
}
