package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	args := m.Called(ctx, path)

	// Handle nil body
	var body json.RawMessage
	if args.Get(0) != nil {
		body = args.Get(0).(json.RawMessage)
	}
	return body, args.Error(1)
}
