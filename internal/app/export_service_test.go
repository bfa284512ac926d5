package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mocks
type MockRepository struct {
	mock.Mock
}

var _ domain.Repository = (*MockRepository)(nil)

func (m *MockRepository) BulkUpsert(ctx context.Context, records []domain.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockRepository) GetLatest(ctx context.Context, target string) (*domain.Record, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRepository) GetContentHashes(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockEventProducer struct {
	mock.Mock
}

func (m *MockEventProducer) Publish(ctx context.Context, record *domain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockEventProducer) PublishBatch(ctx context.Context, records []domain.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockEventProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

const reposBody = `[{"name":"a"},{"name":"b"}]`

func newExportService(t *testing.T, body string) (*ExportService, *mocks.MockFetcher, *MockRepository, *MockEventProducer) {
	t.Helper()
	f := new(mocks.MockFetcher)
	f.On("Fetch", mock.Anything, "/users/octocat/repos").Return(json.RawMessage(body), nil)
	repo := new(MockRepository)
	producer := new(MockEventProducer)

	targets := []Target{{Kind: "repos", Arg: "octocat"}}
	s := NewExportService(NewClient(f), repo, producer, targets, time.Minute, 1)
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s, f, repo, producer
}

func ids(records []domain.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestExportService_PublishesNewRecords(t *testing.T) {
	s, _, repo, producer := newExportService(t, reposBody)

	repo.On("GetContentHashes", mock.Anything, []string{"repos:octocat#a", "repos:octocat#b"}).Return(map[string]string{}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishBatch", mock.Anything, mock.MatchedBy(func(records []domain.Record) bool {
		return assert.ObjectsAreEqual([]string{"repos:octocat#a", "repos:octocat#b"}, ids(records))
	})).Return(nil).Once()

	require.NoError(t, s.ExportOnce(context.Background()))
	repo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestExportService_SkipsUnchangedRecords(t *testing.T) {
	s, f, repo, producer := newExportService(t, reposBody)

	// Learn the hash of "a" by collecting once.
	records, err := s.client.Collect(context.Background(), s.targets[0], s.now())
	require.NoError(t, err)
	hashA := records[0].ContentHash

	repo.On("GetContentHashes", mock.Anything, mock.Anything).Return(map[string]string{
		"repos:octocat#a": hashA,
		"repos:octocat#b": "stale",
	}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(records []domain.Record) bool {
		return len(records) == 2
	})).Return(nil)
	producer.On("PublishBatch", mock.Anything, mock.MatchedBy(func(records []domain.Record) bool {
		return assert.ObjectsAreEqual([]string{"repos:octocat#b"}, ids(records))
	})).Return(nil).Once()

	require.NoError(t, s.ExportOnce(context.Background()))
	producer.AssertExpectations(t)
	f.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestExportService_DedupsWithinBatch(t *testing.T) {
	s, _, repo, producer := newExportService(t, `[{"name":"a"},{"name":"a"}]`)

	repo.On("GetContentHashes", mock.Anything, []string{"repos:octocat#a"}).Return(map[string]string{}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(records []domain.Record) bool {
		return len(records) == 1
	})).Return(nil)
	producer.On("PublishBatch", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, s.ExportOnce(context.Background()))
	repo.AssertExpectations(t)
}

func TestExportService_EmptyResultTouchesNothing(t *testing.T) {
	s, _, repo, producer := newExportService(t, `[]`)

	require.NoError(t, s.ExportOnce(context.Background()))
	repo.AssertNotCalled(t, "GetContentHashes", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "BulkUpsert", mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestExportService_FetchErrorStoresNothing(t *testing.T) {
	f := new(mocks.MockFetcher)
	f.On("Fetch", mock.Anything, "/users/ghost/repos").Return(nil, &domain.StatusError{StatusCode: 404, URL: "x"})
	repo := new(MockRepository)
	producer := new(MockEventProducer)

	s := NewExportService(NewClient(f), repo, producer, []Target{{Kind: "repos", Arg: "ghost"}}, time.Minute, 1)
	err := s.ExportOnce(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	repo.AssertNotCalled(t, "BulkUpsert", mock.Anything, mock.Anything)
}

func TestExportService_StoreErrorIsReturned(t *testing.T) {
	s, _, repo, producer := newExportService(t, reposBody)

	repo.On("GetContentHashes", mock.Anything, mock.Anything).Return(map[string]string{}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.Anything).Return(errors.New("mongo down"))

	err := s.ExportOnce(context.Background())
	assert.ErrorContains(t, err, "bulk upsert failed")
	producer.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestExportService_PublishErrorIsTolerated(t *testing.T) {
	s, _, repo, producer := newExportService(t, reposBody)

	repo.On("GetContentHashes", mock.Anything, mock.Anything).Return(map[string]string{}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishBatch", mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	assert.NoError(t, s.ExportOnce(context.Background()))
}

func TestExportService_StartStopsOnCancel(t *testing.T) {
	s, _, repo, producer := newExportService(t, reposBody)
	repo.On("GetContentHashes", mock.Anything, mock.Anything).Return(map[string]string{}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.Anything).Return(nil)

	published := make(chan struct{}, 1)
	producer.On("PublishBatch", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) {
		select {
		case published <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case <-published:
	case <-time.After(5 * time.Second):
		t.Fatal("initial export did not run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}
