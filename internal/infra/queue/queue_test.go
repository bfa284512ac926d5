package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/ForgeClient/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	msgs []kafka.Message
}

func (r *fakeReader) ReadMessage(context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) Close() error { return nil }

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
	return m.Called().Error(0)
}

func TestKafkaProducer_PublishBatch(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaProducerWithWriter(w)

	records := []domain.Record{
		{ID: "repos:octocat#a", Kind: "repos", Data: json.RawMessage(`{"name":"a"}`)},
		{ID: "repos:octocat#b", Kind: "repos", Data: json.RawMessage(`{"name":"b"}`)},
	}
	require.NoError(t, p.PublishBatch(context.Background(), records))
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "repos:octocat#a", string(w.msgs[0].Key))

	var decoded domain.Record
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &decoded))
	assert.Equal(t, "repos:octocat#b", decoded.ID)
	assert.JSONEq(t, `{"name":"b"}`, string(decoded.Data))

	require.NoError(t, p.PublishBatch(context.Background(), nil))
	assert.Len(t, w.msgs, 2)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaProducer_PublishError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := NewKafkaProducerWithWriter(&fakeWriter{err: boom})

	assert.ErrorIs(t, p.Publish(context.Background(), &domain.Record{ID: "x", Data: json.RawMessage(`{}`)}), boom)
	assert.ErrorIs(t, p.PublishBatch(context.Background(), []domain.Record{{ID: "x", Data: json.RawMessage(`{}`)}}), boom)
}

func TestKafkaConsumer_HandlesAndDeadLetters(t *testing.T) {
	ok, err := json.Marshal(domain.Record{ID: "ok", Kind: "user", Data: json.RawMessage(`{}`)})
	require.NoError(t, err)
	bad, err := json.Marshal(domain.Record{ID: "bad", Kind: "user", Data: json.RawMessage(`{}`)})
	require.NoError(t, err)

	reader := &fakeReader{msgs: []kafka.Message{
		{Value: ok},
		{Value: []byte("not json")},
		{Value: bad},
	}}
	dlq := new(MockEventProducer)
	dlq.On("Publish", mock.Anything, mock.MatchedBy(func(r *domain.Record) bool { return r.ID == "bad" })).Return(nil).Once()

	var handled []string
	c := NewKafkaConsumerWithReader(reader, dlq)
	c.Start(context.Background(), func(_ context.Context, r *domain.Record) error {
		handled = append(handled, r.ID)
		if r.ID == "bad" {
			return errors.New("archive rejected")
		}
		return nil
	})

	assert.Equal(t, []string{"ok", "bad"}, handled)
	dlq.AssertExpectations(t)
}
