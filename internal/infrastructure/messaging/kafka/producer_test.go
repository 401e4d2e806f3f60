package kafka

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

type fakeWriter struct {
	messages []segkafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer(w writer) *Producer {
	cfg := ProducerConfig{Brokers: []string{"broker:9092"}}
	applyProducerDefaults(&cfg)
	return &Producer{writer: w, cfg: cfg, logger: logging.NewNopLogger()}
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(ProducerConfig{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestPublishRequest(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w)

	err := p.PublishRequest(context.Background(), JobRequest{
		JobID:      "job-1",
		Keywords:   []string{"yoga mat"},
		EnqueuedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, DefaultRequestsTopic, w.messages[0].Topic)
	assert.Equal(t, []byte("job-1"), w.messages[0].Key)
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublishResult(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w)

	err := p.PublishResult(context.Background(), JobResult{
		JobID:  "job-2",
		Status: ktypes.JobStatusFailed,
		Error:  "batch rejected",
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, DefaultResultsTopic, w.messages[0].Topic)
}

func TestPublishWrapsWriteFailure(t *testing.T) {
	w := &fakeWriter{err: stderrors.New("broker gone")}
	p := newTestProducer(w)

	err := p.PublishRequest(context.Background(), JobRequest{JobID: "job-3", Keywords: []string{"a b"}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePublishFailed))
	assert.Equal(t, int64(0), p.Sent())
}

func TestProducerClose(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	// Publishing after close fails fast.
	err := p.PublishRequest(context.Background(), JobRequest{JobID: "job-4", Keywords: []string{"a b"}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePublishFailed))

	// Close is idempotent.
	require.NoError(t, p.Close())
}
