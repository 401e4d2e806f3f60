// Package kafka carries asynchronous bulk analysis jobs between the API
// server and the worker fleet.  The API publishes job requests, workers
// consume them, score the batch and publish a completion event; job state
// itself lives in postgres, so messages are routing signals rather than the
// system of record.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// Default topic names.  Deployments override them through the kafka config
// section; the worker and API must agree on the same pair.
const (
	DefaultRequestsTopic = "keyrank.bulk.requests"
	DefaultResultsTopic  = "keyrank.bulk.results"
)

// schemaVersion travels in message headers so consumers can reject payloads
// from a future incompatible producer instead of misreading them.
const schemaVersion = "v1"

// JobRequest asks a worker to score one keyword batch.
type JobRequest struct {
	JobID      string    `json:"job_id"`
	Keywords   []string  `json:"keywords"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// JobResult announces the outcome of one bulk job.  Failed jobs carry the
// failure reason in Error; completed jobs carry the batch accounting.
type JobResult struct {
	JobID            string           `json:"job_id"`
	Status           ktypes.JobStatus `json:"status"`
	Total            int              `json:"total"`
	Successful       int              `json:"successful"`
	Failed           int              `json:"failed"`
	ProcessingTimeMS int64            `json:"processing_time_ms"`
	Error            string           `json:"error,omitempty"`
	CompletedAt      time.Time        `json:"completed_at"`
}

// encodeMessage marshals a payload into a kafka message keyed by job ID, so
// every event for one job lands on the same partition and stays ordered.
func encodeMessage(topic, jobID string, payload interface{}) (kafka.Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, errors.Wrap(err, errors.ErrCodeSerialization, "marshal job message")
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(jobID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "schema_version", Value: []byte(schemaVersion)},
		},
		Time: time.Now().UTC(),
	}, nil
}

// DecodeJobRequest parses a consumed message back into a JobRequest.
func DecodeJobRequest(msg kafka.Message) (JobRequest, error) {
	var req JobRequest
	if len(msg.Value) == 0 {
		return req, errors.New(errors.ErrCodeSerialization, "empty job request message")
	}
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return req, errors.Wrap(err, errors.ErrCodeSerialization, "unmarshal job request")
	}
	if req.JobID == "" {
		return req, errors.New(errors.ErrCodeValidation, "job request missing job_id")
	}
	if len(req.Keywords) == 0 {
		return req, errors.New(errors.ErrCodeValidation, "job request missing keywords")
	}
	return req, nil
}

// DecodeJobResult parses a consumed message back into a JobResult.
func DecodeJobResult(msg kafka.Message) (JobResult, error) {
	var res JobResult
	if len(msg.Value) == 0 {
		return res, errors.New(errors.ErrCodeSerialization, "empty job result message")
	}
	if err := json.Unmarshal(msg.Value, &res); err != nil {
		return res, errors.Wrap(err, errors.ErrCodeSerialization, "unmarshal job result")
	}
	if res.JobID == "" {
		return res, errors.New(errors.ErrCodeValidation, "job result missing job_id")
	}
	return res, nil
}
