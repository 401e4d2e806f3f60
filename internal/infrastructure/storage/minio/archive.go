package minio

import (
	"context"
	"encoding/json"
	"time"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// objectStore is the narrow store surface the archive needs.  *Client
// satisfies it; tests substitute an in-memory map.
type objectStore interface {
	put(ctx context.Context, key string, data []byte, contentType string) error
	get(ctx context.Context, key string) ([]byte, error)
	presignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Archive mirrors persisted analysis runs into object storage and serves
// presigned export links.  Postgres stays the system of record; a missing
// or stale archive object degrades export, nothing else.
type Archive struct {
	store   objectStore
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*Archive)

// WithArchiveMetrics attaches request metrics to the archive.
func WithArchiveMetrics(m *prometheus.AppMetrics) ArchiveOption {
	return func(a *Archive) { a.metrics = m }
}

// NewArchive wires the archive on top of an object store client.
func NewArchive(client *Client, logger logging.Logger, opts ...ArchiveOption) *Archive {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	a := &Archive{
		store:  client,
		logger: logger.Named("archive"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func reportKey(id string) string {
	return "analyses/" + id + ".json"
}

// PutReport uploads one analysis run as a JSON document keyed by its ID.
// Re-uploading the same ID overwrites the prior object.
func (a *Archive) PutReport(ctx context.Context, rec ktypes.AnalysisRecord) error {
	if rec.ID == "" {
		return errors.Validation("analysis id required")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode analysis record")
	}
	if err := a.store.put(ctx, reportKey(rec.ID), data, "application/json"); err != nil {
		prometheus.RecordError(a.metrics, "archive", string(errors.ErrCodeObjectPutFailed))
		return err
	}
	a.logger.Debug("analysis archived",
		logging.String("analysis_id", rec.ID),
		logging.Int("bytes", len(data)),
	)
	return nil
}

// GetReport fetches one archived analysis run.
func (a *Archive) GetReport(ctx context.Context, id string) (ktypes.AnalysisRecord, error) {
	if id == "" {
		return ktypes.AnalysisRecord{}, errors.Validation("analysis id required")
	}
	data, err := a.store.get(ctx, reportKey(id))
	if err != nil {
		return ktypes.AnalysisRecord{}, err
	}
	var rec ktypes.AnalysisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return ktypes.AnalysisRecord{}, errors.Wrap(err, errors.ErrCodeSerialization, "decode analysis record").
			WithDetail("analysis_id=" + id)
	}
	return rec, nil
}

// ExportURL returns a presigned download link for one archived analysis.
// A zero expiry uses the client's configured default.
func (a *Archive) ExportURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	if id == "" {
		return "", errors.Validation("analysis id required")
	}
	u, err := a.store.presignGet(ctx, reportKey(id), expiry)
	if err != nil {
		prometheus.RecordError(a.metrics, "archive", string(errors.ErrCodeExportFailed))
		return "", errors.Wrap(err, errors.ErrCodeExportFailed, "presign analysis export").
			WithDetail("analysis_id=" + id)
	}
	return u, nil
}
