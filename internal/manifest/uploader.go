package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"modelshare/internal/blob"
	"modelshare/internal/logging"
	"modelshare/internal/metrics"
)

// UploadError reports the step that stopped an upload sequence. Completed
// holds the keys written before it; they are left in place.
type UploadError struct {
	Step      int
	Kind      string
	Key       string
	Completed []string
	Err       error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s %s (step %d, %d earlier uploads kept): %v", e.Kind, e.Key, e.Step+1, len(e.Completed), e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Result collects the URLs of a completed plan. ModelURLs and ARURLs are
// indexed by variant; PreviewURLs is in upload order.
type Result struct {
	Project     string
	Names       []string
	ModelURLs   []string
	ARURLs      []*string
	PreviewURLs []string
	Uploaded    []string
	Bytes       int
}

// Uploader writes plans to a Blob Store one step at a time.
type Uploader struct {
	store   blob.Store
	limiter *rate.Limiter
	logger  *zap.Logger
	metrics *metrics.Recorder
}

type UploaderOption func(*Uploader)

// WithLimiter paces steps; nil disables pacing.
func WithLimiter(l *rate.Limiter) UploaderOption {
	return func(u *Uploader) { u.limiter = l }
}

func WithLogger(l *zap.Logger) UploaderOption {
	return func(u *Uploader) {
		if l != nil {
			u.logger = l
		}
	}
}

func WithMetrics(r *metrics.Recorder) UploaderOption {
	return func(u *Uploader) { u.metrics = r }
}

// NewLimiter returns a limiter allowing perSecond uploads, or nil when
// perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func NewUploader(store blob.Store, opts ...UploaderOption) *Uploader {
	u := &Uploader{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(u)
	}
	u.logger = logging.Component(u.logger, "uploader")
	return u
}

// Run performs every step in order, waiting for each write before starting
// the next. The first failure stops the run and returns an *UploadError
// together with the partial Result.
func (u *Uploader) Run(ctx context.Context, plan *Plan) (*Result, error) {
	res := &Result{
		Project:   plan.Project,
		Names:     append([]string(nil), plan.Names...),
		ModelURLs: make([]string, len(plan.Names)),
		ARURLs:    make([]*string, len(plan.Names)),
	}
	for i, step := range plan.Steps {
		url, err := u.put(ctx, step.Kind, step.Key, step.ContentType, step.Data)
		if err != nil {
			uerr := &UploadError{Step: i, Kind: step.Kind, Key: step.Key, Completed: append([]string(nil), res.Uploaded...), Err: err}
			u.logger.Error("upload sequence aborted", zap.String("project", plan.Project), zap.Error(uerr))
			return res, uerr
		}
		res.Uploaded = append(res.Uploaded, step.Key)
		res.Bytes += len(step.Data)
		switch step.Kind {
		case metrics.KindModel:
			res.ModelURLs[step.Variant] = url
		case metrics.KindAR:
			res.ARURLs[step.Variant] = &url
		case metrics.KindPreview:
			res.PreviewURLs = append(res.PreviewURLs, url)
		}
	}
	return res, nil
}

// PutDocument uploads doc as JSON under key, after the keys in completed.
// Failures are reported as *UploadError listing completed.
func (u *Uploader) PutDocument(ctx context.Context, key string, doc any, completed []string) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	url, err := u.put(ctx, metrics.KindManifest, key, blob.ContentTypeJSON, data)
	if err != nil {
		uerr := &UploadError{Step: len(completed), Kind: metrics.KindManifest, Key: key, Completed: append([]string(nil), completed...), Err: err}
		u.logger.Error("manifest upload failed", zap.Error(uerr))
		return "", uerr
	}
	return url, nil
}

func (u *Uploader) put(ctx context.Context, kind, key, contentType string, data []byte) (string, error) {
	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	start := time.Now()
	info, err := u.store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: contentType})
	u.metrics.ObserveUpload(kind, len(data), time.Since(start), err)
	if err != nil {
		return "", err
	}
	u.logger.Debug("uploaded", zap.String("kind", kind), zap.String("key", key), zap.Int("bytes", len(data)))
	if info.URL == "" {
		return "", fmt.Errorf("store returned no url for %s", key)
	}
	return info.URL, nil
}
