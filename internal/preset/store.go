package preset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"modelshare/internal/blob"
	"modelshare/internal/cache"
	"modelshare/internal/logging"
	"modelshare/internal/metrics"
)

// Source names the tier that answered a Load.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// Store persists preset documents remotely with a local mirror. The cache may
// be nil, in which case the local tier is skipped.
type Store struct {
	blobs   blob.Store
	cache   cache.Cache
	logger  *zap.Logger
	metrics *metrics.Recorder
}

type StoreOption func(*Store)

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(r *metrics.Recorder) StoreOption {
	return func(s *Store) { s.metrics = r }
}

func NewStore(blobs blob.Store, c cache.Cache, opts ...StoreOption) *Store {
	s := &Store{blobs: blobs, cache: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "preset-store")
	return s
}

// Sync writes the document to the Blob Store and mirrors the same bytes to the
// local cache under the same key. The mirror is written even when the remote
// write fails; the remote error is returned first.
func (s *Store) Sync(ctx context.Context, project string, set Set) error {
	if err := blob.ValidateProject(project); err != nil {
		return err
	}
	data, err := Encode(set)
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	key := DocumentKey(project)

	start := time.Now()
	_, remoteErr := s.blobs.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: blob.ContentTypeJSON})
	s.metrics.ObserveUpload(metrics.KindPresets, len(data), time.Since(start), remoteErr)
	if remoteErr != nil {
		remoteErr = fmt.Errorf("sync presets %s: %w", key, remoteErr)
	}

	var localErr error
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			localErr = fmt.Errorf("mirror presets %s: %w", key, err)
		}
	}
	err = errors.Join(remoteErr, localErr)
	s.metrics.ObservePresetSync(err)
	if err != nil {
		s.logger.Warn("preset sync failed", zap.String("key", key), zap.Error(err))
		return err
	}
	s.logger.Debug("presets synced", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Load resolves the preset set for project: remote, then local cache, then
// DefaultSet. It never fails; the returned Source says which tier answered.
// A remote hit refreshes the local mirror.
func (s *Store) Load(ctx context.Context, project string) (Set, Source) {
	set, src := s.load(ctx, project)
	s.metrics.ObservePresetLoad(string(src))
	s.logger.Debug("presets loaded", zap.String("project", project), zap.String("source", string(src)))
	return set, src
}

func (s *Store) load(ctx context.Context, project string) (Set, Source) {
	if err := blob.ValidateProject(project); err != nil {
		s.logger.Warn("invalid project for preset load", zap.String("project", project), zap.Error(err))
		return DefaultSet(), SourceDefault
	}
	key := DocumentKey(project)

	data, err := s.fetchRemote(ctx, key)
	if err == nil {
		var set Set
		if set, err = Decode(data); err == nil {
			if s.cache != nil {
				if cerr := s.cache.Set(ctx, key, data); cerr != nil {
					s.logger.Warn("refresh local preset mirror", zap.String("key", key), zap.Error(cerr))
				}
			}
			return set, SourceRemote
		}
	}
	if errors.Is(err, blob.ErrNotFound) {
		s.logger.Debug("no remote presets", zap.String("key", key))
	} else {
		s.logger.Warn("remote presets unavailable", zap.String("key", key), zap.Error(err))
	}

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			set, derr := Decode(data)
			if derr == nil {
				return set, SourceLocal
			}
			s.logger.Warn("local preset mirror malformed", zap.String("key", key), zap.Error(derr))
		case !errors.Is(err, cache.ErrMiss):
			s.logger.Warn("local preset mirror unavailable", zap.String("key", key), zap.Error(err))
		}
	}
	return DefaultSet(), SourceDefault
}

func (s *Store) fetchRemote(ctx context.Context, key string) ([]byte, error) {
	_, rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
