// Package viewer is the read side of a share: it resolves manifests the way
// the public viewer pages do and builds AR launch links.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"modelshare/internal/blob"
	"modelshare/internal/logging"
	"modelshare/internal/manifest"
)

// Applied when a manifest leaves the environment unset.
const (
	DefaultSkybox     = "studio"
	DefaultBackground = "#ffffff"
)

// ShareView is a resolved share-data.json.
type ShareView struct {
	Project      string    `json:"project"`
	ModelURL     string    `json:"modelUrl"`
	Skybox       string    `json:"skybox"`
	Background   string    `json:"background"`
	Variants     []string  `json:"variants"`
	USDZVariants []*string `json:"usdzVariants"`
	Previews     []string  `json:"previews"`
}

// ARView is a resolved share-ar-data.json.
type ARView struct {
	Project    string  `json:"project"`
	ModelURL   string  `json:"modelUrl"`
	USDZURL    *string `json:"usdzUrl"`
	Skybox     string  `json:"skybox"`
	Background string  `json:"background"`
}

// Reader fetches manifests from a Blob Store.
type Reader struct {
	store  blob.Store
	logger *zap.Logger
}

func NewReader(store blob.Store, logger *zap.Logger) *Reader {
	return &Reader{store: store, logger: logging.Component(logger, "viewer")}
}

// Share loads the full manifest of project. A missing manifest is not an
// error: it reports found=false.
func (r *Reader) Share(ctx context.Context, project string) (ShareView, bool, error) {
	var doc manifest.ShareManifest
	found, err := r.fetch(ctx, project, manifest.ShareDataKey(project), &doc)
	if err != nil || !found {
		return ShareView{}, found, err
	}
	v := ShareView{
		Project:      project,
		Skybox:       orDefault(doc.Skybox, DefaultSkybox),
		Background:   orDefault(doc.Background, DefaultBackground),
		Variants:     nonNil(doc.Variants),
		USDZVariants: doc.USDZVariants,
		Previews:     nonNil(doc.Previews),
	}
	if v.USDZVariants == nil {
		v.USDZVariants = []*string{}
	}
	if unique := dedupe(v.Variants); len(unique) > 0 {
		v.ModelURL = unique[0]
	} else {
		v.ModelURL = r.fallbackModel(ctx, project)
	}
	return v, true, nil
}

// AR loads the AR manifest of project.
func (r *Reader) AR(ctx context.Context, project string) (ARView, bool, error) {
	var doc manifest.ARManifest
	found, err := r.fetch(ctx, project, manifest.ARDataKey(project), &doc)
	if err != nil || !found {
		return ARView{}, found, err
	}
	return ARView{
		Project:    project,
		ModelURL:   doc.ModelURL,
		USDZURL:    doc.USDZURL,
		Skybox:     orDefault(doc.Skybox, DefaultSkybox),
		Background: orDefault(doc.Background, DefaultBackground),
	}, true, nil
}

func (r *Reader) fetch(ctx context.Context, project, key string, v any) (bool, error) {
	if err := blob.ValidateProject(project); err != nil {
		return false, err
	}
	_, rc, err := r.store.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		r.logger.Debug("no manifest", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Reader) fallbackModel(ctx context.Context, project string) string {
	key := manifest.ModelKey(project, manifest.DefaultName(0))
	if _, err := r.store.Head(ctx, key); err != nil {
		r.logger.Debug("no fallback model", zap.String("key", key), zap.Error(err))
		return ""
	}
	u, err := r.store.PresignURL(ctx, key, blob.SignedURLOptions{})
	if err != nil {
		r.logger.Warn("fallback model url", zap.String("key", key), zap.Error(err))
		return ""
	}
	return u
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
