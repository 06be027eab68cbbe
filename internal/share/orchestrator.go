// Package share runs the share flows: upload every asset in order, write the
// manifest the viewer reads, and hand back a shareable reference.
package share

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"modelshare/internal/blob"
	"modelshare/internal/logging"
	"modelshare/internal/manifest"
	"modelshare/internal/metrics"
)

var (
	ErrNoModel         = errors.New("share: model data is required")
	ErrInvalidProject  = errors.New("share: invalid project name")
	ErrInvalidSettings = errors.New("share: invalid display settings")
)

// Route prefixes of the viewer pages.
const (
	RouteShare   = "share"
	RouteShareAR = "share-ar"
)

// Reference is the result of a share flow.
type Reference struct {
	ID          string   `json:"id"`
	Project     string   `json:"project"`
	Route       string   `json:"route"`
	URL         string   `json:"url"`
	ManifestURL string   `json:"manifestUrl"`
	Uploaded    []string `json:"uploaded"`
}

// Orchestrator sequences uploads through a Blob Store.
type Orchestrator struct {
	store    blob.Store
	origin   *url.URL
	settings Settings
	logger   *zap.Logger
	metrics  *metrics.Recorder
	limiter  *rate.Limiter
	maxEdge  int
}

type Option func(*Orchestrator)

func WithSettings(s Settings) Option { return func(o *Orchestrator) { o.settings = s } }

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(r *metrics.Recorder) Option { return func(o *Orchestrator) { o.metrics = r } }

// WithLimiter paces every blob write of a flow.
func WithLimiter(l *rate.Limiter) Option { return func(o *Orchestrator) { o.limiter = l } }

func WithPreviewMaxEdge(px int) Option { return func(o *Orchestrator) { o.maxEdge = px } }

// New builds an orchestrator publishing references under origin.
func New(store blob.Store, origin string, opts ...Option) (*Orchestrator, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", origin)
	}
	o := &Orchestrator{store: store, origin: u, settings: DefaultSettings(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}
	o.logger = logging.Component(o.logger, "share")
	return o, nil
}

// Request is a full share of one or more variants. Variants[0] is the
// originally imported model. Settings overrides the orchestrator default.
type Request struct {
	Project  string
	Variants []manifest.Variant
	Settings *Settings
}

// ARRequest shares a single model for AR viewing.
type ARRequest struct {
	Project     string
	Model       []byte
	ARCompanion []byte
	Settings    *Settings
}

func (o *Orchestrator) resolve(project string, override *Settings) (Settings, error) {
	if err := blob.ValidateProject(project); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	s := o.settings
	if override != nil {
		s = *override
	}
	return s, s.Validate()
}

func (o *Orchestrator) uploader(logger *zap.Logger) *manifest.Uploader {
	return manifest.NewUploader(o.store,
		manifest.WithLimiter(o.limiter),
		manifest.WithLogger(logger),
		manifest.WithMetrics(o.metrics),
	)
}

// Share uploads every variant, then share-data.json, and returns
// {origin}/share/{project}. A failure stops the flow; earlier uploads stay.
func (o *Orchestrator) Share(ctx context.Context, req Request) (Reference, error) {
	settings, err := o.resolve(req.Project, req.Settings)
	if err != nil {
		return Reference{}, err
	}
	id := uuid.NewString()
	logger := o.logger.With(zap.String("share_id", id), zap.String("project", req.Project))

	plan, err := manifest.NewBuilder(manifest.WithPreviewMaxEdge(o.maxEdge)).Plan(req.Project, req.Variants)
	if err != nil {
		return Reference{}, err
	}
	logger.Info("share started", zap.Int("variants", len(plan.Names)), zap.Int("uploads", len(plan.Steps)+1))

	up := o.uploader(logger)
	res, err := up.Run(ctx, plan)
	if err != nil {
		return Reference{}, err
	}
	doc := res.ShareManifest(settings.display())
	manifestURL, err := up.PutDocument(ctx, manifest.ShareDataKey(req.Project), doc, res.Uploaded)
	if err != nil {
		return Reference{}, err
	}
	ref := o.reference(id, RouteShare, req.Project, manifestURL, append(res.Uploaded, manifest.ShareDataKey(req.Project)))
	logger.Info("share published", zap.String("url", ref.URL), zap.Int("bytes", res.Bytes))
	return ref, nil
}

// ShareAR uploads the model as variant1.glb, the optional AR companion as
// variant1.usdz, then share-ar-data.json, and returns {origin}/share-ar/{project}.
func (o *Orchestrator) ShareAR(ctx context.Context, req ARRequest) (Reference, error) {
	settings, err := o.resolve(req.Project, req.Settings)
	if err != nil {
		return Reference{}, err
	}
	if len(req.Model) == 0 {
		return Reference{}, ErrNoModel
	}
	id := uuid.NewString()
	logger := o.logger.With(zap.String("share_id", id), zap.String("project", req.Project))

	plan, err := manifest.NewBuilder().Plan(req.Project, []manifest.Variant{{
		Name:        manifest.DefaultName(0),
		Model:       req.Model,
		ARCompanion: req.ARCompanion,
	}})
	if err != nil {
		return Reference{}, err
	}
	logger.Info("ar share started", zap.Bool("usdz", len(req.ARCompanion) > 0))

	up := o.uploader(logger)
	res, err := up.Run(ctx, plan)
	if err != nil {
		return Reference{}, err
	}
	doc := res.ARManifest(settings.display())
	manifestURL, err := up.PutDocument(ctx, manifest.ARDataKey(req.Project), doc, res.Uploaded)
	if err != nil {
		return Reference{}, err
	}
	ref := o.reference(id, RouteShareAR, req.Project, manifestURL, append(res.Uploaded, manifest.ARDataKey(req.Project)))
	logger.Info("ar share published", zap.String("url", ref.URL))
	return ref, nil
}

func (o *Orchestrator) reference(id, route, project, manifestURL string, uploaded []string) Reference {
	return Reference{
		ID:          id,
		Project:     project,
		Route:       route,
		URL:         o.origin.JoinPath(route, project).String(),
		ManifestURL: manifestURL,
		Uploaded:    uploaded,
	}
}
