package manifest

import (
	"errors"
	"fmt"

	"modelshare/internal/blob"
	"modelshare/internal/metrics"
	"modelshare/internal/preview"
)

var (
	ErrNoVariants    = errors.New("manifest: at least one variant is required")
	ErrDuplicateName = errors.New("manifest: duplicate variant name")
	ErrInvalidName   = errors.New("manifest: invalid variant name")
	ErrEmptyModel    = errors.New("manifest: variant has no model data")
)

// Variant is one model offered in a bundle. Index 0 of a variant list is the
// originally imported model. Preview and ARCompanion are optional.
type Variant struct {
	Name        string
	Model       []byte
	Preview     []byte
	ARCompanion []byte
}

// DefaultName is variant{index+1}.
func DefaultName(index int) string { return fmt.Sprintf("variant%d", index+1) }

// Step is one blob write of a plan.
type Step struct {
	Variant     int
	Kind        string
	Key         string
	ContentType string
	Data        []byte
}

// Plan is the ordered upload sequence for one project.
type Plan struct {
	Project string
	Names   []string
	Steps   []Step
}

// Keys lists the step keys in upload order.
func (p *Plan) Keys() []string {
	keys := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		keys[i] = s.Key
	}
	return keys
}

// Builder validates variants and produces Plans.
type Builder struct {
	previewMaxEdge int
}

type BuilderOption func(*Builder)

// WithPreviewMaxEdge bounds the longest edge of encoded previews.
func WithPreviewMaxEdge(px int) BuilderOption {
	return func(b *Builder) {
		if px > 0 {
			b.previewMaxEdge = px
		}
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{previewMaxEdge: preview.DefaultMaxEdge}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Names resolves the variant names, applying defaults and rejecting
// duplicates or names that are not a single safe key segment.
func Names(variants []Variant) ([]string, error) {
	if len(variants) == 0 {
		return nil, ErrNoVariants
	}
	names := make([]string, len(variants))
	seen := make(map[string]int, len(variants))
	for i, v := range variants {
		name := v.Name
		if name == "" {
			name = DefaultName(i)
		}
		if err := blob.ValidateName(name); err != nil {
			return nil, fmt.Errorf("%w: variant %d: %v", ErrInvalidName, i, err)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q used by variants %d and %d", ErrDuplicateName, name, prev, i)
		}
		seen[name] = i
		names[i] = name
	}
	return names, nil
}

// Plan validates the inputs and lays out every write. The primary variant
// uploads model, AR companion then preview; each additional variant uploads
// model, preview then AR companion. Previews are re-encoded here so a bad
// image fails before anything is written.
func (b *Builder) Plan(project string, variants []Variant) (*Plan, error) {
	if err := blob.ValidateProject(project); err != nil {
		return nil, err
	}
	names, err := Names(variants)
	if err != nil {
		return nil, err
	}
	p := &Plan{Project: project, Names: names}
	for i, v := range variants {
		if len(v.Model) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyModel, names[i])
		}
		model := Step{Variant: i, Kind: metrics.KindModel, Key: ModelKey(project, names[i]), ContentType: blob.ContentTypeGLB, Data: v.Model}
		var ar, prev *Step
		if len(v.ARCompanion) > 0 {
			ar = &Step{Variant: i, Kind: metrics.KindAR, Key: ARKey(project, names[i]), ContentType: blob.ContentTypeUSDZ, Data: v.ARCompanion}
		}
		if len(v.Preview) > 0 {
			th, err := preview.Normalize(v.Preview, b.previewMaxEdge)
			if err != nil {
				return nil, fmt.Errorf("preview for %s: %w", names[i], err)
			}
			prev = &Step{Variant: i, Kind: metrics.KindPreview, Key: PreviewKey(project, names[i]), ContentType: blob.ContentTypeWebP, Data: th.Data}
		}

		p.Steps = append(p.Steps, model)
		order := []*Step{prev, ar}
		if i == 0 {
			order = []*Step{ar, prev}
		}
		for _, s := range order {
			if s != nil {
				p.Steps = append(p.Steps, *s)
			}
		}
	}
	return p, nil
}
