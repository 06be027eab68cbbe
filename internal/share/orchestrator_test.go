package share

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"modelshare/internal/blob"
	"modelshare/internal/manifest"
)

var errUpstream = errors.New("503 slow down")

type orderedStore struct {
	blob.Store
	mu     sync.Mutex
	keys   []string
	failOn string
}

func newOrderedStore() *orderedStore { return &orderedStore{Store: blob.NewMemory()} }

func (s *orderedStore) Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error) {
	if key == s.failOn {
		return blob.Info{}, errUpstream
	}
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	return s.Store.Put(ctx, key, r, opts)
}

func readJSON(t *testing.T, st blob.Store, key string, v any) {
	t.Helper()
	_, rc, err := st.Get(context.Background(), key)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	require.NoError(t, json.NewDecoder(rc).Decode(v))
}

func tinyPNG(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestShareSinglePrimary(t *testing.T) {
	st := newOrderedStore()
	o, err := New(st, "https://models.example.com")
	require.NoError(t, err)

	ref, err := o.Share(context.Background(), Request{Project: "demo", Variants: []manifest.Variant{{Model: []byte("robot")}}})
	require.NoError(t, err)
	assert.Equal(t, "https://models.example.com/share/demo", ref.URL)
	assert.Equal(t, RouteShare, ref.Route)
	assert.NotEmpty(t, ref.ID)
	assert.Equal(t, []string{"projects/demo/variant1.glb", "projects/demo/share-data.json"}, st.keys)
	assert.Equal(t, st.keys, ref.Uploaded)

	var raw map[string]any
	readJSON(t, st, manifest.ShareDataKey("demo"), &raw)
	url := "http://memory.blob/projects/demo/variant1.glb"
	assert.Equal(t, map[string]any{
		"modelUrl":     url,
		"skybox":       "city",
		"background":   "#EBEBEB",
		"variants":     []any{url},
		"usdzVariants": []any{nil},
		"previews":     []any{},
	}, raw)
}

func TestShareFullSequenceOrder(t *testing.T) {
	st := newOrderedStore()
	o, err := New(st, "https://models.example.com", WithSettings(Settings{Skybox: "night", Background: "#101010"}))
	require.NoError(t, err)

	img := tinyPNG(t)
	_, err = o.Share(context.Background(), Request{Project: "chair", Variants: []manifest.Variant{
		{Model: []byte("m0"), ARCompanion: []byte("u0"), Preview: img},
		{Name: "oak", Model: []byte("m1"), Preview: img, ARCompanion: []byte("u1")},
		{Name: "walnut", Model: []byte("m2")},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"projects/chair/variant1.glb",
		"projects/chair/variant1.usdz",
		"projects/chair/variant1-preview.webp",
		"projects/chair/oak.glb",
		"projects/chair/oak-preview.webp",
		"projects/chair/oak.usdz",
		"projects/chair/walnut.glb",
		"projects/chair/share-data.json",
	}, st.keys)

	var m manifest.ShareManifest
	readJSON(t, st, manifest.ShareDataKey("chair"), &m)
	assert.Equal(t, "night", m.Skybox)
	assert.Len(t, m.Variants, 3)
	assert.Len(t, m.USDZVariants, 3)
	assert.Nil(t, m.USDZVariants[2])
	assert.Len(t, m.Previews, 2)
}

func TestShareReuploadOverwritesSameKeys(t *testing.T) {
	st := newOrderedStore()
	o, err := New(st, "https://models.example.com")
	require.NoError(t, err)
	req := Request{Project: "demo", Variants: []manifest.Variant{{Model: []byte("v1")}, {Model: []byte("v2")}}}
	_, err = o.Share(context.Background(), req)
	require.NoError(t, err)
	_, err = o.Share(context.Background(), req)
	require.NoError(t, err)

	infos, err := st.List(context.Background(), "projects/demo/")
	require.NoError(t, err)
	assert.Len(t, infos, 3)
	assert.Equal(t, st.keys[:3], st.keys[3:])
}

func TestShareAbortsWithoutRollback(t *testing.T) {
	st := newOrderedStore()
	st.failOn = "projects/demo/variant2.glb"
	core, logs := observer.New(zapcore.ErrorLevel)
	o, err := New(st, "https://models.example.com", WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = o.Share(context.Background(), Request{Project: "demo", Variants: []manifest.Variant{
		{Model: []byte("a"), ARCompanion: []byte("au")},
		{Model: []byte("b")},
	}})
	var uerr *manifest.UploadError
	require.True(t, errors.As(err, &uerr))
	assert.True(t, errors.Is(err, errUpstream))
	assert.Equal(t, []string{"projects/demo/variant1.glb", "projects/demo/variant1.usdz"}, uerr.Completed)

	_, err = st.Head(context.Background(), "projects/demo/variant1.usdz")
	assert.NoError(t, err, "no rollback")
	_, err = st.Head(context.Background(), manifest.ShareDataKey("demo"))
	assert.True(t, errors.Is(err, blob.ErrNotFound), "manifest never written")
	assert.Equal(t, 1, logs.Len(), "failure logged once")
	entry := logs.All()[0]
	assert.Equal(t, "uploader", entry.ContextMap()["component"])
	assert.Equal(t, "demo", entry.ContextMap()["project"])
}

func TestShareManifestFailureReportsAllAssets(t *testing.T) {
	st := newOrderedStore()
	st.failOn = manifest.ShareDataKey("demo")
	o, err := New(st, "https://models.example.com")
	require.NoError(t, err)
	_, err = o.Share(context.Background(), Request{Project: "demo", Variants: []manifest.Variant{{Model: []byte("a")}}})
	var uerr *manifest.UploadError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, []string{"projects/demo/variant1.glb"}, uerr.Completed)
}

func TestShareAR(t *testing.T) {
	st := newOrderedStore()
	o, err := New(st, "https://models.example.com/")
	require.NoError(t, err)

	ref, err := o.ShareAR(context.Background(), ARRequest{Project: "demo", Model: []byte("glb"), ARCompanion: []byte("usdz")})
	require.NoError(t, err)
	assert.Equal(t, "https://models.example.com/share-ar/demo", ref.URL)
	assert.Equal(t, []string{"projects/demo/variant1.glb", "projects/demo/variant1.usdz", "projects/demo/share-ar-data.json"}, st.keys)

	var raw map[string]any
	readJSON(t, st, manifest.ARDataKey("demo"), &raw)
	assert.Equal(t, map[string]any{
		"modelUrl":   "http://memory.blob/projects/demo/variant1.glb",
		"usdzUrl":    "http://memory.blob/projects/demo/variant1.usdz",
		"skybox":     "city",
		"background": "#EBEBEB",
	}, raw)
}

func TestShareARWithoutCompanion(t *testing.T) {
	st := newOrderedStore()
	o, err := New(st, "https://models.example.com")
	require.NoError(t, err)
	_, err = o.ShareAR(context.Background(), ARRequest{Project: "demo", Model: []byte("glb")})
	require.NoError(t, err)

	var m manifest.ARManifest
	readJSON(t, st, manifest.ARDataKey("demo"), &m)
	assert.Nil(t, m.USDZURL)

	_, err = o.ShareAR(context.Background(), ARRequest{Project: "demo"})
	assert.True(t, errors.Is(err, ErrNoModel))
}

func TestValidation(t *testing.T) {
	_, err := New(newOrderedStore(), "/relative")
	assert.Error(t, err)
	_, err = New(newOrderedStore(), "https://x.example", WithSettings(Settings{Skybox: "mars", Background: "#FFFFFF"}))
	assert.True(t, errors.Is(err, ErrInvalidSettings))

	o, err := New(newOrderedStore(), "https://x.example")
	require.NoError(t, err)
	_, err = o.Share(context.Background(), Request{Project: "../etc", Variants: []manifest.Variant{{Model: []byte("a")}}})
	assert.True(t, errors.Is(err, ErrInvalidProject))
	_, err = o.Share(context.Background(), Request{Project: "demo", Settings: &Settings{Skybox: "city", Background: "white"}, Variants: []manifest.Variant{{Model: []byte("a")}}})
	assert.True(t, errors.Is(err, ErrInvalidSettings))
	_, err = o.Share(context.Background(), Request{Project: "demo"})
	assert.True(t, errors.Is(err, manifest.ErrNoVariants))
}

func TestReferenceEscapesProject(t *testing.T) {
	o, err := New(newOrderedStore(), "https://x.example")
	require.NoError(t, err)
	ref, err := o.Share(context.Background(), Request{Project: "my chair", Variants: []manifest.Variant{{Model: []byte("a")}}})
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/share/my%20chair", ref.URL)
}

func TestShareOverS3UsesSignedURLs(t *testing.T) {
	st := blob.NewMockS3ForTests()
	o, err := New(st, "https://models.example.com")
	require.NoError(t, err)

	_, err = o.Share(context.Background(), Request{Project: "demo", Variants: []manifest.Variant{
		{Model: []byte("a"), ARCompanion: []byte("a-usdz")},
		{Name: "red", Model: []byte("b")},
	}})
	require.NoError(t, err)

	var doc manifest.ShareManifest
	readJSON(t, st, manifest.ShareDataKey("demo"), &doc)
	require.Len(t, doc.Variants, 2)
	assert.Contains(t, doc.Variants[0], "/projects/demo/variant1.glb?")
	assert.Contains(t, doc.Variants[1], "/projects/demo/red.glb?")
	assert.Contains(t, doc.Variants[0], "X-Amz-Signature=")
	require.NotNil(t, doc.USDZVariants[0])
	assert.Contains(t, *doc.USDZVariants[0], "/projects/demo/variant1.usdz?")
	assert.Nil(t, doc.USDZVariants[1])
}
