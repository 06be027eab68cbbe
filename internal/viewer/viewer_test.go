package viewer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelshare/internal/blob"
	"modelshare/internal/manifest"
	"modelshare/internal/preset"
	"modelshare/internal/share"
	"modelshare/internal/transform"
)

func put(t *testing.T, store blob.Store, key, body string) {
	t.Helper()
	_, err := store.Put(context.Background(), key, bytes.NewReader([]byte(body)), blob.PutOptions{ContentType: blob.ContentTypeJSON})
	require.NoError(t, err)
}

func TestShareRoundTripThroughOrchestrator(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	orch, err := share.New(store, "https://viewer.example")
	require.NoError(t, err)
	_, err = orch.Share(ctx, share.Request{
		Project: "chair",
		Variants: []manifest.Variant{
			{Model: []byte("glb-a"), ARCompanion: []byte("usdz-a")},
			{Model: []byte("glb-b")},
		},
	})
	require.NoError(t, err)

	v, found, err := NewReader(store, nil).Share(ctx, "chair")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, v.Variants, 2)
	assert.Equal(t, v.Variants[0], v.ModelURL)
	assert.Equal(t, "city", v.Skybox)
	assert.Equal(t, "#EBEBEB", v.Background)
	require.Len(t, v.USDZVariants, 2)
	require.NotNil(t, v.USDZVariants[0])
	assert.Nil(t, v.USDZVariants[1])

	link, err := v.ARLaunch(IOS, -1)
	require.NoError(t, err)
	assert.Equal(t, *v.USDZVariants[0], link)

	_, err = v.ARLaunch(IOS, 1)
	assert.ErrorIs(t, err, ErrNoARCompanion)

	_, err = v.ARLaunch(Android, 5)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestShareMissingManifest(t *testing.T) {
	_, found, err := NewReader(blob.NewMemory(), nil).Share(context.Background(), "nothing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestShareInvalidProject(t *testing.T) {
	_, _, err := NewReader(blob.NewMemory(), nil).Share(context.Background(), "../etc")
	assert.Error(t, err)
}

func TestShareDefaultsAndFallbackModel(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	put(t, store, manifest.ShareDataKey("lamp"), `{"modelUrl":"","variants":[]}`)
	put(t, store, manifest.ModelKey("lamp", "variant1"), "glb")

	v, found, err := NewReader(store, nil).Share(ctx, "lamp")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, DefaultSkybox, v.Skybox)
	assert.Equal(t, DefaultBackground, v.Background)
	assert.Equal(t, "http://memory.blob/projects/lamp/variant1.glb", v.ModelURL)
	assert.NotNil(t, v.Previews)
	assert.NotNil(t, v.USDZVariants)
}

func TestShareDuplicateVariantsPickFirst(t *testing.T) {
	store := blob.NewMemory()
	put(t, store, manifest.ShareDataKey("p"), `{"variants":["","https://a","https://a","https://b"]}`)
	v, _, err := NewReader(store, nil).Share(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "https://a", v.ModelURL)
}

func TestShareMalformedManifest(t *testing.T) {
	store := blob.NewMemory()
	put(t, store, manifest.ShareDataKey("p"), `{not json`)
	_, _, err := NewReader(store, nil).Share(context.Background(), "p")
	assert.Error(t, err)
}

func TestARViewThroughOrchestrator(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	orch, err := share.New(store, "https://viewer.example")
	require.NoError(t, err)
	_, err = orch.ShareAR(ctx, share.ARRequest{Project: "stool", Model: []byte("glb")})
	require.NoError(t, err)

	v, found, err := NewReader(store, nil).AR(ctx, "stool")
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, v.USDZURL)

	_, err = v.ARLaunch(IOS)
	assert.ErrorIs(t, err, ErrNoARCompanion)
	link, err := v.ARLaunch(Android)
	require.NoError(t, err)
	assert.Contains(t, link, "intent://arvr.google.com/scene-viewer/1.0?file=http%3A%2F%2Fmemory.blob")
	_, err = v.ARLaunch(Desktop)
	assert.ErrorIs(t, err, ErrARUnsupported)
}

func TestARLaunchURLEscapesLikeURIComponent(t *testing.T) {
	link, err := ARLaunchURL(Android, "https://x/a b.glb", nil)
	require.NoError(t, err)
	assert.Equal(t, "intent://arvr.google.com/scene-viewer/1.0?file=https%3A%2F%2Fx%2Fa%20b.glb"+
		"&mode=ar_preferred#Intent;scheme=https;package=com.google.android.googlequicksearchbox;end;", link)

	_, err = ARLaunchURL(Android, "", nil)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestDetectPlatform(t *testing.T) {
	cases := map[string]Platform{
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)": IOS,
		"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)":          IOS,
		"Mozilla/5.0 (Linux; Android 14; Pixel 8)":               Android,
		"Mozilla/5.0 (X11; Linux x86_64)":                        Desktop,
		"":                                                       Desktop,
	}
	for ua, want := range cases {
		assert.Equal(t, want, DetectPlatform(ua), ua)
	}
}

func TestViewsLabelsFilledSlots(t *testing.T) {
	var set preset.Set
	front := transform.Identity()
	back := transform.Yaw(180)
	set[1] = &front
	set[3] = &back

	views := Views(set)
	require.Len(t, views, 2)
	assert.Equal(t, PresetView{Slot: 1, Label: "Front", Transform: front}, views[0])
	assert.Equal(t, "Back", views[1].Label)
	assert.Equal(t, "", PresetLabel(0))
	assert.Equal(t, "Side", PresetLabel(2))
	assert.Empty(t, Views(preset.Set{}))
}
