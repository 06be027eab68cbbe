package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := New("test", reg)
	require.NoError(t, err)

	r.ObserveUpload(KindModel, 10, 5*time.Millisecond, nil)
	r.ObserveUpload(KindModel, 20, time.Millisecond, nil)
	r.ObserveUpload(KindPreview, 7, time.Millisecond, errors.New("boom"))
	r.ObservePresetSync(nil)
	r.ObservePresetLoad("local")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.uploadsTotal.WithLabelValues(KindModel, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploadsTotal.WithLabelValues(KindPreview, "error")))
	assert.Equal(t, 30.0, testutil.ToFloat64(r.uploadBytes.WithLabelValues(KindModel)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.uploadBytes.WithLabelValues(KindPreview)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.presetSyncs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.presetLoads.WithLabelValues("local")))
}

func TestRecorderDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New("dup", reg)
	require.NoError(t, err)
	_, err = New("dup", reg)
	require.Error(t, err)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveUpload(KindManifest, 1, time.Second, nil)
		r.ObservePresetSync(errors.New("x"))
		r.ObservePresetLoad("default")
	})
}
