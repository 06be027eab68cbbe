package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fs", cfg.Blob.Driver)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "city", cfg.Share.Skybox)
	assert.Equal(t, "#EBEBEB", cfg.Share.Background)
	assert.Equal(t, 40.0, cfg.Scene.FOV)
	assert.Equal(t, time.Hour, cfg.Blob.S3.URLExpiry)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modelshare.yaml")
	yml := `
blob:
  driver: memory
cache:
  driver: redis
  redis:
    addr: cache:6379
share:
  skybox: night
  upload_rate: 2.5
scene:
  fov: 60
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("MODELSHARE_SHARE_SKYBOX", "forest")
	t.Setenv("MODELSHARE_CACHE_REDIS_DB", "3")
	t.Setenv("MODELSHARE_BLOB_S3_URL_EXPIRY", "15m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Blob.Driver)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 3, cfg.Cache.Redis.DB)
	assert.Equal(t, "forest", cfg.Share.Skybox, "env overrides yaml")
	assert.Equal(t, 2.5, cfg.Share.UploadRate)
	assert.Equal(t, 60.0, cfg.Scene.FOV)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 15*time.Minute, cfg.Blob.S3.URLExpiry)
	assert.Equal(t, "#EBEBEB", cfg.Share.Background, "untouched default")
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("MODELSHARE_SCENE_FOV", "wide")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MODELSHARE_SCENE_FOV")
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blob: [unterminated"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Blob.Driver = "tape"
	cfg.Cache.Driver = "postgres"
	cfg.Share.Background = "white"
	cfg.Share.Origin = "not a url"
	cfg.Scene.FOV = 180
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"blob.driver", "postgres_dsn", "share.background", "share.origin", "scene.fov", "log.format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateS3NeedsBucket(t *testing.T) {
	cfg := Default()
	cfg.Blob.Driver = "s3"
	require.Error(t, cfg.Validate())
	cfg.Blob.S3.Bucket = "models"
	require.NoError(t, cfg.Validate())
}
