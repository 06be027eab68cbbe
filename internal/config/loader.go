package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads defaults, the YAML file at path (skipped when path is empty or
// the file does not exist) and MODELSHARE_* overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := applyEnv(reflect.ValueOf(cfg).Elem(), EnvPrefix); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		tag := t.Field(i).Tag.Get("env")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + "_" + tag
		if field.Kind() == reflect.Struct {
			if err := applyEnv(field, key); err != nil {
				return err
			}
			continue
		}
		raw, ok := os.LookupEnv(key)
		if !ok || raw == "" {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Blob.Driver {
	case "fs", "s3", "memory":
	default:
		errs = append(errs, fmt.Errorf("blob.driver %q must be fs, s3 or memory", c.Blob.Driver))
	}
	if c.Blob.Driver == "s3" && c.Blob.S3.Bucket == "" {
		errs = append(errs, errors.New("blob.s3.bucket is required for the s3 driver"))
	}
	switch c.Cache.Driver {
	case "memory", "sqlite", "postgres", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.driver %q must be memory, sqlite, postgres or redis", c.Cache.Driver))
	}
	if c.Cache.Driver == "postgres" && c.Cache.PostgresDSN == "" {
		errs = append(errs, errors.New("cache.postgres_dsn is required for the postgres driver"))
	}
	if u, err := url.Parse(c.Share.Origin); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("share.origin %q must be an absolute URL", c.Share.Origin))
	}
	if !hexColor.MatchString(c.Share.Background) {
		errs = append(errs, fmt.Errorf("share.background %q must be #RRGGBB", c.Share.Background))
	}
	if c.Share.UploadRate < 0 || c.Share.UploadBurst < 0 {
		errs = append(errs, errors.New("share.upload_rate and share.upload_burst must not be negative"))
	}
	if c.Share.PreviewSize <= 0 {
		errs = append(errs, errors.New("share.preview_size must be positive"))
	}
	if c.Scene.FOV <= 0 || c.Scene.FOV >= 180 {
		errs = append(errs, fmt.Errorf("scene.fov %v must be in (0,180)", c.Scene.FOV))
	}
	if c.Scene.MarginFactor < 0 {
		errs = append(errs, errors.New("scene.margin_factor must not be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is unknown", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", c.Log.Format))
	}
	return errors.Join(errs...)
}
