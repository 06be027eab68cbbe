package viewer

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	ErrNoARCompanion = errors.New("viewer: no USDZ file for this variant")
	ErrARUnsupported = errors.New("viewer: platform does not support AR")
	ErrNoModel       = errors.New("viewer: model not found")
)

// Platform is the device family opening the viewer.
type Platform string

const (
	IOS     Platform = "ios"
	Android Platform = "android"
	Desktop Platform = "desktop"
)

// DetectPlatform classifies a User-Agent header.
func DetectPlatform(userAgent string) Platform {
	switch {
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"), strings.Contains(userAgent, "iPod"):
		return IOS
	case strings.Contains(userAgent, "Android"):
		return Android
	default:
		return Desktop
	}
}

// ARLaunchURL returns the link that opens a model in the native AR viewer:
// the USDZ file for AR Quick Look on iOS, a Scene Viewer intent on Android.
func ARLaunchURL(p Platform, modelURL string, usdzURL *string) (string, error) {
	if modelURL == "" {
		return "", ErrNoModel
	}
	switch p {
	case IOS:
		if usdzURL == nil || *usdzURL == "" {
			return "", ErrNoARCompanion
		}
		return *usdzURL, nil
	case Android:
		return "intent://arvr.google.com/scene-viewer/1.0?file=" + escapeComponent(modelURL) +
			"&mode=ar_preferred#Intent;scheme=https;package=com.google.android.googlequicksearchbox;end;", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrARUnsupported, p)
	}
}

// ARLaunch resolves the AR link for the variant at index. A negative index
// selects the default model.
func (v ShareView) ARLaunch(p Platform, index int) (string, error) {
	modelURL := v.ModelURL
	if index >= 0 {
		if index >= len(v.Variants) {
			return "", fmt.Errorf("%w: variant %d", ErrNoModel, index)
		}
		modelURL = v.Variants[index]
	}
	var usdz *string
	if i := slices.Index(v.Variants, modelURL); i >= 0 && i < len(v.USDZVariants) {
		usdz = v.USDZVariants[i]
	}
	return ARLaunchURL(p, modelURL, usdz)
}

func (v ARView) ARLaunch(p Platform) (string, error) {
	return ARLaunchURL(p, v.ModelURL, v.USDZURL)
}

// escapeComponent matches encodeURIComponent: spaces become %20, not +.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
