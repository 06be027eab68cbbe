package share

import (
	"fmt"
	"regexp"
	"slices"

	"modelshare/internal/manifest"
)

// Skyboxes are the environment presets the viewer can render.
var Skyboxes = []string{"apartment", "city", "dawn", "forest", "lobby", "night", "park", "studio", "sunset", "warehouse"}

var backgroundPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Settings are the display settings written into a share manifest.
type Settings struct {
	Skybox     string `json:"skybox"`
	Background string `json:"background"`
}

// DefaultSettings match the editor's initial environment.
func DefaultSettings() Settings {
	return Settings{Skybox: "city", Background: "#EBEBEB"}
}

func (s Settings) Validate() error {
	if !slices.Contains(Skyboxes, s.Skybox) {
		return fmt.Errorf("%w: unknown skybox %q", ErrInvalidSettings, s.Skybox)
	}
	if !backgroundPattern.MatchString(s.Background) {
		return fmt.Errorf("%w: background %q must be #RRGGBB", ErrInvalidSettings, s.Background)
	}
	return nil
}

func (s Settings) display() manifest.Display {
	return manifest.Display{Skybox: s.Skybox, Background: s.Background}
}
