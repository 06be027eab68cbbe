package viewer

import (
	"modelshare/internal/preset"
	"modelshare/internal/transform"
)

var presetLabels = [preset.SlotCount]string{"", "Front", "Side", "Back"}

// PresetLabel is the display name of a user slot, or "" for anything else.
func PresetLabel(slot int) string {
	if slot < preset.FirstSlot || slot > preset.LastSlot {
		return ""
	}
	return presetLabels[slot]
}

// PresetView is a labeled, non-empty user slot.
type PresetView struct {
	Slot      int                 `json:"slot"`
	Label     string              `json:"label"`
	Transform transform.Transform `json:"transform"`
}

// Views lists the filled user slots of set in slot order.
func Views(set preset.Set) []PresetView {
	var out []PresetView
	for slot := preset.FirstSlot; slot <= preset.LastSlot; slot++ {
		if set[slot] == nil {
			continue
		}
		out = append(out, PresetView{Slot: slot, Label: PresetLabel(slot), Transform: *set[slot]})
	}
	return out
}
