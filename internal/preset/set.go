// Package preset manages the four saved poses of a project and keeps them in
// sync with the Blob Store and the local cache mirror.
package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"modelshare/internal/blob"
	"modelshare/internal/transform"
)

// Slots. Slot 0 holds the pose captured at model load; 1-3 are user slots.
const (
	OriginalSlot = 0
	FirstSlot    = 1
	LastSlot     = 3
	SlotCount    = 4
)

// DocumentName is the preset document file inside a project folder.
const DocumentName = "transform-presets.json"

var (
	ErrInvalidSlot = errors.New("preset: slot must be 1, 2 or 3")
	// ErrMalformed marks a preset document that is not a 4-element array.
	ErrMalformed = errors.New("preset: malformed document")
)

// Set is the ordered slot array. A nil entry is an empty slot.
type Set [SlotCount]*transform.Transform

// DefaultSet is used when neither the remote nor the local tier answers.
func DefaultSet() Set {
	front := transform.Identity()
	side := transform.Yaw(90)
	back := transform.Yaw(180)
	return Set{nil, &front, &side, &back}
}

// Clone copies every slot so the result shares no pointers with s.
func (s Set) Clone() Set {
	var out Set
	for i, t := range s {
		if t != nil {
			c := *t
			out[i] = &c
		}
	}
	return out
}

// MarshalJSON writes the persisted document. Slot 0 is never persisted and is
// always written as null.
func (s Set) MarshalJSON() ([]byte, error) {
	doc := [SlotCount]*transform.Transform{nil, s[1], s[2], s[3]}
	return json.Marshal(doc)
}

// UnmarshalJSON accepts exactly four entries; slot 0 is left empty whatever
// the document holds.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw []*transform.Transform
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) != SlotCount {
		return fmt.Errorf("%w: %d entries, want %d", ErrMalformed, len(raw), SlotCount)
	}
	*s = Set{nil, raw[1], raw[2], raw[3]}
	return nil
}

// Encode renders the document as written to storage.
func Encode(s Set) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a stored document. Every failure matches ErrMalformed.
func Decode(data []byte) (Set, error) {
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		if errors.Is(err, ErrMalformed) {
			return Set{}, err
		}
		return Set{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, nil
}

// DocumentKey is projects/{project}/transform-presets.json.
func DocumentKey(project string) string {
	return blob.ProjectKey(project, DocumentName)
}

func validSlot(slot int) bool { return slot >= FirstSlot && slot <= LastSlot }
