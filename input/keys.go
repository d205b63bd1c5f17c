// Package input holds per-frame keyboard state for systems and the fixed
// bindings that map keys to actions.
package input

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key the application reacts to.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyA
	KeyD
	KeyS
	KeyW
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
	KeyF1
	keyCount
)

// Fixed bindings.
const (
	MoveLeft     = KeyA
	MoveRight    = KeyD
	MoveForward  = KeyW
	MoveBackward = KeyS
	Exit         = KeyEscape
	ToggleDebug  = KeyF1
)

var keyNames = [keyCount]string{
	KeyUnknown: "unknown",
	KeyA:       "a",
	KeyD:       "d",
	KeyS:       "s",
	KeyW:       "w",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeySpace:   "space",
	KeyEscape:  "escape",
	KeyF1:      "f1",
}

func (k Key) String() string {
	if k >= keyCount {
		return fmt.Sprintf("Key(%d)", uint8(k))
	}
	return keyNames[k]
}

// Keys returns every known key except KeyUnknown.
func Keys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := KeyUnknown + 1; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// ParseKey resolves a key name as printed by Key.String.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := KeyUnknown + 1; k < keyCount; k++ {
		if keyNames[k] == name {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

// KeySet is a set of keys.
type KeySet uint32

// NewKeySet returns the set containing keys.
func NewKeySet(keys ...Key) KeySet {
	return KeySet(0).With(keys...)
}

// ParseKeys parses a "+"-separated list of key names such as "w+d". The
// empty string is the empty set.
func ParseKeys(s string) (KeySet, error) {
	var set KeySet
	if strings.TrimSpace(s) == "" {
		return set, nil
	}
	for _, name := range strings.Split(s, "+") {
		k, err := ParseKey(name)
		if err != nil {
			return 0, err
		}
		set = set.With(k)
	}
	return set, nil
}

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool {
	return k < keyCount && s&(1<<k) != 0
}

// With returns the set plus keys.
func (s KeySet) With(keys ...Key) KeySet {
	for _, k := range keys {
		if k < keyCount {
			s |= 1 << k
		}
	}
	return s
}

// Without returns the set minus keys.
func (s KeySet) Without(keys ...Key) KeySet {
	for _, k := range keys {
		s &^= 1 << k
	}
	return s
}

// Empty reports whether no key is in the set.
func (s KeySet) Empty() bool {
	return s == 0
}

// Slice returns the keys in the set in declaration order.
func (s KeySet) Slice() []Key {
	var keys []Key
	for k := KeyUnknown + 1; k < keyCount; k++ {
		if s.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s KeySet) String() string {
	keys := s.Slice()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, "+")
}
