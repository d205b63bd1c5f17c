package input

import "github.com/plus3/screenspace/ecs"

// Keyboard is the per-frame keyboard state, stored as a singleton and
// refreshed once per frame by PollSystem. Systems only read it.
type Keyboard struct {
	current  KeySet
	previous KeySet
}

// Pressed reports whether k is held down this frame.
func (k *Keyboard) Pressed(key Key) bool {
	return k.current.Has(key)
}

// JustPressed reports whether k went down this frame.
func (k *Keyboard) JustPressed(key Key) bool {
	return k.current.Has(key) && !k.previous.Has(key)
}

// JustReleased reports whether k went up this frame.
func (k *Keyboard) JustReleased(key Key) bool {
	return !k.current.Has(key) && k.previous.Has(key)
}

// Keys returns the set of keys held down this frame.
func (k *Keyboard) Keys() KeySet {
	return k.current
}

// Set advances the keyboard to the next frame's key state.
func (k *Keyboard) Set(next KeySet) {
	k.previous = k.current
	k.current = next
}

// Source produces the set of keys held down at the time of the call.
type Source interface {
	Poll() KeySet
}

// SourceFunc adapts a function to Source.
type SourceFunc func() KeySet

func (f SourceFunc) Poll() KeySet {
	return f()
}

// PollSystem refreshes the Keyboard singleton from Source. Register it before
// any system that reads the keyboard.
type PollSystem struct {
	Keyboard ecs.Singleton[Keyboard]
	Source   Source
}

func (s *PollSystem) Execute(frame *ecs.UpdateFrame) {
	var keys KeySet
	if s.Source != nil {
		keys = s.Source.Poll()
	}
	s.Keyboard.Get().Set(keys)
}

// Install creates the Keyboard singleton. Call it before registering
// systems that reference the keyboard.
func Install(storage *ecs.Storage) *ecs.Singleton[Keyboard] {
	return ecs.NewSingleton[Keyboard](storage)
}
