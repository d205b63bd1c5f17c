package input

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Script replays a fixed sequence of key sets, one per Poll. After the last
// frame it either loops or keeps returning the empty set.
type Script struct {
	frames []KeySet
	next   int
	loop   bool
}

// NewScript returns a Script over frames.
func NewScript(loop bool, frames ...KeySet) *Script {
	return &Script{frames: frames, loop: loop}
}

// ParseScript parses "keys*count" steps separated by commas, for example
// "w*30,w+d*30,*10" (ten frames with nothing pressed). A step without a
// count lasts one frame.
func ParseScript(s string, loop bool) (*Script, error) {
	script := &Script{loop: loop}
	for _, step := range strings.Split(s, ",") {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}

		keysPart, countPart, hasCount := strings.Cut(step, "*")
		count := 1
		if hasCount {
			n, err := strconv.Atoi(strings.TrimSpace(countPart))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("script step %q: invalid frame count", step)
			}
			count = n
		}

		keys, err := ParseKeys(keysPart)
		if err != nil {
			return nil, fmt.Errorf("script step %q: %w", step, err)
		}
		for i := 0; i < count; i++ {
			script.frames = append(script.frames, keys)
		}
	}
	return script, nil
}

// Len returns the number of frames in the script.
func (s *Script) Len() int {
	return len(s.frames)
}

// Done reports whether a non-looping script has played every frame.
func (s *Script) Done() bool {
	return !s.loop && s.next >= len(s.frames)
}

func (s *Script) Poll() KeySet {
	if len(s.frames) == 0 {
		return 0
	}
	if s.next >= len(s.frames) {
		if !s.loop {
			return 0
		}
		s.next = 0
	}
	keys := s.frames[s.next]
	s.next++
	return keys
}

// Random holds a random combination of the movement keys for a fixed number
// of frames before picking the next one. Combinations include opposing keys
// and the empty set.
type Random struct {
	rng     *rand.Rand
	hold    int
	current KeySet
	left    int
}

// NewRandom returns a Random source seeded with seed that changes keys every
// hold frames.
func NewRandom(seed uint64, hold int) *Random {
	return &Random{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		hold: max(hold, 1),
	}
}

var movementKeys = []Key{MoveLeft, MoveRight, MoveForward, MoveBackward}

func (r *Random) Poll() KeySet {
	if r.left == 0 {
		r.current = 0
		for _, k := range movementKeys {
			if r.rng.IntN(2) == 1 {
				r.current = r.current.With(k)
			}
		}
		r.left = r.hold
	}
	r.left--
	return r.current
}
