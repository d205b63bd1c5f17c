// Package ebiten reads keyboard state from the ebiten game loop.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/screenspace/input"
)

var keymap = map[input.Key]ebiten.Key{
	input.KeyA:      ebiten.KeyA,
	input.KeyD:      ebiten.KeyD,
	input.KeyS:      ebiten.KeyS,
	input.KeyW:      ebiten.KeyW,
	input.KeyUp:     ebiten.KeyArrowUp,
	input.KeyDown:   ebiten.KeyArrowDown,
	input.KeyLeft:   ebiten.KeyArrowLeft,
	input.KeyRight:  ebiten.KeyArrowRight,
	input.KeySpace:  ebiten.KeySpace,
	input.KeyEscape: ebiten.KeyEscape,
	input.KeyF1:     ebiten.KeyF1,
}

// Source polls ebiten for the keys in the input package's key table. It
// must be polled from the ebiten Update callback.
type Source struct{}

func (Source) Poll() input.KeySet {
	var keys input.KeySet
	for k, ek := range keymap {
		if ebiten.IsKeyPressed(ek) {
			keys = keys.With(k)
		}
	}
	return keys
}
