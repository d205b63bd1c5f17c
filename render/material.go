package render

import (
	"image/color"

	"github.com/google/uuid"
	"github.com/plus3/screenspace/assets"
)

// MaterialKind selects how a material is shaded.
type MaterialKind int

const (
	// Standard is a flat colour lit by the directional light.
	Standard MaterialKind = iota
	// ScreenSpaceTexture samples its texture by screen position instead of
	// by surface coordinates, so the texture stays fixed to the window while
	// geometry moves across it. It is unlit.
	ScreenSpaceTexture
)

func (k MaterialKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case ScreenSpaceTexture:
		return "screenspace_texture"
	default:
		return "unknown"
	}
}

// ScreenSpaceShader is the fragment shader name of the screen-space material.
const ScreenSpaceShader = "screenspace_texture.wgsl"

// ScreenSpaceTextureType identifies the screen-space material type.
var ScreenSpaceTextureType = uuid.MustParse("b62bb455-a72c-4b56-87bb-81e0554e234f")

// Material describes the surface of a Drawable.
type Material struct {
	Kind    MaterialKind
	Color   color.RGBA
	Texture assets.Handle[assets.Image]
}

// ColorMaterial returns a standard material of colour c.
func ColorMaterial(c color.RGBA) Material {
	return Material{Kind: Standard, Color: c}
}

// ScreenSpaceMaterial returns a screen-space material sampling texture.
func ScreenSpaceMaterial(texture assets.Handle[assets.Image]) Material {
	return Material{Kind: ScreenSpaceTexture, Color: color.RGBA{0xff, 0xff, 0xff, 0xff}, Texture: texture}
}

// Shader returns the fragment shader the material is drawn with, or "" for
// the built-in standard shading.
func (m Material) Shader() string {
	if m.Kind == ScreenSpaceTexture {
		return ScreenSpaceShader
	}
	return ""
}

// TypeID returns the material type's UUID, or uuid.Nil for the built-in
// standard material.
func (m Material) TypeID() uuid.UUID {
	if m.Kind == ScreenSpaceTexture {
		return ScreenSpaceTextureType
	}
	return uuid.Nil
}

// Textured reports whether drawing the material samples a texture.
func (m Material) Textured() bool {
	return m.Kind == ScreenSpaceTexture && !m.Texture.IsZero()
}

var (
	White = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Black = color.RGBA{0, 0, 0, 0xff}
)
