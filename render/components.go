// Package render turns the scene's drawable entities into screen-space
// triangle batches for an orthographic camera. It is a small software
// pipeline: flat shading, back-face culling and painter's ordering, with no
// depth buffer.
package render

import (
	"image/color"

	"github.com/plus3/screenspace/assets"
	"github.com/plus3/screenspace/ecs"
)

// Orthographic is a parallel projection. The visible height in world units
// is FixedVertical×Scale; the width follows the viewport aspect ratio.
type Orthographic struct {
	Scale         float32
	FixedVertical float32
	Near, Far     float32
}

// DefaultOrthographic returns a projection two units high with a depth range
// of [0, 1000].
func DefaultOrthographic() Orthographic {
	return Orthographic{Scale: 1, FixedVertical: 2, Near: 0, Far: 1000}
}

// ViewSize returns the visible width and height in world units for a
// viewport of the given pixel size.
func (o Orthographic) ViewSize(width, height int) (w, h float32) {
	h = o.FixedVertical * o.Scale
	if height <= 0 {
		return h, h
	}
	return h * float32(width) / float32(height), h
}

// Camera renders the scene from its entity's GlobalTransform, looking down
// its local -Z axis.
type Camera struct {
	Projection Orthographic
	Clear      color.RGBA
}

// DirectionalLight lights the scene from its entity's -Z axis.
type DirectionalLight struct {
	Color color.RGBA
	// Illuminance in lux. FullIlluminance and above give full-strength
	// diffuse light.
	Illuminance float32
}

// FullIlluminance is the illuminance at which diffuse lighting saturates.
const FullIlluminance = 10000

// Drawable is a mesh drawn with a material at its entity's GlobalTransform.
type Drawable struct {
	Mesh     assets.Handle[Mesh]
	Material assets.Handle[Material]
}

// Resources holds the mesh, material and image tables drawables refer to.
// It is stored as a singleton.
type Resources struct {
	Meshes    *assets.Assets[Mesh]
	Materials *assets.Assets[Material]
	Images    *assets.Assets[assets.Image]
}

// NewResources returns empty mesh and material tables sharing images.
func NewResources(images *assets.Assets[assets.Image]) Resources {
	if images == nil {
		images = assets.New[assets.Image]()
	}
	return Resources{
		Meshes:    assets.New[Mesh](),
		Materials: assets.New[Material](),
		Images:    images,
	}
}

// RegisterComponents registers the render component types.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[DirectionalLight](registry)
	ecs.RegisterComponent[Drawable](registry)
}
