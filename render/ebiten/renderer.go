// Package ebiten draws render frames with ebiten's triangle API.
package ebiten

import (
	"image"
	"image/color"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/screenspace/assets"
	"github.com/plus3/screenspace/render"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Renderer draws frames to an ebiten image. Textures are uploaded on first
// use and kept until Forget.
type Renderer struct {
	images   *assets.Assets[assets.Image]
	textures map[uuid.UUID]*ebiten.Image
	scratch  []ebiten.Vertex
}

// NewRenderer returns a renderer resolving texture handles in images.
func NewRenderer(images *assets.Assets[assets.Image]) *Renderer {
	return &Renderer{
		images:   images,
		textures: make(map[uuid.UUID]*ebiten.Image),
	}
}

// Draw clears screen and draws every batch of frame in order.
func (r *Renderer) Draw(screen *ebiten.Image, frame render.Frame) {
	screen.Fill(frame.Clear)

	for _, batch := range frame.Batches {
		src, w, h := r.source(batch.Texture)
		r.scratch = Vertices(r.scratch[:0], batch, w, h)

		op := &ebiten.DrawTrianglesOptions{}
		if src != whiteSubImage {
			op.Address = ebiten.AddressRepeat
		}
		screen.DrawTriangles(r.scratch, batch.Indices, src, op)
	}
}

// source returns the image a batch samples and its size. Solid batches and
// batches whose texture is missing draw from a single white pixel.
func (r *Renderer) source(h assets.Handle[assets.Image]) (*ebiten.Image, float32, float32) {
	if h.IsZero() {
		return whiteSubImage, 0, 0
	}

	tex, ok := r.textures[h.ID]
	if !ok {
		img := r.images.Get(h)
		if img == nil || img.Data == nil {
			return whiteSubImage, 0, 0
		}
		tex = ebiten.NewImageFromImage(img.Data)
		r.textures[h.ID] = tex
	}
	b := tex.Bounds()
	return tex, float32(b.Dx()), float32(b.Dy())
}

// Forget drops the uploaded copy of a texture so the next draw uploads it
// again.
func (r *Renderer) Forget(h assets.Handle[assets.Image]) {
	if tex, ok := r.textures[h.ID]; ok {
		tex.Deallocate()
		delete(r.textures, h.ID)
	}
}

// Vertices appends batch's vertices to dst in ebiten form. Texture
// coordinates are scaled to a texture of texW×texH pixels; with a zero size
// they point at the centre of the white pixel.
func Vertices(dst []ebiten.Vertex, batch render.Batch, texW, texH float32) []ebiten.Vertex {
	for _, v := range batch.Vertices {
		sx, sy := float32(1), float32(1)
		if texW > 0 && texH > 0 {
			sx, sy = v.U*texW, v.V*texH
		}
		dst = append(dst, ebiten.Vertex{
			DstX:   v.X,
			DstY:   v.Y,
			SrcX:   sx,
			SrcY:   sy,
			ColorR: v.R,
			ColorG: v.G,
			ColorB: v.B,
			ColorA: v.A,
		})
	}
	return dst
}
