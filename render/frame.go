package render

import (
	"cmp"
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/assets"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/spatial"
)

var (
	// ErrNoCamera is returned when the scene has no camera, or more than one.
	ErrNoCamera = errors.New("no single camera")
	// ErrUnknownHandle is returned when a Drawable refers to a mesh or
	// material that is not in Resources.
	ErrUnknownHandle = errors.New("unknown asset handle")
)

// Ambient is the light level of surfaces facing away from the light.
const Ambient = 0.35

// maxBatchVertices keeps batch indices within uint16.
const maxBatchVertices = 1 << 16

// Vertex is a projected vertex. U and V are texture coordinates in [0, 1];
// R, G, B and A multiply the texture sample or, without a texture, are the
// colour itself.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// Batch is a run of triangles sharing one texture, in drawing order.
type Batch struct {
	// Texture is zero for solid-colour batches.
	Texture  assets.Handle[assets.Image]
	Vertices []Vertex
	Indices  []uint16
}

// Frame is everything needed to draw one image.
type Frame struct {
	Width, Height int
	Clear         color.RGBA
	Batches       []Batch
	Triangles     int
	Culled        int
}

type triangle struct {
	vertices [3]Vertex
	// far is the depth of the farthest vertex, mean the average depth.
	far, mean float32
	texture   assets.Handle[assets.Image]
}

type cameraView = struct {
	*Camera
	*spatial.GlobalTransform
}

type lightView = struct {
	*DirectionalLight
	*spatial.GlobalTransform
}

type drawableView = struct {
	ecs.EntityId
	*Drawable
	*spatial.GlobalTransform
}

type light struct {
	direction mgl32.Vec3
	color     mgl32.Vec3
}

// Builder builds frames from a storage. Transforms must have been propagated
// first.
type Builder struct {
	Cameras   *ecs.Query[cameraView]
	Lights    *ecs.Query[lightView]
	Drawables *ecs.Query[drawableView]
	Resources ecs.Singleton[Resources]

	triangles []triangle
}

// NewBuilder returns a builder reading from storage.
func NewBuilder(storage *ecs.Storage) *Builder {
	b := &Builder{
		Cameras:   ecs.NewQuery[cameraView](storage),
		Lights:    ecs.NewQuery[lightView](storage),
		Drawables: ecs.NewQuery[drawableView](storage),
	}
	b.Resources.Init(storage)
	return b
}

// Build projects, shades and sorts every drawable for a width×height
// viewport.
func (b *Builder) Build(width, height int) (Frame, error) {
	cam, err := b.Cameras.Single()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %w", ErrNoCamera, err)
	}
	projector := NewProjector(cam.GlobalTransform.Matrix, cam.Camera.Projection, width, height)
	lights := b.lights()
	res := b.Resources.Get()
	if res == nil || res.Meshes == nil || res.Materials == nil {
		return Frame{}, fmt.Errorf("render resources: %w", ErrUnknownHandle)
	}

	frame := Frame{Width: width, Height: height, Clear: cam.Camera.Clear}
	b.triangles = b.triangles[:0]

	for item := range b.Drawables.Iter() {
		mesh := res.Meshes.Get(item.Drawable.Mesh)
		if mesh == nil {
			return Frame{}, fmt.Errorf("entity %d mesh %s: %w", item.EntityId, item.Drawable.Mesh.ID, ErrUnknownHandle)
		}
		material := res.Materials.Get(item.Drawable.Material)
		if material == nil {
			return Frame{}, fmt.Errorf("entity %d material %s: %w", item.EntityId, item.Drawable.Material.ID, ErrUnknownHandle)
		}
		frame.Culled += b.appendMesh(mesh, material, item.GlobalTransform.Matrix, projector, lights)
	}

	// Painter's order by farthest vertex, so large ground triangles go down
	// before anything standing on them. Stable so coplanar faces keep mesh
	// order between frames.
	slices.SortStableFunc(b.triangles, func(x, y triangle) int {
		if c := cmp.Compare(y.far, x.far); c != 0 {
			return c
		}
		return cmp.Compare(y.mean, x.mean)
	})

	frame.Triangles = len(b.triangles)
	frame.Batches = batch(b.triangles)
	return frame, nil
}

func (b *Builder) lights() []light {
	var lights []light
	for item := range b.Lights.Iter() {
		dir := mgl32.TransformNormal(mgl32.Vec3{0, 0, -1}, item.GlobalTransform.Matrix).Normalize()
		strength := min(item.DirectionalLight.Illuminance/FullIlluminance, 1)
		lights = append(lights, light{
			direction: dir,
			color:     rgb(item.DirectionalLight.Color).Mul(strength),
		})
	}
	return lights
}

// appendMesh adds the visible triangles of mesh and returns how many were
// culled.
func (b *Builder) appendMesh(mesh *Mesh, material *Material, world mgl32.Mat4, projector Projector, lights []light) int {
	normalMatrix := world.Inv().Transpose()
	base := rgb(material.Color)
	alpha := float32(material.Color.A) / 0xff
	culled := 0

	for f := 0; f+2 < len(mesh.Indices); f += 3 {
		var tri triangle
		var normal mgl32.Vec3
		outside := 0

		for k := range 3 {
			i := mesh.Indices[f+k]
			x, y, depth, ok := projector.Project(mgl32.TransformCoordinate(mesh.Positions[i], world))
			if !ok {
				outside++
			}
			normal = normal.Add(mgl32.TransformNormal(mesh.Normals[i], normalMatrix))
			tri.vertices[k] = Vertex{X: x, Y: y}
			tri.mean += depth / 3
			if k == 0 || depth > tri.far {
				tri.far = depth
			}
		}

		// Without clipping, a triangle is dropped only when it lies
		// entirely outside the depth range.
		if outside == 3 || normal.Len() == 0 || !projector.FacesCamera(normal) {
			culled++
			continue
		}

		shade := base
		if material.Kind == Standard {
			shade = shadeLambert(base, normal.Normalize(), lights)
		}
		for k := range tri.vertices {
			v := &tri.vertices[k]
			v.R, v.G, v.B, v.A = shade.X(), shade.Y(), shade.Z(), alpha
		}

		if material.Textured() {
			tri.texture = material.Texture
			for k := range tri.vertices {
				v := &tri.vertices[k]
				v.U = v.X / projector.width
				v.V = v.Y / projector.height
			}
		}
		b.triangles = append(b.triangles, tri)
	}
	return culled
}

func shadeLambert(base, normal mgl32.Vec3, lights []light) mgl32.Vec3 {
	level := mgl32.Vec3{Ambient, Ambient, Ambient}
	for _, l := range lights {
		diffuse := max(normal.Dot(l.direction.Mul(-1)), 0) * (1 - Ambient)
		level = level.Add(l.color.Mul(diffuse))
	}
	return mgl32.Vec3{
		base.X() * min(level.X(), 1),
		base.Y() * min(level.Y(), 1),
		base.Z() * min(level.Z(), 1),
	}
}

func rgb(c color.RGBA) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 0xff, float32(c.G) / 0xff, float32(c.B) / 0xff}
}

// batch groups consecutive triangles with the same texture.
func batch(triangles []triangle) []Batch {
	var batches []Batch
	for _, tri := range triangles {
		n := len(batches)
		if n == 0 || batches[n-1].Texture != tri.texture || len(batches[n-1].Vertices)+3 > maxBatchVertices {
			batches = append(batches, Batch{Texture: tri.texture})
			n++
		}
		current := &batches[n-1]
		first := uint16(len(current.Vertices))
		current.Vertices = append(current.Vertices, tri.vertices[:]...)
		current.Indices = append(current.Indices, first, first+1, first+2)
	}
	return batches
}

// BuildFrame builds a single frame from storage. Systems drawing every frame
// should keep a Builder instead.
func BuildFrame(storage *ecs.Storage, width, height int) (Frame, error) {
	return NewBuilder(storage).Build(width, height)
}
