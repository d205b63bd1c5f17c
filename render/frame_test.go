package render_test

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/assets"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/render"
	"github.com/plus3/screenspace/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func global(t spatial.Transform) spatial.GlobalTransform {
	return spatial.GlobalTransform{Matrix: t.Matrix()}
}

type world struct {
	storage   *ecs.Storage
	resources render.Resources
}

func newWorld() *world {
	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	render.RegisterComponents(registry)

	w := &world{storage: ecs.NewStorage(registry), resources: render.NewResources(nil)}
	w.storage.AddSingleton(w.resources)
	return w
}

func (w *world) camera(t spatial.Transform) {
	w.storage.Spawn(
		render.Camera{Projection: render.DefaultOrthographic(), Clear: color.RGBA{1, 2, 3, 255}},
		t, global(t),
	)
}

func (w *world) draw(mesh *render.Mesh, material render.Material, t spatial.Transform) ecs.EntityId {
	return w.storage.Spawn(
		render.Drawable{
			Mesh:     w.resources.Meshes.Add(*mesh),
			Material: w.resources.Materials.Add(material),
		},
		t, global(t),
	)
}

func TestProjector(t *testing.T) {
	camera := spatial.FromXYZ(0, 0, 10)
	p := render.NewProjector(camera.Matrix(), render.DefaultOrthographic(), 200, 100)

	x, y, depth, ok := p.Project(mgl32.Vec3{})
	assert.True(t, ok)
	assert.InDelta(t, 100, x, eps)
	assert.InDelta(t, 50, y, eps)
	assert.InDelta(t, 10, depth, eps)

	// The view is 2 units high and 4 wide; +Y is up on screen.
	x, y, _, _ = p.Project(mgl32.Vec3{1, 0.5, 0})
	assert.InDelta(t, 150, x, eps)
	assert.InDelta(t, 25, y, eps)

	_, _, _, ok = p.Project(mgl32.Vec3{0, 0, 11})
	assert.False(t, ok, "behind the camera")

	assert.True(t, p.FacesCamera(mgl32.Vec3{0, 0, 1}))
	assert.False(t, p.FacesCamera(mgl32.Vec3{0, 0, -1}))
	assert.False(t, p.FacesCamera(mgl32.Vec3{1, 0, 0}))
}

func TestProjectorFollowsCameraRotation(t *testing.T) {
	camera := spatial.FromXYZ(5, 5, 5).LookingAt(mgl32.Vec3{}, spatial.AxisY)
	projection := render.Orthographic{Scale: 3, FixedVertical: 2, Far: 1000}
	p := render.NewProjector(camera.Matrix(), projection, 600, 600)

	x, y, depth, ok := p.Project(mgl32.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 300, x, eps)
	assert.InDelta(t, 300, y, eps)
	assert.InDelta(t, mgl32.Vec3{5, 5, 5}.Len(), depth, eps)

	// World up projects upwards on screen.
	_, up, _, _ := p.Project(mgl32.Vec3{0, 1, 0})
	assert.Less(t, up, y)
}

func TestOrthographicViewSize(t *testing.T) {
	w, h := render.Orthographic{Scale: 3, FixedVertical: 2}.ViewSize(1280, 720)
	assert.InDelta(t, 6, h, eps)
	assert.InDelta(t, 6*1280.0/720.0, w, eps)
}

func TestBuildFrameCullsAndShades(t *testing.T) {
	w := newWorld()
	w.camera(spatial.FromXYZ(0, 0, 10))
	w.storage.Spawn(
		render.DirectionalLight{Color: render.White, Illuminance: 25000},
		spatial.NewTransform(), spatial.NewGlobalTransform(),
	)
	w.draw(render.NewCube(1), render.ColorMaterial(color.RGBA{255, 0, 0, 255}), spatial.NewTransform())

	frame, err := render.BuildFrame(w.storage, 200, 100)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{1, 2, 3, 255}, frame.Clear)
	// Only the face towards the camera survives.
	assert.Equal(t, 2, frame.Triangles)
	assert.Equal(t, 10, frame.Culled)
	require.Len(t, frame.Batches, 1)

	b := frame.Batches[0]
	assert.True(t, b.Texture.IsZero())
	assert.Len(t, b.Vertices, 6)
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5}, b.Indices)
	for _, v := range b.Vertices {
		// Light along -Z hits the +Z face head on.
		assert.InDelta(t, 1, v.R, eps)
		assert.Zero(t, v.G)
		assert.InDelta(t, 1, v.A, eps)
		assert.InDelta(t, 100, v.X, 25+eps)
		assert.InDelta(t, 50, v.Y, 25+eps)
	}
}

func TestBuildFrameAmbientOnly(t *testing.T) {
	w := newWorld()
	w.camera(spatial.FromXYZ(0, 0, 10))
	w.draw(render.NewCube(1), render.ColorMaterial(render.White), spatial.NewTransform())

	frame, err := render.BuildFrame(w.storage, 100, 100)
	require.NoError(t, err)
	require.Len(t, frame.Batches, 1)
	for _, v := range frame.Batches[0].Vertices {
		assert.InDelta(t, render.Ambient, v.R, eps)
	}
}

func TestBuildFramePainterOrder(t *testing.T) {
	w := newWorld()
	w.camera(spatial.FromXYZ(0, 0, 10))

	red := render.ColorMaterial(color.RGBA{255, 0, 0, 255})
	green := render.ColorMaterial(color.RGBA{0, 255, 0, 255})
	// Spawned near first; drawn far first.
	w.draw(render.NewCube(1), green, spatial.FromXYZ(0.2, 0, 2))
	w.draw(render.NewCube(1), red, spatial.FromXYZ(0, 0, -2))

	frame, err := render.BuildFrame(w.storage, 100, 100)
	require.NoError(t, err)
	require.Len(t, frame.Batches, 1)

	vertices := frame.Batches[0].Vertices
	require.Len(t, vertices, 12)
	assert.Positive(t, vertices[0].R)
	assert.Zero(t, vertices[0].G)
	assert.Zero(t, vertices[11].R)
	assert.Positive(t, vertices[11].G)
}

func TestBuildFrameScreenSpaceTexture(t *testing.T) {
	w := newWorld()
	w.camera(spatial.FromXYZ(0, 0, 10))

	texture := assets.HandleFor[assets.Image]("level.png")
	w.resources.Images.Insert(texture, assets.Image{Path: "level.png", Data: assets.Checkerboard()})

	// Far textured quad, then a solid cube in front of it, then another
	// textured quad in front of that: three batches.
	facing := spatial.NewTransform().WithRotation(mgl32.QuatRotate(mgl32.DegToRad(90), spatial.AxisX))
	back := facing
	back.Translation = mgl32.Vec3{0, 0, -3}
	front := facing
	front.Translation = mgl32.Vec3{0, 0, 3}

	w.draw(render.NewPlane(2), render.ScreenSpaceMaterial(texture), back)
	w.draw(render.NewCube(0.5), render.ColorMaterial(render.White), spatial.NewTransform())
	w.draw(render.NewPlane(0.5), render.ScreenSpaceMaterial(texture), front)

	frame, err := render.BuildFrame(w.storage, 200, 100)
	require.NoError(t, err)
	require.Len(t, frame.Batches, 3)

	assert.Equal(t, texture, frame.Batches[0].Texture)
	assert.True(t, frame.Batches[1].Texture.IsZero())
	assert.Equal(t, texture, frame.Batches[2].Texture)

	for _, v := range frame.Batches[0].Vertices {
		// Sampled by screen position and left unlit.
		assert.InDelta(t, v.X/200, v.U, eps)
		assert.InDelta(t, v.Y/100, v.V, eps)
		assert.InDelta(t, 1, v.R, eps)
	}
}

func TestBuildFrameErrors(t *testing.T) {
	t.Run("no camera", func(t *testing.T) {
		w := newWorld()
		_, err := render.BuildFrame(w.storage, 10, 10)
		assert.ErrorIs(t, err, render.ErrNoCamera)
		assert.ErrorIs(t, err, ecs.ErrNoMatch)
	})

	t.Run("two cameras", func(t *testing.T) {
		w := newWorld()
		w.camera(spatial.FromXYZ(0, 0, 10))
		w.camera(spatial.FromXYZ(0, 0, 20))
		_, err := render.BuildFrame(w.storage, 10, 10)
		assert.ErrorIs(t, err, ecs.ErrAmbiguousMatch)
	})

	t.Run("unknown mesh", func(t *testing.T) {
		w := newWorld()
		w.camera(spatial.FromXYZ(0, 0, 10))
		w.storage.Spawn(
			render.Drawable{
				Mesh:     assets.NewHandle[render.Mesh](),
				Material: w.resources.Materials.Add(render.ColorMaterial(render.White)),
			},
			spatial.NewTransform(), spatial.NewGlobalTransform(),
		)
		_, err := render.BuildFrame(w.storage, 10, 10)
		assert.ErrorIs(t, err, render.ErrUnknownHandle)
	})

	t.Run("no resources", func(t *testing.T) {
		registry := ecs.NewComponentRegistry()
		spatial.RegisterComponents(registry)
		render.RegisterComponents(registry)
		storage := ecs.NewStorage(registry)
		storage.Spawn(render.Camera{Projection: render.DefaultOrthographic()}, spatial.NewTransform(), spatial.NewGlobalTransform())

		_, err := render.BuildFrame(storage, 10, 10)
		assert.ErrorIs(t, err, render.ErrUnknownHandle)
	})
}

func TestMaterialShader(t *testing.T) {
	m := render.ScreenSpaceMaterial(assets.HandleFor[assets.Image]("level.png"))
	assert.Equal(t, "screenspace_texture.wgsl", m.Shader())
	assert.Equal(t, "b62bb455-a72c-4b56-87bb-81e0554e234f", m.TypeID().String())
	assert.True(t, m.Textured())
	assert.Equal(t, "screenspace_texture", m.Kind.String())

	plain := render.ColorMaterial(render.Black)
	assert.Empty(t, plain.Shader())
	assert.False(t, plain.Textured())
}
