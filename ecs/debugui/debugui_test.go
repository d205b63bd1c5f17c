package debugui

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	Position mgl32.Vec3
	Name     string
	hidden   int
}

type tag struct{}

func TestReflectionCache(t *testing.T) {
	cache := NewReflectionCache()
	fields := cache.GetFields(reflect.TypeFor[probe]())

	require.Len(t, fields, 2)
	assert.Equal(t, "Position", fields[0].Name)
	assert.Equal(t, 0, fields[0].Index)
	assert.Equal(t, "Name", fields[1].Name)
	assert.Equal(t, 1, fields[1].Index)

	assert.Nil(t, cache.GetFields(reflect.TypeFor[int]()))
	assert.Equal(t, fields, cache.GetFields(reflect.TypeFor[probe]()))
}

func TestCollectAndFilterEntities(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[probe](registry)
	ecs.RegisterComponent[tag](registry)
	storage := ecs.NewStorage(registry)

	a := storage.Spawn(probe{Name: "a"})
	b := storage.Spawn(probe{Name: "b"}, tag{})
	c := storage.Spawn(tag{})

	entities := CollectEntities(storage)
	require.Len(t, entities, 3)
	assert.Equal(t, []ecs.EntityId{a, b, c}, []ecs.EntityId{entities[0].ID, entities[1].ID, entities[2].ID})
	assert.Equal(t, []string{"debugui.probe"}, entities[0].ComponentTypes)
	assert.Len(t, entities[1].Types, 2)

	tagged := FilterEntities(entities, "TAG")
	require.Len(t, tagged, 2)
	assert.Equal(t, b, tagged[0].ID)
	assert.Equal(t, c, tagged[1].ID)

	assert.Len(t, FilterEntities(entities, ""), 3)
	assert.Empty(t, FilterEntities(entities, "nothing"))
}

func TestFrameHistory(t *testing.T) {
	h := NewFrameHistory(4)
	assert.Zero(t, h.Average())

	h.Record(0.010)
	h.Record(0.030)
	assert.InDelta(t, 20, h.Average(), 1e-4)

	for range 4 {
		h.Record(0.005)
	}
	assert.InDelta(t, 5, h.Average(), 1e-4)
	assert.Len(t, h.Samples(), 4)
}

func TestVisibilityToggle(t *testing.T) {
	var v Visibility
	v.Toggle()
	assert.True(t, v.Hidden)
	v.Toggle()
	assert.False(t, v.Hidden)
}

func TestSpawnDebugUI(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)

	SpawnDebugUI(storage, ecs.NewScheduler(storage))

	assert.Equal(t, 2, storage.Len())
	items := ecs.NewQuery[struct{ *ImguiItem }](storage)
	assert.Equal(t, 2, items.Count())

	var state *ImguiInputState
	assert.True(t, storage.ReadSingleton(&state))
}
