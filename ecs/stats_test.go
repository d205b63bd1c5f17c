package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageStats(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)
	RegisterComponent[float64](registry)

	storage := NewStorage(registry)

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)
	assert.Equal(t, 0, stats.SingletonCount)

	storage.Spawn(42, "hello")
	storage.Spawn(100, "world")
	storage.Spawn(200.0, "test")

	NewSingleton[float64](storage, 3.14)
	NewSingleton[string](storage, "singleton")

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"float64", "string"}, stats.SingletonTypes)

	assert.Equal(t, []ArchetypeStats{
		{Mask: 0b011, ComponentTypes: []string{"int", "string"}, EntityCount: 2},
		{Mask: 0b110, ComponentTypes: []string{"string", "float64"}, EntityCount: 1},
	}, stats.ArchetypeBreakdown)
}

func TestBlockStorageSwapRemove(t *testing.T) {
	column := &genericComponentStorage[int]{}
	for i := 0; i < genericBlockSize*3; i++ {
		assert.True(t, column.Append(i))
	}
	assert.False(t, column.Append("wrong type"))
	assert.Len(t, column.blocks, 3)

	column.SwapRemove(0)
	assert.Equal(t, genericBlockSize*3-1, column.Len())
	assert.Equal(t, genericBlockSize*3-1, *column.Get(0).(*int))

	for column.Len() > 1 {
		column.SwapRemove(column.Len() - 1)
	}
	assert.Len(t, column.blocks, 2, "one spare block is retained")
	assert.Nil(t, column.Get(1))
	assert.Nil(t, column.Get(-1))
}
