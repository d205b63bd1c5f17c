package ecs_test

import (
	"testing"

	"github.com/plus3/screenspace/ecs"
)

func BenchmarkQueryIter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10000; i++ {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1})
	}
	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	b.ResetTimer()
	for b.Loop() {
		for item := range query.Iter() {
			item.Position.X += item.Velocity.DX
		}
	}
}

func BenchmarkSpawnDelete(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	for b.Loop() {
		id := storage.Spawn(Position{}, Velocity{})
		storage.Delete(id)
	}
}
