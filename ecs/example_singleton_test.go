package ecs_test

import (
	"fmt"

	"github.com/plus3/screenspace/ecs"
)

type MoveSettings struct {
	Speed    float32
	Relative bool
}

// ExampleNewSingleton demonstrates creating and accessing singleton components.
// Singletons are global components not associated with any entity.
func ExampleNewSingleton() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	settings := ecs.NewSingleton[MoveSettings](storage, MoveSettings{Speed: 1})
	fmt.Printf("speed %.1f relative %v\n", settings.Get().Speed, settings.Get().Relative)

	settings.Get().Relative = true

	// A second accessor sees the same data; its initializer is ignored.
	same := ecs.NewSingleton[MoveSettings](storage, MoveSettings{Speed: 9})
	fmt.Printf("speed %.1f relative %v\n", same.Get().Speed, same.Get().Relative)

	// Output:
	// speed 1.0 relative false
	// speed 1.0 relative true
}

// ExampleStorage_ReadSingleton demonstrates reading a singleton outside of systems.
func ExampleStorage_ReadSingleton() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	ecs.NewSingleton[MoveSettings](storage, MoveSettings{Speed: 2.5})

	var settings *MoveSettings
	if storage.ReadSingleton(&settings) {
		fmt.Printf("speed %.1f\n", settings.Speed)
	}

	var health *Health
	if !storage.ReadSingleton(&health) {
		fmt.Println("no health singleton")
	}

	// Output:
	// speed 2.5
	// no health singleton
}
