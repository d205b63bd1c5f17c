package ecs_test

import "github.com/plus3/screenspace/ecs"

// Common test component types
type Position struct {
	X, Y, Z float32
}

type Velocity struct {
	DX, DY, DZ float32
}

type Health struct {
	Current int
	Max     int
}

// Marker is a zero-sized tag component.
type Marker struct{}

type Label string
type Heading float64

type Inventory struct {
	Items []string
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Marker](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Heading](registry)
	ecs.RegisterComponent[Inventory](registry)
	return registry
}
