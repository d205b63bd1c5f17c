package ecs

// iComponentStorage is a type-erased column of components of a single type.
// Rows are dense: removing a row moves the last row into its place.
type iComponentStorage interface {
	Append(item any) bool
	Get(row int) any
	SwapRemove(row int)
	Len() int
}
