package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query
// and Singleton fields, which the Scheduler initializes on registration, as
// well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Validator is implemented by systems that have preconditions on the
// contents of storage, such as a singleton entity that must exist. The
// Scheduler checks them once, before the first frame, instead of every frame.
type Validator interface {
	Validate(storage *Storage) error
}
