package ecs

// UpdateFrame is passed to every system during one scheduler step.
type UpdateFrame struct {
	// DeltaTime is the elapsed time since the previous step, in seconds.
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, storage *Storage, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  commands,
		Storage:   storage,
	}
}
