package ecs

// UpdateFrame is handed to every system once per Registry.Update call.
type UpdateFrame struct {
	DeltaTime float64
	// Number counts completed updates, starting at 1 for the first frame.
	Number   uint64
	Registry *Registry
}
