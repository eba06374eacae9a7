package game

// DebugState holds overlay toggles that survive round resets
type DebugState struct {
	// ShowOverlay draws collision circles, velocities, punch reach and frame stats
	ShowOverlay bool
}

// Toggle flips the overlay
func (d *DebugState) Toggle() {
	d.ShowOverlay = !d.ShowOverlay
}
