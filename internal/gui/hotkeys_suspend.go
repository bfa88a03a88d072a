package gui

// suspendHotkeys mutes the window shortcuts until the returned func runs.
// Suspensions nest.
func suspendHotkeys(screen *FyneScreen) func() {
	if screen == nil {
		return func() {}
	}

	screen.suspendCount.Add(1)

	return func() {
		if screen.suspendCount.Add(-1) < 0 {
			screen.suspendCount.Store(0)
		}
	}
}

func (screen *FyneScreen) hotkeysSuspended() bool {
	if screen == nil {
		return false
	}
	return screen.suspendCount.Load() > 0
}
