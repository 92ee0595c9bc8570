//go:build windows

package image

import "time"

// The Windows console has no pollable stdin read, and the emulators that
// speak the kitty protocol there (WezTerm, Windows Terminal) are already
// classified from the environment. Unknown terminals get the cell fallback.
func probeKittyGraphics(time.Duration) bool {
	return false
}
