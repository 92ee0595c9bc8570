//go:build unix

package image

import (
	"bytes"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// probeKittyGraphics writes the capability probe and reads the terminal's
// response in raw mode. Readiness is polled against a deadline so an
// unresponsive terminal cannot block past the timeout or leave a pending
// reader that would swallow a later keystroke.
func probeKittyGraphics(timeout time.Duration) bool {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return false
	}
	defer term.Restore(fd, oldState)

	if _, err := os.Stdout.WriteString(kittyProbe); err != nil {
		return false
	}

	deadline := time.Now().Add(timeout)
	var resp []byte
	buf := make([]byte, 256)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}

		pfds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(pfds, int(remaining/time.Millisecond)+1)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n == 0 {
			return false
		}

		rn, err := unix.Read(fd, buf)
		if err != nil || rn <= 0 {
			return false
		}
		resp = append(resp, buf[:rn]...)

		if bytes.Contains(resp, []byte("\x1b_G")) {
			return true
		}
		// DA1 responses terminate with 'c'.
		if i := bytes.Index(resp, []byte("\x1b[?")); i >= 0 {
			if bytes.IndexByte(resp[i:], 'c') >= 0 {
				return false
			}
		}
		if len(resp) > 4096 {
			return false
		}
	}
}
