package image

import (
	"os"
	"time"

	"github.com/dcmview/dcmview/internal/core"
)

// Capability is the rendering capability of the output terminal, determined
// once per run and never re-evaluated mid-session.
type Capability int

const (
	CapBasic  Capability = iota // character-cell fallback only
	CapInline                   // iTerm2 inline image protocol
	CapKitty                    // kitty graphics protocol
)

func (c Capability) String() string {
	switch c {
	case CapInline:
		return "inline"
	case CapKitty:
		return "kitty"
	default:
		return "blocks"
	}
}

// DefaultProbeTimeout bounds the wait for a terminal's response to the
// graphics capability probe.
const DefaultProbeTimeout = 150 * time.Millisecond

// DetectCapability classifies the output terminal. Non-interactive output is
// always CapBasic. Known emulators are classified from the environment; an
// unknown interactive terminal is probed for kitty graphics support, with a
// timeout treated as CapBasic.
func DetectCapability(timeout time.Duration) Capability {
	return detectCapability(core.IsStdoutTerm, core.IsStdinTerm, timeout)
}

func detectCapability(stdoutTerm, stdinTerm bool, timeout time.Duration) Capability {
	if !stdoutTerm {
		return CapBasic
	}

	switch detectEmulator() {
	case eGhostty, eKitty, eKonsole:
		return CapKitty
	case eHyper, eIterm2, eMintty, eWezTerm:
		return CapInline
	case eUnknown:
		// Fall through to the probe.
	default:
		return CapBasic
	}

	if stdinTerm && probeKittyGraphics(timeout) {
		return CapKitty
	}
	return CapBasic
}

type emulator int

const (
	eUnknown emulator = iota
	eAlacritty
	eApple
	eGhostty
	eHyper
	eIterm2
	eKitty
	eKonsole
	eMintty
	eTmux
	eVSCode
	eWezTerm
	eWindows
	eZellij
)

func detectEmulator() emulator {
	if os.Getenv("ZELLIJ") != "" {
		return eZellij
	}

	if em, ok := detectProgramVar(); ok {
		return em
	}

	if em, ok := detectTermVar(); ok {
		return em
	}

	if em, ok := detectCustomVar(); ok {
		return em
	}

	return eUnknown
}

func detectProgramVar() (emulator, bool) {
	switch os.Getenv("TERM_PROGRAM") {
	case "Apple_Terminal":
		return eApple, true
	case "ghostty":
		return eGhostty, true
	case "Hyper":
		return eHyper, true
	case "iTerm.app":
		return eIterm2, true
	case "mintty":
		return eMintty, true
	case "tmux":
		return eTmux, true
	case "vscode":
		return eVSCode, true
	case "WezTerm":
		return eWezTerm, true
	default:
		return eUnknown, false
	}
}

func detectTermVar() (emulator, bool) {
	switch os.Getenv("TERM") {
	case "alacritty":
		return eAlacritty, true
	case "xterm-ghostty":
		return eGhostty, true
	case "xterm-kitty":
		return eKitty, true
	default:
		return eUnknown, false
	}
}

func detectCustomVar() (emulator, bool) {
	switch {
	case os.Getenv("GHOSTTY_BIN_DIR") != "":
		return eGhostty, true
	case os.Getenv("ITERM_SESSION_ID") != "":
		return eIterm2, true
	case os.Getenv("KITTY_PID") != "":
		return eKitty, true
	case os.Getenv("KONSOLE_VERSION") != "":
		return eKonsole, true
	case os.Getenv("VSCODE_INJECTION") != "":
		return eVSCode, true
	case os.Getenv("WEZTERM_EXECUTABLE") != "":
		return eWezTerm, true
	case os.Getenv("WT_SESSION") != "":
		return eWindows, true
	default:
		return eUnknown, false
	}
}

// kittyProbe transmits a 1x1 dummy image query, followed by a DA1 request.
// Terminals that support the graphics protocol answer the query with an "_G"
// response; every terminal answers DA1, which bounds the read. Terminals
// without graphics support ignore the APC sequence entirely.
const kittyProbe = "\x1b_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\\x1b[c"
