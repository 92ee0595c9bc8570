package image

import "github.com/dcmview/dcmview/internal/core"

// Encoder serializes a normalized image, already resampled to the plan's
// pixel dimensions, to the printer. Implementations must leave the terminal's
// cursor and color state clean after writing.
type Encoder interface {
	Encode(m *Image, plan Plan, p *core.Printer) error
}

// EncoderFor returns the encoder for the provided capability.
func EncoderFor(cap Capability) Encoder {
	switch cap {
	case CapKitty:
		return kittyEncoder{}
	case CapInline:
		return inlineEncoder{}
	default:
		return blockEncoder{}
	}
}
