package image

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/klauspost/compress/zlib"

	"github.com/dcmview/dcmview/internal/core"
)

const esc = "\033"

// kittyChunkSize is the maximum number of base64 bytes per escape sequence
// mandated by the kitty graphics protocol.
const kittyChunkSize = 4096

// kittyEncoder serializes the bitmap using the kitty graphics protocol: a
// zlib-compressed 24-bit RGB payload, base64 encoded and split into chunked
// APC sequences. The final chunk clears the continuation flag so the terminal
// knows the transmission is complete.
type kittyEncoder struct{}

func (kittyEncoder) Encode(m *Image, plan Plan, p *core.Printer) error {
	rgb, err := m.rgbBytes()
	if err != nil {
		return err
	}

	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	if _, err := zw.Write(rgb); err != nil {
		zw.Close()
		return &EncodeError{Protocol: "kitty", Reason: err.Error()}
	}
	if err := zw.Close(); err != nil {
		return &EncodeError{Protocol: "kitty", Reason: err.Error()}
	}
	data := base64.StdEncoding.EncodeToString(zbuf.Bytes())

	// First chunk carries the control keys: direct transfer of RGB data
	// with zlib compression, displayed in the planned cell footprint, and
	// with terminal responses suppressed.
	next := min(kittyChunkSize, len(data))
	chunk := data[:next]
	fmt.Fprintf(p, "%s_Gq=2,f=24,o=z,a=T,t=d,s=%d,v=%d,c=%d,r=%d,m=%d;%s%s\\",
		esc, m.Width, m.Height, plan.Cols, plan.Rows,
		boolToInt(next < len(data)), chunk, esc)

	pos := next
	for pos < len(data) {
		next = min(pos+kittyChunkSize, len(data))
		chunk = data[pos:next]
		pos = next

		fmt.Fprintf(p, "%s_Gm=%d;%s%s\\",
			esc, boolToInt(next < len(data)), chunk, esc)
	}

	p.WriteString("\n")
	return nil
}

// rgbBytes returns the image as packed 24-bit RGB.
func (m *Image) rgbBytes() ([]byte, error) {
	switch m.Channels {
	case 3:
		return m.Pix, nil
	case 1:
		out := make([]byte, 0, len(m.Pix)*3)
		for _, v := range m.Pix {
			out = append(out, v, v, v)
		}
		return out, nil
	default:
		return nil, &EncodeError{
			Protocol: "kitty",
			Reason:   fmt.Sprintf("unsupported channel count: %d", m.Channels),
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
