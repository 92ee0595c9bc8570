package image

import (
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"

	"github.com/dcmview/dcmview/internal/core"
)

// inlineEncoder serializes the bitmap using iTerm2's inline image protocol:
// a single OSC 1337 sequence carrying a base64 PNG payload with an explicit
// size, so conforming terminals know when the transmission is complete.
type inlineEncoder struct{}

func (inlineEncoder) Encode(m *Image, plan Plan, p *core.Printer) error {
	var sb strings.Builder
	wc := base64.NewEncoder(base64.StdEncoding, &sb)
	if err := png.Encode(wc, m.toNRGBA()); err != nil {
		wc.Close()
		return &EncodeError{Protocol: "inline", Reason: err.Error()}
	}
	wc.Close()
	data := sb.String()

	fmt.Fprintf(p, "\x1b]1337;File=inline=1;preserveAspectRatio=1;size=%d;width=%dpx;height=%dpx:%s\x07\n",
		len(data), m.Width, m.Height, data)
	return nil
}
