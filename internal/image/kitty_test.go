package image

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/dcmview/dcmview/internal/core"
)

func encodeToString(t *testing.T, enc Encoder, m *Image, plan Plan) string {
	t.Helper()
	var buf bytes.Buffer
	p := core.NewPrinter(&buf, false)
	if err := enc.Encode(m, plan, p); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	return buf.String()
}

// kittyChunks splits the serialized output into the payloads and control keys
// of the individual APC sequences.
func kittyChunks(t *testing.T, out string) (ctrl, payloads []string) {
	t.Helper()
	out = strings.TrimSuffix(out, "\n")
	for _, seq := range strings.Split(out, "\x1b\\") {
		if seq == "" {
			continue
		}
		if !strings.HasPrefix(seq, "\x1b_G") {
			t.Fatalf("sequence does not start with APC introducer: %q", seq)
		}
		body := strings.TrimPrefix(seq, "\x1b_G")
		keys, payload, ok := strings.Cut(body, ";")
		if !ok {
			t.Fatalf("sequence has no payload separator: %q", seq)
		}
		ctrl = append(ctrl, keys)
		payloads = append(payloads, payload)
	}
	return ctrl, payloads
}

func TestKittyEncodeRoundTrip(t *testing.T) {
	m := NewImage(2, 2, 3)
	m.Pix = []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 10, 20, 30,
	}
	plan := Plan{PixelWidth: 2, PixelHeight: 2, Cols: 4, Rows: 2}

	out := encodeToString(t, kittyEncoder{}, m, plan)
	ctrl, payloads := kittyChunks(t, out)

	if len(ctrl) != 1 {
		t.Fatalf("chunks = %d, want 1", len(ctrl))
	}
	for _, key := range []string{"q=2", "f=24", "o=z", "a=T", "t=d", "s=2", "v=2", "c=4", "r=2", "m=0"} {
		if !strings.Contains(ctrl[0]+",", key+",") {
			t.Errorf("control keys %q missing %q", ctrl[0], key)
		}
	}

	raw, err := base64.StdEncoding.DecodeString(payloads[0])
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("payload is not valid zlib: %v", err)
	}
	rgb, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(rgb, m.Pix) {
		t.Fatalf("decoded payload = %v, want %v", rgb, m.Pix)
	}
}

func TestKittyEncodeGrayExpansion(t *testing.T) {
	m := NewImage(2, 1, 1)
	m.Pix = []uint8{7, 200}

	out := encodeToString(t, kittyEncoder{}, m, Plan{Cols: 2, Rows: 1})
	_, payloads := kittyChunks(t, out)

	raw, err := base64.StdEncoding.DecodeString(payloads[0])
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("payload is not valid zlib: %v", err)
	}
	rgb, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	want := []byte{7, 7, 7, 200, 200, 200}
	if !bytes.Equal(rgb, want) {
		t.Fatalf("decoded payload = %v, want %v", rgb, want)
	}
}

func TestKittyEncodeChunking(t *testing.T) {
	// Incompressible noise so the base64 stream spans several chunks.
	m := NewImage(64, 64, 3)
	state := uint32(0x2545f491)
	for i := range m.Pix {
		state = state*1664525 + 1013904223
		m.Pix[i] = uint8(state >> 24)
	}

	out := encodeToString(t, kittyEncoder{}, m, Plan{Cols: 32, Rows: 16})
	ctrl, payloads := kittyChunks(t, out)

	if len(ctrl) < 2 {
		t.Fatalf("chunks = %d, want several", len(ctrl))
	}
	var joined strings.Builder
	for i, payload := range payloads {
		if len(payload) > kittyChunkSize {
			t.Errorf("chunk %d payload is %d bytes, max %d", i, len(payload), kittyChunkSize)
		}
		wantM := "m=1"
		if i == len(payloads)-1 {
			wantM = "m=0"
		}
		if !strings.Contains(ctrl[i], wantM) {
			t.Errorf("chunk %d control keys %q missing %q", i, ctrl[i], wantM)
		}
		joined.WriteString(payload)
	}

	raw, err := base64.StdEncoding.DecodeString(joined.String())
	if err != nil {
		t.Fatalf("joined payload is not valid base64: %v", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("joined payload is not valid zlib: %v", err)
	}
	rgb, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(rgb, m.Pix) {
		t.Fatal("reassembled payload does not match the source pixels")
	}
}

func TestKittyEncodeRejectsChannels(t *testing.T) {
	m := &Image{Width: 1, Height: 1, Channels: 2, Pix: []uint8{0, 0}}
	p := core.NewPrinter(&bytes.Buffer{}, false)
	err := kittyEncoder{}.Encode(m, Plan{Cols: 1, Rows: 1}, p)
	if _, ok := err.(*EncodeError); !ok {
		t.Fatalf("Encode() error = %v, want EncodeError", err)
	}
}
