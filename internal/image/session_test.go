package image

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dcmview/dcmview/internal/core"
)

func testTermSize() core.TerminalSize {
	return core.TerminalSize{Cols: 80, Rows: 24}
}

func TestSessionRenderAllOrder(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	s := NewSession(CapBasic, testTermSize(), true, false)
	reqs := []Request{
		{Path: "a.dcm", Img: flatImage(4, 4, 1, 10), Width: 2, Height: 1},
		{Path: "b.dcm", Img: flatImage(4, 4, 1, 20), Width: 2, Height: 1},
		{Path: "c.dcm", Img: flatImage(4, 4, 1, 30), Width: 2, Height: 1},
	}

	var buf bytes.Buffer
	p := core.NewPrinter(&buf, false)
	results := s.RenderAll(p, reqs)

	if len(results) != len(reqs) {
		t.Fatalf("results = %d, want %d", len(results), len(reqs))
	}
	out := buf.String()
	last := -1
	for i, req := range reqs {
		if results[i].Path != req.Path {
			t.Errorf("results[%d].Path = %q, want %q", i, results[i].Path, req.Path)
		}
		if results[i].Err != nil {
			t.Errorf("results[%d].Err = %v, want nil", i, results[i].Err)
		}
		idx := strings.Index(out, req.Path+"\n")
		if idx < 0 {
			t.Fatalf("output missing header for %q", req.Path)
		}
		if idx <= last {
			t.Fatalf("header for %q out of order", req.Path)
		}
		last = idx
	}
}

func TestSessionContinuesPastFailure(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	decodeErr := errors.New("bad.dcm: malformed pixel data")
	s := NewSession(CapBasic, testTermSize(), true, false)
	reqs := []Request{
		{Path: "ok1.dcm", Img: flatImage(2, 2, 1, 10), Width: 1, Height: 1},
		{Path: "bad.dcm", Err: decodeErr},
		{Path: "ok2.dcm", Img: flatImage(2, 2, 1, 10), Width: 1, Height: 1},
	}

	var buf bytes.Buffer
	p := core.NewPrinter(&buf, false)
	results := s.RenderAll(p, reqs)

	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("healthy files failed: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, decodeErr) {
		t.Fatalf("results[1].Err = %v, want %v", results[1].Err, decodeErr)
	}

	out := buf.String()
	if !strings.Contains(out, "error: bad.dcm: malformed pixel data") {
		t.Fatalf("output missing error indicator: %q", out)
	}
	// The failure must leave a visible marker in place and not stop the batch.
	if strings.Index(out, "bad.dcm") > strings.Index(out, "ok2.dcm\n") {
		t.Fatal("error indicator not emitted in input order")
	}
}

func TestSessionHidesFilename(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	s := NewSession(CapBasic, testTermSize(), false, false)
	var buf bytes.Buffer
	p := core.NewPrinter(&buf, false)
	s.Render(p, Request{Path: "x.dcm", Img: flatImage(2, 2, 1, 0), Width: 1, Height: 1})

	if strings.Contains(buf.String(), "x.dcm") {
		t.Fatalf("filename rendered despite being disabled: %q", buf.String())
	}
}

func TestSessionMetadata(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	s := NewSession(CapBasic, testTermSize(), false, true)
	meta := []core.KeyVal{
		{Key: "Patient Name", Val: "DOE^JOHN"},
		{Key: "Modality", Val: "CT"},
		{Key: "Dimensions", Val: "512x512x1 [MONOCHROME2]"},
	}

	var buf bytes.Buffer
	p := core.NewPrinter(&buf, false)
	res := s.Render(p, Request{
		Path: "x.dcm", Img: flatImage(2, 2, 1, 0),
		Meta: meta, Width: 1, Height: 1,
	})
	if res.Err != nil {
		t.Fatalf("Render() error = %v", res.Err)
	}

	out := buf.String()
	last := -1
	for _, kv := range meta {
		idx := strings.Index(out, kv.Key)
		if idx < 0 {
			t.Fatalf("output missing metadata key %q", kv.Key)
		}
		if idx <= last {
			t.Fatalf("metadata key %q out of order", kv.Key)
		}
		last = idx
		if !strings.Contains(out, ": "+kv.Val+"\n") {
			t.Errorf("output missing value %q", kv.Val)
		}
	}
}

func TestSessionDegenerateLayoutFallsBack(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	// No usable terminal metrics and no requested dimensions: the session
	// still renders at the minimum default footprint instead of failing.
	s := NewSession(CapBasic, core.TerminalSize{}, false, false)
	var buf bytes.Buffer
	p := core.NewPrinter(&buf, false)
	res := s.Render(p, Request{Path: "x.dcm", Img: flatImage(9, 9, 1, 50)})
	if res.Err != nil {
		t.Fatalf("Render() error = %v", res.Err)
	}
	if got := strings.Count(buf.String(), lowerHalfBlock); got == 0 {
		t.Fatal("no half blocks rendered")
	}
}

// failingEncoder stands in for a high-resolution protocol the terminal turns
// out not to accept.
type failingEncoder struct{}

func (failingEncoder) Encode(*Image, Plan, *core.Printer) error {
	return &EncodeError{Protocol: "kitty", Reason: "transmission rejected"}
}

func TestSessionEncoderFallback(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	s := &Session{
		cap: CapKitty,
		ts:  testTermSize(),
		enc: failingEncoder{},
	}
	var buf bytes.Buffer
	p := core.NewPrinter(&buf, false)
	res := s.Render(p, Request{
		Path: "x.dcm", Img: flatImage(4, 4, 1, 80),
		Width: 2, Height: 1,
	})
	if res.Err != nil {
		t.Fatalf("Render() error = %v, want the block fallback to succeed", res.Err)
	}

	out := buf.String()
	if strings.Count(out, lowerHalfBlock) != 2 {
		t.Fatalf("expected a 2x1 cell block rendering, got %q", out)
	}
	if strings.Contains(out, "\x1b_G") {
		t.Fatalf("high-resolution output leaked through: %q", out)
	}
	if strings.Contains(out, "error") {
		t.Fatalf("fallback rendering still reported an error: %q", out)
	}
}

func TestSessionTruncatesLongFilename(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")

	s := NewSession(CapBasic, core.TerminalSize{Cols: 10, Rows: 24}, true, false)
	var buf bytes.Buffer
	p := core.NewPrinter(&buf, false)
	s.Render(p, Request{
		Path: "a-very-long-path-name.dcm",
		Img:  flatImage(2, 2, 1, 0), Width: 1, Height: 1,
	})

	header, _, _ := strings.Cut(buf.String(), "\n")
	if !strings.HasSuffix(header, "…") {
		t.Fatalf("long filename not truncated: %q", header)
	}
}
