package image

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/dcmview/dcmview/internal/core"
)

// Request is one file's worth of input to the session renderer. Width and
// Height of zero mean no override was requested. A non-nil Err records an
// upstream decode or normalize failure; the session emits an error indicator
// in place of the image so batch ordering is preserved.
type Request struct {
	Path   string
	Img    *Image
	Meta   []core.KeyVal
	Width  int
	Height int
	Err    error

	// Vertical to horizontal pixel size ratio; 0 means square pixels.
	PixelAspect float64
}

// Result is the per-file outcome, in input order.
type Result struct {
	Path string
	Err  error
}

// Session renders a sequence of images with a single capability decision and
// encoder for the whole run.
type Session struct {
	cap          Capability
	ts           core.TerminalSize
	enc          Encoder
	showFilename bool
	showMeta     bool
}

// NewSession returns a Session rendering with the provided capability, which
// is never re-evaluated for the life of the session.
func NewSession(cap Capability, ts core.TerminalSize, showFilename, showMeta bool) *Session {
	return &Session{
		cap:          cap,
		ts:           ts,
		enc:          EncoderFor(cap),
		showFilename: showFilename,
		showMeta:     showMeta,
	}
}

// RenderAll renders every request in input order, continuing past file-scoped
// failures. It returns one Result per request.
func (s *Session) RenderAll(p *core.Printer, reqs []Request) []Result {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, s.Render(p, req))
	}
	return results
}

// Render renders a single request, flushing the printer before returning so
// multi-file output stays well-formed even if the process is interrupted
// between files.
func (s *Session) Render(p *core.Printer, req Request) Result {
	defer p.Flush()

	if s.showFilename {
		s.writeFilename(p, req.Path)
	}

	if req.Err != nil {
		core.WriteErrorMsgNoFlush(p, req.Err)
		p.WriteString("\n")
		return Result{Path: req.Path, Err: req.Err}
	}

	if err := s.writeImage(p, req); err != nil {
		core.WriteErrorMsgNoFlush(p, err)
		p.WriteString("\n")
		return Result{Path: req.Path, Err: err}
	}

	if s.showMeta {
		writeMetadata(p, req.Meta)
	}

	p.WriteString("\n")
	return Result{Path: req.Path, Err: nil}
}

func (s *Session) writeImage(p *core.Printer, req Request) error {
	plan, err := s.plan(req, s.cap)
	if err != nil {
		return err
	}

	resampled := Resample(req.Img, plan.PixelWidth, plan.PixelHeight)
	err = s.enc.Encode(resampled, plan, p)

	var encErr *EncodeError
	if errors.As(err, &encErr) && s.cap != CapBasic {
		// Retry once with the character-cell fallback, which has its
		// own pixel-per-cell geometry.
		plan, err = s.plan(req, CapBasic)
		if err != nil {
			return err
		}
		resampled = Resample(req.Img, plan.PixelWidth, plan.PixelHeight)
		err = blockEncoder{}.Encode(resampled, plan, p)
	}
	return err
}

func (s *Session) plan(req Request, cap Capability) (Plan, error) {
	plan, err := PlanLayout(req.Img.Width, req.Img.Height, req.PixelAspect, s.ts, req.Width, req.Height, cap)

	var dimErr *InvalidDimensionsError
	if errors.As(err, &dimErr) && req.Width == 0 && req.Height == 0 {
		// Only explicitly requested dimensions fail the file; a
		// degenerate computed layout falls back to the minimum plan.
		return MinPlan(cap), nil
	}
	return plan, err
}

func (s *Session) writeFilename(p *core.Printer, path string) {
	if s.ts.Cols > 0 {
		path = runewidth.Truncate(path, s.ts.Cols, "…")
	}
	p.Set(core.Bold)
	p.WriteString(path)
	p.Reset()
	p.WriteString("\n")
}

// metaLabelWidth aligns metadata values across rows.
const metaLabelWidth = 20

func writeMetadata(p *core.Printer, meta []core.KeyVal) {
	for _, kv := range meta {
		p.Set(core.Dim)
		p.WriteString(kv.Key)
		p.Reset()
		for i := 0; i < max(metaLabelWidth-runewidth.StringWidth(kv.Key), 0); i++ {
			p.WriteString(" ")
		}
		fmt.Fprintf(p, ": %s\n", kv.Val)
	}
}
