package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dcmview/dcmview/internal/cli"
	"github.com/dcmview/dcmview/internal/config"
	"github.com/dcmview/dcmview/internal/core"
	"github.com/dcmview/dcmview/internal/dicom"
	"github.com/dcmview/dcmview/internal/image"
)

func main() {
	// Cancel the context when one of the below signals are caught.
	ctx, cancel := context.WithCancelCause(context.Background())
	chSig := make(chan os.Signal, 1)
	signal.Notify(chSig, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	go func() {
		sig := <-chSig
		cancel(fmt.Errorf("received signal: %s", sig))
	}()

	// Parse the CLI args.
	app, err := cli.Parse(os.Args[1:])
	if err != nil {
		p := core.NewHandle(app.Cfg.Color).Stderr()
		writeCLIErr(p, err)
		os.Exit(1)
	}

	// Parse any config file, and merge with it.
	fileCfg, err := config.GetFile(app.ConfigPath)
	if err != nil {
		p := core.NewHandle(app.Cfg.Color).Stderr()
		core.WriteErrorMsg(p, err)
		os.Exit(1)
	}
	app.Cfg.Merge(fileCfg)

	handle := core.NewHandle(app.Cfg.Color)

	// Print help to stdout.
	if app.Help {
		p := handle.Stdout()
		app.PrintHelp(p)
		p.Flush()
		os.Exit(0)
	}

	// Print version to stdout.
	if app.Version {
		fmt.Fprintln(os.Stdout, "dcmview", core.Version)
		os.Exit(0)
	}

	os.Exit(run(ctx, handle, app))
}

func run(ctx context.Context, handle *core.Handle, app *cli.App) int {
	files := app.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	// Filename headers default to on for multi-file runs.
	showFilename := len(files) > 1
	if app.Cfg.Filename != nil {
		showFilename = *app.Cfg.Filename
	}
	showMeta := app.Cfg.Verbose != nil && *app.Cfg.Verbose

	// The capability is decided exactly once for the whole run.
	session := image.NewSession(capability(app.Cfg.Image), terminalSize(), showFilename, showMeta)
	stdout := handle.Stdout()

	var failed int
	for _, path := range files {
		if err := context.Cause(ctx); err != nil {
			core.WriteErrorMsg(handle.Stderr(), err)
			return 1
		}

		res := session.Render(stdout, buildRequest(app, path))
		if res.Err != nil {
			failed++
		}
	}

	switch failed {
	case 0:
		return 0
	case len(files):
		return 1
	default:
		msg := fmt.Sprintf("%d of %d files failed to render", failed, len(files))
		core.WriteWarningMsg(handle.Stderr(), msg)
		return 2
	}
}

// buildRequest decodes and normalizes one file. Failures are carried on the
// request so the session can emit an in-place error and continue the batch.
func buildRequest(app *cli.App, path string) image.Request {
	req := image.Request{
		Path:   path,
		Width:  intValue(app.Cfg.Width),
		Height: intValue(app.Cfg.Height),
	}

	var f *dicom.File
	var err error
	if path == "-" {
		req.Path = "(stdin)"
		f, err = dicom.Decode(os.Stdin)
	} else {
		f, err = dicom.DecodeFile(path)
	}
	if err != nil {
		req.Err = fmt.Errorf("%s: %w", req.Path, err)
		return req
	}

	img, err := image.Normalize(f.Grid, f.Rescale, f.Window, f.Photometric)
	if err != nil {
		req.Err = fmt.Errorf("%s: %w", req.Path, err)
		return req
	}

	req.Img = img
	req.Meta = f.Meta
	req.PixelAspect = f.PixelAspect
	return req
}

// capability resolves the protocol override, falling back to detection.
func capability(setting core.ImageSetting) image.Capability {
	switch setting {
	case core.ImageKitty:
		return image.CapKitty
	case core.ImageInline:
		return image.CapInline
	case core.ImageBlocks:
		return image.CapBasic
	default:
		return image.DetectCapability(image.DefaultProbeTimeout)
	}
}

func terminalSize() core.TerminalSize {
	ts, err := core.GetTerminalSize()
	if err != nil || ts.Cols <= 0 || ts.Rows <= 0 {
		return core.TerminalSize{Cols: 80, Rows: 24}
	}
	return ts
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// writeCLIErr writes the provided CLI error to the Printer.
func writeCLIErr(p *core.Printer, err error) {
	core.WriteErrorMsgNoFlush(p, err)

	p.WriteString("\nFor more information, try '")

	p.Set(core.Bold)
	p.WriteString("--help")
	p.Reset()

	p.WriteString("'.\n")
	p.Flush()
}
