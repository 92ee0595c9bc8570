package cli

import (
	"slices"
	"testing"

	"github.com/dcmview/dcmview/internal/core"
)

func TestParseFilesAndFlags(t *testing.T) {
	app, err := Parse([]string{"-W", "128", "-v", "a.dcm", "b.dcm"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !slices.Equal(app.Files, []string{"a.dcm", "b.dcm"}) {
		t.Errorf("Files = %v, want [a.dcm b.dcm]", app.Files)
	}
	if app.Cfg.Width == nil || *app.Cfg.Width != 128 {
		t.Errorf("Width = %v, want 128", app.Cfg.Width)
	}
	if app.Cfg.Verbose == nil || !*app.Cfg.Verbose {
		t.Errorf("Verbose = %v, want true", app.Cfg.Verbose)
	}
}

func TestParseShortFlagForms(t *testing.T) {
	for _, args := range [][]string{
		{"-W", "64"},
		{"-W64"},
		{"-W=64"},
		{"--width", "64"},
		{"--width=64"},
	} {
		app, err := Parse(args)
		if err != nil {
			t.Fatalf("Parse(%v) error = %v", args, err)
		}
		if app.Cfg.Width == nil || *app.Cfg.Width != 64 {
			t.Errorf("Parse(%v) Width = %v, want 64", args, app.Cfg.Width)
		}
	}
}

func TestParseCombinedShortFlags(t *testing.T) {
	app, err := Parse([]string{"-vV"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if app.Cfg.Verbose == nil || !*app.Cfg.Verbose {
		t.Error("Verbose not set")
	}
	if !app.Version {
		t.Error("Version not set")
	}
}

func TestParseStdinDash(t *testing.T) {
	app, err := Parse([]string{"-"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !slices.Equal(app.Files, []string{"-"}) {
		t.Errorf("Files = %v, want [-]", app.Files)
	}
}

func TestParseDoubleDash(t *testing.T) {
	app, err := Parse([]string{"--", "-W", "--help"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !slices.Equal(app.Files, []string{"-W", "--help"}) {
		t.Errorf("Files = %v, want the raw arguments", app.Files)
	}
	if app.Help {
		t.Error("Help set from an argument after --")
	}
}

func TestParseImageProtocol(t *testing.T) {
	app, err := Parse([]string{"--image", "kitty"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if app.Cfg.Image != core.ImageKitty {
		t.Errorf("Image = %v, want ImageKitty", app.Cfg.Image)
	}

	if _, err := Parse([]string{"--image", "sixel"}); err == nil {
		t.Error("expected an error for an unknown protocol")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown long flag", []string{"--nope"}},
		{"unknown short flag", []string{"-z"}},
		{"missing flag value", []string{"--width"}},
		{"value on boolean flag", []string{"--verbose=1"}},
		{"zero width", []string{"-W", "0"}},
		{"negative height", []string{"-H", "-4"}},
		{"exclusive filename flags", []string{"--filename", "--no-filename"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.args); err == nil {
				t.Fatalf("Parse(%v) expected an error", tt.args)
			}
		})
	}
}

func TestParseConfigPath(t *testing.T) {
	app, err := Parse([]string{"--config", "/tmp/custom.yaml", "x.dcm"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if app.ConfigPath != "/tmp/custom.yaml" {
		t.Errorf("ConfigPath = %q", app.ConfigPath)
	}
}

func TestFlagsAreSorted(t *testing.T) {
	var app App
	flags := app.CLI().Flags
	sorted := slices.IsSortedFunc(flags, func(a, b Flag) int {
		if a.Long < b.Long {
			return -1
		}
		return 1
	})
	if !sorted {
		t.Fatal("flags are not in alphabetical order")
	}
}
