package cli

import (
	"github.com/dcmview/dcmview/internal/config"
	"github.com/dcmview/dcmview/internal/core"
)

// App represents the full configuration for a dcmview invocation.
type App struct {
	Files []string

	Cfg config.Config

	ConfigPath string
	Help       bool
	Version    bool

	// Set independently of Cfg.Filename so passing both flags is caught.
	filenameOn  bool
	filenameOff bool
}

func (a *App) PrintHelp(p *core.Printer) {
	printHelp(a.CLI(), p)
}

func (a *App) CLI() *CLI {
	var rawArgs bool
	return &CLI{
		Description: "dcmview renders DICOM images directly in the terminal",
		Args: []Arguments{
			{Name: "FILE", Description: "DICOM file(s) to display; reads stdin when none given"},
		},
		ArgFn: func(s string) error {
			if s == "--" && !rawArgs {
				rawArgs = true
				return nil
			}
			a.Files = append(a.Files, s)
			return nil
		},
		ExclusiveFlags: [][]string{
			{"filename", "no-filename"},
		},
		Flags: []Flag{
			{
				Long:        "color",
				Args:        "WHEN",
				Description: "Enable or disable color output",
				Default:     "auto",
				Values:      []string{"auto", "on", "off"},
				IsSet: func() bool {
					return a.Cfg.Color != core.ColorUnknown
				},
				Fn: func(value string) error {
					return a.Cfg.ParseColor(value)
				},
			},
			{
				Long:        "config",
				Args:        "PATH",
				Description: "Path to the config file to use",
				IsSet: func() bool {
					return a.ConfigPath != ""
				},
				Fn: func(value string) error {
					a.ConfigPath = value
					return nil
				},
			},
			{
				Long:        "filename",
				Description: "Always show a filename header above each image",
				IsSet: func() bool {
					return a.filenameOn
				},
				Fn: func(string) error {
					v := true
					a.Cfg.Filename = &v
					a.filenameOn = true
					return nil
				},
			},
			{
				Short:       "H",
				Long:        "height",
				Args:        "ROWS",
				Description: "Output height in terminal rows",
				IsSet: func() bool {
					return a.Cfg.Height != nil
				},
				Fn: func(value string) error {
					return a.Cfg.ParseHeight(value)
				},
			},
			{
				Short:       "h",
				Long:        "help",
				Description: "Print help",
				IsSet: func() bool {
					return a.Help
				},
				Fn: func(string) error {
					a.Help = true
					return nil
				},
			},
			{
				Long:        "image",
				Args:        "PROTOCOL",
				Description: "Terminal image protocol to use",
				Default:     "auto",
				Values:      []string{"auto", "kitty", "inline", "blocks"},
				IsSet: func() bool {
					return a.Cfg.Image != core.ImageUnknown
				},
				Fn: func(value string) error {
					return a.Cfg.ParseImageSetting(value)
				},
			},
			{
				Long:        "no-filename",
				Description: "Never show a filename header above each image",
				IsSet: func() bool {
					return a.filenameOff
				},
				Fn: func(string) error {
					v := false
					a.Cfg.Filename = &v
					a.filenameOff = true
					return nil
				},
			},
			{
				Short:       "v",
				Long:        "verbose",
				Description: "Show DICOM metadata below each image",
				IsSet: func() bool {
					return a.Cfg.Verbose != nil && *a.Cfg.Verbose
				},
				Fn: func(string) error {
					v := true
					a.Cfg.Verbose = &v
					return nil
				},
			},
			{
				Short:       "V",
				Long:        "version",
				Description: "Print version",
				IsSet: func() bool {
					return a.Version
				},
				Fn: func(string) error {
					a.Version = true
					return nil
				},
			},
			{
				Short:       "W",
				Long:        "width",
				Args:        "COLS",
				Description: "Output width in terminal columns",
				IsSet: func() bool {
					return a.Cfg.Width != nil
				},
				Fn: func(value string) error {
					return a.Cfg.ParseWidth(value)
				},
			},
		},
	}
}
