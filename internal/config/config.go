// Package config holds the runtime configuration for dcmview, merged from
// CLI flags and an optional config file.
package config

import (
	"fmt"
	"strconv"

	"github.com/dcmview/dcmview/internal/core"
)

// Config represents the configuration options for dcmview.
type Config struct {
	Color    core.Color
	Filename *bool
	Height   *int
	Image    core.ImageSetting
	Verbose  *bool
	Width    *int
}

// Merge merges the two Configs together, with "c" taking priority.
func (c *Config) Merge(c2 *Config) {
	if c2 == nil {
		return
	}
	if c.Color == core.ColorUnknown {
		c.Color = c2.Color
	}
	if c.Filename == nil {
		c.Filename = c2.Filename
	}
	if c.Height == nil {
		c.Height = c2.Height
	}
	if c.Image == core.ImageUnknown {
		c.Image = c2.Image
	}
	if c.Verbose == nil {
		c.Verbose = c2.Verbose
	}
	if c.Width == nil {
		c.Width = c2.Width
	}
}

// ParseColor parses the color value.
func (c *Config) ParseColor(value string) error {
	switch value {
	case "auto":
		c.Color = core.ColorAuto
	case "on", "always", "true":
		c.Color = core.ColorOn
	case "off", "never", "false":
		c.Color = core.ColorOff
	default:
		return fmt.Errorf("invalid color value: %q", value)
	}
	return nil
}

// ParseImageSetting parses the image protocol value.
func (c *Config) ParseImageSetting(value string) error {
	switch value {
	case "auto":
		c.Image = core.ImageAuto
	case "kitty":
		c.Image = core.ImageKitty
	case "inline", "iterm":
		c.Image = core.ImageInline
	case "blocks":
		c.Image = core.ImageBlocks
	default:
		return fmt.Errorf("invalid image protocol: %q", value)
	}
	return nil
}

// ParseWidth parses the output width in columns.
func (c *Config) ParseWidth(value string) error {
	n, err := parseDimension("width", value)
	if err != nil {
		return err
	}
	c.Width = &n
	return nil
}

// ParseHeight parses the output height in rows.
func (c *Config) ParseHeight(value string) error {
	n, err := parseDimension("height", value)
	if err != nil {
		return err
	}
	c.Height = &n
	return nil
}

func parseDimension(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, value)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", name)
	}
	return n, nil
}
