package core

// Color represents the options for enabling or disabling color output.
type Color int

const (
	ColorUnknown Color = iota
	ColorAuto
	ColorOn
	ColorOff
)

// ImageSetting represents the terminal image protocol selection.
type ImageSetting int

const (
	ImageUnknown ImageSetting = iota
	ImageAuto
	ImageKitty
	ImageInline
	ImageBlocks
)

type KeyVal struct {
	Key, Val string
}

// TerminalSize represents the dimensions of the terminal.
type TerminalSize struct {
	Cols     int // Number of columns (characters)
	Rows     int // Number of rows (characters)
	WidthPx  int // Width in pixels (0 if unavailable)
	HeightPx int // Height in pixels (0 if unavailable)
}
