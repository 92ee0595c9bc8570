package image

import "fmt"

// MalformedPixelDataError indicates that a decoded grid's geometry or bit
// depth is inconsistent with its sample data.
type MalformedPixelDataError struct {
	Reason string
}

func (err *MalformedPixelDataError) Error() string {
	return "malformed pixel data: " + err.Reason
}

// InvalidDimensionsError indicates that a requested or computed layout
// dimension collapsed to zero.
type InvalidDimensionsError struct {
	Width, Height int
}

func (err *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("invalid dimensions: %dx%d", err.Width, err.Height)
}

// EncodeError indicates that an encoder cannot serialize the bitmap.
type EncodeError struct {
	Protocol string
	Reason   string
}

func (err *EncodeError) Error() string {
	return fmt.Sprintf("%s encoding failed: %s", err.Protocol, err.Reason)
}
