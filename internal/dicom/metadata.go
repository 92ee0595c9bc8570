package dicom

import (
	"fmt"
	"strings"

	sdicom "github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/dcmview/dcmview/internal/core"
	img "github.com/dcmview/dcmview/internal/image"
)

// extractMetadata collects the display attributes present in the file, in a
// fixed order so output is deterministic across runs.
func extractMetadata(ds *sdicom.Dataset, grid *img.Grid, photoStr string) []core.KeyVal {
	var meta []core.KeyVal
	add := func(key string, t tag.Tag) {
		if v, ok := findString(ds, t); ok {
			meta = append(meta, core.KeyVal{Key: key, Val: v})
		}
	}

	add("Patient Name", tag.PatientName)
	add("Patient ID", tag.PatientID)
	add("Birth Date", tag.PatientBirthDate)
	add("Accession Number", tag.AccessionNumber)
	add("Study Date", tag.StudyDate)
	add("Study Description", tag.StudyDescription)
	add("Modality", tag.Modality)
	add("Series Description", tag.SeriesDescription)

	if photoStr == "" {
		photoStr = "MONOCHROME2"
	}
	meta = append(meta, core.KeyVal{
		Key: "Dimensions",
		Val: fmt.Sprintf("%dx%dx%d [%s]", grid.Width, grid.Height, grid.Channels, photoStr),
	})

	if par, ok := pixelAspectRatio(ds); ok {
		meta = append(meta, core.KeyVal{Key: "Pixel Aspect Ratio", Val: par})
	}
	if uid, ok := findString(ds, tag.SOPClassUID); ok {
		meta = append(meta, core.KeyVal{Key: "SOP Class UID", Val: describeUID(uid, sopClassNames)})
	}
	if name, ok := transferSyntax(ds); ok {
		meta = append(meta, core.KeyVal{Key: "Transfer Syntax", Val: name})
	}
	add("Slice Thickness", tag.SliceThickness)

	if frames, ok := findInt(ds, tag.NumberOfFrames); ok && frames > 1 {
		meta = append(meta, core.KeyVal{Key: "Number of Frames", Val: fmt.Sprint(frames)})
	}

	return meta
}

// pixelAspectRatio formats the vertical:horizontal pixel aspect ratio pair.
func pixelAspectRatio(ds *sdicom.Dataset) (string, bool) {
	el, err := ds.FindElementByTag(tag.PixelAspectRatio)
	if err != nil || el == nil {
		return "", false
	}
	switch vals := el.Value.GetValue().(type) {
	case []int:
		if len(vals) >= 2 {
			return fmt.Sprintf("%d:%d", vals[0], vals[1]), true
		}
	case []string:
		if len(vals) >= 2 {
			return strings.TrimSpace(vals[0]) + ":" + strings.TrimSpace(vals[1]), true
		}
	}
	return "", false
}

func transferSyntax(ds *sdicom.Dataset) (string, bool) {
	uid, ok := findString(ds, tag.TransferSyntaxUID)
	if !ok {
		return "unknown", false
	}
	return describeUID(uid, transferSyntaxNames), true
}

// describeUID renders "Name (uid)" for known UIDs, or the raw UID otherwise.
func describeUID(uid string, names map[string]string) string {
	if name, ok := names[uid]; ok {
		return fmt.Sprintf("%s (%s)", name, uid)
	}
	return uid
}

var transferSyntaxNames = map[string]string{
	"1.2.840.10008.1.2":      "Implicit VR Little Endian",
	"1.2.840.10008.1.2.1":    "Explicit VR Little Endian",
	"1.2.840.10008.1.2.1.99": "Deflated Explicit VR Little Endian",
	"1.2.840.10008.1.2.2":    "Explicit VR Big Endian",
	"1.2.840.10008.1.2.4.50": "JPEG Baseline (Process 1)",
	"1.2.840.10008.1.2.4.51": "JPEG Extended (Process 2 & 4)",
	"1.2.840.10008.1.2.4.57": "JPEG Lossless, Non-Hierarchical (Process 14)",
	"1.2.840.10008.1.2.4.70": "JPEG Lossless, Non-Hierarchical, First-Order Prediction",
	"1.2.840.10008.1.2.4.80": "JPEG-LS Lossless",
	"1.2.840.10008.1.2.4.81": "JPEG-LS Lossy (Near-Lossless)",
	"1.2.840.10008.1.2.4.90": "JPEG 2000 (Lossless Only)",
	"1.2.840.10008.1.2.4.91": "JPEG 2000",
	"1.2.840.10008.1.2.5":    "RLE Lossless",
}

var sopClassNames = map[string]string{
	"1.2.840.10008.5.1.4.1.1.1":     "Computed Radiography Image Storage",
	"1.2.840.10008.5.1.4.1.1.1.1":   "Digital X-Ray Image Storage",
	"1.2.840.10008.5.1.4.1.1.2":     "CT Image Storage",
	"1.2.840.10008.5.1.4.1.1.4":     "MR Image Storage",
	"1.2.840.10008.5.1.4.1.1.6.1":   "Ultrasound Image Storage",
	"1.2.840.10008.5.1.4.1.1.7":     "Secondary Capture Image Storage",
	"1.2.840.10008.5.1.4.1.1.12.1":  "X-Ray Angiographic Image Storage",
	"1.2.840.10008.5.1.4.1.1.20":    "Nuclear Medicine Image Storage",
	"1.2.840.10008.5.1.4.1.1.128":   "Positron Emission Tomography Image Storage",
	"1.2.840.10008.5.1.4.1.1.481.1": "RT Image Storage",
}
