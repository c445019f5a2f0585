// Package raster decodes, normalizes and encodes the pixel images that get
// drawn onto PDF pages.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedImage is returned for data that is not a decodable image.
var ErrUnsupportedImage = errors.New("unsupported image")

// Supported lists the MIME types Decode accepts.
var Supported = []string{"image/png", "image/jpeg", "image/gif", "image/bmp", "image/tiff"}

// Mode describes the color layout of a decoded image.
type Mode string

const (
	ModeRGB     Mode = "RGB"
	ModeRGBA    Mode = "RGBA"
	ModePalette Mode = "P"
	ModeGray    Mode = "L"
	ModeCMYK    Mode = "CMYK"
)

// Image is a decoded picture.
type Image struct {
	Pixels image.Image
	Width  int
	Height int
	Mode   Mode
	MIME   string
}

// HasTransparency reports whether the image may carry alpha, including
// palette images with transparent entries.
func (i *Image) HasTransparency() bool {
	return i.Mode == ModeRGBA || i.Mode == ModePalette
}

// Transparency tells the drawing code whether alpha should reach the PDF.
type Transparency int

const (
	// Preserve keeps the alpha channel as a soft mask.
	Preserve Transparency = iota
	// Opaque flattens the image against white first.
	Opaque
)

func (t Transparency) String() string {
	if t == Opaque {
		return "opaque"
	}
	return "preserve"
}

// ParseTransparency accepts preserve/auto and opaque/none.
func ParseTransparency(s string) (Transparency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve", "auto":
		return Preserve, nil
	case "opaque", "none":
		return Opaque, nil
	}
	return Preserve, fmt.Errorf("unknown transparency mode %q", s)
}

// Detect sniffs the MIME type of data.
func Detect(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsSupported reports whether data sniffs as a format Decode handles.
func IsSupported(data []byte) bool {
	m := mimetype.Detect(data)
	for _, s := range Supported {
		if m.Is(s) {
			return true
		}
	}
	return false
}

// Decode decodes data into an Image.
func Decode(data []byte) (*Image, error) {
	if !IsSupported(data) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, Detect(data))
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	b := img.Bounds()
	return &Image{
		Pixels: img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Mode:   modeOf(img),
		MIME:   Detect(data),
	}, nil
}

func modeOf(img image.Image) Mode {
	switch img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.CMYK:
		return ModeCMYK
	case *image.YCbCr:
		return ModeRGB
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return ModeRGB
	}
	return ModeRGBA
}

// Flatten returns an opaque RGB copy of img. Transparent and palette images
// are composited onto a white canvas of the same size.
func Flatten(img *Image) *Image {
	var px *image.NRGBA
	if img.HasTransparency() {
		canvas := imaging.New(img.Width, img.Height, color.White)
		px = imaging.Overlay(canvas, img.Pixels, image.Pt(0, 0), 1.0)
	} else {
		px = imaging.Clone(img.Pixels)
	}
	return &Image{Pixels: px, Width: img.Width, Height: img.Height, Mode: ModeRGB, MIME: img.MIME}
}

// Format is an output encoding.
type Format int

const (
	PNG Format = iota
	JPEG
)

// JPEGQuality is used for every JPEG this package writes.
const JPEGQuality = 95

// Encode encodes pixels in format f.
func Encode(pixels image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case JPEG:
		err = imaging.Encode(&buf, pixels, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	default:
		err = imaging.Encode(&buf, imaging.Clone(pixels), imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Resize scales pixels to w x h with a Lanczos filter.
func Resize(pixels image.Image, w, h int) image.Image {
	return imaging.Resize(pixels, max(w, 1), max(h, 1), imaging.Lanczos)
}
