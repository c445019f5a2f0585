// Package imagepdf turns a batch of images into page-formatted PDFs.
//
// Functions:
//   - Assemble: Draws every image onto its own page.
//     Input: []Input (name + bytes), Options (page size, orientation, fit, margin, mode)
//     Output: []Output (one combined PDF or one PDF per image) or error
//
// Expected outputs:
// - Combined mode yields "converted_images.pdf" with pages in input order
// - Separate mode yields "<basename>.pdf" per image
// - Transparent and palette images are flattened against white
package imagepdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/raster"
	"go-pdftools/internal/utils"

	"github.com/rs/zerolog/log"
)

// CombinedName is the file name of a Combined conversion.
const CombinedName = "converted_images.pdf"

// DefaultMarginMM is the page margin used when none is given.
const DefaultMarginMM = 10

var ErrNoInputImages = errors.New("no input images")

// Mode selects between one output document and one per image.
type Mode int

const (
	Combined Mode = iota
	Separate
)

func (m Mode) String() string {
	if m == Separate {
		return "separate"
	}
	return "combined"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "combined", "one", "single":
		return Combined, nil
	case "separate", "each", "multiple":
		return Separate, nil
	}
	return Combined, fmt.Errorf("unknown output mode %q", s)
}

type Input struct {
	Name string
	Data []byte
}

type Output struct {
	Name string
	Data []byte
}

// Options controls page layout. PageSize holds portrait dimensions;
// Orientation swaps them for landscape. Margin is in points.
type Options struct {
	PageSize    geometry.PageSize
	Orientation geometry.Orientation
	Fit         geometry.FitPolicy
	Margin      float64
	Mode        Mode
}

// DefaultOptions returns A4 portrait, fit to page, 10mm margin, combined.
func DefaultOptions() Options {
	a4, _ := geometry.LookupPreset("A4")
	return Options{
		PageSize: a4,
		Fit:      geometry.Fit,
		Margin:   geometry.MillimetersToPoints(DefaultMarginMM),
		Mode:     Combined,
	}
}

// Book accumulates image pages into one document.
type Book interface {
	AddPage(size geometry.PageSize, img *raster.Image, rect geometry.Rect, mode raster.Transparency) error
	Write(w io.Writer) error
}

type BookFactory func() Book

type Assembler struct {
	newBook BookFactory
}

// New returns an Assembler drawing into books from f, or into pdf.Book when
// f is nil.
func New(f BookFactory) *Assembler {
	if f == nil {
		f = func() Book { return pdf.NewBook() }
	}
	return &Assembler{newBook: f}
}

type decoded struct {
	name string
	img  *raster.Image
	rect geometry.Rect
}

// Assemble converts inputs according to opts. All inputs are decoded and
// placed before any document is started.
func (a *Assembler) Assemble(inputs []Input, opts Options) ([]Output, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputImages
	}
	page := opts.PageSize.Oriented(opts.Orientation)
	if !page.Valid() {
		return nil, fmt.Errorf("invalid page size %s", page)
	}
	if _, err := geometry.FittedRect(page, 1, geometry.Stretch, opts.Margin); err != nil {
		return nil, err
	}

	images := make([]decoded, 0, len(inputs))
	for _, in := range inputs {
		img, err := raster.Decode(in.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Name, err)
		}
		aspect, err := geometry.AspectRatio(float64(img.Width), float64(img.Height))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Name, err)
		}
		rect, err := geometry.FittedRect(page, aspect, opts.Fit, opts.Margin)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Name, err)
		}
		log.Debug().Str("image", in.Name).Str("mode", string(img.Mode)).Stringer("rect", rect).Msg("image placed")
		images = append(images, decoded{name: in.Name, img: raster.Flatten(img), rect: rect})
	}

	if opts.Mode == Separate {
		return a.separate(page, images)
	}
	data, err := a.draw(page, images)
	if err != nil {
		return nil, err
	}
	return []Output{{Name: CombinedName, Data: data}}, nil
}

func (a *Assembler) separate(page geometry.PageSize, images []decoded) ([]Output, error) {
	bases := make([]string, len(images))
	for i, d := range images {
		bases[i] = SeparateBase(d.name)
	}
	names := utils.UniqueTitles(bases)

	outputs := make([]Output, 0, len(images))
	for i, d := range images {
		data, err := a.draw(page, images[i:i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
		outputs = append(outputs, Output{Name: names[i] + ".pdf", Data: data})
	}
	return outputs, nil
}

func (a *Assembler) draw(page geometry.PageSize, images []decoded) ([]byte, error) {
	book := a.newBook()
	for _, d := range images {
		if err := book.AddPage(page, d.img, d.rect, raster.Opaque); err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
	}
	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SeparateBase returns the output base name for one image.
func SeparateBase(name string) string {
	base := utils.SanitizeFilename(utils.BaseName(name))
	if base == "" || base == "." {
		return "image"
	}
	return base
}
