package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/raster"

	"codeberg.org/go-pdf/fpdf"
)

// Book builds a document one image page at a time.
type Book struct {
	pdf   *fpdf.Fpdf
	pages int
}

// NewBook returns an empty Book. Units are points.
func NewBook() *Book {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 612, Ht: 792},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("go-pdftools", true)
	return &Book{pdf: pdf}
}

// Pages returns the number of pages added so far.
func (b *Book) Pages() int { return b.pages }

// AddPage appends a page of the given size with img drawn into rect.
// rect uses PDF coordinates (bottom-left origin). With raster.Opaque the
// image is flattened against white and embedded as JPEG; with
// raster.Preserve it is embedded as PNG and its alpha becomes a soft mask.
func (b *Book) AddPage(size geometry.PageSize, img *raster.Image, rect geometry.Rect, mode raster.Transparency) error {
	if !size.Valid() {
		return fmt.Errorf("invalid page size %s", size)
	}
	if img == nil {
		return errors.New("no image to draw")
	}

	var (
		data []byte
		err  error
		opts fpdf.ImageOptions
	)
	if mode == raster.Opaque {
		data, err = raster.Encode(raster.Flatten(img).Pixels, raster.JPEG)
		opts.ImageType = "JPG"
	} else {
		data, err = raster.Encode(img.Pixels, raster.PNG)
		opts.ImageType = "PNG"
	}
	if err != nil {
		return err
	}

	name := fmt.Sprintf("img%d", b.pages)
	b.pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	// fpdf measures y from the top edge
	top := size.Height - rect.Y - rect.Height
	b.pdf.ImageOptions(name, rect.X, top, rect.Width, rect.Height, false, opts, 0, "")
	if b.pdf.Err() {
		return fmt.Errorf("draw page %d: %w", b.pages+1, b.pdf.Error())
	}
	b.pages++
	return nil
}

// Write outputs the finished document. A Book cannot be written twice.
func (b *Book) Write(w io.Writer) error {
	if b.pages == 0 {
		return errors.New("book has no pages")
	}
	if err := b.pdf.Output(w); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	return nil
}

// Scratch hands out temporary files that are removed when a run ends.
type Scratch interface {
	CreateTemp(pattern string) (*os.File, error)
}

// Renderer draws single-page image layers.
type Renderer struct {
	scratch Scratch
}

// NewRenderer returns a Renderer that keeps its layers in s.
func NewRenderer(s Scratch) *Renderer {
	return &Renderer{scratch: s}
}

// RenderPage draws img into rect on a blank page of the given size and
// returns it as a one-page Document. The caller must Close it.
func (r *Renderer) RenderPage(img *raster.Image, size geometry.PageSize, rect geometry.Rect, mode raster.Transparency) (*Document, error) {
	book := NewBook()
	if err := book.AddPage(size, img, rect, mode); err != nil {
		return nil, err
	}

	f, err := r.scratch.CreateTemp("layer-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create layer file: %w", err)
	}
	path := f.Name()
	if err := book.Write(f); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	doc, err := OpenFile(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	doc.path = path
	return doc, nil
}
