package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go-pdftools/internal/geometry"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrDocumentParse is returned when input bytes are not a readable PDF.
var ErrDocumentParse = errors.New("failed to parse PDF")

// Document is an opened PDF. Page sizes are read per page when the document
// is opened, so documents mixing page sizes are handled.
type Document struct {
	name  string
	ctx   *model.Context
	sizes []geometry.PageSize
	path  string
}

// Open reads and validates a PDF.
func Open(rs io.ReadSeeker, name string) (*Document, error) {
	ctx, err := pdfapi.ReadContext(rs, newConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentParse, name, err)
	}
	if err := pdfapi.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentParse, name, err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: page sizes: %v", ErrDocumentParse, name, err)
	}
	sizes := make([]geometry.PageSize, len(dims))
	for i, d := range dims {
		sizes[i] = geometry.PageSize{Width: d.Width, Height: d.Height}
	}
	return &Document{name: name, ctx: ctx, sizes: sizes}, nil
}

// OpenBytes opens a PDF held in memory.
func OpenBytes(data []byte, name string) (*Document, error) {
	return Open(bytes.NewReader(data), name)
}

// OpenFile opens the PDF at path.
func OpenFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Open(f, filepath.Base(path))
}

// Name is the name the document was opened with.
func (d *Document) Name() string { return d.name }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.sizes) }

// PageSize returns the size of the page at zero-based index.
func (d *Document) PageSize(index int) (geometry.PageSize, error) {
	if index < 0 || index >= len(d.sizes) {
		return geometry.PageSize{}, fmt.Errorf("page %d out of range (document has %d pages)", index+1, len(d.sizes))
	}
	return d.sizes[index], nil
}

// PageInfo describes one page.
type PageInfo struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Name   string  `json:"name"`
}

// Info summarizes a document for display.
type Info struct {
	Name  string     `json:"name"`
	Pages int        `json:"pages"`
	Sizes []PageInfo `json:"page_sizes"`
}

// Info returns the page count and every page's size and size name.
func (d *Document) Info() Info {
	info := Info{Name: d.name, Pages: len(d.sizes), Sizes: make([]PageInfo, len(d.sizes))}
	for i, s := range d.sizes {
		info.Sizes[i] = PageInfo{Width: s.Width, Height: s.Height, Name: geometry.NameForSize(s)}
	}
	return info
}

// Write serializes the document.
func (d *Document) Write(w io.Writer) error {
	if d.ctx == nil {
		return errors.New("write: document not open")
	}
	return pdfapi.WriteContext(d.ctx, w)
}

// Bytes serializes the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases the scratch file backing a rendered layer. It is a no-op
// for documents opened from caller data.
func (d *Document) Close() error {
	if d == nil || d.path == "" {
		return nil
	}
	err := os.Remove(d.path)
	d.path = ""
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// layerDesc places a watermark page unscaled at the bottom-left corner of the
// target page.
const layerDesc = "pos:bl, off:0 0, scale:1 abs, rot:0, op:1"

// MergeOnto composites the single page of layer with the page at index.
// With geometry.Above the layer's marks are drawn over the page; with
// geometry.Below the layer becomes the base and the page content is drawn
// over it.
func (d *Document) MergeOnto(index int, layer *Document, stacking geometry.Stacking) error {
	if layer == nil || layer.path == "" {
		return errors.New("merge: layer has no backing file")
	}
	if _, err := d.PageSize(index); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	onTop := stacking == geometry.Above
	wm, err := pdfapi.PDFWatermark(layer.path, layerDesc, onTop, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to load layer: %w", err)
	}
	if err := pdfapi.WatermarkContext(d.ctx, types.IntSet{index + 1: true}, wm); err != nil {
		return fmt.Errorf("failed to merge layer: %w", err)
	}
	return nil
}
