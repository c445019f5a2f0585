// Package overlay composites an image onto selected pages of a PDF, either
// over the page content or underneath it as a background.
//
// Types:
//   - Placement: where the image goes on a page (anchored box or full page)
//   - Request: page selection, stacking order, placement and transparency
//   - Compositor: runs a Request against one document
//
// Functions:
//   - Composite: walks every page and merges a rendered layer onto each
//     selected page.
//     Input: Document, *raster.Image, Request
//     Output: Result or error (*PageCompositionError on a page failure)
//   - Preview: renders a PNG showing where the image lands on the first page.
//   - OutputName: returns "<basename>_signed.pdf".
//
// Expected outputs:
// - Page count of the output always equals the input's
// - Unselected pages are left untouched
// - A failure on any page aborts the run
package overlay

import (
	"errors"
	"fmt"
	"math"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/pagerange"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/raster"
	"go-pdftools/internal/utils"

	"github.com/rs/zerolog/log"
)

const (
	defaultMaxWidth   = 200
	defaultMaxHeight  = 75
	defaultWidthFrac  = 0.3
	defaultHeightFrac = 0.1
)

// ErrInvalidPlacement is returned for negative overlay dimensions.
var ErrInvalidPlacement = errors.New("invalid overlay placement")

// Placement positions the image on a page. A zero Width or Height is
// replaced by a default derived from the page it is placed on.
type Placement struct {
	Background bool
	Horizontal geometry.HAnchor
	Vertical   geometry.VAnchor
	Width      float64
	Height     float64
	OffsetX    float64
	OffsetY    float64
}

func (p Placement) validate() error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidPlacement, p.Width, p.Height)
	}
	return nil
}

// Size returns the image box for a page, filling in defaults.
func (p Placement) Size(page geometry.PageSize) (w, h float64) {
	w, h = p.Width, p.Height
	if w == 0 {
		w = math.Min(defaultMaxWidth, math.Floor(page.Width*defaultWidthFrac))
	}
	if h == 0 {
		h = math.Min(defaultMaxHeight, math.Floor(page.Height*defaultHeightFrac))
	}
	return w, h
}

// Rect returns where the image is drawn on page.
func (p Placement) Rect(page geometry.PageSize) geometry.Rect {
	if p.Background {
		return geometry.BackgroundRect(page)
	}
	w, h := p.Size(page)
	return geometry.AnchoredRect(page, w, h, p.Horizontal, p.Vertical, p.OffsetX, p.OffsetY)
}

// Request carries every parameter of one overlay run.
type Request struct {
	Pages        pagerange.Selection
	Stacking     geometry.Stacking
	Placement    Placement
	Transparency raster.Transparency
}

// Document is the PDF being composited. It is modified in place.
type Document interface {
	PageCount() int
	PageSize(index int) (geometry.PageSize, error)
	MergeOnto(index int, layer *pdf.Document, stacking geometry.Stacking) error
}

// Renderer draws the image onto a blank page.
type Renderer interface {
	RenderPage(img *raster.Image, size geometry.PageSize, rect geometry.Rect, mode raster.Transparency) (*pdf.Document, error)
}

// PageCompositionError identifies the page a run failed on.
type PageCompositionError struct {
	Page int
	Err  error
}

func (e *PageCompositionError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page+1, e.Err)
}

func (e *PageCompositionError) Unwrap() error { return e.Err }

// Result summarizes a finished run.
type Result struct {
	PageCount int
	Pages     []int
}

type pageState int

const (
	untouched pageState = iota
	layerDrawn
	merged
)

func (s pageState) String() string {
	switch s {
	case layerDrawn:
		return "layer_drawn"
	case merged:
		return "merged"
	default:
		return "untouched"
	}
}

type Compositor struct {
	renderer Renderer
}

func New(r Renderer) *Compositor {
	return &Compositor{renderer: r}
}

// Composite applies req to doc. On error doc must be discarded.
func (c *Compositor) Composite(doc Document, img *raster.Image, req Request) (Result, error) {
	count := doc.PageCount()
	pages, err := req.Pages.Resolve(count)
	if err != nil {
		return Result{}, err
	}
	if err := req.Placement.validate(); err != nil {
		return Result{}, err
	}
	if count == 0 {
		return Result{}, nil
	}
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return Result{}, geometry.ErrInvalidImageDimensions
	}

	selected := make(map[int]bool, len(pages))
	for _, p := range pages {
		selected[p] = true
	}

	for i := 0; i < count; i++ {
		if !selected[i] {
			log.Debug().Int("page", i+1).Stringer("state", untouched).Msg("overlay page")
			continue
		}
		if err := c.compositePage(doc, img, req, i); err != nil {
			log.Error().Err(err).Int("page", i+1).Msg("overlay failed")
			return Result{}, &PageCompositionError{Page: i, Err: err}
		}
	}
	return Result{PageCount: count, Pages: pages}, nil
}

func (c *Compositor) compositePage(doc Document, img *raster.Image, req Request, i int) error {
	size, err := doc.PageSize(i)
	if err != nil {
		return err
	}
	rect := req.Placement.Rect(size)
	layer, err := c.renderer.RenderPage(img, size, rect, req.Transparency)
	if err != nil {
		return fmt.Errorf("render layer: %w", err)
	}
	defer layer.Close()
	log.Debug().Int("page", i+1).Stringer("state", layerDrawn).Stringer("rect", rect).Msg("overlay page")

	if err := doc.MergeOnto(i, layer, req.Stacking); err != nil {
		return fmt.Errorf("merge layer: %w", err)
	}
	log.Debug().Int("page", i+1).Stringer("state", merged).Stringer("stacking", req.Stacking).Msg("overlay page")
	return nil
}

// OutputName returns the download name for an overlaid document.
func OutputName(original string) string {
	base := utils.SanitizeFilename(utils.BaseName(original))
	if base == "" || base == "." {
		base = "document"
	}
	return base + "_signed.pdf"
}
