// Package pdf wraps the PDF libraries behind the small set of operations the
// document tools need.
//
// Types and functions:
//   - Document: an opened PDF (pdfcpu). Page count, per-page size, write,
//     and MergeOnto, which composites a one-page layer above or below one
//     page's content.
//   - Book: a page builder that draws one image per page (fpdf).
//   - Renderer: draws one image onto a blank page and returns it as a
//     one-page Document backed by a scratch file.
//   - Joiner: concatenates documents and installs or strips the outline.
//   - RasterizePage: renders a page to pixels for previews (go-fitz).
//
// These are used by the overlay, imagepdf and merge packages.
package pdf

import (
	"bytes"
	"fmt"
	"io"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
)

func newConfig() *model.Configuration {
	config := model.NewDefaultConfiguration()
	config.ValidationMode = model.ValidationRelaxed
	return config
}

// Bookmark is a top-level outline entry pointing at a zero-based page.
type Bookmark struct {
	Title     string
	PageIndex int
}

// Joiner concatenates whole documents.
type Joiner struct{}

// Join writes the pages of parts, in order, to w. With a non-empty outline the
// result carries exactly those bookmarks; otherwise every bookmark inherited
// from the parts is removed.
func (Joiner) Join(w io.Writer, parts []io.ReadSeeker, outline []Bookmark) error {
	if len(parts) == 0 {
		return fmt.Errorf("join: no documents")
	}
	var merged bytes.Buffer
	if err := pdfapi.MergeRaw(parts, &merged, false, newConfig()); err != nil {
		return fmt.Errorf("failed to merge PDFs: %w", err)
	}

	if len(outline) == 0 {
		return removeBookmarks(merged.Bytes(), w)
	}

	bms := make([]pdfcpu.Bookmark, 0, len(outline))
	for _, b := range outline {
		bms = append(bms, pdfcpu.Bookmark{Title: b.Title, PageFrom: b.PageIndex + 1})
	}
	if err := pdfapi.AddBookmarks(bytes.NewReader(merged.Bytes()), w, bms, true, newConfig()); err != nil {
		return fmt.Errorf("failed to add bookmarks: %w", err)
	}
	return nil
}

// removeBookmarks strips the outline from data. A document without an
// outline is passed through unchanged.
func removeBookmarks(data []byte, w io.Writer) error {
	var out bytes.Buffer
	if err := pdfapi.RemoveBookmarks(bytes.NewReader(data), &out, newConfig()); err != nil {
		log.Debug().Err(err).Msg("no bookmarks removed")
		_, err = w.Write(data)
		return err
	}
	_, err := out.WriteTo(w)
	return err
}
