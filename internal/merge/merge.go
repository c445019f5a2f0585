// Package merge concatenates PDFs into one document, optionally with one
// bookmark per source.
//
// Functions:
//   - NewPlan: Orders the sources and computes where each one starts.
//     Input: []Source, Order, addBookmarks
//     Output: *Plan or ErrNoInputDocuments
//   - Merger.Merge: Writes the merged document described by a Plan.
//
// Expected outputs:
// - Output page count is the sum of the source page counts
// - Bookmark i points at the first page contributed by source i
// - Bookmark titles are sanitized and unique
package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"go-pdftools/internal/pdf"
	"go-pdftools/internal/utils"

	"github.com/rs/zerolog/log"
)

// OutputName is the file name of every merge result.
const OutputName = "merged_document.pdf"

var ErrNoInputDocuments = errors.New("no input documents")

// Order is how sources are arranged before merging.
type Order int

const (
	AsGiven Order = iota
	NameAsc
	NameDesc
)

func (o Order) String() string {
	switch o {
	case NameAsc:
		return "name_asc"
	case NameDesc:
		return "name_desc"
	default:
		return "as_given"
	}
}

// ParseOrder accepts the order names and the labels used by the web form.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "as_given", "given", "as uploaded":
		return AsGiven, nil
	case "name_asc", "asc", "sort by filename (a-z)":
		return NameAsc, nil
	case "name_desc", "desc", "sort by filename (z-a)":
		return NameDesc, nil
	}
	return AsGiven, fmt.Errorf("unknown merge order %q", s)
}

// Document is a source PDF.
type Document interface {
	PageCount() int
	Write(w io.Writer) error
}

type Source struct {
	Name string
	Doc  Document
}

// Entry is one source in merge order.
type Entry struct {
	Source
	Title  string
	Offset int
}

// Plan is the resolved layout of a merge.
type Plan struct {
	Entries    []Entry
	TotalPages int
	Bookmarks  bool
}

// Outline returns the bookmarks the merged document carries.
func (p *Plan) Outline() []pdf.Bookmark {
	if !p.Bookmarks {
		return nil
	}
	out := make([]pdf.Bookmark, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = pdf.Bookmark{Title: e.Title, PageIndex: e.Offset}
	}
	return out
}

// Offsets returns the zero-based first page of each entry.
func (p *Plan) Offsets() []int {
	out := make([]int, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Offset
	}
	return out
}

// NewPlan orders sources and records each one's starting page.
func NewPlan(sources []Source, order Order, addBookmarks bool) (*Plan, error) {
	if len(sources) == 0 {
		return nil, ErrNoInputDocuments
	}
	ordered := append([]Source(nil), sources...)
	switch order {
	case NameAsc:
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })
	case NameDesc:
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name > ordered[j].Name })
	}

	titles := make([]string, len(ordered))
	for i, s := range ordered {
		titles[i] = utils.SanitizeTitle(filepath.Base(s.Name))
	}
	titles = utils.UniqueTitles(titles)

	plan := &Plan{Entries: make([]Entry, len(ordered)), Bookmarks: addBookmarks}
	for i, s := range ordered {
		plan.Entries[i] = Entry{Source: s, Title: titles[i], Offset: plan.TotalPages}
		plan.TotalPages += s.Doc.PageCount()
	}
	return plan, nil
}

// Joiner concatenates serialized documents and installs an outline.
type Joiner interface {
	Join(w io.Writer, parts []io.ReadSeeker, outline []pdf.Bookmark) error
}

type Merger struct {
	joiner Joiner
}

// New returns a Merger using j, or pdf.Joiner when j is nil.
func New(j Joiner) *Merger {
	if j == nil {
		j = pdf.Joiner{}
	}
	return &Merger{joiner: j}
}

// Merge writes the merged document to w and returns the plan it followed.
func (m *Merger) Merge(w io.Writer, sources []Source, order Order, addBookmarks bool) (*Plan, error) {
	plan, err := NewPlan(sources, order, addBookmarks)
	if err != nil {
		return nil, err
	}

	parts := make([]io.ReadSeeker, len(plan.Entries))
	for i, e := range plan.Entries {
		var buf bytes.Buffer
		if err := e.Doc.Write(&buf); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		parts[i] = bytes.NewReader(buf.Bytes())
		log.Debug().Str("source", e.Name).Int("offset", e.Offset).Int("pages", e.Doc.PageCount()).Msg("merge source")
	}

	if err := m.joiner.Join(w, parts, plan.Outline()); err != nil {
		return nil, err
	}
	return plan, nil
}
