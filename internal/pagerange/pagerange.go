// Package pagerange turns a page selection into zero-based page indices.
//
// A selection is either a named mode (all, first, last) or a custom
// expression: "start-end" (1-based, inclusive) or a comma list such as
// "1,3,5". Indices outside the document are dropped without error;
// malformed expressions fail with ErrInvalidRange.
package pagerange

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned for expressions that cannot be parsed.
var ErrInvalidRange = errors.New("invalid page range")

// Mode is the kind of page selection.
type Mode int

const (
	All Mode = iota
	First
	Last
	Custom
)

func (m Mode) String() string {
	switch m {
	case All:
		return "all"
	case First:
		return "first"
	case Last:
		return "last"
	}
	return "custom"
}

// ParseMode accepts the mode names and the labels used by the web form.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all pages":
		return All, nil
	case "first", "first page only":
		return First, nil
	case "last", "last page only":
		return Last, nil
	case "custom", "custom range", "range":
		return Custom, nil
	}
	return All, fmt.Errorf("unknown page selection %q", s)
}

// Selection is a page selection as entered by the user.
type Selection struct {
	Mode Mode
	Expr string
}

// Resolve resolves s against a document with pageCount pages.
func (s Selection) Resolve(pageCount int) ([]int, error) {
	return Resolve(s.Mode, s.Expr, pageCount)
}

// Resolve returns the selected zero-based page indices in ascending order
// without duplicates. expr is only consulted for Custom.
func Resolve(mode Mode, expr string, pageCount int) ([]int, error) {
	if pageCount < 0 {
		pageCount = 0
	}
	switch mode {
	case All:
		pages := make([]int, pageCount)
		for i := range pages {
			pages[i] = i
		}
		return pages, nil
	case First:
		if pageCount == 0 {
			return []int{}, nil
		}
		return []int{0}, nil
	case Last:
		if pageCount == 0 {
			return []int{}, nil
		}
		return []int{pageCount - 1}, nil
	case Custom:
		return parseCustom(expr, pageCount)
	}
	return nil, fmt.Errorf("unknown page selection mode %d", mode)
}

func parseCustom(expr string, pageCount int) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidRange)
	}

	if strings.Contains(expr, "-") {
		parts := strings.Split(expr, "-")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q is not of the form start-end", ErrInvalidRange, expr)
		}
		start, err := parseNumber(parts[0])
		if err != nil {
			return nil, err
		}
		end, err := parseNumber(parts[1])
		if err != nil {
			return nil, err
		}
		if start > end {
			return nil, fmt.Errorf("%w: start %d is after end %d", ErrInvalidRange, start, end)
		}
		end = min(end, pageCount)
		pages := []int{}
		for p := start; p <= end; p++ {
			if idx := p - 1; idx >= 0 && idx < pageCount {
				pages = append(pages, idx)
			}
		}
		return pages, nil
	}

	pages := []int{}
	for _, tok := range strings.Split(expr, ",") {
		n, err := parseNumber(tok)
		if err != nil {
			return nil, err
		}
		if idx := n - 1; idx >= 0 && idx < pageCount {
			pages = append(pages, idx)
		}
	}
	slices.Sort(pages)
	return slices.Compact(pages), nil
}

func parseNumber(tok string) (int, error) {
	tok = strings.TrimSpace(tok)
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a page number", ErrInvalidRange, tok)
	}
	return n, nil
}
