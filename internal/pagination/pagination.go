// Package pagination computes which slice of the catalog is visible after a page button press.
package pagination

import "github.com/Pavel2232/ShopBot/internal/model"

type Direction int

const (
	Forward Direction = iota + 1
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// Signal tells the caller whether the press moved the window.
type Signal int

const (
	Moved Signal = iota
	AtLastPage
	AtFirstPage
)

// LastPage returns floor(total/pageSize)+1. A catalog whose size is an exact multiple of
// pageSize therefore ends with an empty page; this keeps page numbers stable for callers
// that already hold windows computed this way.
func LastPage(total, pageSize int) int {
	if pageSize <= 0 || total < 0 {
		return 1
	}
	return total/pageSize + 1
}

// First returns the window of page one.
func First(total, pageSize int) model.Window {
	return model.Window{Start: 0, End: pageSize, CurrentPage: 1, LastPage: LastPage(total, pageSize)}
}

// Advance moves w one page in direction d. At either end the window is returned unchanged
// together with the matching signal.
func Advance(w model.Window, d Direction, pageSize int) (model.Window, Signal) {
	switch d {
	case Forward:
		if w.CurrentPage >= w.LastPage {
			return w, AtLastPage
		}
		return model.Window{
			Start:       w.End,
			End:         w.End + pageSize,
			CurrentPage: w.CurrentPage + 1,
			LastPage:    w.LastPage,
		}, Moved
	case Backward:
		if w.CurrentPage <= 1 {
			return w, AtFirstPage
		}
		start := w.Start - pageSize
		if start < 0 {
			start = 0
		}
		return model.Window{
			Start:       start,
			End:         w.Start,
			CurrentPage: w.CurrentPage - 1,
			LastPage:    w.LastPage,
		}, Moved
	}
	return w, Moved
}

// Slice clamps the window to the bounds of a collection of length n.
func Slice(w model.Window, n int) (start, end int) {
	start, end = w.Start, w.End
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return start, end
}
