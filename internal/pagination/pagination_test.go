package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pavel2232/ShopBot/internal/model"
)

func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, LastPage(0, 5))
	assert.Equal(t, 1, LastPage(4, 5))
	assert.Equal(t, 2, LastPage(5, 5))
	assert.Equal(t, 3, LastPage(12, 5))
	assert.Equal(t, 1, LastPage(12, 0))
}

func TestFirst(t *testing.T) {
	assert.Equal(t, model.Window{Start: 0, End: 5, CurrentPage: 1, LastPage: 3}, First(12, 5))
}

func TestAdvance_ForwardSaturates(t *testing.T) {
	const size = 5
	w := First(12, size)
	for i := 0; i < w.LastPage+3; i++ {
		w, _ = Advance(w, Forward, size)
	}
	assert.Equal(t, 3, w.CurrentPage)
	assert.Equal(t, model.Window{Start: 10, End: 15, CurrentPage: 3, LastPage: 3}, w)

	again, sig := Advance(w, Forward, size)
	assert.Equal(t, AtLastPage, sig)
	assert.Equal(t, w, again)
}

func TestAdvance_BackwardAtFirstPage(t *testing.T) {
	w := First(12, 5)
	got, sig := Advance(w, Backward, 5)
	assert.Equal(t, AtFirstPage, sig)
	assert.Equal(t, w, got)
}

func TestAdvance_Symmetry(t *testing.T) {
	const size = 4
	w := First(17, size)
	for w.CurrentPage < w.LastPage {
		next, sig := Advance(w, Forward, size)
		assert.Equal(t, Moved, sig)
		back, sig := Advance(next, Backward, size)
		assert.Equal(t, Moved, sig)
		assert.Equal(t, w, back)
		w = next
	}
}

func TestAdvance_WindowInvariant(t *testing.T) {
	const size = 3
	w := First(10, size)
	presses := []Direction{Forward, Forward, Backward, Forward, Forward, Forward, Backward, Backward, Backward, Backward}
	for _, d := range presses {
		w, _ = Advance(w, d, size)
		assert.GreaterOrEqual(t, w.Start, 0)
		assert.LessOrEqual(t, w.Start, w.End)
		assert.GreaterOrEqual(t, w.CurrentPage, 1)
		assert.LessOrEqual(t, w.CurrentPage, w.LastPage)
	}
}

func TestSlice(t *testing.T) {
	start, end := Slice(model.Window{Start: 10, End: 15}, 12)
	assert.Equal(t, 10, start)
	assert.Equal(t, 12, end)

	start, end = Slice(model.Window{Start: 20, End: 25}, 12)
	assert.Equal(t, 12, start)
	assert.Equal(t, 12, end)
}
