package tui

import "github.com/spiffcs/explore/internal/constants"

// listCursor tracks the selected row of a scrollable list.
type listCursor struct {
	pos int
}

// move shifts the cursor by delta, staying within [0, total).
func (c *listCursor) move(delta, total int) {
	c.pos += delta
	c.clamp(total)
}

// clamp keeps the cursor valid after the list changed size.
func (c *listCursor) clamp(total int) {
	if c.pos >= total {
		c.pos = total - 1
	}
	if c.pos < 0 {
		c.pos = 0
	}
}

func (c *listCursor) home() { c.pos = 0 }

func (c *listCursor) end(total int) {
	c.pos = total - 1
	c.clamp(total)
}

// nearEnd reports whether the cursor is within constants.LoadMoreThreshold
// rows of the end of the list, which is when the next page is requested.
func (c listCursor) nearEnd(total int) bool {
	return total > 0 && c.pos >= total-constants.LoadMoreThreshold
}

// calculateScrollWindow determines which items to show based on cursor position
func calculateScrollWindow(cursor, total, viewHeight int) (start, end int) {
	if viewHeight <= 0 {
		return 0, 0
	}
	if total <= viewHeight {
		return 0, total
	}

	start = cursor - viewHeight/2
	if start < 0 {
		start = 0
	}

	end = start + viewHeight
	if end > total {
		end = total
		start = end - viewHeight
	}

	return start, end
}
