package state

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is the scroll distance for pgup/pgdown given the full terminal
// height and the lines taken by header and footer.
func PageStep(height, chromeLines int) int {
	if height <= 0 {
		return 10
	}
	step := height - chromeLines - 1
	if step < 3 {
		step = 3
	}
	return step
}

func MaxTop(viewport, content int) int {
	if viewport <= 0 || content <= viewport {
		return 0
	}
	return content - viewport
}

func ClampScroll(top, viewport, content int) int {
	if top < 0 {
		return 0
	}
	if maxTop := MaxTop(viewport, content); top > maxTop {
		return maxTop
	}
	return top
}

// AtBottom reports whether the bottom edge of the viewport is within
// threshold lines of the end of the content.
func AtBottom(top, viewport, content, threshold int) bool {
	if viewport <= 0 {
		return false
	}
	return top+viewport >= content-threshold
}

// EnsureVisible returns a scroll offset that keeps the span
// [spanTop, spanTop+spanHeight) inside the viewport, moving as little as
// possible.
func EnsureVisible(top, viewport, spanTop, spanHeight int) int {
	if viewport <= 0 {
		return top
	}
	if spanTop < top {
		return spanTop
	}
	if spanTop+spanHeight > top+viewport {
		next := spanTop + spanHeight - viewport
		if next > spanTop {
			next = spanTop
		}
		return next
	}
	return top
}
