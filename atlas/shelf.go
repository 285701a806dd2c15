package atlas

// ShelfAllocator implements shelf-based rectangle packing.
//
// Rectangles are organized in horizontal shelves. Each shelf is as tall as
// the tallest item placed on it. Items go left-to-right on the first shelf
// that can take them; the last shelf may grow taller while there is room
// below it; otherwise a new shelf is opened below the last one.
//
// Padding separates neighbouring items but is never required beyond the
// right or bottom edge, so an item as large as the whole area fits an
// empty allocator.
type ShelfAllocator struct {
	width   int
	height  int
	padding int
	shelves []shelf

	usedArea int
}

// shelf is a horizontal strip of the packing area.
type shelf struct {
	y      int // top of the shelf
	height int // tallest item so far
	x      int // next free x position, padding included
}

// NewShelfAllocator creates an allocator for a width x height area.
func NewShelfAllocator(width, height, padding int) *ShelfAllocator {
	return &ShelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// slot is a placement found by find and not yet committed.
type slot struct {
	x, y  int
	shelf int // index into shelves; len(shelves) opens a new shelf
	w, h  int
}

// Allocate finds space for a w x h rectangle.
// Returns the top-left position and true, or -1, -1, false if it does not fit.
func (a *ShelfAllocator) Allocate(w, h int) (x, y int, ok bool) {
	s, ok := a.find(w, h)
	if !ok {
		return -1, -1, false
	}
	a.commit(s)
	return s.x, s.y, true
}

// CanFit reports whether Allocate(w, h) would succeed, without allocating.
func (a *ShelfAllocator) CanFit(w, h int) bool {
	_, ok := a.find(w, h)
	return ok
}

// find locates space for a w x h rectangle without changing the allocator.
func (a *ShelfAllocator) find(w, h int) (slot, bool) {
	if w <= 0 || h <= 0 || w > a.width || h > a.height {
		return slot{}, false
	}
	for i, sh := range a.shelves {
		if sh.x+w > a.width {
			continue
		}
		// Only the last shelf may grow, and only into free space below.
		if h > sh.height && (i != len(a.shelves)-1 || sh.y+h > a.height) {
			continue
		}
		return slot{x: sh.x, y: sh.y, shelf: i, w: w, h: h}, true
	}
	newY := a.nextShelfY()
	if newY+h > a.height {
		return slot{}, false
	}
	return slot{x: 0, y: newY, shelf: len(a.shelves), w: w, h: h}, true
}

// commit records a placement returned by find. No other allocation may
// happen in between.
func (a *ShelfAllocator) commit(s slot) {
	if s.shelf == len(a.shelves) {
		a.shelves = append(a.shelves, shelf{y: s.y, height: s.h})
	}
	sh := &a.shelves[s.shelf]
	sh.height = max(sh.height, s.h)
	sh.x = s.x + s.w + a.padding
	a.usedArea += s.w * s.h
}

// nextShelfY returns the top of the shelf that would be opened next.
func (a *ShelfAllocator) nextShelfY() int {
	if len(a.shelves) == 0 {
		return 0
	}
	last := a.shelves[len(a.shelves)-1]
	return last.y + last.height + a.padding
}

// Reset clears all allocations, allowing the allocator to be reused.
func (a *ShelfAllocator) Reset() {
	a.shelves = a.shelves[:0]
	a.usedArea = 0
}

// Utilization returns the fraction of the area in use (0.0 to 1.0).
func (a *ShelfAllocator) Utilization() float64 {
	if a.width <= 0 || a.height <= 0 {
		return 0
	}
	return float64(a.usedArea) / float64(a.width*a.height)
}

// ShelfCount returns the number of shelves currently in use.
func (a *ShelfAllocator) ShelfCount() int {
	return len(a.shelves)
}
