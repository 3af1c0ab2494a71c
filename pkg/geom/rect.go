// Package geom provides the integer rectangle primitives shared by the
// packing engine, the compositor, and the descriptor emitter.
package geom

// Size is a width/height pair in pixels.
type Size struct {
	W int
	H int
}

// Area returns W*H.
func (s Size) Area() int { return s.W * s.H }

// Rotated returns the size with width and height swapped.
func (s Size) Rotated() Size { return Size{W: s.H, H: s.W} }

// Padded returns the size grown by pad on every side.
func (s Size) Padded(pad int) Size { return Size{W: s.W + 2*pad, H: s.H + 2*pad} }

// FitsIn reports whether s fits inside container without rotation.
func (s Size) FitsIn(container Size) bool {
	return s.W <= container.W && s.H <= container.H
}

// Rect is an axis-aligned rectangle positioned inside a canvas.
// The zero value is the degenerate empty rectangle at the origin.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// RectAt builds a Rect from a position and size.
func RectAt(x, y int, s Size) Rect { return Rect{X: x, Y: y, W: s.W, H: s.H} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Right returns the exclusive right edge (X+W).
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge (Y+H).
func (r Rect) Bottom() int { return r.Y + r.H }

// ContainedIn reports whether r lies fully within b.
func (r Rect) ContainedIn(b Rect) bool {
	return r.X >= b.X && r.Y >= b.Y &&
		r.Right() <= b.Right() && r.Bottom() <= b.Bottom()
}

// Disjoint reports whether r and b share no interior points.
// Degenerate rectangles are disjoint from everything.
func (r Rect) Disjoint(b Rect) bool {
	if r.Empty() || b.Empty() {
		return true
	}
	return r.Right() <= b.X || b.Right() <= r.X ||
		r.Bottom() <= b.Y || b.Bottom() <= r.Y
}

// Overlaps reports whether r and b share interior points.
func (r Rect) Overlaps(b Rect) bool { return !r.Disjoint(b) }

// DisjointSet is a collection of mutually non-overlapping rectangles.
// The packer tests feed finished plans through it to verify that no two
// placements ever stack on top of each other.
type DisjointSet struct {
	rects []Rect
}

// Add inserts r if it overlaps no rectangle already in the set.
// It returns false (and leaves the set unchanged) on overlap.
// Degenerate rectangles are ignored and always accepted.
func (d *DisjointSet) Add(r Rect) bool {
	if r.Empty() {
		return true
	}
	if !d.Disjoint(r) {
		return false
	}
	d.rects = append(d.rects, r)
	return true
}

// Disjoint reports whether r overlaps nothing in the set.
func (d *DisjointSet) Disjoint(r Rect) bool {
	if r.Empty() {
		return true
	}
	for _, a := range d.rects {
		if a.Overlaps(r) {
			return false
		}
	}
	return true
}

// Len returns the number of rectangles added so far.
func (d *DisjointSet) Len() int { return len(d.rects) }

// Clear empties the set.
func (d *DisjointSet) Clear() { d.rects = d.rects[:0] }
