package atlas

import (
	"sort"

	"github.com/packforge/atlaspack/pkg/geom"
)

// Engine packs candidates onto a single canvas using the MaxRects scheme.
// The zero value is not usable; Width and Height must be positive.
//
// Pack never fails: candidates that do not fit are reported back, and the
// caller decides what that means.
type Engine struct {
	// Width and Height are the canvas dimensions in pixels.
	Width  int
	Height int

	// Padding is reserved on every side of every placed candidate.
	Padding int

	// Heuristic selects the free-rectangle scoring rule.
	Heuristic Heuristic
}

// Pack places as many candidates as fit onto one canvas.
//
// Candidates are processed largest-first: descending padded area, then
// descending padded height, then insertion order. placed is returned in
// placement order with final positions (padding excluded) and rotation
// flags; remaining holds the unplaced candidates in their original relative
// order. The Atlas field of each placement is left at zero for the caller
// to assign.
func (e Engine) Pack(items []Candidate) (placed []Placement, remaining []Candidate) {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa := items[order[a]].PaddedSize(e.Padding)
		sb := items[order[b]].PaddedSize(e.Padding)
		if sa.Area() != sb.Area() {
			return sa.Area() > sb.Area()
		}
		return sa.H > sb.H
	})

	free := newFreeRectSet(e.Width, e.Height)
	unplaced := make([]bool, len(items))

	for _, idx := range order {
		item := items[idx]
		outer, rotated, ok := free.findBest(item.PaddedSize(e.Padding), item.AllowRotate, e.Heuristic)
		if !ok {
			unplaced[idx] = true
			continue
		}
		free.place(outer)

		inner := geom.Rect{
			X: outer.X + e.Padding,
			Y: outer.Y + e.Padding,
			W: outer.W - 2*e.Padding,
			H: outer.H - 2*e.Padding,
		}
		placed = append(placed, Placement{
			Name:    item.Name,
			Rect:    inner,
			Rotated: rotated,
		})
	}

	for i, item := range items {
		if unplaced[i] {
			remaining = append(remaining, item)
		}
	}
	return placed, remaining
}

// freeRectSet tracks the unoccupied maximal rectangles of one canvas.
// It lives for exactly one Pack call.
type freeRectSet struct {
	binW int
	binH int
	free []geom.Rect
	used []geom.Rect
}

func newFreeRectSet(w, h int) *freeRectSet {
	return &freeRectSet{
		binW: w,
		binH: h,
		free: []geom.Rect{{X: 0, Y: 0, W: w, H: h}},
	}
}

// score orders candidate positions. Lower is better; y and x make the
// ordering total so ties resolve toward the top-left.
type score struct {
	s1, s2, y, x int
}

func (s score) less(o score) bool {
	if s.s1 != o.s1 {
		return s.s1 < o.s1
	}
	if s.s2 != o.s2 {
		return s.s2 < o.s2
	}
	if s.y != o.y {
		return s.y < o.y
	}
	return s.x < o.x
}

// findBest returns the outer rectangle for the best-scoring position of
// size on the canvas, trying the rotated orientation as well when
// allowRotate is set. ok is false when no free rectangle accommodates the
// size in any permitted orientation.
func (f *freeRectSet) findBest(size geom.Size, allowRotate bool, h Heuristic) (best geom.Rect, rotated bool, ok bool) {
	var bestScore score

	consider := func(fr geom.Rect, sz geom.Size, rot bool) {
		if !sz.FitsIn(fr.Size()) {
			return
		}
		s := f.scorePosition(fr, sz, h)
		if !ok || s.less(bestScore) {
			bestScore = s
			best = geom.RectAt(fr.X, fr.Y, sz)
			rotated = rot
			ok = true
		}
	}

	for _, fr := range f.free {
		consider(fr, size, false)
		if allowRotate && size.W != size.H {
			consider(fr, size.Rotated(), true)
		}
	}
	return best, rotated, ok
}

func (f *freeRectSet) scorePosition(fr geom.Rect, sz geom.Size, h Heuristic) score {
	leftoverH := fr.W - sz.W
	leftoverV := fr.H - sz.H
	shortSide := min(leftoverH, leftoverV)
	longSide := max(leftoverH, leftoverV)

	s := score{y: fr.Y, x: fr.X}
	switch h {
	case BestAreaFit:
		s.s1 = fr.Area() - sz.Area()
		s.s2 = shortSide
	case BestShortSideFit:
		s.s1 = shortSide
		s.s2 = longSide
	case BestLongSideFit:
		s.s1 = longSide
		s.s2 = shortSide
	case BottomLeft:
		s.s1 = fr.Y + sz.H
		s.s2 = fr.X
	case ContactPoint:
		// Bigger contact is better; negate since scores are minimized.
		s.s1 = -f.contactScore(fr.X, fr.Y, sz)
	}
	return s
}

// contactScore measures how much of the placement's perimeter touches the
// canvas border or an already-placed rectangle.
func (f *freeRectSet) contactScore(x, y int, sz geom.Size) int {
	var contact int

	if x == 0 || x+sz.W == f.binW {
		contact += sz.H
	}
	if y == 0 || y+sz.H == f.binH {
		contact += sz.W
	}

	for _, u := range f.used {
		if u.X == x+sz.W || u.Right() == x {
			contact += overlapLen(u.Y, u.Bottom(), y, y+sz.H)
		}
		if u.Y == y+sz.H || u.Bottom() == y {
			contact += overlapLen(u.X, u.Right(), x, x+sz.W)
		}
	}
	return contact
}

// place consumes node from the free set: every intersecting free rectangle
// is split into its up-to-four flanking remainders, then fully contained
// rectangles are pruned.
func (f *freeRectSet) place(node geom.Rect) {
	for i := 0; i < len(f.free); {
		if f.splitFreeRect(f.free[i], node) {
			f.free = append(f.free[:i], f.free[i+1:]...)
		} else {
			i++
		}
	}
	f.prune()
	f.used = append(f.used, node)
}

// splitFreeRect appends the flanking remainders of fr around node to the
// free list. It returns false when the two rectangles do not intersect,
// leaving fr untouched.
func (f *freeRectSet) splitFreeRect(fr, node geom.Rect) bool {
	if node.Disjoint(fr) {
		return false
	}

	if node.X < fr.Right() && node.Right() > fr.X {
		// Remainder above node
		if node.Y > fr.Y && node.Y < fr.Bottom() {
			n := fr
			n.H = node.Y - fr.Y
			f.free = append(f.free, n)
		}
		// Remainder below node
		if node.Bottom() < fr.Bottom() {
			n := fr
			n.Y = node.Bottom()
			n.H = fr.Bottom() - node.Bottom()
			f.free = append(f.free, n)
		}
	}

	if node.Y < fr.Bottom() && node.Bottom() > fr.Y {
		// Remainder left of node
		if node.X > fr.X && node.X < fr.Right() {
			n := fr
			n.W = node.X - fr.X
			f.free = append(f.free, n)
		}
		// Remainder right of node
		if node.Right() < fr.Right() {
			n := fr
			n.X = node.Right()
			n.W = fr.Right() - node.Right()
			f.free = append(f.free, n)
		}
	}

	return true
}

// prune removes every free rectangle fully contained in another.
func (f *freeRectSet) prune() {
	for i := 0; i < len(f.free); i++ {
		for j := i + 1; j < len(f.free); j++ {
			if f.free[i].ContainedIn(f.free[j]) {
				f.free = append(f.free[:i], f.free[i+1:]...)
				i--
				break
			}
			if f.free[j].ContainedIn(f.free[i]) {
				f.free = append(f.free[:j], f.free[j+1:]...)
				j--
			}
		}
	}
}

func overlapLen(a1, a2, b1, b2 int) int {
	if a2 < b1 || b2 < a1 {
		return 0
	}
	return min(a2, b2) - max(a1, b1)
}
