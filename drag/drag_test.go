package drag_test

import (
	"math/rand"
	"testing"

	"github.com/esimov/bhaidooj-wasm/drag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface renders placements into a rectangle of a fixed size.
type fakeSurface struct {
	w, h   float64
	rest   drag.Point // where the layout puts the element
	rect   drag.Rect
	places []drag.Placement
	raised bool
}

func newSurface(w, h float64, rest drag.Point) *fakeSurface {
	return &fakeSurface{w: w, h: h, rest: rest}
}

func (s *fakeSurface) Bounds() drag.Rect { return s.rect }

func (s *fakeSurface) Size() (float64, float64) { return s.w, s.h }

func (s *fakeSurface) Place(p drag.Placement) {
	s.places = append(s.places, p)
	origin := s.rest
	if p.Mode == drag.Fixed {
		origin = p.Pos
	}
	s.rect = drag.Rect{Left: origin.X, Top: origin.Y, Right: origin.X + s.w, Bottom: origin.Y + s.h}
}

func (s *fakeSurface) Raise(on bool) { s.raised = on }

func (s *fakeSurface) last() drag.Placement { return s.places[len(s.places)-1] }

func fixedBoundary(r drag.Rect) drag.BoundaryFunc {
	return func() (drag.Rect, bool) { return r, true }
}

func TestItem_GrabMoveFollowsPointer(t *testing.T) {
	s := newSurface(40, 40, drag.Point{X: 100, Y: 100})
	it := drag.NewItem(s, drag.Options{})
	assert.Equal(t, drag.Flow, s.last().Mode)

	it.Grab(drag.Point{X: 110, Y: 105})
	assert.True(t, s.raised, "dragged item must be raised")
	sess := it.Session()
	assert.True(t, sess.Active)
	assert.False(t, sess.HasMoved)
	assert.Equal(t, drag.Point{X: 10, Y: 5}, sess.Offset)

	it.Move(drag.Point{X: 300, Y: 250})
	assert.Equal(t, drag.Placement{Mode: drag.Fixed, Pos: drag.Point{X: 290, Y: 245}}, s.last())
	assert.True(t, it.Session().HasMoved)
}

func TestItem_BoundaryClampHoldsForRandomPaths(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		b := drag.Rect{Left: rng.Float64() * 200, Top: rng.Float64() * 200}
		b.Right = b.Left + 100 + rng.Float64()*500
		b.Bottom = b.Top + 100 + rng.Float64()*500

		w, h := rng.Float64()*100, rng.Float64()*100
		s := newSurface(w, h, drag.Point{X: b.Left, Y: b.Top})
		it := drag.NewItem(s, drag.Options{Boundary: fixedBoundary(b)})

		it.Grab(drag.Point{X: b.Left + w/2, Y: b.Top + h/2})
		for step := 0; step < 30; step++ {
			it.Move(drag.Point{X: rng.Float64()*1600 - 400, Y: rng.Float64()*1600 - 400})

			pos := s.last().Pos
			require.GreaterOrEqual(t, pos.X, b.Left)
			require.LessOrEqual(t, pos.X, b.Right-w)
			require.GreaterOrEqual(t, pos.Y, b.Top)
			require.LessOrEqual(t, pos.Y, b.Bottom-h)
		}
		it.Release()
	}
}

// scaledSurface reports bounds enlarged by a transform while its layout size
// stays unchanged.
type scaledSurface struct {
	*fakeSurface
	scale float64
}

func (s scaledSurface) Bounds() drag.Rect {
	r := s.fakeSurface.Bounds()
	return drag.Rect{Left: r.Left, Top: r.Top, Right: r.Left + s.w*s.scale, Bottom: r.Top + s.h*s.scale}
}

func TestItem_ClampUsesLayoutSize(t *testing.T) {
	b := drag.Rect{Left: 0.1, Top: 0.2, Right: 585.0293259217076, Bottom: 400.7}
	w, h := 37.3, 48.35

	s := scaledSurface{fakeSurface: newSurface(w, h, drag.Point{X: b.Left, Y: b.Top}), scale: 1.05}
	it := drag.NewItem(s, drag.Options{Boundary: fixedBoundary(b)})

	it.Grab(drag.Point{X: b.Left, Y: b.Top})
	it.Move(drag.Point{X: 5000, Y: 5000})

	pos := s.last().Pos
	assert.Equal(t, b.Right-w, pos.X)
	assert.Equal(t, b.Bottom-h, pos.Y)
}

func TestItem_NoBoundaryOrZeroSize(t *testing.T) {
	t.Run("undefined boundary leaves position unclamped", func(t *testing.T) {
		s := newSurface(10, 10, drag.Point{})
		it := drag.NewItem(s, drag.Options{Boundary: func() (drag.Rect, bool) { return drag.Rect{}, false }})
		it.Grab(drag.Point{})
		it.Move(drag.Point{X: -500, Y: 9000})
		assert.Equal(t, drag.Point{X: -500, Y: 9000}, s.last().Pos)
	})

	t.Run("zero size item clamps to the full boundary", func(t *testing.T) {
		s := newSurface(0, 0, drag.Point{X: 5, Y: 5})
		b := drag.Rect{Left: 0, Top: 0, Right: 100, Bottom: 50}
		it := drag.NewItem(s, drag.Options{Boundary: fixedBoundary(b)})
		it.Grab(drag.Point{X: 5, Y: 5})
		it.Move(drag.Point{X: 1000, Y: 1000})
		assert.Equal(t, drag.Point{X: 100, Y: 50}, s.last().Pos)
	})
}

func TestItem_DropOnlyWhenMoved(t *testing.T) {
	drops := 0
	s := newSurface(16, 16, drag.Point{})
	it := drag.NewItem(s, drag.Options{OnDrop: func() { drops++ }})

	it.Grab(drag.Point{X: 1, Y: 1})
	assert.False(t, it.Release(), "a click is not a drop")
	assert.Equal(t, 0, drops)

	it.Grab(drag.Point{X: 1, Y: 1})
	it.Move(drag.Point{X: 5, Y: 5})
	it.Move(drag.Point{X: 50, Y: 50})
	assert.True(t, it.Release())
	assert.Equal(t, 1, drops)

	assert.False(t, it.Release(), "release without a grab is a no-op")
	assert.Equal(t, 1, drops)
}

func TestItem_AnchorRestoredAfterRelease(t *testing.T) {
	anchor := drag.Anchor{TopPct: 35, LeftPct: 55}
	rng := rand.New(rand.NewSource(7))

	s := newSurface(64, 64, drag.Point{X: 200, Y: 120})
	it := drag.NewItem(s, drag.Options{Anchor: &anchor})
	assert.Equal(t, drag.Placement{Mode: drag.Anchored, Anchor: anchor}, s.last())

	for i := 0; i < 20; i++ {
		it.Grab(drag.Point{X: 210, Y: 130})
		it.Move(drag.Point{X: rng.Float64() * 1000, Y: rng.Float64() * 1000})
		it.Release()

		assert.Equal(t, drag.Placement{Mode: drag.Anchored, Anchor: anchor}, s.last())
		assert.False(t, s.raised)
	}
}

func TestItem_WithoutAnchorStaysWhereReleased(t *testing.T) {
	s := newSurface(20, 20, drag.Point{})
	it := drag.NewItem(s, drag.Options{})

	it.Grab(drag.Point{X: 0, Y: 0})
	it.Move(drag.Point{X: 70, Y: 80})
	it.Release()

	assert.Equal(t, drag.Placement{Mode: drag.Fixed, Pos: drag.Point{X: 70, Y: 80}}, it.Placement())
}

func TestItem_MoveWithoutGrabIsIgnored(t *testing.T) {
	s := newSurface(20, 20, drag.Point{})
	it := drag.NewItem(s, drag.Options{})
	it.Move(drag.Point{X: 70, Y: 80})

	assert.Len(t, s.places, 1)
	assert.False(t, it.Session().HasMoved)
}
