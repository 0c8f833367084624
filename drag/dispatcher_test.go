package drag_test

import (
	"testing"

	"github.com/esimov/bhaidooj-wasm/drag"
	"github.com/stretchr/testify/assert"
)

func TestDispatcher_IndependentSessions(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	var dropsA, dropsB int
	sa := newSurface(10, 10, drag.Point{X: 0, Y: 0})
	sb := newSurface(10, 10, drag.Point{X: 100, Y: 100})
	a := drag.NewItem(sa, drag.Options{OnDrop: func() { dropsA++ }})
	b := drag.NewItem(sb, drag.Options{OnDrop: func() { dropsB++ }})
	d.Register("a", a)
	d.Register("b", b)

	d.PointerDown(1, "a", drag.Point{X: 1, Y: 1})
	d.PointerDown(2, "b", drag.Point{X: 101, Y: 101})
	assert.Equal(t, 2, d.Active())

	d.PointerMove(1, drag.Point{X: 51, Y: 51})
	assert.True(t, a.Session().HasMoved)
	assert.False(t, b.Session().HasMoved, "moving pointer 1 must not touch item b")
	assert.Equal(t, drag.Point{X: 100, Y: 100}, sb.Bounds().Origin())

	d.PointerUp(2)
	assert.Equal(t, 0, dropsB, "b never moved")
	assert.True(t, a.Dragging())

	d.PointerUp(1)
	assert.Equal(t, 1, dropsA)
	assert.Equal(t, 0, d.Active())
}

func TestDispatcher_NoOps(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	drops := 0
	s := newSurface(10, 10, drag.Point{})
	d.Register("item", drag.NewItem(s, drag.Options{OnDrop: func() { drops++ }}))

	d.PointerUp(9)
	d.PointerMove(9, drag.Point{X: 5, Y: 5})
	d.PointerDown(1, "unknown", drag.Point{})
	assert.Equal(t, 0, d.Active())
	assert.Len(t, s.places, 1)

	// A second pointer cannot steal an item already being dragged.
	d.PointerDown(1, "item", drag.Point{})
	d.PointerDown(2, "item", drag.Point{})
	assert.Equal(t, 1, d.Active())
	d.PointerMove(2, drag.Point{X: 40, Y: 40})
	d.PointerUp(2)
	assert.Equal(t, 0, drops)
	d.PointerUp(1)
	assert.Equal(t, 0, drops)
}

func TestDispatcher_UnregisterCancelsWithoutDrop(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	drops := 0
	anchor := drag.Anchor{TopPct: 10, LeftPct: 10}
	s := newSurface(10, 10, drag.Point{})
	it := drag.NewItem(s, drag.Options{Anchor: &anchor, OnDrop: func() { drops++ }})
	unregister := d.Register("item", it)

	d.PointerDown(1, "item", drag.Point{})
	d.PointerMove(1, drag.Point{X: 30, Y: 30})
	unregister()

	assert.Equal(t, 0, d.Active())
	assert.False(t, it.Dragging())
	assert.Equal(t, drag.Anchored, s.last().Mode)

	d.PointerUp(1)
	assert.Equal(t, 0, drops)
}

func TestDispatcher_ReplaceItem(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	old := drag.NewItem(newSurface(10, 10, drag.Point{}), drag.Options{})
	d.Register("thali", old)
	d.PointerDown(1, "thali", drag.Point{})

	fresh := drag.NewItem(newSurface(10, 10, drag.Point{}), drag.Options{})
	d.Register("thali", fresh)

	assert.False(t, old.Dragging())
	assert.Equal(t, 0, d.Active())
}

func TestDispatcher_CloseRunsHooksOnce(t *testing.T) {
	d := drag.NewDispatcher()
	released := 0
	d.OnClose(func() { released++ })

	it := drag.NewItem(newSurface(10, 10, drag.Point{}), drag.Options{})
	d.Register("item", it)
	d.PointerDown(1, "item", drag.Point{})

	d.Close()
	d.Close()

	assert.Equal(t, 1, released)
	assert.False(t, it.Dragging())

	d.PointerDown(1, "item", drag.Point{})
	assert.Equal(t, 0, d.Active())
}

func TestDispatcher_PointerCancel(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	drops := 0
	it := drag.NewItem(newSurface(10, 10, drag.Point{}), drag.Options{OnDrop: func() { drops++ }})
	d.Register("item", it)

	d.PointerDown(3, "item", drag.Point{})
	d.PointerMove(3, drag.Point{X: 25, Y: 25})
	d.PointerCancel(3)

	assert.Equal(t, 0, drops)
	assert.False(t, it.Dragging())
	assert.Equal(t, 0, d.Active())
}
