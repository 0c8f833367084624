//go:build js && wasm

package canvas

import (
	"fmt"
	"strconv"
	"syscall/js"

	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/drag"
)

// elementSurface renders drag placements on a DOM element.
type elementSurface struct {
	el js.Value
}

func rectOf(el js.Value) drag.Rect {
	r := el.Call("getBoundingClientRect")
	return drag.Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Right:  r.Get("right").Float(),
		Bottom: r.Get("bottom").Float(),
	}
}

// Bounds implements drag.Surface.
func (s elementSurface) Bounds() drag.Rect {
	return rectOf(s.el)
}

// Size implements drag.Surface. The layout size ignores transforms such as
// the hover scale.
func (s elementSurface) Size() (float64, float64) {
	return s.el.Get("offsetWidth").Float(), s.el.Get("offsetHeight").Float()
}

// Place implements drag.Surface.
func (s elementSurface) Place(p drag.Placement) {
	style := s.el.Get("style")
	switch p.Mode {
	case drag.Fixed:
		style.Set("position", "fixed")
		style.Set("left", px(p.Pos.X))
		style.Set("top", px(p.Pos.Y))
	case drag.Anchored:
		style.Set("position", "absolute")
		style.Set("left", pct(p.Anchor.LeftPct))
		style.Set("top", pct(p.Anchor.TopPct))
	default:
		style.Set("position", "")
		style.Set("left", "")
		style.Set("top", "")
	}
}

// Raise implements drag.Surface.
func (s elementSurface) Raise(on bool) {
	if on {
		s.el.Get("style").Set("zIndex", strconv.Itoa(config.DragZIndex))
		s.el.Get("classList").Call("add", "dragging")
		return
	}
	s.el.Get("style").Set("zIndex", "")
	s.el.Get("classList").Call("remove", "dragging")
}

func px(v float64) string  { return fmt.Sprintf("%.2fpx", v) }
func pct(v float64) string { return fmt.Sprintf("%g%%", v) }

// TilakSurface returns the tilak mark element.
func (c *Canvas) TilakSurface() drag.Surface {
	return elementSurface{el: c.tilakBox}
}

// ThaliSurface returns the uploaded thali element.
func (c *Canvas) ThaliSurface() drag.Surface {
	return elementSurface{el: c.thaliBox}
}

// BindPointer forwards the pointer events to the dispatcher. The pointerdown
// listeners sit on the draggable elements; move and up are global. Closing
// the dispatcher removes them.
func (c *Canvas) BindPointer(d *drag.Dispatcher) {
	down := func(id string) func(this js.Value, args []js.Value) interface{} {
		return func(this js.Value, args []js.Value) interface{} {
			e := args[0]
			e.Call("preventDefault")
			d.PointerDown(e.Get("pointerId").Int(), id, pointOf(e))
			return nil
		}
	}
	removers := []func(){
		c.listen(c.tilakBox, "pointerdown", down(config.ItemIDTilak)),
		c.listen(c.thaliBox, "pointerdown", down(config.ItemIDThali)),
		c.listen(c.doc, "pointermove", func(this js.Value, args []js.Value) interface{} {
			e := args[0]
			d.PointerMove(e.Get("pointerId").Int(), pointOf(e))
			return nil
		}),
		c.listen(c.doc, "pointerup", func(this js.Value, args []js.Value) interface{} {
			d.PointerUp(args[0].Get("pointerId").Int())
			return nil
		}),
		c.listen(c.doc, "pointercancel", func(this js.Value, args []js.Value) interface{} {
			d.PointerCancel(args[0].Get("pointerId").Int())
			return nil
		}),
	}
	// Touch screens would scroll the page instead of dragging.
	c.tilakBox.Get("style").Set("touchAction", "none")
	c.thaliBox.Get("style").Set("touchAction", "none")

	d.OnClose(func() {
		for _, remove := range removers {
			remove()
		}
	})
}

func pointOf(e js.Value) drag.Point {
	return drag.Point{X: e.Get("clientX").Float(), Y: e.Get("clientY").Float()}
}
