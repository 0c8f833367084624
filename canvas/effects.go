//go:build js && wasm

package canvas

import (
	"fmt"
	"syscall/js"

	"github.com/esimov/bhaidooj-wasm/celebration"
	"github.com/esimov/bhaidooj-wasm/config"
)

// Effects renders the celebration overlay. It implements celebration.Effects.
type Effects struct {
	c *Canvas
}

// Effects returns the renderer of the celebration overlay.
func (c *Canvas) Effects() Effects {
	return Effects{c: c}
}

// Show displays the overlay with the message.
func (fx Effects) Show(message string) {
	fx.c.message.Set("textContent", message)
	fx.c.overlay.Get("classList").Call("add", "active")
}

// Hide fades the overlay out.
func (fx Effects) Hide() {
	fx.c.overlay.Get("classList").Call("remove", "active")
}

// Viewport returns the window size.
func (fx Effects) Viewport() celebration.Size {
	return celebration.Size{
		W: fx.c.window.Get("innerWidth").Float(),
		H: fx.c.window.Get("innerHeight").Float(),
	}
}

// Spawn animates a single particle and removes it once the animation ends.
func (fx Effects) Spawn(p celebration.Particle, done func()) {
	doc := fx.c.doc
	el := doc.Call("createElement", "div")
	el.Set("className", "firework")

	style := el.Get("style")
	style.Set("background", p.Color)
	style.Set("left", pct(p.Left))
	style.Set("top", pct(p.Top))
	style.Set("width", px(p.Size))
	style.Set("height", px(p.Size))
	style.Call("setProperty", "--spread-x", px(p.DX))
	style.Call("setProperty", "--spread-y", px(p.DY))

	keyframes := []interface{}{
		map[string]interface{}{"transform": "scale(1)", "opacity": 1},
		map[string]interface{}{
			"transform": fmt.Sprintf("scale(%g) translate(%s, %s)", config.ParticleEndScale, px(p.DX), px(p.DY)),
			"opacity":   0,
		},
	}
	timing := map[string]interface{}{
		"duration": p.Duration.Milliseconds(),
		"delay":    p.Delay.Milliseconds(),
		"easing":   config.ParticleEasing,
	}
	fx.c.particles.Call("appendChild", el)
	anim := el.Call("animate", keyframes, timing)

	var onFinish js.Func
	onFinish = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		el.Call("remove")
		onFinish.Release()
		done()
		return nil
	})
	anim.Set("onfinish", onFinish)
}
