//go:build js && wasm

package canvas

import (
	"log/slog"
	"syscall/js"

	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/thali"
)

// readFile converts the selected file into a data URL and hands it to fn.
func (c *Canvas) readFile(file js.Value, fn func(dataURL string)) {
	if fn == nil || file.IsUndefined() || file.IsNull() {
		return
	}
	reader := js.Global().Get("FileReader").New()

	var onLoad, onError js.Func
	release := func() {
		onLoad.Release()
		onError.Release()
	}
	onLoad = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		result := reader.Get("result")
		release()
		if result.Type() != js.TypeString {
			return nil
		}
		go fn(result.String())
		return nil
	})
	onError = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		release()
		slog.Warn("file not read",
			config.LogKeyComponent, config.CompCanvas,
			config.LogKeyFile, file.Get("name").String(),
		)
		return nil
	})
	reader.Set("onload", onLoad)
	reader.Set("onerror", onError)
	reader.Call("readAsDataURL", file)
}

// toggleThaliStyle switches the thali between the uploaded image and its
// low-poly rendering.
func (c *Canvas) toggleThaliStyle() {
	c.lock.Lock()
	if c.thaliStyle == thali.Original {
		c.thaliStyle = thali.LowPoly
	} else {
		c.thaliStyle = thali.Original
	}
	c.lock.Unlock()

	c.restyleThali()
}

// restyleThali renders the thali in the current style and glow radius.
func (c *Canvas) restyleThali() {
	c.lock.Lock()
	src, style := c.thaliSrc, c.thaliStyle
	c.lock.Unlock()

	if src == "" || c.styler == nil {
		return
	}
	out, err := c.styler.Render(src, style)
	if err != nil {
		slog.Warn("thali not restyled",
			config.LogKeyComponent, config.CompThali,
			config.LogKeyError, err,
		)
		return
	}
	c.thaliImg.Set("src", out.Image)
	c.setGlow(out.Glow)
}
