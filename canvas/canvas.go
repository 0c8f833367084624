//go:build js && wasm

// Package canvas binds the greeting card to the browser: the page elements,
// the webcam, the pointer events, file uploads and the celebration effects.
package canvas

import (
	"fmt"
	"sync"
	"syscall/js"

	"github.com/esimov/bhaidooj-wasm/app"
	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/controls"
	"github.com/esimov/bhaidooj-wasm/drag"
	"github.com/esimov/bhaidooj-wasm/facehint"
	"github.com/esimov/bhaidooj-wasm/locale"
	"github.com/esimov/bhaidooj-wasm/thali"
)

// Canvas struct holds the Javascript objects needed by the greeting card.
type Canvas struct {
	done  chan struct{}
	lock  sync.Mutex
	funcs []js.Func

	// DOM elements
	window js.Value
	doc    js.Value
	body   js.Value

	// Webcam display
	webcamBox   js.Value
	placeholder js.Value
	video       js.Value
	frame       js.Value // hidden canvas the video frames are copied into
	guide       js.Value // canvas the forehead guide is drawn on
	ctxFrame    js.Value
	ctxGuide    js.Value
	reqID       js.Value
	renderer    js.Func
	windowSize  struct{ width, height int }

	// Controls
	panel     js.Value
	startBtn  js.Value
	uploadLbl js.Value
	fileInput js.Value
	thaliBox  js.Value
	thaliImg  js.Value
	tilakBox  js.Value
	wishBtn   js.Value

	// Celebration overlay
	overlay   js.Value
	particles js.Value
	message   js.Value

	tr       locale.Translator
	styler   *thali.Styler
	detector *facehint.Detector

	// Canvas interaction related variables
	showGuide  bool
	thaliStyle thali.Style
	thaliSrc   string
	guideOn    bool
	onThali    func(drag.Surface)
}

// Handlers are called by the triggers of the page.
type Handlers struct {
	StartWebcam func()
	Upload      func(dataURL string)
	SendWishes  func()
}

// NewCanvas creates the page elements.
func NewCanvas(tr locale.Translator, styler *thali.Styler, det *facehint.Detector) *Canvas {
	var c Canvas
	c.window = js.Global()
	c.doc = c.window.Get("document")
	c.body = c.doc.Get("body")
	c.tr = tr
	c.styler = styler
	c.detector = det
	c.showGuide = true
	c.done = make(chan struct{})

	c.windowSize.width = config.VideoWidth
	c.windowSize.height = config.VideoHeight

	card := c.element("div", "card", c.body)

	header := c.element("div", "header", card)
	c.element("h1", "festive-heading", header).Set("textContent", tr.Msg(locale.HeaderTitle))
	c.element("p", "subtitle", header).Set("textContent", tr.Msg(locale.HeaderSubtitle))

	row := c.element("div", "row", card)

	// Webcam display.
	c.webcamBox = c.element("div", "webcam-container", row)
	c.video = c.element("video", "webcam", c.webcamBox)
	c.video.Set("autoplay", true)
	c.video.Set("playsInline", true) // important for iPhones
	c.video.Set("muted", true)
	c.guide = c.element("canvas", "guide", c.webcamBox)
	c.guide.Set("width", c.windowSize.width)
	c.guide.Set("height", c.windowSize.height)
	c.ctxGuide = c.guide.Call("getContext", "2d")

	c.placeholder = c.element("div", "webcam-placeholder", c.webcamBox)
	c.element("div", "placeholder-icon", c.placeholder).Set("textContent", "📸")
	c.element("p", "", c.placeholder).Set("textContent", tr.Msg(locale.WebcamPlaceholder))

	c.frame = c.doc.Call("createElement", "canvas")
	c.frame.Set("width", c.windowSize.width)
	c.frame.Set("height", c.windowSize.height)
	c.ctxFrame = c.frame.Call("getContext", "2d", map[string]interface{}{"willReadFrequently": true})

	// Controls panel.
	c.panel = c.element("div", "controls", row)

	c.startBtn = c.element("button", "btn btn-start", c.panel)
	c.startBtn.Set("id", "start-button")

	upload := c.element("div", "upload", c.panel)
	c.uploadLbl = c.element("label", "btn btn-upload", upload)
	c.uploadLbl.Set("htmlFor", "thali-upload-input")
	c.fileInput = c.element("input", "hidden", upload)
	c.fileInput.Set("type", "file")
	c.fileInput.Set("id", "thali-upload-input")
	c.fileInput.Set("accept", "image/*")

	c.thaliBox = c.element("div", "draggable thali thali-glow", c.panel)
	c.thaliBox.Get("style").Set("display", "none")
	c.thaliImg = c.element("img", "", c.thaliBox)

	c.tilakBox = c.element("div", "draggable tilak-box", c.panel)
	tilak := c.element("div", "tilak", c.tilakBox)
	tilak.Set("id", "tilak")
	tilak.Set("textContent", "🔴")

	c.wishBtn = c.element("button", "btn btn-wishes", c.panel)
	c.wishBtn.Set("id", "wishes-button")

	// Celebration overlay.
	c.overlay = c.element("div", "celebration", c.body)
	c.particles = c.element("div", "particles", c.overlay)
	c.message = c.element("div", "celebration-text", c.overlay)
	c.message.Set("id", "celebration-text")
	c.message.Get("style").Set("color", config.CelebrationTextColor)
	c.message.Get("style").Set("textShadow", config.CelebrationGlow)

	return &c
}

// element creates a DOM element with the given class and appends it to parent.
func (c *Canvas) element(tag, class string, parent js.Value) js.Value {
	el := c.doc.Call("createElement", tag)
	if class != "" {
		el.Set("className", class)
	}
	parent.Call("appendChild", el)
	return el
}

// funcOf wraps fn and keeps it for the release on Close.
func (c *Canvas) funcOf(fn func(this js.Value, args []js.Value) interface{}) js.Func {
	f := js.FuncOf(fn)
	c.lock.Lock()
	c.funcs = append(c.funcs, f)
	c.lock.Unlock()
	return f
}

// listen attaches a listener on target and returns its removal.
func (c *Canvas) listen(target js.Value, event string, fn func(this js.Value, args []js.Value) interface{}) func() {
	f := c.funcOf(fn)
	target.Call("addEventListener", event, f)
	return func() { target.Call("removeEventListener", event, f) }
}

// Bind attaches the click handlers of the triggers.
func (c *Canvas) Bind(h Handlers) {
	c.listen(c.startBtn, "click", func(this js.Value, args []js.Value) interface{} {
		if h.StartWebcam != nil {
			go h.StartWebcam()
		}
		return nil
	})
	c.listen(c.wishBtn, "click", func(this js.Value, args []js.Value) interface{} {
		if h.SendWishes != nil {
			go h.SendWishes()
		}
		return nil
	})
	c.listen(c.fileInput, "change", func(this js.Value, args []js.Value) interface{} {
		files := c.fileInput.Get("files")
		if files.IsUndefined() || files.IsNull() || files.Get("length").Int() == 0 {
			return nil
		}
		c.readFile(files.Index(0), h.Upload)
		return nil
	})
	c.detectKeyPress()
}

// OnThali registers the callback receiving the thali surface after each new
// upload.
func (c *Canvas) OnThali(fn func(drag.Surface)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.onThali = fn
}

// Render updates the page for the application state.
func (c *Canvas) Render(s app.State, v controls.View) {
	c.setButton(c.startBtn, v.Start, "fas fa-camera")
	c.setButton(c.wishBtn, v.Wishes, "fas fa-hands-praying")
	c.uploadLbl.Set("textContent", v.Upload.Label)

	if s.WebcamActive {
		c.video.Get("classList").Call("add", "active")
		c.placeholder.Get("style").Set("display", "none")
	}

	c.lock.Lock()
	changed := v.ShowThali && v.ThaliSrc != c.thaliSrc
	if changed {
		c.thaliSrc = v.ThaliSrc
		c.thaliStyle = thali.Original
	}
	onThali := c.onThali
	startGuide := s.WebcamActive && !c.guideOn && c.detector != nil
	if startGuide {
		c.guideOn = true
	}
	c.lock.Unlock()

	if changed {
		c.thaliImg.Set("src", v.ThaliSrc)
		c.thaliImg.Set("alt", v.ThaliAlt)
		c.setGlow(v.ThaliGlow)
		c.thaliBox.Get("style").Set("display", "flex")
		if onThali != nil {
			onThali(c.ThaliSurface())
		}
	}
	if startGuide {
		go func() {
			if err := c.RenderGuide(); err != nil {
				c.Log(fmt.Sprint(err))
				// Retried on the next render.
				c.lock.Lock()
				c.guideOn = false
				c.lock.Unlock()
			}
		}()
	}
}

func (c *Canvas) setButton(btn js.Value, b controls.Button, icon string) {
	btn.Set("disabled", b.Disabled)
	if b.Loading {
		icon = "fas fa-spinner fa-spin"
	}
	btn.Set("innerHTML", fmt.Sprintf(`<i class="%s"></i> `, icon))
	btn.Call("appendChild", c.doc.Call("createTextNode", b.Label))
}

func (c *Canvas) setGlow(glow string) {
	if glow == "" {
		c.thaliBox.Get("style").Set("backgroundImage", "")
		return
	}
	c.thaliBox.Get("style").Set("backgroundImage", fmt.Sprintf("url(%q)", glow))
}

// WebcamBounds returns the rectangle of the webcam display.
func (c *Canvas) WebcamBounds() (drag.Rect, bool) {
	if c.webcamBox.IsUndefined() {
		return drag.Rect{}, false
	}
	return rectOf(c.webcamBox), true
}

// Wait blocks until Close is called.
func (c *Canvas) Wait() {
	<-c.done
}

// Close stops the rendering and releases the Javascript callbacks.
func (c *Canvas) Close() {
	c.Stop()

	c.lock.Lock()
	funcs := c.funcs
	c.funcs = nil
	c.lock.Unlock()

	for _, f := range funcs {
		f.Release()
	}
	close(c.done)
}

// Log calls the `console.log` Javascript function
func (c *Canvas) Log(args ...interface{}) {
	c.window.Get("console").Call("log", args...)
}

// Alert calls the `alert` Javascript function
func (c *Canvas) Alert(msg string) {
	c.window.Get("alert").Invoke(msg)
}

// Language returns the browser's preferred language.
func Language() string {
	lang := js.Global().Get("navigator").Get("language")
	if lang.IsUndefined() || lang.IsNull() {
		return config.DefaultLanguage
	}
	return lang.String()
}

// Origin returns the page origin, e.g. http://localhost:5000.
func Origin() string {
	return js.Global().Get("location").Get("origin").String()
}
