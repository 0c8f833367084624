//go:build js && wasm

package canvas

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"syscall/js"

	"github.com/esimov/bhaidooj-wasm/app"
	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/facehint"
	"golang.org/x/sync/errgroup"
)

// mediaStream is the live video source returned by getUserMedia.
type mediaStream struct {
	stream js.Value
}

// Stop ends every track of the stream.
func (m mediaStream) Stop() {
	tracks := m.stream.Call("getTracks")
	for i := 0; i < tracks.Length(); i++ {
		tracks.Index(i).Call("stop")
	}
}

// Start implements app.Webcam.
func (c *Canvas) Start(ctx context.Context) (app.Stream, error) {
	type result struct {
		stream js.Value
		err    error
	}
	res := make(chan result, 1)

	go func() {
		stream, err := c.StartWebcam()
		res <- result{stream, err}
	}()

	select {
	case r := <-res:
		if r.err != nil {
			return nil, r.err
		}
		return mediaStream{stream: r.stream}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// StartWebcam reads the webcam data and feeds it into the video element.
// It returns the media stream in case of success and error in case of failure.
func (c *Canvas) StartWebcam() (js.Value, error) {
	succCh := make(chan js.Value, 1)
	errCh := make(chan error, 1)

	success := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		stream := args[0]
		go func() {
			c.video.Set("srcObject", stream)
			c.video.Call("play")
			succCh <- stream
		}()
		return nil
	})
	defer success.Release()

	failure := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		reason := args[0]
		go func() {
			errCh <- fmt.Errorf("failed initialising the camera: %s", reason.Call("toString").String())
		}()
		return nil
	})
	defer failure.Release()

	mediaDevices := c.window.Get("navigator").Get("mediaDevices")
	if mediaDevices.IsUndefined() {
		return js.Undefined(), fmt.Errorf("failed initialising the camera: media devices not available")
	}

	opts := js.Global().Get("Object").New()
	opts.Set("video", true)
	opts.Set("audio", false)

	promise := mediaDevices.Call("getUserMedia", opts)
	promise.Call("then", success, failure)

	select {
	case stream := <-succCh:
		return stream, nil
	case err := <-errCh:
		return js.Undefined(), err
	}
}

// LoadCascades fetches the pigo cascades from the server and unpacks them.
func (c *Canvas) LoadCascades() error {
	var (
		g              errgroup.Group
		face, pupilSet []byte
	)
	g.Go(func() (err error) {
		face, err = fetchBytes(config.CascadeFacefinder)
		return err
	})
	g.Go(func() (err error) {
		pupilSet, err = fetchBytes(config.CascadePuploc)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return c.detector.Unpack(face, pupilSet)
}

// RenderGuide calls the `requestAnimationFrame` Javascript function and draws
// the forehead guide over each webcam frame until Stop is called.
func (c *Canvas) RenderGuide() error {
	if !c.detector.Ready() {
		if err := c.LoadCascades(); err != nil {
			return err
		}
	}
	width, height := c.windowSize.width, c.windowSize.height
	data := make([]byte, width*height*4)
	busy := false

	c.renderer = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.reqID = c.window.Call("requestAnimationFrame", c.renderer)
		if busy {
			return nil
		}
		busy = true
		go func() {
			defer func() { busy = false }()

			c.ctxGuide.Call("clearRect", 0, 0, width, height)
			if !c.showGuide {
				return
			}
			// Draw the webcam frame to the hidden canvas element.
			c.ctxFrame.Call("drawImage", c.video, 0, 0, width, height)
			rgba := c.ctxFrame.Call("getImageData", 0, 0, width, height).Get("data")

			// Convert the rgba value of type Uint8ClampedArray to Uint8Array in order to
			// be able to transfer it from Javascript to Go via the js.CopyBytesToGo function.
			uint8Arr := js.Global().Get("Uint8Array").New(rgba.Get("buffer"))
			js.CopyBytesToGo(data, uint8Arr)

			gray := facehint.Grayscale(data, width, height)
			mark, ok, err := c.detector.Detect(gray, width, height)
			if err != nil {
				slog.Debug("face detection failed",
					config.LogKeyComponent, config.CompFaceHint,
					config.LogKeyError, err,
				)
				return
			}
			if ok {
				c.drawGuide(mark)
			}
		}()
		return nil
	})
	c.window.Call("requestAnimationFrame", c.renderer)
	return nil
}

// drawGuide draws a soft ring at the mark.
func (c *Canvas) drawGuide(m facehint.Mark) {
	grad := c.ctxGuide.Call("createRadialGradient", m.X, m.Y, 0, m.X, m.Y, m.Radius*2)
	grad.Call("addColorStop", 0, "rgba(255, 215, 0, 0.55)")
	grad.Call("addColorStop", 1, "rgba(255, 215, 0, 0)")

	c.ctxGuide.Call("beginPath")
	c.ctxGuide.Set("fillStyle", grad)
	c.ctxGuide.Call("arc", m.X, m.Y, m.Radius*2, 0, 2*math.Pi, true)
	c.ctxGuide.Call("fill")

	c.ctxGuide.Call("beginPath")
	c.ctxGuide.Set("lineWidth", 2)
	c.ctxGuide.Set("strokeStyle", "rgba(255, 107, 157, 0.8)")
	c.ctxGuide.Call("arc", m.X, m.Y, m.Radius, 0, 2*math.Pi, true)
	c.ctxGuide.Call("stroke")
}

// Stop stops the rendering.
func (c *Canvas) Stop() {
	if c.reqID.Truthy() {
		c.window.Call("cancelAnimationFrame", c.reqID)
	}
	if c.renderer.Truthy() {
		c.renderer.Release()
	}
}

// detectKeyPress listen for the keypress event and retrieves the key code.
func (c *Canvas) detectKeyPress() {
	c.listen(c.doc, "keypress", func(this js.Value, args []js.Value) interface{} {
		switch args[0].Get("key").String() {
		case "f":
			c.showGuide = !c.showGuide
		case "t":
			go c.toggleThaliStyle()
		case "[":
			c.styler.Adjust(-1)
			go c.restyleThali()
		case "]":
			c.styler.Adjust(1)
			go c.restyleThali()
		}
		return nil
	})
}

// fetchBytes loads a file served next to the page.
func fetchBytes(path string) ([]byte, error) {
	href := js.Global().Get("location").Get("href")
	u, err := url.Parse(href.String())
	if err != nil {
		return nil, err
	}
	u.Path = path
	u.RawQuery = ""

	resp, err := http.Get(u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
