package controls_test

import (
	"context"
	"testing"

	"github.com/esimov/bhaidooj-wasm/app"
	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/controls"
	"github.com/esimov/bhaidooj-wasm/drag"
	"github.com/esimov/bhaidooj-wasm/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type surface struct {
	w, h float64
	rect drag.Rect
	last drag.Placement
}

func (s *surface) Bounds() drag.Rect          { return s.rect }
func (s *surface) Size() (float64, float64) { return s.w, s.h }
func (s *surface) Raise(bool)               {}
func (s *surface) Place(p drag.Placement) {
	s.last = p
	if p.Mode == drag.Fixed {
		s.rect = drag.Rect{Left: p.Pos.X, Top: p.Pos.Y, Right: p.Pos.X + s.w, Bottom: p.Pos.Y + s.h}
	}
}

type dropCounter struct{ n int }

func (d *dropCounter) TilakDropped() { d.n++ }

func TestPanel_TilakDropAndSpringBack(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	h := &dropCounter{}
	s := &surface{w: 64, h: 64}
	p := controls.New(d, s, h)
	assert.Equal(t, drag.Placement{Mode: drag.Anchored, Anchor: controls.TilakAnchor}, s.last)

	d.PointerDown(1, config.ItemIDTilak, drag.Point{X: 10, Y: 10})
	d.PointerUp(1)
	assert.Equal(t, 0, h.n, "a click is not a drop")

	d.PointerDown(1, config.ItemIDTilak, drag.Point{X: 10, Y: 10})
	d.PointerMove(1, drag.Point{X: 400, Y: 300})
	d.PointerUp(1)
	assert.Equal(t, 1, h.n)
	assert.Equal(t, drag.Anchored, p.Tilak().Placement().Mode)
}

func TestPanel_ThaliConstrainedToWebcam(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	p := controls.New(d, &surface{w: 64, h: 64}, &dropCounter{})
	assert.Nil(t, p.Thali())

	webcam := drag.Rect{Left: 50, Top: 50, Right: 690, Bottom: 530}
	s := &surface{w: 160, h: 160, rect: drag.Rect{Left: 800, Top: 100, Right: 960, Bottom: 260}}
	it := p.AttachThali(s, func() (drag.Rect, bool) { return webcam, true })
	require.NotNil(t, it)

	d.PointerDown(1, config.ItemIDThali, drag.Point{X: 880, Y: 180})
	d.PointerMove(1, drag.Point{X: 2000, Y: -300})
	d.PointerUp(1)

	pl := it.Placement()
	assert.Equal(t, drag.Fixed, pl.Mode, "the thali stays where released")
	assert.Equal(t, drag.Point{X: 690 - 160, Y: 50}, pl.Pos)

	// A new upload replaces the item.
	next := p.AttachThali(&surface{w: 160, h: 160}, nil)
	assert.Same(t, next, p.Thali())
}

func TestPanel_CloseUnregisters(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	h := &dropCounter{}
	p := controls.New(d, &surface{w: 64, h: 64}, h)
	p.Close()

	d.PointerDown(1, config.ItemIDTilak, drag.Point{})
	d.PointerMove(1, drag.Point{X: 99, Y: 99})
	d.PointerUp(1)
	assert.Equal(t, 0, h.n)
}

func TestPanel_TilakCelebratesOnlyWithWebcam(t *testing.T) {
	d := drag.NewDispatcher()
	defer d.Close()

	cel := &celebrations{}
	coord := app.New(app.Deps{
		Webcam:     webcamFunc(func() (app.Stream, error) { return nil, nil }),
		Celebrator: cel,
		Translator: locale.New("en"),
	})
	controls.New(d, &surface{w: 64, h: 64}, coord)

	drop := func() {
		d.PointerDown(1, config.ItemIDTilak, drag.Point{})
		d.PointerMove(1, drag.Point{X: 120, Y: 80})
		d.PointerUp(1)
	}

	drop()
	assert.Empty(t, cel.messages)

	coord.StartWebcam(context.Background())
	drop()
	assert.Equal(t, []string{"Happy Bhai Dooj! 🎊✨"}, cel.messages)
}

func TestProject(t *testing.T) {
	tr := locale.New("en")

	v := controls.Project(app.State{}, tr)
	assert.Equal(t, controls.Button{Label: "Start Webcam"}, v.Start)
	assert.Equal(t, controls.Button{Label: "Send AI Well Wishes!"}, v.Wishes)
	assert.Equal(t, "Upload Aarti Thali", v.Upload.Label)
	assert.False(t, v.ShowThali)

	v = controls.Project(app.State{
		WebcamActive:  true,
		WishLoading:   true,
		UploadedImage: "data:image/png;base64,AAAA",
		ThaliGlow:     "data:image/png;base64,BBBB",
	}, tr)
	assert.Equal(t, controls.Button{Label: "Webcam Active!", Disabled: true}, v.Start)
	assert.Equal(t, controls.Button{Label: "Generating...", Disabled: true, Loading: true}, v.Wishes)
	assert.True(t, v.ShowThali)
	assert.Equal(t, "data:image/png;base64,AAAA", v.ThaliSrc)
	assert.Equal(t, "data:image/png;base64,BBBB", v.ThaliGlow)
}

type celebrations struct{ messages []string }

func (c *celebrations) Activate(msg string) { c.messages = append(c.messages, msg) }

type webcamFunc func() (app.Stream, error)

func (f webcamFunc) Start(context.Context) (app.Stream, error) { return f() }
