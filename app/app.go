// Package app holds the application state and turns the events raised by the
// controls and the overlay into state transitions.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/locale"
	"github.com/esimov/bhaidooj-wasm/wish"
)

// TilakMessage is shown when the tilak is applied. Like wish.Fallback it is
// the same in every UI language.
const TilakMessage = "Happy Bhai Dooj! 🎊✨"

// Stream is a live video source bound to the video element.
type Stream interface {
	Stop()
}

// State is the application state. Views receive copies.
type State struct {
	Stream             Stream
	WebcamActive       bool
	UploadedImage      string
	ThaliGlow          string
	Celebrating        bool
	CelebrationMessage string
	WishLoading        bool
}

// Webcam acquires the camera.
type Webcam interface {
	Start(ctx context.Context) (Stream, error)
}

// Notifier shows blocking notifications to the user.
type Notifier interface {
	Alert(msg string)
}

// Celebrator runs the celebration overlay.
type Celebrator interface {
	Activate(message string)
}

// Styler derives the glow shown behind the uploaded thali.
type Styler interface {
	Glow(dataURL string) (string, error)
}

// View renders the state.
type View interface {
	Render(State)
}

// ViewFunc adapts a function to View.
type ViewFunc func(State)

// Render calls f.
func (f ViewFunc) Render(s State) { f(s) }

// Deps are the collaborators of a Coordinator.
type Deps struct {
	Webcam     Webcam
	Notifier   Notifier
	Wishes     wish.Generator
	Celebrator Celebrator
	Styler     Styler
	Translator locale.Translator
	View       View
}

// Coordinator owns the State.
type Coordinator struct {
	mu       sync.Mutex
	state    State
	deps     Deps
	starting bool
}

// New creates a Coordinator. The Celebrator can be attached later with
// SetCelebrator, since the overlay reports back to the coordinator.
func New(deps Deps) *Coordinator {
	return &Coordinator{deps: deps}
}

// SetCelebrator attaches the celebration overlay.
func (c *Coordinator) SetCelebrator(cel Celebrator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deps.Celebrator = cel
}

// State returns a copy of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// update applies fn under the lock and renders the resulting state.
func (c *Coordinator) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	s := c.state
	view := c.deps.View
	c.mu.Unlock()

	if view != nil {
		view.Render(s)
	}
}

// StartWebcam acquires the camera. A denial is reported to the user and
// leaves the webcam inactive.
func (c *Coordinator) StartWebcam(ctx context.Context) {
	c.mu.Lock()
	if c.state.WebcamActive || c.starting {
		c.mu.Unlock()
		return
	}
	c.starting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
	}()

	stream, err := c.deps.Webcam.Start(ctx)
	if err != nil {
		slog.Error("webcam not started",
			config.LogKeyComponent, config.CompApp,
			config.LogKeyError, err,
		)
		c.deps.Notifier.Alert(c.deps.Translator.Msg(locale.CameraDenied))
		return
	}
	c.update(func(s *State) {
		s.Stream = stream
		s.WebcamActive = true
	})
}

// SetThali stores the uploaded image. An empty image is ignored.
func (c *Coordinator) SetThali(dataURL string) {
	if dataURL == "" {
		return
	}
	glow := ""
	if c.deps.Styler != nil {
		var err error
		if glow, err = c.deps.Styler.Glow(dataURL); err != nil {
			slog.Warn("thali glow not rendered",
				config.LogKeyComponent, config.CompApp,
				config.LogKeyError, err,
			)
			glow = ""
		}
	}
	c.update(func(s *State) {
		s.UploadedImage = dataURL
		s.ThaliGlow = glow
	})
}

// TilakDropped celebrates a tilak placement. Without an active webcam it
// does nothing. The drop location is not checked.
func (c *Coordinator) TilakDropped() {
	if !c.State().WebcamActive {
		return
	}
	c.Celebrate(TilakMessage)
}

// SendWishes asks for a generated wish and celebrates with it, or with the
// fallback wish when generation fails.
func (c *Coordinator) SendWishes(ctx context.Context) {
	busy := false
	c.update(func(s *State) {
		busy = s.WishLoading
		s.WishLoading = true
	})
	if busy {
		return
	}

	msg := wish.Resolve(ctx, c.deps.Wishes, wish.Fallback)

	c.update(func(s *State) { s.WishLoading = false })
	c.Celebrate(msg)
}

// Celebrate starts the celebration with message.
func (c *Coordinator) Celebrate(message string) {
	c.update(func(s *State) {
		s.CelebrationMessage = message
		s.Celebrating = true
	})

	c.mu.Lock()
	cel := c.deps.Celebrator
	c.mu.Unlock()
	if cel != nil {
		cel.Activate(message)
	}
}

// CelebrationComplete is called by the overlay once the celebration ended.
func (c *Coordinator) CelebrationComplete() {
	c.update(func(s *State) { s.Celebrating = false })
}

// Close stops the webcam stream.
func (c *Coordinator) Close() {
	c.mu.Lock()
	stream := c.state.Stream
	c.state.Stream = nil
	c.state.WebcamActive = false
	c.mu.Unlock()

	if stream != nil {
		stream.Stop()
	}
}
