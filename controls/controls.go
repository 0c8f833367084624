// Package controls wires the control panel: the webcam, upload and wish
// triggers and the two draggable items.
package controls

import (
	"sync"

	"github.com/esimov/bhaidooj-wasm/app"
	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/drag"
	"github.com/esimov/bhaidooj-wasm/locale"
)

// TilakAnchor is the resting position of the tilak mark.
var TilakAnchor = drag.Anchor{TopPct: config.TilakAnchorTop, LeftPct: config.TilakAnchorLeft}

// Handler receives the drop of the tilak mark.
type Handler interface {
	TilakDropped()
}

// Panel owns the draggable items of the control panel. It holds no drag
// state itself.
type Panel struct {
	mu         sync.Mutex
	dispatcher *drag.Dispatcher
	tilak      *drag.Item
	thali      *drag.Item
	unregister []func()
	dropThali  func()
}

// New registers the tilak mark on the dispatcher.
func New(d *drag.Dispatcher, tilak drag.Surface, h Handler) *Panel {
	anchor := TilakAnchor
	p := &Panel{dispatcher: d}
	p.tilak = drag.NewItem(tilak, drag.Options{
		Anchor: &anchor,
		OnDrop: h.TilakDropped,
	})
	p.unregister = append(p.unregister, d.Register(config.ItemIDTilak, p.tilak))
	return p
}

// AttachThali makes the uploaded thali draggable inside bounds. A new upload
// replaces the previous item.
func (p *Panel) AttachThali(s drag.Surface, bounds drag.BoundaryFunc) *drag.Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dropThali != nil {
		p.dropThali()
	}
	p.thali = drag.NewItem(s, drag.Options{Boundary: bounds})
	p.dropThali = p.dispatcher.Register(config.ItemIDThali, p.thali)
	return p.thali
}

// Tilak returns the tilak item.
func (p *Panel) Tilak() *drag.Item { return p.tilak }

// Thali returns the thali item, nil before an upload.
func (p *Panel) Thali() *drag.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.thali
}

// Close unregisters the items.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, fn := range p.unregister {
		fn()
	}
	p.unregister = nil
	if p.dropThali != nil {
		p.dropThali()
		p.dropThali = nil
	}
}

// Button is the projection of a trigger.
type Button struct {
	Label    string
	Disabled bool
	Loading  bool
}

// View is the projection of the panel for a given state.
type View struct {
	Start     Button
	Upload    Button
	Wishes    Button
	ShowThali bool
	ThaliSrc  string
	ThaliGlow string
	ThaliAlt  string
}

// Project computes the panel projection of s.
func Project(s app.State, tr locale.Translator) View {
	v := View{
		Start:     Button{Label: tr.Msg(locale.StartWebcam)},
		Upload:    Button{Label: tr.Msg(locale.UploadThali)},
		Wishes:    Button{Label: tr.Msg(locale.SendWishes)},
		ShowThali: s.UploadedImage != "",
		ThaliSrc:  s.UploadedImage,
		ThaliGlow: s.ThaliGlow,
		ThaliAlt:  tr.Msg(locale.ThaliAlt),
	}
	if s.WebcamActive {
		v.Start = Button{Label: tr.Msg(locale.WebcamActive), Disabled: true}
	}
	if s.WishLoading {
		v.Wishes = Button{Label: tr.Msg(locale.Generating), Disabled: true, Loading: true}
	}
	return v
}
