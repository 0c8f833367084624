// Package drag implements constrained drag and drop for elements laid over
// the webcam feed.
//
// An Item wraps any visual Surface. A gesture is a Grab, any number of Moves
// and a Release. While a boundary is configured every rendered position keeps
// the whole item inside it. A gesture which moved the item reports a single
// drop; items with an anchor spring back to it once released.
package drag

import "sync"

// Point is a position in viewport pixels.
type Point struct {
	X, Y float64
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle in viewport pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.Left, Y: r.Top} }

// Anchor is a resting position in percent of the parent element.
type Anchor struct {
	TopPct, LeftPct float64
}

// Mode tells the renderer how to interpret a Placement.
type Mode int

const (
	// Flow leaves the element where the layout puts it.
	Flow Mode = iota
	// Fixed positions the element in viewport pixels.
	Fixed
	// Anchored positions the element in percent of its parent.
	Anchored
)

func (m Mode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Anchored:
		return "anchored"
	default:
		return "flow"
	}
}

// Placement is a rendered position. Pos is used in Fixed mode, Anchor in
// Anchored mode.
type Placement struct {
	Mode   Mode
	Pos    Point
	Anchor Anchor
}

// Surface is the visual element wrapped by an Item.
type Surface interface {
	// Bounds returns the element's current rendered rectangle.
	Bounds() Rect
	// Size returns the element's layout width and height.
	Size() (w, h float64)
	// Place renders the element at the given placement.
	Place(Placement)
	// Raise lifts the element above its siblings or lowers it back.
	Raise(on bool)
}

// BoundaryFunc returns the rectangle constraining the item, or false when the
// item may move freely.
type BoundaryFunc func() (Rect, bool)

// Options configures an Item.
type Options struct {
	// Anchor, when set, is the position the item returns to after a release.
	Anchor *Anchor
	// Boundary constrains movement while dragging.
	Boundary BoundaryFunc
	// OnDrop is called once per gesture which moved the item.
	OnDrop func()
}

// Session is the state of a single drag gesture.
type Session struct {
	Offset   Point
	Position Point
	HasMoved bool
	Active   bool
}

// Item is a draggable element. The zero value is not usable; use NewItem.
type Item struct {
	mu      sync.Mutex
	surface Surface
	opts    Options
	session Session
	place   Placement
}

// NewItem wraps the surface and renders its initial placement.
func NewItem(s Surface, opts Options) *Item {
	it := &Item{surface: s, opts: opts}
	if opts.Anchor != nil {
		it.place = Placement{Mode: Anchored, Anchor: *opts.Anchor}
	}
	s.Place(it.place)
	return it
}

// Grab starts a gesture with the pointer at p.
func (it *Item) Grab(p Point) {
	it.mu.Lock()
	defer it.mu.Unlock()

	origin := it.surface.Bounds().Origin()
	it.session = Session{
		Offset:   p.Sub(origin),
		Position: origin,
		Active:   true,
	}
	it.surface.Raise(true)
	it.place = Placement{Mode: Fixed, Pos: origin}
	it.surface.Place(it.place)
}

// Move follows the pointer at p. It is a no-op outside of a gesture.
func (it *Item) Move(p Point) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if !it.session.Active {
		return
	}
	pos := p.Sub(it.session.Offset)

	if it.opts.Boundary != nil {
		if b, ok := it.opts.Boundary(); ok {
			w, h := it.surface.Size()
			pos.X = clamp(pos.X, b.Left, b.Right-w)
			pos.Y = clamp(pos.Y, b.Top, b.Bottom-h)
		}
	}
	it.session.Position = pos
	it.session.HasMoved = true
	it.place = Placement{Mode: Fixed, Pos: pos}
	it.surface.Place(it.place)
}

// Release ends the gesture. It reports whether a drop happened.
func (it *Item) Release() bool {
	it.mu.Lock()
	if !it.session.Active {
		it.mu.Unlock()
		return false
	}
	dropped := it.session.HasMoved
	it.session.Active = false

	it.surface.Raise(false)
	if it.opts.Anchor != nil {
		it.place = Placement{Mode: Anchored, Anchor: *it.opts.Anchor}
		it.surface.Place(it.place)
	}
	onDrop := it.opts.OnDrop
	it.mu.Unlock()

	if dropped && onDrop != nil {
		onDrop()
	}
	return dropped
}

// cancel ends the gesture without reporting a drop.
func (it *Item) cancel() {
	it.mu.Lock()
	defer it.mu.Unlock()

	if !it.session.Active {
		return
	}
	it.session.Active = false
	it.surface.Raise(false)
	if it.opts.Anchor != nil {
		it.place = Placement{Mode: Anchored, Anchor: *it.opts.Anchor}
		it.surface.Place(it.place)
	}
}

// Session returns a copy of the current gesture state.
func (it *Item) Session() Session {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.session
}

// Placement returns the last rendered placement.
func (it *Item) Placement() Placement {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.place
}

// Dragging reports whether a gesture is in progress.
func (it *Item) Dragging() bool {
	return it.Session().Active
}
