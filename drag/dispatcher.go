package drag

import (
	"log/slog"
	"sync"

	"github.com/esimov/bhaidooj-wasm/config"
)

// Dispatcher routes the global pointer stream to the registered items.
// A gesture belongs to the pointer that started it, so items never observe
// each other's sessions.
type Dispatcher struct {
	mu       sync.Mutex
	items    map[string]*Item
	gestures map[int]string // pointer id -> item id
	hooks    []func()
	closed   bool
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		items:    make(map[string]*Item),
		gestures: make(map[int]string),
	}
}

// Register adds the item under id, replacing any previous item with the same
// id. The returned func unregisters it.
func (d *Dispatcher) Register(id string, it *Item) (unregister func()) {
	d.mu.Lock()
	prev := d.items[id]
	d.items[id] = it
	d.mu.Unlock()

	if prev != nil && prev != it {
		d.drop(id, prev)
	}
	return func() {
		d.mu.Lock()
		if d.items[id] != it {
			d.mu.Unlock()
			return
		}
		delete(d.items, id)
		d.mu.Unlock()
		d.drop(id, it)
	}
}

// drop forgets every gesture bound to id and cancels the item's session.
func (d *Dispatcher) drop(id string, it *Item) {
	d.mu.Lock()
	for ptr, owner := range d.gestures {
		if owner == id {
			delete(d.gestures, ptr)
		}
	}
	d.mu.Unlock()
	it.cancel()
}

// OnClose registers a hook run by Close, typically the release of the global
// pointer listeners.
func (d *Dispatcher) OnClose(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, fn)
}

// PointerDown starts a gesture on the item registered under id.
func (d *Dispatcher) PointerDown(pointer int, id string, p Point) {
	d.mu.Lock()
	it, ok := d.items[id]
	if !ok || d.closed {
		d.mu.Unlock()
		return
	}
	if _, busy := d.gestures[pointer]; busy {
		d.mu.Unlock()
		return
	}
	for _, owner := range d.gestures {
		if owner == id {
			// Already dragged by another pointer.
			d.mu.Unlock()
			return
		}
	}
	d.gestures[pointer] = id
	d.mu.Unlock()

	slog.Debug("grab",
		config.LogKeyComponent, config.CompDrag,
		config.LogKeyItem, id,
		config.LogKeyPointer, pointer,
	)
	it.Grab(p)
}

// PointerMove forwards the pointer position to the item it is dragging.
func (d *Dispatcher) PointerMove(pointer int, p Point) {
	if it := d.owner(pointer, false); it != nil {
		it.Move(p)
	}
}

// PointerUp ends the gesture started by pointer. Without a gesture it is a
// no-op.
func (d *Dispatcher) PointerUp(pointer int) {
	it := d.owner(pointer, true)
	if it == nil {
		return
	}
	if it.Release() {
		slog.Debug("drop",
			config.LogKeyComponent, config.CompDrag,
			config.LogKeyPointer, pointer,
		)
	}
}

// PointerCancel aborts the gesture started by pointer without a drop.
func (d *Dispatcher) PointerCancel(pointer int) {
	if it := d.owner(pointer, true); it != nil {
		it.cancel()
	}
}

func (d *Dispatcher) owner(pointer int, end bool) *Item {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok := d.gestures[pointer]
	if !ok {
		return nil
	}
	if end {
		delete(d.gestures, pointer)
	}
	return d.items[id]
}

// Active returns the number of gestures in progress.
func (d *Dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.gestures)
}

// Close cancels the running gestures, unregisters every item and runs the
// close hooks. It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	items := d.items
	hooks := d.hooks
	d.items = make(map[string]*Item)
	d.gestures = make(map[int]string)
	d.hooks = nil
	d.mu.Unlock()

	for _, it := range items {
		it.cancel()
	}
	for _, fn := range hooks {
		fn()
	}
}
