// Package celebration runs the timed full-screen celebration: a burst of
// particles and a message shown for a fixed duration.
//
// The overlay is a two state machine. Activate moves it to Active, spawns the
// particles and arms the completion timer; the timer moves it back to Idle
// and calls OnComplete. Re-activating cancels the pending timer first, so
// only the latest activation completes.
package celebration

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/esimov/bhaidooj-wasm/config"
)

// State of the overlay.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Effects renders the overlay. Show and Hide are called with the overlay
// locked and must not call back into it.
type Effects interface {
	// Show displays the message over the whole screen.
	Show(message string)
	// Hide removes the overlay.
	Hide()
	// Spawn starts the particle animation and calls done once it finished.
	Spawn(p Particle, done func())
	// Viewport returns the current viewport size.
	Viewport() Size
}

// Timer is a pending call which can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler arms timers.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealScheduler implements Scheduler with the time package.
type RealScheduler struct{}

// AfterFunc calls fn in its own goroutine after d.
func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Option customises an Overlay.
type Option func(*Overlay)

// WithScheduler replaces the real timers.
func WithScheduler(s Scheduler) Option {
	return func(o *Overlay) { o.sched = s }
}

// WithRand sets the particle random source.
func WithRand(rng *rand.Rand) Option {
	return func(o *Overlay) { o.rng = rng }
}

// WithDuration changes the active duration.
func WithDuration(d time.Duration) Option {
	return func(o *Overlay) { o.duration = d }
}

// Overlay is the celebration state machine.
type Overlay struct {
	mu         sync.Mutex
	fx         Effects
	sched      Scheduler
	rng        *rand.Rand
	duration   time.Duration
	onComplete func()

	state   State
	message string
	timer   Timer
	gen     uint64
	live    map[uint64]map[int]struct{}
}

// NewOverlay creates an idle overlay. onComplete is called once per
// activation when it ends.
func NewOverlay(fx Effects, onComplete func(), opts ...Option) *Overlay {
	o := &Overlay{
		fx:         fx,
		sched:      RealScheduler{},
		duration:   config.CelebrationDuration,
		onComplete: onComplete,
		live:       make(map[uint64]map[int]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Activate shows the message and starts a new burst of particles.
func (o *Overlay) Activate(message string) {
	o.mu.Lock()
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.gen++
	gen := o.gen
	o.state = Active
	o.message = message

	particles := Generate(o.rng, config.ParticleCount, o.fx.Viewport())
	batch := make(map[int]struct{}, len(particles))
	for _, p := range particles {
		batch[p.ID] = struct{}{}
	}
	o.live[gen] = batch
	o.timer = o.sched.AfterFunc(o.duration, func() { o.complete(gen) })
	o.fx.Show(message)
	o.mu.Unlock()

	slog.Debug("celebration started",
		config.LogKeyComponent, config.CompCelebration,
		config.LogKeyMessage, message,
		config.LogKeyCount, len(particles),
	)

	for _, p := range particles {
		p := p
		o.fx.Spawn(p, func() { o.remove(gen, p.ID) })
	}
}

// remove drops a finished particle.
func (o *Overlay) remove(gen uint64, id int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	batch, ok := o.live[gen]
	if !ok {
		return
	}
	delete(batch, id)
	if len(batch) == 0 {
		delete(o.live, gen)
	}
}

func (o *Overlay) complete(gen uint64) {
	o.mu.Lock()
	if gen != o.gen || o.state != Active {
		// Superseded by a later activation.
		o.mu.Unlock()
		return
	}
	o.state = Idle
	o.timer = nil
	onComplete := o.onComplete
	// Hidden under the lock so a concurrent Activate is never hidden.
	o.fx.Hide()
	o.mu.Unlock()

	slog.Debug("celebration finished", config.LogKeyComponent, config.CompCelebration)
	if onComplete != nil {
		onComplete()
	}
}

// State returns the current state.
func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Message returns the message of the current or last activation.
func (o *Overlay) Message() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.message
}

// Live returns the number of particles still animating.
func (o *Overlay) Live() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for _, batch := range o.live {
		n += len(batch)
	}
	return n
}

// Close cancels a pending completion, hides an active overlay and returns
// to Idle without calling OnComplete.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.gen++
	if o.state == Active {
		o.fx.Hide()
	}
	o.state = Idle
}
