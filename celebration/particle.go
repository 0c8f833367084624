package celebration

import (
	"math/rand"
	"time"

	"github.com/esimov/bhaidooj-wasm/config"
)

// Palette holds the particle colors.
var Palette = []string{"#FFD700", "#FF6B9D", "#FFA07A", "#FFFFFF", "#FF8C42"}

// Size is a width and height in pixels.
type Size struct {
	W, H float64
}

// Particle is a short lived visual effect. It starts at Left/Top (percent of
// the overlay) with full scale and opacity and ends enlarged, transparent and
// displaced by DX/DY pixels.
type Particle struct {
	ID       int
	Color    string
	Size     float64
	Left     float64
	Top      float64
	DX, DY   float64
	Duration time.Duration
	Delay    time.Duration
}

// Generate creates n particles. Displacements scale with the viewport.
func Generate(rng *rand.Rand, n int, viewport Size) []Particle {
	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = Particle{
			ID:       i,
			Color:    Palette[rng.Intn(len(Palette))],
			Left:     rng.Float64() * 100,
			Top:      rng.Float64() * 100,
			Size:     rng.Float64()*config.ParticleSizeRange + config.ParticleMinSize,
			DX:       (rng.Float64() - 0.5) * viewport.W * config.ParticleSpread,
			DY:       (rng.Float64() - 0.5) * viewport.H * config.ParticleSpread,
			Duration: config.ParticleMinDuration + time.Duration(rng.Int63n(int64(config.ParticleDurationJit))),
			Delay:    time.Duration(rng.Int63n(int64(config.ParticleMaxDelay))),
		}
	}
	return particles
}
