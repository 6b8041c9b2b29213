package forecast

import (
	"math"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
)

// phi spreads consecutive particle indices across the hash domain.
const phi = 1.618033988749895

// spillBoundary returns the seed ring's distinct vertices, or nil when the event is
// not a spill with usable seed geometry.
func spillBoundary(e domain.HazardEvent) geometry.Ring {
	if e.HazardType != domain.HazardOilSpill || len(e.SeedPolygon) == 0 {
		return nil
	}
	ring := e.SeedPolygon
	if ring.Closed() {
		ring = ring[:len(ring)-1]
	}
	return ring
}

// maxTimestepHours bounds particle timesteps so the valid time stays
// representable. Particles have fully faded long before this.
const maxTimestepHours = 24 * 365

func clampTimestep(t int) int {
	return min(max(t, 0), maxTimestepHours)
}

// GenerateParticleEnsemble places ParticleCount tracers on the seed boundary of
// a spill event, advected to timestep hours with jitter that widens over time.
// Returns nil for any other hazard type.
func (g *Generator) GenerateParticleEnsemble(e domain.HazardEvent, timestep int) *domain.ParticleEnsemble {
	boundary := spillBoundary(e)
	if boundary == nil {
		return nil
	}
	p := g.params
	timestep = clampTimestep(timestep)
	t := float64(timestep)
	at := e.DetectionTime.Add(time.Duration(timestep) * time.Hour)
	spread := p.ParticleJitter * (1 + 0.01*t)

	particles := make([]domain.Particle, p.ParticleCount)
	for i := range particles {
		base := boundary[i%len(boundary)]
		jx := (g.rng.Float64()*2 - 1) * spread
		jy := (g.rng.Float64()*2 - 1) * spread
		particles[i] = domain.Particle{
			ID: i,
			Position: geometry.Position{
				base.Lon() + p.SpillDriftU*t + jx,
				base.Lat() + p.SpillDriftV*t + jy,
			},
			Time:           at,
			AgeHours:       t,
			Probability:    clamp01(1 - float64(i)/float64(p.ParticleCount)),
			EnsembleMember: i % p.EnsembleMembers,
		}
	}
	return &domain.ParticleEnsemble{
		EventID:   e.ID,
		Timestep:  timestep,
		Time:      at,
		Members:   p.EnsembleMembers,
		Particles: particles,
	}
}

// GenerateAnimatedParticles is AnimatedParticles with the generator's parameters.
// It does not consume the generator's random source.
func (g *Generator) GenerateAnimatedParticles(e domain.HazardEvent, timestep int, phase float64) []domain.Particle {
	return AnimatedParticles(g.params, e, timestep, phase)
}

// AnimatedParticles returns a deterministic particle field for a spill event.
// Identical (event, timestep, phase) arguments always produce identical output.
// Each particle orbits its advected, diffused position once per unit of phase,
// so phase 0 and phase 1 coincide. Returns an empty slice for other hazards.
func AnimatedParticles(p Params, e domain.HazardEvent, timestep int, phase float64) []domain.Particle {
	boundary := spillBoundary(e)
	if boundary == nil {
		return []domain.Particle{}
	}
	p = p.withDefaults()
	timestep = clampTimestep(timestep)
	t := float64(timestep)
	at := e.DetectionTime.Add(time.Duration(timestep) * time.Hour)
	diffusion := p.ParticleDiffusion * math.Sqrt(t/3)
	decay := math.Max(0, 1-t/144)

	particles := make([]domain.Particle, p.ParticleCount)
	for i := range particles {
		base := boundary[i%len(boundary)]
		key := float64(i) * phi

		dx := (hash01(key, t, 0)*2 - 1) * diffusion
		dy := (hash01(key, t, 1)*2 - 1) * diffusion
		theta := 2 * math.Pi * (phase + hash01(key, 0, 2))
		amp := p.ParticleOscillation * (0.5 + hash01(key, 0, 3))

		pos := geometry.Position{
			base.Lon() + p.SpillDriftU*t + dx + amp*math.Cos(theta),
			base.Lat() + p.SpillDriftV*t + dy + amp*math.Sin(theta),
		}
		dist := math.Hypot(pos.Lon()-base.Lon(), pos.Lat()-base.Lat())

		particles[i] = domain.Particle{
			ID:             i,
			Position:       pos,
			Time:           at,
			AgeHours:       t,
			Probability:    clamp01(math.Exp(-dist/0.5) * decay),
			EnsembleMember: i % p.EnsembleMembers,
		}
	}
	return particles
}

// hash01 maps its inputs to a stable pseudo-random value in [0, 1).
func hash01(x, y, salt float64) float64 {
	v := math.Sin(x*12.9898+y*78.233+salt*37.719) * 43758.5453
	return v - math.Floor(v)
}
