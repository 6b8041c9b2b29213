package forecast

import (
	"math"
	"testing"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spillEvent(t *testing.T, seed uint64) domain.HazardEvent {
	t.Helper()
	events := newTestGenerator(seed).GenerateEvents(domain.HazardOilSpill, 1)
	require.Len(t, events, 1)
	return events[0]
}

func TestGenerateParticleEnsemble(t *testing.T) {
	e := spillEvent(t, 21)
	g := newTestGenerator(22)

	ens := g.GenerateParticleEnsemble(e, 12)
	require.NotNil(t, ens)
	assert.Equal(t, e.ID, ens.EventID)
	assert.Equal(t, 12, ens.Timestep)
	assert.Equal(t, 50, ens.Members)
	require.Len(t, ens.Particles, 500)

	for i, p := range ens.Particles {
		assert.Equal(t, i, p.ID)
		assert.GreaterOrEqual(t, p.EnsembleMember, 0)
		assert.Less(t, p.EnsembleMember, 50)
		assert.GreaterOrEqual(t, p.Probability, 0.0)
		assert.LessOrEqual(t, p.Probability, 1.0)
		assert.Equal(t, 12.0, p.AgeHours)
		assert.Equal(t, ens.Time, p.Time)
	}
	assert.Equal(t, 1.0, ens.Particles[0].Probability)
}

func TestGenerateParticleEnsemble_NegativeTimestepClamped(t *testing.T) {
	ens := newTestGenerator(23).GenerateParticleEnsemble(spillEvent(t, 23), -6)
	require.NotNil(t, ens)
	assert.Equal(t, 0, ens.Timestep)
}

func TestGenerateParticleEnsemble_NonSpill(t *testing.T) {
	g := newTestGenerator(24)
	for _, h := range []domain.HazardType{domain.HazardHAB, domain.HazardCyclone, domain.HazardMHW, domain.HazardRipCurrent} {
		e := g.GenerateEvents(h, 1)[0]
		assert.Nil(t, g.GenerateParticleEnsemble(e, 0), string(h))
	}
}

func TestAnimatedParticles_Deterministic(t *testing.T) {
	e := spillEvent(t, 31)
	p := DefaultParams()

	a := AnimatedParticles(p, e, 24, 0.37)
	b := AnimatedParticles(p, e, 24, 0.37)
	require.Len(t, a, p.ParticleCount)
	assert.Equal(t, a, b)

	// The generator wrapper neither consumes randomness nor changes the result.
	g := newTestGenerator(99)
	assert.Equal(t, a, g.GenerateAnimatedParticles(e, 24, 0.37))
}

func TestAnimatedParticles_PhaseWrapsAtOne(t *testing.T) {
	e := spillEvent(t, 32)
	p := DefaultParams()

	zero := AnimatedParticles(p, e, 18, 0)
	one := AnimatedParticles(p, e, 18, 1)
	require.Len(t, one, len(zero))
	for i := range zero {
		assert.InDelta(t, zero[i].Position.Lon(), one[i].Position.Lon(), 1e-9)
		assert.InDelta(t, zero[i].Position.Lat(), one[i].Position.Lat(), 1e-9)
	}
}

func TestAnimatedParticles_SmallPhaseStepMovesLittle(t *testing.T) {
	e := spillEvent(t, 33)
	p := DefaultParams()
	const dPhase = 1e-3

	a := AnimatedParticles(p, e, 6, 0.5)
	b := AnimatedParticles(p, e, 6, 0.5+dPhase)
	// Orbit radius is at most 1.5x the oscillation amplitude.
	limit := 2 * math.Pi * dPhase * 1.5 * p.ParticleOscillation * 1.01
	for i := range a {
		d := math.Hypot(a[i].Position.Lon()-b[i].Position.Lon(), a[i].Position.Lat()-b[i].Position.Lat())
		assert.LessOrEqual(t, d, limit)
	}
}

func TestAnimatedParticles_ProbabilityFadesToZero(t *testing.T) {
	e := spillEvent(t, 34)
	for _, p := range AnimatedParticles(DefaultParams(), e, 144, 0.2) {
		assert.Equal(t, 0.0, p.Probability)
	}
}

func TestAnimatedParticles_NonSpill(t *testing.T) {
	e := newTestGenerator(35).GenerateEvents(domain.HazardHAB, 1)[0]
	got := AnimatedParticles(DefaultParams(), e, 0, 0)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHash01_Range(t *testing.T) {
	for i := range 1000 {
		v := hash01(float64(i)*phi, float64(i%7), float64(i%3))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestGenerateParticleEnsemble_HugeTimestepClamped(t *testing.T) {
	e := spillEvent(t, 25)
	ens := newTestGenerator(25).GenerateParticleEnsemble(e, math.MaxInt)
	require.NotNil(t, ens)
	assert.Equal(t, maxTimestepHours, ens.Timestep)
	assert.True(t, ens.Time.After(e.DetectionTime), "valid time must not wrap before detection")

	animated := AnimatedParticles(DefaultParams(), e, math.MaxInt, 0.5)
	require.NotEmpty(t, animated)
	assert.Equal(t, float64(maxTimestepHours), animated[0].AgeHours)
	assert.True(t, animated[0].Time.After(e.DetectionTime))
}

func TestAnimatedParticles_ZeroSizesUseDefaults(t *testing.T) {
	e := spillEvent(t, 26)
	p := DefaultParams()
	p.EnsembleMembers = 0
	p.ParticleCount = 0

	var particles []domain.Particle
	require.NotPanics(t, func() { particles = AnimatedParticles(p, e, 3, 0.1) })
	require.Len(t, particles, 500)
	for _, pt := range particles {
		assert.Less(t, pt.EnsembleMember, 50)
	}
}
