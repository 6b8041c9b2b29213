package forecast

// Params holds the tuning constants of the generators. The values have no
// physical derivation; they shape plausible-looking synthetic output and can be
// overridden per generator.
type Params struct {
	// Drift in degrees per hour applied to spill polygons and particles.
	SpillDriftU float64
	SpillDriftV float64
	// Spill probability at hour h is SpillProbabilityStart - SpillProbabilityDecay·h
	// plus uniform noise in ±SpillProbabilityNoise.
	SpillProbabilityStart float64
	SpillProbabilityDecay float64
	SpillProbabilityNoise float64

	BloomDriftU float64
	BloomDriftV float64

	// Cyclone forecast polygons drift with the storm and widen by
	// CycloneConeGrowthKmPerHour around the seed radius.
	CycloneDriftU              float64
	CycloneDriftV              float64
	CycloneProbabilityStart    float64
	CycloneProbabilityDecay    float64
	CycloneConeGrowthKmPerHour float64
	// CycloneBearingDeg is the mean heading of generated tracks, clockwise from north.
	CycloneBearingDeg float64

	// AdvectionJitter is the per-vertex jitter in degrees applied during advection.
	AdvectionJitter float64

	ParticleCount   int
	EnsembleMembers int
	// ParticleJitter is the snapshot jitter half-range in degrees at t=0.
	ParticleJitter float64
	// ParticleDiffusion is the animated diffusion half-range in degrees at t=3.
	ParticleDiffusion float64
	// ParticleOscillation is the animated oscillation amplitude in degrees.
	ParticleOscillation float64

	// WindInflowDeg is the cross-isobar inflow angle of the wind field.
	WindInflowDeg float64
	// WindGridSpacingDeg is the wind field sample spacing.
	WindGridSpacingDeg float64

	// HABResolutionDeg is the bloom grid cell size.
	HABResolutionDeg float64
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		SpillDriftU:           0.02,
		SpillDriftV:           0.01,
		SpillProbabilityStart: 0.95,
		SpillProbabilityDecay: 0.01,
		SpillProbabilityNoise: 0.03,

		BloomDriftU: 0.005,
		BloomDriftV: 0.003,

		CycloneDriftU:              -0.12,
		CycloneDriftV:              0.05,
		CycloneProbabilityStart:    0.9,
		CycloneProbabilityDecay:    0.003,
		CycloneConeGrowthKmPerHour: 2,
		CycloneBearingDeg:          300,

		AdvectionJitter: 0.01,

		ParticleCount:       500,
		EnsembleMembers:     50,
		ParticleJitter:      0.05,
		ParticleDiffusion:   0.03,
		ParticleOscillation: 0.01,

		WindInflowDeg:      20,
		WindGridSpacingDeg: 0.5,

		HABResolutionDeg: 0.1,
	}
}

// withDefaults replaces non-positive counts and grid resolutions with their
// defaults. Those fields size slices or divide, so zero is never usable.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.ParticleCount <= 0 {
		p.ParticleCount = d.ParticleCount
	}
	if p.EnsembleMembers <= 0 {
		p.EnsembleMembers = d.EnsembleMembers
	}
	if p.HABResolutionDeg <= 0 {
		p.HABResolutionDeg = d.HABResolutionDeg
	}
	return p
}
