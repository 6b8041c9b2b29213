// Package forecast generates synthetic ocean hazard events and their derived
// artifacts: alerts, particle ensembles, cyclone tracks and wind fields, and
// bloom probability grids.
//
// Every generator is a function of its explicit arguments and an injected
// random source. Nothing is cached between calls; regenerating means calling
// again.
package forecast

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Generator produces hazard events from an explicit random source and clock.
// It is not safe for concurrent use: give each goroutine its own Generator.
type Generator struct {
	rng    *rand.Rand
	clock  clockwork.Clock
	params Params
}

// NewGenerator creates a Generator. A nil clock uses the real clock.
// Non-positive particle counts, ensemble sizes and grid resolutions in params
// fall back to DefaultParams.
func NewGenerator(rng *rand.Rand, clock clockwork.Clock, params Params) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{rng: rng, clock: clock, params: params.withDefaults()}
}

// NewSeededGenerator creates a Generator with a PCG source derived from seed
// and the default parameters.
func NewSeededGenerator(seed uint64, clock clockwork.Clock) *Generator {
	return NewGenerator(NewRand(seed), clock, DefaultParams())
}

// NewRand returns a deterministic PCG-backed random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Params returns the generator's tuning parameters.
func (g *Generator) Params() Params { return g.params }

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) intRange(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func pick[T any](g *Generator, items []T) T {
	return items[g.rng.IntN(len(items))]
}

// pickN returns n distinct items in their original order.
func pickN[T any](g *Generator, items []T, n int) []T {
	n = min(n, len(items))
	idx := g.rng.Perm(len(items))[:n]
	keep := make(map[int]bool, n)
	for _, i := range idx {
		keep[i] = true
	}
	out := make([]T, 0, n)
	for i, item := range items {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out
}

// hexString returns n random lowercase hex characters.
func (g *Generator) hexString(n int) string {
	const digits = "0123456789abcdef"
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(digits[g.rng.IntN(16)])
	}
	return b.String()
}

// rngReader adapts the generator's source to io.Reader so UUIDs follow the seed.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], r.rng.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

func (g *Generator) newUUID() string {
	id, err := uuid.NewRandomFromReader(rngReader{g.rng})
	if err != nil {
		// rngReader never fails.
		panic(err)
	}
	return id.String()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
