package des

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrGammaIsDegenerate is returned when a mean and coefficient of variation do
// not map to a finite, positive gamma shape and rate.
var ErrGammaIsDegenerate = errors.New("gamma shape or rate is not finite and positive")

// SeedSequence derives independent child streams from a root seed.
type SeedSequence struct {
	root uint64
}

// NewSeedSequence creates a SeedSequence for the given root seed.
func NewSeedSequence(root uint64) SeedSequence {
	return SeedSequence{root: root}
}

// Derive returns the stream identified by labels. The same (root, labels)
// always yields the same stream; distinct label lists yield unrelated ones.
func (s SeedSequence) Derive(labels ...uint64) *Stream {
	h := splitmix64(s.root)
	for _, l := range labels {
		h = splitmix64(h ^ splitmix64(l))
	}
	return NewStream(h, splitmix64(h^0xd1b54a32d192ed03))
}

// Stream is a reproducible source of random variates backed by PCG.
type Stream struct {
	src *rand.PCG
	rng *rand.Rand
}

// NewStream creates a stream from an explicit PCG seed pair.
func NewStream(seed1, seed2 uint64) *Stream {
	src := rand.NewPCG(seed1, seed2)
	return &Stream{
		src: src,
		rng: rand.New(src),
	}
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (s *Stream) IntN(n int) int {
	return s.rng.IntN(n)
}

// Exponential samples an exponential variate with the given rate, so the mean
// is 1/rate. A non-positive rate never fires and yields +Inf.
func (s *Stream) Exponential(rate float64) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	return distuv.Exponential{Rate: rate, Src: s.src}.Rand()
}

// GammaParams converts a mean and coefficient of variation into the gamma
// shape (1/cv²) and rate (1/(mean·cv²)). It returns ErrGammaIsDegenerate when
// either overflows or underflows. Callers handle a zero mean or cv first.
func GammaParams(mean, cv float64) (shape, rate float64, err error) {
	shape = 1 / (cv * cv)
	rate = 1 / (mean * cv * cv)
	if !positiveFinite(shape) || !positiveFinite(rate) {
		return 0, 0, ErrGammaIsDegenerate
	}
	return shape, rate, nil
}

// Gamma samples a gamma variate given its mean and coefficient of variation.
// A zero mean yields 0 and a zero cv yields the mean itself.
func (s *Stream) Gamma(mean, cv float64) (float64, error) {
	if mean <= 0 {
		return 0, nil
	}
	if cv <= 0 {
		return mean, nil
	}
	shape, rate, err := GammaParams(mean, cv)
	if err != nil {
		return 0, fmt.Errorf("mean %v, cv %v: %w", mean, cv, err)
	}
	return distuv.Gamma{Alpha: shape, Beta: rate, Src: s.src}.Rand(), nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
