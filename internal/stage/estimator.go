package stage

import (
	"math/rand/v2"
	"time"
)

// Estimator derives a stage from time elapsed since the session started.
type Estimator interface {
	Estimate(elapsed time.Duration) Stage
}

// EstimatorFunc adapts a plain function to Estimator.
type EstimatorFunc func(elapsed time.Duration) Stage

func (f EstimatorFunc) Estimate(elapsed time.Duration) Stage { return f(elapsed) }

// CycleLength is the length of the modelled sleep cycle.
const CycleLength = 90 * time.Minute

// CycleEstimator walks a fixed schedule inside each 90-minute cycle:
// 0-5 min awake, 5-25 light, 25-45 deep, 45-70 REM, then light again.
type CycleEstimator struct{}

func (CycleEstimator) Estimate(elapsed time.Duration) Stage {
	if elapsed < 0 {
		elapsed = 0
	}
	into := elapsed % CycleLength
	switch {
	case into < 5*time.Minute:
		return Awake
	case into < 25*time.Minute:
		return Light
	case into < 45*time.Minute:
		return Deep
	case into < 70*time.Minute:
		return REM
	default:
		return Light
	}
}

// DefaultNoise is the probability a NoisyEstimator substitutes a random stage.
const DefaultNoise = 0.10

// NoisyEstimator perturbs a base estimator with a per-session random source.
// It is not safe for concurrent use; the owning session serializes calls.
type NoisyEstimator struct {
	base  Estimator
	rng   *rand.Rand
	noise float64
}

// NewNoisyEstimator returns an estimator that replaces the base estimate
// with a uniformly random stage with probability noise. The seed makes a
// session reproducible.
func NewNoisyEstimator(base Estimator, seed uint64, noise float64) *NoisyEstimator {
	if base == nil {
		base = CycleEstimator{}
	}
	if noise < 0 {
		noise = 0
	}
	if noise > 1 {
		noise = 1
	}
	return &NoisyEstimator{
		base:  base,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		noise: noise,
	}
}

func (n *NoisyEstimator) Estimate(elapsed time.Duration) Stage {
	s := n.base.Estimate(elapsed)
	if n.noise > 0 && n.rng.Float64() < n.noise {
		return All[n.rng.IntN(len(All))]
	}
	return s
}
