package distill

import (
	mrand "math/rand"

	exprand "golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Seeder derives every pseudo-random stream in use from one base seed: the
// general-purpose stream, the numeric-library stream that backs gonum
// distributions, and the device RNG. Applying the same seed again resets the
// streams to the same point, so repeated setup is idempotent. Non-writing
// replicas skip seeding entirely; they run no independent randomized work.
type Seeder struct {
	seed    int64
	applied bool
	general *mrand.Rand
	numeric exprand.Source
}

// Apply seeds all subsystems from seed, including dev's RNG when dev is not
// nil.
func (s *Seeder) Apply(seed int64, dev *Device) {
	s.seed = seed
	s.applied = true
	s.general = mrand.New(mrand.NewSource(seed))
	s.numeric = exprand.NewSource(uint64(seed))
	if dev != nil {
		dev.seedRNG(seed)
	}
}

// Applied reports whether Apply has run in this process.
func (s *Seeder) Applied() bool { return s.applied }

// Seed returns the applied base seed.
func (s *Seeder) Seed() int64 { return s.seed }

// General returns the general-purpose stream, created from the zero seed
// when Apply has not run.
func (s *Seeder) General() *mrand.Rand {
	if s.general == nil {
		s.general = mrand.New(mrand.NewSource(0))
	}
	return s.general
}

func (s *Seeder) source() exprand.Source {
	if s.numeric == nil {
		s.numeric = exprand.NewSource(0)
	}
	return s.numeric
}

// Normal returns a normal distribution drawing from the seeded numeric
// stream, for initialization-scheme sampling (normal, xavier, kaiming).
func (s *Seeder) Normal(mu, sigma float64) distuv.Normal {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.source()}
}

// Uniform returns a uniform distribution drawing from the seeded numeric
// stream.
func (s *Seeder) Uniform(min, max float64) distuv.Uniform {
	return distuv.Uniform{Min: min, Max: max, Src: s.source()}
}
