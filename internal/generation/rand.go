package generation

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness the engine draws from.
type Source interface {
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
}

type globalSource struct{}

func (globalSource) Perm(n int) []int { return rand.Perm(n) }
func (globalSource) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// lockedSource guards a seeded *rand.Rand, which is not safe for concurrent use.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Perm(n)
}

func (s *lockedSource) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}

// NewSource returns the process-wide generator for seed 0 and a reproducible
// PCG stream otherwise.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return globalSource{}
	}
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}
