// Package boids holds the agent data model: dense buffers of point agents
// identified by their slot index.
package boids

import (
	"math"
	"math/rand"

	"github.com/fenwick-labs/murmur/geom"
)

// Agent is a single simulated point entity. It has no identity beyond its
// slot in the buffer holding it; slots are reshuffled every tick by the
// spatial sort.
type Agent struct {
	Pos geom.Vec2
	Vel geom.Vec2
}

// Store owns the two agent buffers a tick operates on: cur is the write
// target, snapshot is the spatially sorted copy frozen for neighbor reads.
// The snapshot is rebuilt from cur at the start of every tick and must not
// be written between that rebuild and the end of the tick; every agent's
// force computation then observes the same pre-tick state regardless of
// processing order.
type Store struct {
	cur  []Agent
	snap []Agent
}

// NewStore allocates both buffers for n agents.
func NewStore(n int) *Store {
	return &Store{
		cur:  make([]Agent, n),
		snap: make([]Agent, n),
	}
}

// Len returns the population size.
func (s *Store) Len() int {
	return len(s.cur)
}

// Cur returns the buffer written during the current tick. It is also the
// render view between ticks.
func (s *Store) Cur() []Agent {
	return s.cur
}

// Snapshot returns the sorted frozen buffer. The spatial grid scatters into
// it during rebuild; afterwards it is read-only for the rest of the tick.
func (s *Store) Snapshot() []Agent {
	return s.snap
}

// Seed places every agent uniformly inside the effective bounds with a random
// heading and a speed drawn from [minSpeed, maxSpeed].
func (s *Store) Seed(rng *rand.Rand, xBound, yBound, minSpeed, maxSpeed float32) {
	for i := range s.cur {
		speed := minSpeed + rng.Float32()*(maxSpeed-minSpeed)
		theta := rng.Float32() * 2 * math.Pi
		s.cur[i] = Agent{
			Pos: geom.Vec2{
				X: (rng.Float32()*2 - 1) * xBound,
				Y: (rng.Float32()*2 - 1) * yBound,
			},
			Vel: geom.FromPolar(speed, theta),
		}
	}
}
