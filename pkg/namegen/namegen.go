// Package namegen produces the names inserted into the users table.
package namegen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit"
)

// NameLength is the length of every randomly generated name.
const NameLength = 15

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Source identifies a name generation strategy.
type Source string

const (
	// SourceRandom draws fixed-length strings uniformly from [A-Za-z0-9].
	SourceRandom Source = "random"
	// SourceFake produces human-looking usernames via gofakeit.
	SourceFake Source = "fake"
)

// Generator produces one name per call. Uniqueness is probabilistic, not
// guaranteed; collisions surface downstream as constraint violations.
type Generator interface {
	Name() string
}

// New returns the generator for the given source.
func New(source Source) (Generator, error) {
	switch source {
	case SourceRandom:
		return NewRandom(), nil
	case SourceFake:
		return NewFake(), nil
	default:
		return nil, fmt.Errorf("unknown name source: %q", source)
	}
}

// randomGenerator draws uniformly from the alphanumeric alphabet.
type randomGenerator struct {
	rng *rand.Rand
}

// NewRandom creates a random alphanumeric generator.
func NewRandom() Generator {
	return &randomGenerator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *randomGenerator) Name() string {
	b := make([]byte, NameLength)
	for i := range b {
		b[i] = alphanumeric[g.rng.Intn(len(alphanumeric))]
	}
	return string(b)
}

// fakeGenerator produces usernames that look like real accounts. Collision
// odds are higher than the random generator; callers already tolerate
// duplicates.
type fakeGenerator struct{}

// NewFake creates a gofakeit-backed username generator.
func NewFake() Generator {
	gofakeit.Seed(time.Now().UnixNano())
	return &fakeGenerator{}
}

func (g *fakeGenerator) Name() string {
	return gofakeit.Username()
}
