// Package chain walks a word adjacency model to produce fixed-length word
// chains, and ranks the successors of a single word.
package chain

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bastiangx/wordchain/pkg/successor"
	"github.com/charmbracelet/log"
)

var (
	// ErrNegativeLength is returned for a chain length below zero.
	ErrNegativeLength = errors.New("chain length must be non-negative")
	// ErrUnknownMode is returned by ParseMode for an unrecognized label.
	ErrUnknownMode = errors.New("unknown generation mode")
)

// Mode selects how the next word of a chain is chosen.
type Mode uint8

const (
	// MostProbable always takes the top-ranked successor.
	MostProbable Mode = iota
	// WeightedSample draws a successor with probability proportional to its count.
	WeightedSample
)

// String returns the canonical label of the mode.
func (m Mode) String() string {
	switch m {
	case MostProbable:
		return "most-probable"
	case WeightedSample:
		return "weighted-sample"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode accepts the short labels "one" and "all" as well as the
// canonical mode names.
func ParseMode(label string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "one", "most-probable":
		return MostProbable, nil
	case "all", "weighted-sample":
		return WeightedSample, nil
	default:
		return 0, fmt.Errorf("%w: %q (want one or all)", ErrUnknownMode, label)
	}
}

// Lookup resolves the successor model of a word.
type Lookup interface {
	Get(word string) (*successor.Model, bool)
}

// Generator produces chains from a Lookup.
type Generator struct {
	lookup Lookup
	mode   Mode
	rng    successor.Source
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source used by WeightedSample.
func WithRand(src successor.Source) Option {
	return func(g *Generator) {
		g.rng = src
	}
}

// NewSource returns a random source for seed, or one seeded from the clock
// when seed is 0.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// New returns a Generator walking lookup with the given mode.
// Without WithRand the random source is seeded from the clock.
func New(lookup Lookup, mode Mode, opts ...Option) *Generator {
	g := &Generator{
		lookup: lookup,
		mode:   mode,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = NewSource(0)
	}
	return g
}

// Mode returns the generator's mode.
func (g *Generator) Mode() Mode {
	return g.mode
}

// maxPrealloc caps the capacity Generate reserves up front; longer chains
// grow as they are walked.
const maxPrealloc = 1024

// Generate returns exactly k words starting with seed.
// A word without known successors is followed by seed again.
func (g *Generator) Generate(seed string, k int) ([]string, error) {
	words := make([]string, 0, min(max(k, 0), maxPrealloc))
	err := g.Walk(seed, k, func(word string) bool {
		words = append(words, word)
		return true
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

// Walk passes the words of a k-word chain from seed to fn one at a time,
// stopping early when fn returns false. It holds no more than the current
// word, so k is bounded only by how long the caller keeps consuming.
func (g *Generator) Walk(seed string, k int, fn func(word string) bool) error {
	if k < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLength, k)
	}
	if k == 0 || !fn(seed) {
		return nil
	}
	current := seed
	for i := 1; i < k; i++ {
		next, err := g.next(seed, current)
		if err != nil {
			return err
		}
		if !fn(next) {
			return nil
		}
		current = next
	}
	return nil
}

func (g *Generator) next(seed, current string) (string, error) {
	sm, ok := g.lookup.Get(current)
	if !ok || sm.IsEmpty() {
		log.Debugf("No successors for %q, restarting at %q", current, seed)
		return seed, nil
	}
	switch g.mode {
	case MostProbable:
		return sm.MostProbable()
	case WeightedSample:
		return sm.SampleWeighted(g.rng)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMode, g.mode)
	}
}

// Rank returns the top k successors of a single word's model, most probable
// first. A nil model ranks as empty.
func Rank(sm *successor.Model, k int) []string {
	if sm == nil {
		return []string{}
	}
	return sm.TopK(k)
}

// Join joins words with single spaces.
func Join(words []string) string {
	return strings.Join(words, " ")
}
