package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/wordchain/pkg/successor"
	"github.com/bastiangx/wordchain/pkg/token"
	"github.com/charmbracelet/log"
)

// Build scans lines and records every adjacent token pair within a line.
// Pairs never span two lines, and zero lines yield an empty model.
func Build(lines []string, n token.Normalizer) *Model {
	m := newModel()
	for _, line := range lines {
		m.scanLine(line, n)
	}
	log.Debugf("Corpus built: %d predecessors, %d pairs from %d lines", m.Len(), m.pairs, m.lines)
	return m
}

// BuildReader is Build over the lines of r.
func BuildReader(r io.Reader, n token.Normalizer) (*Model, error) {
	m := newModel()
	if err := eachLine(r, func(line string) {
		m.scanLine(line, n)
	}); err != nil {
		return nil, err
	}
	log.Debugf("Corpus built: %d predecessors, %d pairs from %d lines", m.Len(), m.pairs, m.lines)
	return m, nil
}

// BuildSeed records only the pairs whose predecessor is seed.
// The result matches Build(lines, n).Get(seed), or is empty when seed
// never precedes another word.
func BuildSeed(lines []string, seed string, n token.Normalizer) *successor.Model {
	sm := successor.New()
	for _, line := range lines {
		scanSeed(sm, line, seed, n)
	}
	return sm
}

// BuildSeedReader is BuildSeed over the lines of r.
func BuildSeedReader(r io.Reader, seed string, n token.Normalizer) (*successor.Model, error) {
	sm := successor.New()
	if err := eachLine(r, func(line string) {
		scanSeed(sm, line, seed, n)
	}); err != nil {
		return nil, err
	}
	log.Debugf("Seed %q: %d successors, %d occurrences", seed, sm.Len(), sm.Total())
	return sm, nil
}

func (m *Model) scanLine(line string, n token.Normalizer) {
	m.lines++
	tokens := n.Fields(line)
	for i := 0; i+1 < len(tokens); i++ {
		m.observe(tokens[i], tokens[i+1])
	}
}

func scanSeed(sm *successor.Model, line, seed string, n token.Normalizer) {
	tokens := n.Fields(line)
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] == seed {
			sm.AddOccurrence(tokens[i+1])
		}
	}
}

// eachLine calls fn for every line of r, trimmed. A line ends at "\n",
// "\r\n" or a lone "\r", and has no length limit.
func eachLine(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		chunk, err := br.ReadString('\n')
		if chunk != "" {
			chunk = strings.TrimSuffix(chunk, "\n")
			chunk = strings.TrimSuffix(chunk, "\r")
			for _, line := range strings.Split(chunk, "\r") {
				fn(strings.TrimSpace(line))
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read training text: %w", err)
		}
	}
}
