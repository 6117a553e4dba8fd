// Package corpus builds the first-order word adjacency model of a training
// text: one successor.Model for every word seen immediately before another
// word on the same line.
package corpus

import (
	"sort"

	"github.com/bastiangx/wordchain/pkg/successor"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Model maps each predecessor word to its successor frequencies.
// It is filled once by Build or BuildReader and read-only afterwards.
type Model struct {
	models map[string]*successor.Model
	index  *patricia.Trie
	pairs  int
	lines  int
}

func newModel() *Model {
	return &Model{
		models: make(map[string]*successor.Model),
		index:  patricia.NewTrie(),
	}
}

// observe records next as a successor of prev.
func (m *Model) observe(prev, next string) {
	sm, ok := m.models[prev]
	if !ok {
		sm = successor.New()
		m.models[prev] = sm
		// The empty token cannot share the trie root with real prefixes.
		if prev != "" {
			m.index.Insert(patricia.Prefix(prev), sm)
		}
	}
	sm.AddOccurrence(next)
	m.pairs++
}

// Get returns the successor model of word. ok is false when word never
// appeared as a predecessor; every model returned with ok set is non-empty.
func (m *Model) Get(word string) (*successor.Model, bool) {
	sm, ok := m.models[word]
	return sm, ok
}

// Len returns the number of distinct predecessor words.
func (m *Model) Len() int {
	return len(m.models)
}

// Pairs returns the number of adjacent pairs recorded.
func (m *Model) Pairs() int {
	return m.pairs
}

// Lines returns the number of lines scanned, blank ones included.
func (m *Model) Lines() int {
	return m.lines
}

// Words returns the predecessor words starting with prefix in ascending
// order, at most limit of them when limit > 0.
func (m *Model) Words(prefix string, limit int) []string {
	var words []string
	collect := func(p patricia.Prefix, item patricia.Item) error {
		words = append(words, string(p))
		return nil
	}
	var err error
	if prefix == "" {
		err = m.index.Visit(collect)
	} else {
		err = m.index.VisitSubtree(patricia.Prefix(prefix), collect)
	}
	if err != nil {
		log.Errorf("Error visiting predecessor index: %v", err)
		return nil
	}
	sort.Strings(words)
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// Each calls fn for every predecessor in ascending order until fn returns false.
func (m *Model) Each(fn func(word string, sm *successor.Model) bool) {
	words := make([]string, 0, len(m.models))
	for w := range m.models {
		words = append(words, w)
	}
	sort.Strings(words)
	for _, w := range words {
		if !fn(w, m.models[w]) {
			return
		}
	}
}

// Stats returns counters describing the model.
func (m *Model) Stats() map[string]int {
	single := 0
	for _, sm := range m.models {
		if sm.Len() == 1 {
			single++
		}
	}
	return map[string]int{
		"predecessors":    len(m.models),
		"pairs":           m.pairs,
		"lines":           m.lines,
		"singleSuccessor": single,
	}
}
