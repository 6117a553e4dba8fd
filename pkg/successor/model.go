// Package successor holds the observed next-word frequencies of a single word
// and answers ranking and weighted sampling queries over them.
package successor

import (
	"errors"
	"sort"
)

// ErrEmptyModel is returned when a query needs at least one successor.
var ErrEmptyModel = errors.New("successor model is empty")

// Source is the subset of *math/rand.Rand used for sampling.
type Source interface {
	Intn(n int) int
}

// Entry is a successor with its occurrence count.
type Entry struct {
	Word  string
	Count int
}

// Model maps each successor word to the number of times it was observed.
//
// The rank and sampling views are built lazily on the first query that needs
// them. AddOccurrence resets both views, so the next query rebuilds them and
// no query ever reads a view older than the counts.
type Model struct {
	counts map[string]int
	total  int

	rank      []Entry
	rankState viewState

	cumulative []int
	poolWords  []string
	poolState  viewState
}

type viewState uint8

const (
	viewNotBuilt viewState = iota
	viewBuilt
)

// New returns an empty model.
func New() *Model {
	return &Model{
		counts: make(map[string]int),
	}
}

// AddOccurrence records one more occurrence of word.
// It returns false when word is new to this model and true otherwise.
func (m *Model) AddOccurrence(word string) bool {
	n, seen := m.counts[word]
	m.counts[word] = n + 1
	m.total++
	m.rankState = viewNotBuilt
	m.poolState = viewNotBuilt
	return seen
}

// IsEmpty reports whether no occurrence was ever added.
func (m *Model) IsEmpty() bool {
	return m.total == 0
}

// Len returns the number of distinct successors.
func (m *Model) Len() int {
	return len(m.counts)
}

// Total returns the number of recorded occurrences.
func (m *Model) Total() int {
	return m.total
}

// Count returns how many times word was observed, 0 if never.
func (m *Model) Count(word string) int {
	return m.counts[word]
}

// Probability returns count(word)/total, or 0 for an empty model.
func (m *Model) Probability(word string) float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.counts[word]) / float64(m.total)
}

// MostProbable returns the successor with the highest count,
// ties going to the lexicographically smallest word.
func (m *Model) MostProbable() (string, error) {
	if m.IsEmpty() {
		return "", ErrEmptyModel
	}
	m.buildRank()
	return m.rank[0].Word, nil
}

// TopK returns up to k successors in rank order.
// The result is a fresh slice; repeated calls return the same words.
func (m *Model) TopK(k int) []string {
	if k <= 0 || m.IsEmpty() {
		return []string{}
	}
	m.buildRank()
	if k > len(m.rank) {
		k = len(m.rank)
	}
	words := make([]string, k)
	for i := 0; i < k; i++ {
		words[i] = m.rank[i].Word
	}
	return words
}

// Ranked returns a copy of every successor with its count, in rank order.
func (m *Model) Ranked() []Entry {
	if m.IsEmpty() {
		return []Entry{}
	}
	m.buildRank()
	out := make([]Entry, len(m.rank))
	copy(out, m.rank)
	return out
}

// SampleWeighted draws one successor with probability count/total.
func (m *Model) SampleWeighted(src Source) (string, error) {
	if m.IsEmpty() {
		return "", ErrEmptyModel
	}
	m.buildPool()
	r := src.Intn(m.total)
	i := sort.Search(len(m.cumulative), func(i int) bool {
		return m.cumulative[i] > r
	})
	return m.poolWords[i], nil
}

// less orders entries by count descending, then word ascending.
func less(a, b Entry) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Word < b.Word
}

func (m *Model) buildRank() {
	if m.rankState == viewBuilt {
		return
	}
	rank := make([]Entry, 0, len(m.counts))
	for w, c := range m.counts {
		rank = append(rank, Entry{Word: w, Count: c})
	}
	sort.Slice(rank, func(i, j int) bool {
		return less(rank[i], rank[j])
	})
	m.rank = rank
	m.rankState = viewBuilt
}

// buildPool lays successors out in word order with inclusive running totals.
// Drawing r in [0,total) and taking the first running total above r selects
// each word with probability count/total.
func (m *Model) buildPool() {
	if m.poolState == viewBuilt {
		return
	}
	words := make([]string, 0, len(m.counts))
	for w := range m.counts {
		words = append(words, w)
	}
	sort.Strings(words)

	cumulative := make([]int, len(words))
	running := 0
	for i, w := range words {
		running += m.counts[w]
		cumulative[i] = running
	}
	m.poolWords = words
	m.cumulative = cumulative
	m.poolState = viewBuilt
}
