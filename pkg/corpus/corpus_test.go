package corpus

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/bastiangx/wordchain/pkg/successor"
	"github.com/bastiangx/wordchain/pkg/token"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func lines(text string) []string {
	return strings.Split(text, "\n")
}

func TestBuild_SuccessorCounts(t *testing.T) {
	m := Build(lines("the cat sat\nthe dog ran"), token.Default)

	sm, ok := m.Get("the")
	require.True(t, ok)
	assert.Equal(t, 1, sm.Count("cat"))
	assert.Equal(t, 1, sm.Count("dog"))
	assert.Equal(t, 2, sm.Len())
	assert.Equal(t, []string{"cat", "dog"}, sm.TopK(2))

	assert.Equal(t, 3, m.Len(), "sat and ran end their lines")
	assert.Equal(t, 4, m.Pairs())
	assert.Equal(t, 2, m.Lines())
}

func TestBuild_AdjacencyStaysInsideLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		word string
		next string
	}{
		{"consecutive lines", "a b\nc d", "b", "c"},
		{"blank line between", "a b\n\nc d", "b", "c"},
		{"whitespace-only line between", "a b\n   \t\nc d", "b", "c"},
		{"single-word line", "a b\nlonely\nc d", "b", "lonely"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(lines(tt.text), token.Default)
			if sm, ok := m.Get(tt.word); ok {
				assert.Zero(t, sm.Count(tt.next))
			}
			_, ok := m.Get("lonely")
			assert.False(t, ok, "a single-word line records no pair")
		})
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input []string
	}{
		{"no lines", nil},
		{"blank lines", []string{"", "   ", "\t"}},
		{"single words", []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(tt.input, token.Default)
			assert.Zero(t, m.Len())
			assert.Zero(t, m.Pairs())
			_, ok := m.Get("one")
			assert.False(t, ok)
		})
	}
}

func TestBuild_Normalization(t *testing.T) {
	text := "The Cat, the cat. THE dog!"

	t.Run("strip and lower", func(t *testing.T) {
		m := Build(lines(text), token.Default)
		sm, ok := m.Get("the")
		require.True(t, ok)
		assert.Equal(t, 2, sm.Count("cat"))
		assert.Equal(t, 1, sm.Count("dog"))
	})

	t.Run("lower only keeps punctuation", func(t *testing.T) {
		m := Build(lines(text), token.Normalizer{Policy: token.LowerOnly})
		sm, ok := m.Get("the")
		require.True(t, ok)
		assert.Equal(t, 1, sm.Count("cat,"))
		assert.Equal(t, 1, sm.Count("cat."))
		assert.Equal(t, 1, sm.Count("dog!"))
	})
}

func TestBuild_PresentModelsAreNonEmpty(t *testing.T) {
	m := Build(lines("a b c\nb c a\n\nc a b"), token.Default)
	m.Each(func(word string, sm *successor.Model) bool {
		assert.False(t, sm.IsEmpty(), "model for %q", word)
		return true
	})
}

func TestBuildReader_MatchesBuild(t *testing.T) {
	text := "the cat sat on the mat\n\nthe cat ran\n  the dog sat  \n"
	fromLines := Build(lines(text), token.Default)
	fromReader, err := BuildReader(strings.NewReader(text), token.Default)
	require.NoError(t, err)

	assert.Equal(t, fromLines.Len(), fromReader.Len())
	assert.Equal(t, fromLines.Pairs(), fromReader.Pairs())
	fromLines.Each(func(word string, sm *successor.Model) bool {
		other, ok := fromReader.Get(word)
		require.True(t, ok, word)
		assert.Equal(t, sm.Ranked(), other.Ranked(), word)
		return true
	})
}

func TestBuildReader_LineEndings(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		lines int
	}{
		{"lf", "a b\nc d\n", 2},
		{"crlf", "a b\r\nc d\r\n", 2},
		{"cr only", "a b\rc d\r", 2},
		{"cr without trailing break", "a b\rc d", 2},
		{"mixed", "a b\rc d\r\ne f\ng h", 4},
		{"blank cr lines", "a b\r\r\rc d", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildReader(strings.NewReader(tt.text), token.Default)
			require.NoError(t, err)
			assert.Equal(t, tt.lines, m.Lines())

			sm, ok := m.Get("a")
			require.True(t, ok)
			assert.Equal(t, 1, sm.Count("b"))
			_, ok = m.Get("b")
			assert.False(t, ok, "b ends its line")
			if sm, ok := m.Get("c"); assert.True(t, ok) {
				assert.Equal(t, 1, sm.Count("d"))
			}
		})
	}
}

func TestBuildReader_LongLine(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long line test in short mode")
	}
	const words = 6 << 20
	text := strings.Repeat("ab ", words) + "\nx y"
	m, err := BuildReader(strings.NewReader(text), token.Default)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Lines())
	sm, ok := m.Get("ab")
	require.True(t, ok)
	assert.Equal(t, words-1, sm.Count("ab"))
}

func TestBuildReader_ReadError(t *testing.T) {
	_, err := BuildReader(iotest.ErrReader(errors.New("disk gone")), token.Default)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestBuildSeed(t *testing.T) {
	text := "the cat sat\nthe dog ran\nthe cat ran\nsee the\nthe"

	t.Run("matches corpus entry", func(t *testing.T) {
		seed := BuildSeed(lines(text), "the", token.Default)
		full, ok := Build(lines(text), token.Default).Get("the")
		require.True(t, ok)
		assert.Equal(t, full.Ranked(), seed.Ranked())
		assert.Equal(t, []string{"cat", "dog"}, seed.TopK(5))
	})

	t.Run("unknown seed is empty", func(t *testing.T) {
		seed := BuildSeed(lines(text), "lonely", token.Default)
		assert.True(t, seed.IsEmpty())
		assert.Empty(t, seed.TopK(3))
	})

	t.Run("reader variant", func(t *testing.T) {
		seed, err := BuildSeedReader(strings.NewReader(text), "cat", token.Default)
		require.NoError(t, err)
		assert.Equal(t, []string{"ran", "sat"}, seed.TopK(2))
	})
}

func TestModel_Words(t *testing.T) {
	m := Build(lines("then they thaw\nthe cat sat\ntheir own\n-- dash"), token.Default)

	assert.Equal(t, []string{"the", "their", "then", "they"}, m.Words("the", 0))
	assert.Equal(t, []string{"the", "their"}, m.Words("the", 2))
	assert.Equal(t, []string{"cat"}, m.Words("c", 0))
	assert.Empty(t, m.Words("zzz", 0))

	all := m.Words("", 0)
	assert.NotContains(t, all, "", "empty token is never indexed")
	_, ok := m.Get("")
	assert.True(t, ok, "empty token is still a valid key")
}

func TestModel_Stats(t *testing.T) {
	m := Build(lines("a b\na c\nb c"), token.Default)
	stats := m.Stats()
	assert.Equal(t, 2, stats["predecessors"])
	assert.Equal(t, 3, stats["pairs"])
	assert.Equal(t, 3, stats["lines"])
	assert.Equal(t, 1, stats["singleSuccessor"])
}

func BenchmarkBuild(b *testing.B) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 500)
	input := lines(text)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(input, token.Default)
	}
}
