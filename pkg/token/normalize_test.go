package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		input    string
		expected string
	}{
		{"plain word", StripAndLower, "cat", "cat"},
		{"uppercase", StripAndLower, "The", "the"},
		{"trailing punctuation", StripAndLower, "dog.", "dog"},
		{"quotes and comma", StripAndLower, "\"Hello,\"", "hello"},
		{"underscore and digits kept", StripAndLower, "snake_Case42", "snake_case42"},
		{"hyphen dropped", StripAndLower, "well-known", "wellknown"},
		{"non ascii dropped", StripAndLower, "café", "caf"},
		{"only punctuation", StripAndLower, "...", ""},
		{"empty", StripAndLower, "", ""},
		{"lower only keeps punctuation", LowerOnly, "Dog.", "dog."},
		{"lower only unicode", LowerOnly, "CAFÉ", "café"},
		{"lower only plain", LowerOnly, "cat", "cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalizer{Policy: tt.policy}
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	inputs := []string{"Hello,", "WORLD!", "a_b-c", "x"}
	for _, p := range []Policy{StripAndLower, LowerOnly} {
		n := Normalizer{Policy: p}
		for _, in := range inputs {
			once := n.Normalize(in)
			assert.Equal(t, once, n.Normalize(once), "policy %s input %q", p, in)
		}
	}
}

func TestNormalizer_Fields(t *testing.T) {
	t.Run("splits on whitespace runs", func(t *testing.T) {
		got := Default.Fields("  The   cat\tsat.  ")
		assert.Equal(t, []string{"the", "cat", "sat"}, got)
	})

	t.Run("blank line", func(t *testing.T) {
		assert.Empty(t, Default.Fields("   \t "))
		assert.Empty(t, Default.Fields(""))
	})

	t.Run("stripped token is kept as empty", func(t *testing.T) {
		got := Default.Fields("a -- b")
		assert.Equal(t, []string{"a", "", "b"}, got)
	})
}

func TestFromStrip(t *testing.T) {
	assert.Equal(t, StripAndLower, FromStrip(true).Policy)
	assert.Equal(t, LowerOnly, FromStrip(false).Policy)
	assert.Equal(t, "strip", FromStrip(true).Policy.String())
	assert.Equal(t, "lower", FromStrip(false).Policy.String())
}

func TestDefault_StripsAndLowers(t *testing.T) {
	assert.Equal(t, StripAndLower, Default.Policy)
	assert.Equal(t, "hello", Default.Normalize("Hello!"))
}

func BenchmarkNormalize(b *testing.B) {
	words := []string{"the", "Quick,", "brown", "FOX!", "jumps_over", "\"lazy\""}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Default.Normalize(words[i%len(words)])
	}
}
