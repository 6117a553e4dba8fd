// Package token turns raw whitespace-delimited words into the canonical
// tokens used as keys by the successor and corpus models.
package token

import (
	"strings"
)

// Policy selects how a raw word is canonicalized.
type Policy uint8

const (
	// StripAndLower drops every rune outside [A-Za-z0-9_] and lowercases the rest.
	StripAndLower Policy = iota
	// LowerOnly lowercases and keeps punctuation in place.
	LowerOnly
)

// String returns the config label of the policy.
func (p Policy) String() string {
	switch p {
	case StripAndLower:
		return "strip"
	case LowerOnly:
		return "lower"
	default:
		return "unknown"
	}
}

// Normalizer canonicalizes raw words according to its Policy.
// The zero value strips and lowercases.
type Normalizer struct {
	Policy Policy
}

// Default is the strip-and-lowercase normalizer.
var Default = Normalizer{Policy: StripAndLower}

// FromStrip maps the normalize.strip config flag to a Normalizer.
func FromStrip(strip bool) Normalizer {
	if strip {
		return Normalizer{Policy: StripAndLower}
	}
	return Normalizer{Policy: LowerOnly}
}

// Normalize returns the canonical token for raw.
// An input made only of stripped characters yields the empty token,
// which is still a valid key.
func (n Normalizer) Normalize(raw string) string {
	if n.Policy == LowerOnly {
		return strings.ToLower(raw)
	}
	if isCanonical(raw) {
		return raw
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case isWordRune(r):
			return r
		default:
			return -1
		}
	}, raw)
}

// Fields splits line on runs of whitespace and normalizes every piece.
// A blank line yields no tokens.
func (n Normalizer) Fields(line string) []string {
	raw := strings.Fields(line)
	if len(raw) == 0 {
		return nil
	}
	tokens := make([]string, len(raw))
	for i, w := range raw {
		tokens[i] = n.Normalize(w)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

// isCanonical reports whether s is already lowercase [a-z0-9_]*,
// so the common case avoids an allocation.
func isCanonical(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWordRune(rune(s[i])) {
			return false
		}
	}
	return true
}
