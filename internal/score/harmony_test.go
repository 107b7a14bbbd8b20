package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mpn/internal/harmony"
)

func TestRomanNumeral(t *testing.T) {
	tests := []struct {
		chordType string
		key       string
		want      string
	}{
		{"major7", "C Major", "I"},
		{"major7", "C# minor", "III"},
		{"minor7", "G Major", "ii"},
		{"minor7", "C# minor", "i"},
		{"dominant7", "C Major", "V"},
		{"diminished", "C Major", "vii°"},
		{"half_diminished", "C Major", "vii°"},
		{"augmented", "E Major", "III+"},
		{"suspended", "C Major", "IV"},
		{"cluster", "C Major", "I"},
	}
	for _, tt := range tests {
		t.Run(tt.chordType+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, RomanNumeral(tt.chordType, tt.key))
		})
	}
}

func TestHarmonicFunction(t *testing.T) {
	tests := map[string]string{
		"I":    FunctionTonic,
		"vi":   FunctionTonic,
		"ii":   FunctionSubdominant,
		"IV":   FunctionSubdominant,
		"V":    FunctionDominant,
		"vii°": FunctionDominant,
		"III+": FunctionTonic,
		"":     FunctionTonic,
	}
	for numeral, want := range tests {
		assert.Equal(t, want, HarmonicFunction(numeral), numeral)
	}
}

func TestChordTypeName(t *testing.T) {
	tests := map[string]string{
		"C":       "major",
		"Cmaj7":   "major7",
		"G7":      "dominant7",
		"Dm":      "minor",
		"Dm7":     "minor7",
		"Bdim":    "diminished",
		"Bm7b5":   "half_diminished",
		"Caug":    "augmented",
		"Dsus4":   "suspended",
		"Tritone": "tritone",
	}
	for symbol, want := range tests {
		assert.Equal(t, want, chordTypeName(harmony.ParseChord(symbol)), symbol)
	}
}
