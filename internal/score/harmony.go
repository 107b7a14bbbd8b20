package score

import (
	"strings"

	"github.com/roach88/mpn/internal/harmony"
)

// Harmonic functions.
const (
	FunctionTonic       = "tonic"
	FunctionSubdominant = "subdominant"
	FunctionDominant    = "dominant"
)

var numeralFunctions = map[string]string{
	"I": FunctionTonic, "i": FunctionTonic, "vi": FunctionTonic, "VI": FunctionTonic,
	"IV": FunctionSubdominant, "iv": FunctionSubdominant, "ii": FunctionSubdominant, "II": FunctionSubdominant,
	"V": FunctionDominant, "v": FunctionDominant, "vii": FunctionDominant, "VII": FunctionDominant,
}

// chordTypeName names a parsed chord the way the calculus names chord types.
func chordTypeName(c harmony.Chord) string {
	if c.Texture != harmony.TextureNone {
		return string(c.Texture)
	}
	switch c.Quality {
	case harmony.QualityMinor:
		if c.Seventh != harmony.SeventhNone {
			return "minor7"
		}
		return "minor"
	case harmony.QualityDiminished:
		return "diminished"
	case harmony.QualityHalfDiminished:
		return "half_diminished"
	case harmony.QualityAugmented:
		return "augmented"
	case harmony.QualitySuspended:
		return "suspended"
	}
	switch c.Seventh {
	case harmony.SeventhMajor:
		return "major7"
	case harmony.SeventhDominant:
		return "dominant7"
	}
	return "major"
}

// RomanNumeral labels a chord type relative to key. The reading is coarse:
// each chord type maps to the degree it most often occupies.
func RomanNumeral(chordType, key string) string {
	minor := strings.Contains(strings.ToLower(key), "minor")
	switch chordType {
	case "major7", "major":
		if minor {
			return "III"
		}
		return "I"
	case "minor7", "minor":
		if minor {
			return "i"
		}
		return "ii"
	case "dominant7":
		return "V"
	case "diminished", "half_diminished":
		return "vii°"
	case "augmented":
		return "III+"
	case "suspended":
		return "IV"
	}
	return "I"
}

// HarmonicFunction reads the function of a roman numeral, ignoring quality
// marks. Unknown numerals are tonic.
func HarmonicFunction(numeral string) string {
	bare := strings.TrimRight(numeral, "°+ø")
	if f, ok := numeralFunctions[bare]; ok {
		return f
	}
	return FunctionTonic
}
