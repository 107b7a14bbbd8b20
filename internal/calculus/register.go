package calculus

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/mpn/internal/actor"
)

// Each register owns a primary mode and a darker shade used under stress.
var registerModes = map[actor.Register][2]string{
	actor.RegisterReal:      {"phrygian", "locrian"},
	actor.RegisterSymbolic:  {"ionian", "mixolydian"},
	actor.RegisterImaginary: {"lydian", "whole-tone"},
}

// RSIToMode returns the primary mode of the dominant register. Ties follow
// actor.RSI.Dominant, so the result is never empty.
func RSIToMode(rsi actor.RSI) string {
	return registerModes[rsi.Dominant()][0]
}

// ModalShade is RSIToMode shifted to the register's secondary mode once
// trauma exceeds 0.6.
func ModalShade(rsi actor.RSI, trauma float64) string {
	modes := registerModes[rsi.Dominant()]
	if trauma > 0.6 {
		return modes[1]
	}
	return modes[0]
}

// KeyFor names the tonal center. A register holding more than 0.6 of the
// balance picks the key; otherwise very high entropy drifts to F# Locrian.
func KeyFor(rsi actor.RSI, entropy float64) string {
	switch {
	case rsi.Real > 0.6:
		return "C# minor"
	case rsi.Imaginary > 0.6:
		return "E Major"
	case rsi.Symbolic > 0.6:
		return "G Major"
	case entropy > 0.8:
		return "F# Locrian"
	}
	return "C Major"
}

// Lexicons for AnalyzeRSI. Matching is by substring on folded text, so
// "murdered" counts for "murder".
var (
	realKeywords = []string{
		"death", "trauma", "drive", "void", "chaos", "abject", "blood", "ghost",
		"prophecy", "impossible", "real", "murder", "kill", "die", "violence", "horror",
	}
	symbolicKeywords = []string{
		"law", "order", "signifier", "father", "king", "crown", "word", "name",
		"debt", "oath", "symbolic", "duty", "honor", "prince",
	}
	imaginaryKeywords = []string{
		"ego", "mirror", "self", "image", "double", "shadow", "love", "ideal",
		"wholeness", "imaginary", "beauty", "adore",
	}
)

// AnalyzeRSI classifies text into register weights by counting which
// keywords of each lexicon occur in it. When anything matches the result
// sums to 1. When nothing matches, including empty text, all three
// components are exactly 0.
func AnalyzeRSI(text string) actor.RSI {
	folded := foldText(text)
	if folded == "" {
		return actor.RSI{}
	}

	r := countKeywords(folded, realKeywords)
	s := countKeywords(folded, symbolicKeywords)
	i := countKeywords(folded, imaginaryKeywords)
	total := float64(r + s + i)
	if total == 0 {
		return actor.RSI{}
	}
	return actor.RSI{
		Real:      float64(r) / total,
		Symbolic:  float64(s) / total,
		Imaginary: float64(i) / total,
	}
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

// foldText applies NFKC and Unicode case folding so full-width and
// ligature forms ("ＤＥＡＴＨ", "ﬁ") match the ASCII lexicons.
func foldText(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}

// biasKey normalizes "Confirmation Bias" to "confirmation_bias".
func biasKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " ")), "_")
}
