// Package calculus maps psychometric state onto musical parameters.
//
// Every function here is pure and safe for concurrent use. Inputs outside
// their documented domain are clamped, never rejected: trauma and entropy
// are read as [0,1], an RSI with no signal is legal, and chord symbols the
// harmony grammar cannot read score a neutral tension.
//
// The main entry point is PsychometricToMusical, which composes the
// individual mappings into one MusicalParams snapshot:
//
//	trauma  -> dynamics (label + velocity), articulation
//	entropy -> tempo, meter
//	RSI     -> mode, key
//	DISC    -> instrument, instrument family
//	dark triad -> timbre modulation
//
// WithAdjustments overrides the reference tempo bands and dynamic buckets
// without leaving the tempo and velocity ranges.
package calculus
