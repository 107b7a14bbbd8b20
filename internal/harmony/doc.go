// Package harmony holds the small amount of music theory the score engine
// needs: pitch naming, scale tables, and a chord-symbol grammar.
//
// Chord symbols arrive as free text from scripts ("Dm7", "BDim", "C Major",
// "Tutti ff Cluster"). ParseChord reads a symbol once into a Chord value with
// a root, a triad quality, an optional seventh, a set of extensions, and an
// optional texture keyword. Tension scoring and voicing read the Chord, never
// the raw string.
package harmony
