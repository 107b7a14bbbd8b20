// Package composer turns leitmotifs and musical parameters into notes.
//
// Three operations build the score: ComposeMelody realises a leitmotif over
// a span of beats, OrchestrateChord voices a chord for the current
// orchestration mode, and ComposeCounterpoint shadows a melody at a fixed
// interval.
//
// Variation (octave leaps, passing tones, velocity spread) comes from a
// seeded PCG source owned by the Composer, so a Composer built with the same
// seed and fed the same calls produces the same notes. The "AI" setting only
// scales that variation; the structural guarantees hold regardless:
//
//   - melodies are non-empty, contiguous, and start on a motif pitch
//   - every MIDI note and velocity is in [0,127]
//   - counterpoint preserves start and duration exactly
package composer
