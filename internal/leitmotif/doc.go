// Package leitmotif derives, transforms, and tracks the short musical
// identity each actor carries through a score.
//
// A Leitmotif is generated once per actor from its profile: the dominant
// DISC trait picks the root, the archetype (or failing that the dark triad,
// then DISC) picks an interval pattern, and neuroticism picks a rhythm.
// Generation is deterministic for a given profile except for the ID, which
// comes from an IDGenerator so tests can pin it.
//
// Transform never mutates its input. The Registry keeps each actor's base
// motif alongside its current transformed form, so repeated transformations
// are always applied to the base and never compound.
package leitmotif
