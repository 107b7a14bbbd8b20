// Package actor defines the psychometric records that enter the score engine.
//
// Profiles are owned by the caller. The engine reads them, keys everything by
// Profile.ID, and never mutates the caller's copy.
//
// # Optional Trait Blocks
//
// DISC, DarkTriad and BigFive are optional. An absent block reads as the
// neutral value (all zeros) through the accessor methods, so downstream code
// never branches on nil:
//
//	disc := p.DISCOrZero()
//
// # Boundary Policy
//
// Values outside [0,1] are not errors inside the engine. Normalize clamps them
// at the boundary and Validate reports them for callers that prefer to reject
// bad input (scenario loading, the CLI).
package actor
