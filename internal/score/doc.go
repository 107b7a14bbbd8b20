// Package score drives the frame-by-frame generation loop.
//
// An Orchestrator owns the registered actors and their stave state. Each
// call to ProcessFrame reads one script line, maps the psychometric state
// to musical parameters, lets the speaker play its (transformed) leitmotif,
// lets recently active actors echo theirs softly, voices the frame's
// harmony, and returns a snapshot of the whole score plus a relationship
// graph.
//
// Frame ordering:
// ProcessFrame calls on one Orchestrator are serialized by a per-instance
// mutex. The frame index returned by a call is the index before the
// increment, so the first frame after New or Reset is frame 0.
//
// Degradation:
// Nothing here fails. Out-of-range trauma and entropy are clamped, an
// unknown speaker yields a frame where nobody speaks, and an unreadable
// chord falls back to the chord implied by the state.
package score
