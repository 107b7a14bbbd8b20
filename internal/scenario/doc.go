// Package scenario runs scripted scenes through the score orchestrator.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: elsinore
//	description: "Hamlet meets the ghost, Claudius holds court"
//	mode: FULL_ORCHESTRA
//	seed: 1
//	actors:
//	  - id: hamlet
//	    name: Hamlet
//	    disc: { D: 0.3, I: 0.2, S: 0.1, C: 0.8 }
//	frames:
//	  - name: battlements
//	    trauma: 0.2
//	    entropy: 0.1
//	    focus_layer: real
//	    script:
//	      speaker: Hamlet
//	      text: "the ghost of my father"
//	      chord: Dm7
//	assertions:
//	  - type: speaker_active
//	    frame: 0
//	    speaker: hamlet
//
// A document is checked twice: against an embedded CUE schema (ranges,
// enumerations, closed structs) and then semantically (unique actor IDs,
// assertion references).
//
// # Assertion Types
//
//   - speaker_active: the named actor is speaking in the given frame
//   - transformation: the frame's speaker played the given transformation
//   - tension_rises: harmony tension in frame "to" exceeds frame "from"
//   - frame_count: the run produced exactly count frames
//   - dynamics: the frame's global dynamic marking
//
// # Deterministic Runs
//
// Runs use a sequential leitmotif ID generator and the scenario's seed, so
// the same scenario always yields the same frames. RunWithGolden compares a
// compact snapshot of a run against testdata/golden/{name}.golden.
package scenario
