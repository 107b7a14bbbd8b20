package leitmotif

import (
	"math"

	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/harmony"
	"github.com/roach88/mpn/internal/instrument"
)

// Kind names a leitmotif transformation.
type Kind string

const (
	Original         Kind = "original"
	Inverted         Kind = "inverted"
	Retrograde       Kind = "retrograde"
	Augmented        Kind = "augmented"
	Diminished       Kind = "diminished"
	Fragmented       Kind = "fragmented"
	ChromaticDescent Kind = "chromatic_descent"
	WholeToneAscent  Kind = "whole_tone_ascent"
)

// Kinds lists every valid transformation.
var Kinds = []Kind{
	Original, Inverted, Retrograde, Augmented,
	Diminished, Fragmented, ChromaticDescent, WholeToneAscent,
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// Octave limits for BaseOctave.
const (
	MinOctave = 2
	MaxOctave = 6
)

// Leitmotif is an actor's musical identity.
type Leitmotif struct {
	ID                    string    `json:"id"`
	ActorID               string    `json:"actor_id"`
	ActorName             string    `json:"actor_name"`
	Instrument            string    `json:"instrument"`
	PitchClasses          []int     `json:"pitch_classes"`
	Intervals             []int     `json:"intervals"`
	Rhythm                []float64 `json:"rhythm"`
	BaseOctave            int       `json:"base_octave"`
	Key                   string    `json:"key"`
	Mode                  string    `json:"mode"`
	Tempo                 int       `json:"tempo"`
	CurrentTransformation Kind      `json:"current_transformation"`
	TransformationHistory []Kind    `json:"transformation_history"`
}

// Root is the first pitch class.
func (m Leitmotif) Root() int {
	if len(m.PitchClasses) == 0 {
		return 0
	}
	return m.PitchClasses[0]
}

// Root pitch class by dominant DISC trait.
var discRoots = map[actor.DISCTrait]int{
	actor.TraitD: 2, // D
	actor.TraitI: 0, // C
	actor.TraitS: 7, // G
	actor.TraitC: 9, // A
}

var archetypeIntervals = map[actor.Archetype][]int{
	actor.ArchetypeHero:              {4, 3, 5},
	actor.ArchetypeShadow:            {1, 6, 1},
	actor.ArchetypeMentor:            {5, 4, 3},
	actor.ArchetypeHerald:            {7, 5, 7},
	actor.ArchetypeThresholdGuardian: {2, 2, 2},
	actor.ArchetypeShapeshifter:      {3, 4, 3, 4},
	actor.ArchetypeTrickster:         {1, 11, 1, 11},
}

var darkTraitArchetype = map[actor.DarkTrait]actor.Archetype{
	actor.TraitMachiavellianism: actor.ArchetypeShadow,
	actor.TraitNarcissism:       actor.ArchetypeHerald,
	actor.TraitPsychopathy:      actor.ArchetypeTrickster,
}

var discArchetype = map[actor.DISCTrait]actor.Archetype{
	actor.TraitD: actor.ArchetypeHero,
	actor.TraitI: actor.ArchetypeShapeshifter,
	actor.TraitS: actor.ArchetypeMentor,
	actor.TraitC: actor.ArchetypeThresholdGuardian,
}

var defaultIntervals = []int{4, 3, 5}

// Rhythm patterns by anxiety level.
var (
	rhythmStable   = []float64{1, 1, 2}
	rhythmModerate = []float64{1, 0.5, 0.5, 1}
	rhythmAnxious  = []float64{0.5, 0.5, 0.25, 0.75, 1}
)

// Generate derives a leitmotif for p with a fresh UUIDv7 ID.
func Generate(p actor.Profile) Leitmotif {
	return GenerateWithID(p, UUIDv7Generator{})
}

// GenerateWithID derives a leitmotif for p, taking its ID from ids.
// Everything except the ID is a pure function of the normalized profile.
func GenerateWithID(p actor.Profile, ids IDGenerator) Leitmotif {
	p = actor.Normalize(p)

	root := 0
	if p.DISC != nil {
		root = discRoots[p.DISC.Dominant()]
	}

	intervals := append([]int(nil), intervalsFor(p)...)
	pcs := make([]int, 0, len(intervals)+1)
	pcs = append(pcs, root)
	cur := root
	for _, iv := range intervals {
		cur = harmony.Mod12(cur + iv)
		pcs = append(pcs, cur)
	}

	mode := "major"
	if containsInt(intervals, 3) && !containsInt(intervals, 4) {
		mode = "minor"
	}

	return Leitmotif{
		ID:                    ids.Generate(),
		ActorID:               p.ID,
		ActorName:             p.Name,
		Instrument:            instrument.Select(p),
		PitchClasses:          pcs,
		Intervals:             intervals,
		Rhythm:                padRhythm(rhythmFor(p), len(pcs)),
		BaseOctave:            octaveFor(p),
		Key:                   harmony.PitchClassName(root) + " " + mode,
		Mode:                  mode,
		Tempo:                 tempoFor(p),
		CurrentTransformation: Original,
		TransformationHistory: []Kind{},
	}
}

// intervalsFor picks the interval pattern. An explicit archetype wins, then
// any dark trait above 0.5, then the dominant DISC trait.
func intervalsFor(p actor.Profile) []int {
	if iv, ok := archetypeIntervals[p.Archetype]; ok {
		return iv
	}
	if p.DarkTriad != nil {
		if trait, v := p.DarkTriad.Dominant(); v > 0.5 {
			return archetypeIntervals[darkTraitArchetype[trait]]
		}
	}
	if p.DISC != nil {
		return archetypeIntervals[discArchetype[p.DISC.Dominant()]]
	}
	return defaultIntervals
}

// rhythmFor reads anxiety from neuroticism, or from psychopathy when no
// Big Five block is present.
func rhythmFor(p actor.Profile) []float64 {
	anxiety := 0.0
	switch {
	case p.BigFive != nil:
		anxiety = p.BigFive.N
	case p.DarkTriad != nil:
		anxiety = p.DarkTriad.Psychopathy
	}
	switch {
	case anxiety > 0.7:
		return rhythmAnxious
	case anxiety > 0.4:
		return rhythmModerate
	}
	return rhythmStable
}

func padRhythm(pattern []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	return out
}

func octaveFor(p actor.Profile) int {
	octave := 4
	if p.DISC != nil {
		switch {
		case p.DISC.D > 0.5:
			octave = 5
		case p.DISC.C > 0.5:
			octave = 3
		}
	}
	return max(MinOctave, min(MaxOctave, octave))
}

func tempoFor(p actor.Profile) int {
	if p.BigFive == nil {
		return 80
	}
	return int(math.Round(60 + p.BigFive.E*60))
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
