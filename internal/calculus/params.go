package calculus

import (
	"math"
	"strings"

	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/harmony"
)

// Timbre is an ADSR envelope plus modulation. Envelope stages and vibrato
// are in [0,1], Detuning is in cents within [-50,50], FilterCutoff is Hz.
type Timbre struct {
	Attack       float64 `json:"attack"`
	Decay        float64 `json:"decay"`
	Sustain      float64 `json:"sustain"`
	Release      float64 `json:"release"`
	Vibrato      float64 `json:"vibrato"`
	Detuning     float64 `json:"detuning"`
	FilterCutoff float64 `json:"filter_cutoff"`
}

// BaseTimbre is the envelope before any state modulation.
var BaseTimbre = Timbre{
	Attack:       0.1,
	Decay:        0.3,
	Sustain:      0.7,
	Release:      0.4,
	Vibrato:      0.3,
	Detuning:     0,
	FilterCutoff: 5000,
}

// MusicalParams is the snapshot derived from one psychometric state.
type MusicalParams struct {
	Tempo            int     `json:"tempo"`
	TimeSignature    string  `json:"time_signature"`
	Key              string  `json:"key"`
	Mode             string  `json:"mode"`
	Dynamic          int     `json:"dynamic"`
	DynamicLabel     string  `json:"dynamic_label"`
	Articulation     string  `json:"articulation"`
	Timbre           Timbre  `json:"timbre"`
	Instrument       string  `json:"instrument"`
	InstrumentFamily string  `json:"instrument_family"`
	ChordRoot        string  `json:"chord_root"`
	ChordType        string  `json:"chord_type"`
	Tension          float64 `json:"tension"`
}

// Instrument families.
const (
	FamilyStrings    = "strings"
	FamilyBrass      = "brass"
	FamilyWoodwind   = "woodwind"
	FamilyKeyboard   = "keyboard"
	FamilyPercussion = "percussion"
)

var discInstruments = map[actor.DISCTrait]string{
	actor.TraitD: "trumpet",
	actor.TraitI: "flute",
	actor.TraitS: "violin",
	actor.TraitC: "piano",
}

// DISCToInstrument maps the dominant DISC trait to a lead instrument:
// D brass, I woodwind, S strings, C keyboard. A nil profile yields "piano".
func DISCToInstrument(disc *actor.DISC) string {
	if disc == nil {
		return "piano"
	}
	return discInstruments[disc.Dominant()]
}

var familyKeywords = []struct {
	family   string
	keywords []string
}{
	{FamilyBrass, []string{"trumpet", "trombone", "horn", "tuba"}},
	{FamilyWoodwind, []string{"flute", "clarinet", "oboe", "bassoon"}},
	{FamilyStrings, []string{"violin", "cello", "viola", "bass"}},
	{FamilyPercussion, []string{"timpani", "snare", "cymbal", "drum", "perc"}},
}

// FamilyOf classifies an instrument name. Anything unrecognised is a
// keyboard.
func FamilyOf(instrument string) string {
	name := strings.ToLower(instrument)
	for _, f := range familyKeywords {
		for _, k := range f.keywords {
			if strings.Contains(name, k) {
				return f.family
			}
		}
	}
	return FamilyKeyboard
}

// ChordToTension scores a chord symbol in [0,1]. Unreadable symbols score
// harmony.NeutralTension.
func ChordToTension(symbol string) float64 {
	return harmony.ParseChord(symbol).Tension()
}

// TensionToChordType picks a chord-type name for a tension level.
func TensionToChordType(tension float64) string {
	switch {
	case tension < 0.2:
		return "major7"
	case tension < 0.4:
		return "minor7"
	case tension < 0.6:
		return "dominant7"
	case tension < 0.8:
		return "diminished"
	}
	return "augmented"
}

var darkTriadTimbre = map[actor.DarkTrait]struct {
	detuning, attack, cutoff float64
}{
	actor.TraitMachiavellianism: {-10, 0.3, 2000},
	actor.TraitNarcissism:       {0, 0.05, 8000},
	actor.TraitPsychopathy:      {0, 0.01, 4000},
}

// ApplyDarkTriadTimbre modulates t by the strongest dark trait. Detuning
// scales with the trait's intensity; attack and cutoff are replaced. An
// all-zero triad leaves t unchanged.
func ApplyDarkTriadTimbre(t Timbre, dt actor.DarkTriad) Timbre {
	trait, intensity := dt.Dominant()
	if intensity <= 0 {
		return t
	}
	mod := darkTriadTimbre[trait]
	t.Detuning = mod.detuning * actor.Clamp01(intensity)
	t.Attack = mod.attack
	t.FilterCutoff = mod.cutoff
	return t
}

// Tension weights for PsychometricToMusical.
const (
	tensionTraumaWeight  = 0.45
	tensionEntropyWeight = 0.2
	tensionRealWeight    = 0.35
)

// StateTension is the harmonic tension implied by a state, in [0,1]. It is
// strictly increasing in trauma and entropy.
func StateTension(trauma, entropy float64, rsi actor.RSI) float64 {
	return actor.Clamp01(tensionTraumaWeight*actor.Clamp01(trauma) +
		tensionEntropyWeight*actor.Clamp01(entropy) +
		tensionRealWeight*actor.Clamp01(rsi.Real))
}

// PsychometricToMusical composes the individual mappings into one snapshot.
// State values are clamped first, so the tempo, dynamic and timbre ranges
// hold for any input and any adjustments.
func PsychometricToMusical(state actor.State, opts ...MapOption) MusicalParams {
	s := actor.NormalizeState(state)

	dyn := TraumaToDynamics(s.Trauma, opts...)
	rhythm := EntropyToRhythm(s.Entropy, opts...)
	instrument := DISCToInstrument(s.DISC)
	tension := StateTension(s.Trauma, s.Entropy, s.RSI)
	key := KeyFor(s.RSI, s.Entropy)

	mode := RSIToMode(s.RSI)
	if hasBias(s.Biases, "loss_aversion") {
		mode = "aeolian"
	}

	timbre := BaseTimbre
	timbre.Vibrato = actor.Clamp01(timbre.Vibrato + 0.4*s.Trauma)
	timbre.Release = actor.Clamp01(timbre.Release - 0.2*s.Entropy)
	if s.DarkTriad != nil {
		timbre = ApplyDarkTriadTimbre(timbre, *s.DarkTriad)
	}
	if hasBias(s.Biases, "dunning_kruger") {
		timbre.Detuning += 20
	}
	timbre.Detuning = math.Max(-50, math.Min(50, timbre.Detuning))

	return MusicalParams{
		Tempo:            rhythm.Tempo,
		TimeSignature:    rhythm.TimeSignature,
		Key:              key,
		Mode:             mode,
		Dynamic:          dyn.Velocity,
		DynamicLabel:     dyn.Label,
		Articulation:     ArticulationFor(s.Trauma, s.Entropy, s.Biases),
		Timbre:           timbre,
		Instrument:       instrument,
		InstrumentFamily: FamilyOf(instrument),
		ChordRoot:        strings.Fields(key)[0],
		ChordType:        TensionToChordType(tension),
		Tension:          tension,
	}
}

func hasBias(biases []string, key string) bool {
	for _, b := range biases {
		if biasKey(b) == key {
			return true
		}
	}
	return false
}
