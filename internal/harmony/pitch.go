package harmony

import (
	"fmt"
	"regexp"
	"strconv"
)

// NoteNames spells the twelve pitch classes with sharps.
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterPitch = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

var noteNamePattern = regexp.MustCompile(`^([A-G])([#b]?)(-?\d+)$`)

// MIDI range limits.
const (
	MinMIDI = 0
	MaxMIDI = 127
)

// PitchClassName returns the sharp spelling of pc (taken mod 12).
func PitchClassName(pc int) string {
	return NoteNames[Mod12(pc)]
}

// Mod12 returns n mod 12 in [0,11], also for negative n.
func Mod12(n int) int {
	return ((n % 12) + 12) % 12
}

// MIDIToName renders a MIDI note number as scientific pitch notation
// ("C4" = 60, "C-1" = 0).
func MIDIToName(midi int) string {
	octave := floorDiv(midi, 12) - 1
	return fmt.Sprintf("%s%d", NoteNames[Mod12(midi)], octave)
}

// NameToMIDI parses a note name such as "C4", "Eb3" or "C#-1".
// ok is false when the name is malformed or falls outside [0,127].
func NameToMIDI(name string) (midi int, ok bool) {
	m := noteNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, false
	}
	midi = (octave+1)*12 + letterPitch[m[1][0]] + accidental(m[2])
	if midi < MinMIDI || midi > MaxMIDI {
		return 0, false
	}
	return midi, true
}

// ParsePitchClass reads a bare note name ("C", "F#", "Bb") into a pitch class.
func ParsePitchClass(name string) (int, bool) {
	if len(name) == 0 || len(name) > 2 {
		return 0, false
	}
	base, ok := letterPitch[name[0]]
	if !ok {
		return 0, false
	}
	acc := ""
	if len(name) == 2 {
		acc = name[1:]
		if acc != "#" && acc != "b" {
			return 0, false
		}
	}
	return Mod12(base + accidental(acc)), true
}

// ClampMIDI folds n into [0,127] by whole octaves, so the pitch class is kept.
func ClampMIDI(n int) int {
	for n < MinMIDI {
		n += 12
	}
	for n > MaxMIDI {
		n -= 12
	}
	return n
}

func accidental(s string) int {
	switch s {
	case "#":
		return 1
	case "b":
		return -1
	}
	return 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
