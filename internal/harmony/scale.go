package harmony

import "strings"

// Scale degrees in semitones above the tonic.
var scales = map[string][]int{
	"ionian":     {0, 2, 4, 5, 7, 9, 11},
	"dorian":     {0, 2, 3, 5, 7, 9, 10},
	"phrygian":   {0, 1, 3, 5, 7, 8, 10},
	"lydian":     {0, 2, 4, 6, 7, 9, 11},
	"mixolydian": {0, 2, 4, 5, 7, 9, 10},
	"aeolian":    {0, 2, 3, 5, 7, 8, 10},
	"locrian":    {0, 1, 3, 5, 6, 8, 10},
	"whole-tone": {0, 2, 4, 6, 8, 10},
	"major":      {0, 2, 4, 5, 7, 9, 11},
	"minor":      {0, 2, 3, 5, 7, 8, 10},
}

// ScaleDegrees returns the interval set of a mode name (case-insensitive).
// Unknown modes fall back to ionian with ok=false.
func ScaleDegrees(mode string) (degrees []int, ok bool) {
	d, ok := scales[strings.ToLower(strings.TrimSpace(mode))]
	if !ok {
		d = scales["ionian"]
	}
	out := make([]int, len(d))
	copy(out, d)
	return out, ok
}

// SnapToScale moves midi down to the nearest note of the scale built on
// tonic (a pitch class). Notes already in the scale are returned unchanged.
func SnapToScale(midi, tonic int, degrees []int) int {
	if len(degrees) == 0 {
		return midi
	}
	for step := 0; step < 12; step++ {
		rel := Mod12(midi - step - tonic)
		for _, d := range degrees {
			if d == rel {
				return midi - step
			}
		}
	}
	return midi
}
