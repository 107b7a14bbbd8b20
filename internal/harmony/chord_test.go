package harmony

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		symbol  string
		root    int
		hasRoot bool
		quality Quality
		seventh Seventh
		exts    []int
		texture Texture
	}{
		{"C", 0, true, QualityMajor, SeventhNone, nil, TextureNone},
		{"C Major", 0, true, QualityMajor, SeventhNone, nil, TextureNone},
		{"Dm7", 2, true, QualityMinor, SeventhDominant, nil, TextureNone},
		{"Cmaj7", 0, true, QualityMajor, SeventhMajor, nil, TextureNone},
		{"CM7", 0, true, QualityMajor, SeventhMajor, nil, TextureNone},
		{"G7", 7, true, QualityMajor, SeventhDominant, nil, TextureNone},
		{"BDim", 11, true, QualityDiminished, SeventhNone, nil, TextureNone},
		{"Bdim7", 11, true, QualityDiminished, SeventhDiminished, nil, TextureNone},
		{"Bm7b5", 11, true, QualityHalfDiminished, SeventhDominant, nil, TextureNone},
		{"Eb+", 3, true, QualityAugmented, SeventhNone, nil, TextureNone},
		{"F#m", 6, true, QualityMinor, SeventhNone, nil, TextureNone},
		{"C9", 0, true, QualityMajor, SeventhDominant, []int{9}, TextureNone},
		{"Cadd9", 0, true, QualityMajor, SeventhNone, []int{9}, TextureNone},
		{"G13", 7, true, QualityMajor, SeventhDominant, []int{13}, TextureNone},
		{"Gdominant7", 7, true, QualityMajor, SeventhDominant, nil, TextureNone},
		{"C Cluster", 0, true, QualityMajor, SeventhNone, nil, TextureCluster},
		{"Dissonant", 0, false, QualityMajor, SeventhNone, nil, TextureDissonant},
		{"Atonal", 0, false, QualityMajor, SeventhNone, nil, TextureAtonal},
		{"Tutti ff Cluster", 0, false, QualityMajor, SeventhNone, nil, TextureCluster},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			c := ParseChord(tt.symbol)
			assert.True(t, c.Recognized)
			assert.Equal(t, tt.hasRoot, c.HasRoot)
			assert.Equal(t, tt.root, c.Root)
			assert.Equal(t, tt.quality, c.Quality)
			assert.Equal(t, tt.seventh, c.Seventh)
			assert.Equal(t, tt.exts, c.Extensions)
			assert.Equal(t, tt.texture, c.Texture)
		})
	}
}

func TestParseChord_Sus(t *testing.T) {
	c := ParseChord("Dsus2")
	assert.Equal(t, QualitySuspended, c.Quality)
	assert.Equal(t, 2, c.Sus)
	assert.Equal(t, []int{0, 2, 7}, c.Offsets())

	c = ParseChord("Dsus")
	assert.Equal(t, 4, c.Sus)
	assert.Equal(t, []int{0, 5, 7}, c.Offsets())
}

func TestParseChord_Unrecognized(t *testing.T) {
	for _, s := range []string{"", "   ", "xyz", "Hmaj", "Chello"} {
		c := ParseChord(s)
		assert.False(t, c.Recognized, "symbol %q", s)
		assert.Equal(t, NeutralTension, c.Tension(), "symbol %q", s)
		assert.NotEmpty(t, c.Offsets(), "symbol %q", s)
	}
}

func TestChordTension(t *testing.T) {
	major := ParseChord("C").Tension()
	assert.LessOrEqual(t, ParseChord("C Major").Tension(), 0.2)
	assert.LessOrEqual(t, major, 0.2)
	assert.Greater(t, ParseChord("BDim").Tension(), 0.5)
	assert.GreaterOrEqual(t, ParseChord("Cm").Tension(), major)

	// Stacked tones strictly raise tension over the bare triad.
	assert.Greater(t, ParseChord("C7").Tension(), major)
	assert.Greater(t, ParseChord("C9").Tension(), major)
	assert.Greater(t, ParseChord("C11").Tension(), major)
	assert.Greater(t, ParseChord("C13").Tension(), major)
	assert.Greater(t, ParseChord("Cm9").Tension(), ParseChord("Cm").Tension())
	assert.Greater(t, ParseChord("C9").Tension(), ParseChord("C7").Tension())

	assert.Equal(t, 1.0, ParseChord("Cluster").Tension())
	assert.LessOrEqual(t, ParseChord("Bdim7(9)").Tension(), 1.0)
	assert.Equal(t, 0.0, ParseChord("Silence").Tension())
}

func TestChordOffsets(t *testing.T) {
	assert.Equal(t, []int{0, 4, 7}, ParseChord("C").Offsets())
	assert.Equal(t, []int{0, 3, 7, 10}, ParseChord("Am7").Offsets())
	assert.Equal(t, []int{0, 4, 7, 11}, ParseChord("Fmaj7").Offsets())
	assert.Equal(t, []int{0, 4, 7, 10, 14}, ParseChord("G9").Offsets())
	assert.Equal(t, []int{0, 3, 6, 9}, ParseChord("Bdim7").Offsets())
	assert.Equal(t, []int{0, 3, 6, 10}, ParseChord("Bm7b5").Offsets())
	assert.Equal(t, []int{0, 4, 8}, ParseChord("Caug").Offsets())
	assert.Equal(t, []int{0, 1, 2, 3}, ParseChord("Cluster").Offsets())
	assert.Equal(t, []int{0, 6}, ParseChord("Tritone").Offsets())
}

func TestParseChordWithRoot(t *testing.T) {
	c := ParseChordWithRoot("D", "minor7")
	assert.Equal(t, 2, c.Root)
	assert.Equal(t, QualityMinor, c.Quality)
	assert.Equal(t, SeventhDominant, c.Seventh)

	c = ParseChordWithRoot("E", "major7")
	assert.Equal(t, SeventhMajor, c.Seventh)

	c = ParseChordWithRoot("not-a-note", "diminished")
	assert.Equal(t, 0, c.Root)
	assert.Equal(t, QualityDiminished, c.Quality)
}

func TestChordName(t *testing.T) {
	assert.Equal(t, "Dm7", ParseChord("Dm7").Name())
	assert.Equal(t, "Cmaj7", ParseChord("C major7").Name())
	assert.Equal(t, "Bdim", ParseChord("BDim").Name())
	assert.Equal(t, "G7(9)", ParseChord("G9").Name())
	assert.Equal(t, "Cluster", ParseChord("Cluster").Name())
}
