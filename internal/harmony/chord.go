package harmony

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Quality is the triad quality of a chord.
type Quality string

const (
	QualityMajor          Quality = "major"
	QualityMinor          Quality = "minor"
	QualityDiminished     Quality = "diminished"
	QualityHalfDiminished Quality = "half_diminished"
	QualityAugmented      Quality = "augmented"
	QualitySuspended      Quality = "suspended"
)

// Seventh is the kind of seventh stacked on the triad.
type Seventh string

const (
	SeventhNone       Seventh = ""
	SeventhDominant   Seventh = "dominant"   // minor seventh, 10 semitones
	SeventhMajor      Seventh = "major"      // 11 semitones
	SeventhDiminished Seventh = "diminished" // 9 semitones
)

// Texture is a non-functional sonority keyword ("Cluster", "Pedal", ...).
// Textures override the triad quality for tension and voicing.
type Texture string

const (
	TextureNone      Texture = ""
	TextureSilence   Texture = "silence"
	TexturePure      Texture = "pure"
	TextureCluster   Texture = "cluster"
	TextureAtonal    Texture = "atonal"
	TextureTritone   Texture = "tritone"
	TextureDissonant Texture = "dissonant"
	TextureHollow    Texture = "hollow"
	TexturePedal     Texture = "pedal"
)

// textureOrder is the match priority when a symbol names several textures.
var textureOrder = []Texture{
	TextureSilence, TexturePure, TextureCluster, TextureAtonal,
	TextureTritone, TextureDissonant, TextureHollow, TexturePedal,
}

// NeutralTension is the score of an unrecognised chord symbol.
const NeutralTension = 0.2

var qualityTension = map[Quality]float64{
	QualityMajor:          0.1,
	QualitySuspended:      0.25,
	QualityMinor:          0.4,
	QualityHalfDiminished: 0.7,
	QualityAugmented:      0.7,
	QualityDiminished:     0.8,
}

var textureTension = map[Texture]float64{
	TextureSilence:   0.0,
	TexturePure:      0.0,
	TexturePedal:     0.3,
	TextureHollow:    0.6,
	TextureTritone:   0.9,
	TextureDissonant: 0.9,
	TextureAtonal:    0.95,
	TextureCluster:   1.0,
}

// Increments added for stacked tones.
const (
	seventhIncrement        = 0.1
	firstExtensionIncrement = 0.15
	moreExtensionIncrement  = 0.05
)

// Chord is a parsed chord symbol.
type Chord struct {
	Symbol     string  `json:"symbol"`
	Root       int     `json:"root"`
	HasRoot    bool    `json:"has_root"`
	Quality    Quality `json:"quality"`
	Sus        int     `json:"sus,omitempty"` // 2 or 4 when Quality is suspended
	Seventh    Seventh `json:"seventh,omitempty"`
	Extensions []int   `json:"extensions,omitempty"` // subset of {9, 11, 13}, ascending
	Texture    Texture `json:"texture,omitempty"`
	Recognized bool    `json:"recognized"`
}

var rootPattern = regexp.MustCompile(`^([A-G])([#b]?)(.*)$`)
var extensionPattern = regexp.MustCompile(`(?:^|[^0-9])(9|11|13)`)

// ParseChord reads a chord symbol. It never fails: input it cannot read
// yields a Chord with Recognized=false, a C major triad voicing, and
// NeutralTension.
func ParseChord(symbol string) Chord {
	c := Chord{Symbol: symbol, Quality: QualityMajor}
	s := strings.TrimSpace(symbol)
	if s == "" {
		return c
	}

	lower := strings.ToLower(s)
	for _, tx := range textureOrder {
		if strings.Contains(lower, string(tx)) {
			c.Texture = tx
			c.Recognized = true
			break
		}
	}

	m := rootPattern.FindStringSubmatch(s)
	if m == nil {
		return c
	}
	rest, ok := parseQuality(&c, m[3])
	if !ok {
		return c
	}
	pc, _ := ParsePitchClass(m[1] + m[2])
	c.Root = pc
	c.HasRoot = true
	c.Recognized = true
	parseSeventhAndExtensions(&c, rest)
	return c
}

// ParseChordWithRoot reads a chord-type name on its own ("major7", "minor",
// "dominant7", "diminished") against the given root name.
func ParseChordWithRoot(root, chordType string) Chord {
	if _, ok := ParsePitchClass(root); !ok {
		root = "C"
	}
	return ParseChord(root + chordType)
}

// parseQuality consumes the triad-quality token at the start of raw and
// reports whether raw is a plausible chord suffix at all. It returns the
// unconsumed remainder, lowercased.
func parseQuality(c *Chord, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", true
	}

	// Case-sensitive shorthand: "M7" is major seventh, "m7" is minor.
	if trimmed[0] == 'M' && (len(trimmed) == 1 || isDigit(trimmed[1])) {
		c.Quality = QualityMajor
		rest := trimmed[1:]
		if strings.HasPrefix(rest, "7") {
			c.Seventh = SeventhMajor
			rest = rest[1:]
		}
		return strings.ToLower(rest), true
	}

	s := strings.ToLower(strings.ReplaceAll(trimmed, " ", ""))
	switch {
	case strings.HasPrefix(s, "m7b5"), strings.HasPrefix(s, "ø"):
		c.Quality = QualityHalfDiminished
		c.Seventh = SeventhDominant
		if strings.HasPrefix(s, "ø") {
			return strings.TrimPrefix(strings.TrimPrefix(s, "ø"), "7"), true
		}
		return strings.TrimPrefix(s, "m7b5"), true
	case hasAnyPrefix(s, "major", "maj"):
		c.Quality = QualityMajor
		rest := trimAnyPrefix(s, "major", "maj")
		if strings.HasPrefix(rest, "7") {
			c.Seventh = SeventhMajor
			rest = rest[1:]
		}
		return rest, true
	case hasAnyPrefix(s, "dominant", "dom"):
		c.Quality = QualityMajor
		c.Seventh = SeventhDominant
		return strings.TrimPrefix(trimAnyPrefix(s, "dominant", "dom"), "7"), true
	case hasAnyPrefix(s, "diminished", "dim", "°"):
		c.Quality = QualityDiminished
		rest := trimAnyPrefix(s, "diminished", "dim", "°")
		if strings.HasPrefix(rest, "7") {
			c.Seventh = SeventhDiminished
			rest = rest[1:]
		}
		return rest, true
	case hasAnyPrefix(s, "augmented", "aug", "+"):
		c.Quality = QualityAugmented
		return trimAnyPrefix(s, "augmented", "aug", "+"), true
	case strings.HasPrefix(s, "sus"):
		c.Quality = QualitySuspended
		c.Sus = 4
		rest := strings.TrimPrefix(s, "sus")
		if strings.HasPrefix(rest, "2") {
			c.Sus = 2
			rest = rest[1:]
		} else {
			rest = strings.TrimPrefix(rest, "4")
		}
		return rest, true
	case hasAnyPrefix(s, "minor", "min", "m", "-"):
		c.Quality = QualityMinor
		rest := trimAnyPrefix(s, "minor", "min", "m", "-")
		if strings.HasPrefix(rest, "maj7") {
			c.Seventh = SeventhMajor
			rest = rest[4:]
		}
		return rest, true
	case isDigit(s[0]) || strings.HasPrefix(s, "add"):
		return s, true
	}

	for _, tx := range textureOrder {
		if strings.HasPrefix(s, string(tx)) {
			return "", true
		}
	}
	return "", false
}

func parseSeventhAndExtensions(c *Chord, rest string) {
	add := strings.Contains(rest, "add")
	exts := map[int]bool{}
	for _, m := range extensionPattern.FindAllStringSubmatch(rest, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			exts[n] = true
		}
	}
	for n := range exts {
		c.Extensions = append(c.Extensions, n)
	}
	sort.Ints(c.Extensions)

	if c.Seventh == SeventhNone {
		if strings.Contains(rest, "7") || (len(c.Extensions) > 0 && !add) {
			c.Seventh = SeventhDominant
		}
	}
}

// Tension scores the chord in [0,1]. Sevenths and extensions always add a
// positive increment on top of the bare sonority, capped at 1.
func (c Chord) Tension() float64 {
	if !c.Recognized {
		return NeutralTension
	}
	t := qualityTension[c.Quality]
	if c.Texture != TextureNone {
		t = textureTension[c.Texture]
	}
	if c.Seventh != SeventhNone {
		t += seventhIncrement
	}
	for i := range c.Extensions {
		if i == 0 {
			t += firstExtensionIncrement
		} else {
			t += moreExtensionIncrement
		}
	}
	return math.Min(t, 1)
}

// Offsets returns the semitone offsets above the root that voice the chord.
// The result always holds at least one element.
func (c Chord) Offsets() []int {
	switch c.Texture {
	case TextureSilence:
		return []int{0}
	case TextureCluster:
		return []int{0, 1, 2, 3}
	case TextureAtonal:
		return []int{0, 1, 6, 11}
	case TextureTritone:
		return []int{0, 6}
	case TextureDissonant:
		return []int{0, 1, 7}
	case TextureHollow:
		return []int{0, 7, 12}
	case TexturePedal:
		return []int{0, 7}
	}

	var offsets []int
	switch c.Quality {
	case QualityMinor:
		offsets = []int{0, 3, 7}
	case QualityDiminished, QualityHalfDiminished:
		offsets = []int{0, 3, 6}
	case QualityAugmented:
		offsets = []int{0, 4, 8}
	case QualitySuspended:
		if c.Sus == 2 {
			offsets = []int{0, 2, 7}
		} else {
			offsets = []int{0, 5, 7}
		}
	default:
		offsets = []int{0, 4, 7}
	}

	switch c.Seventh {
	case SeventhDominant:
		offsets = append(offsets, 10)
	case SeventhMajor:
		offsets = append(offsets, 11)
	case SeventhDiminished:
		offsets = append(offsets, 9)
	}
	for _, e := range c.Extensions {
		switch e {
		case 9:
			offsets = append(offsets, 14)
		case 11:
			offsets = append(offsets, 17)
		case 13:
			offsets = append(offsets, 21)
		}
	}
	return offsets
}

// Name renders the chord back into a compact symbol ("Dm7", "Cmaj7", "Bdim").
func (c Chord) Name() string {
	if c.Texture != TextureNone && !c.HasRoot {
		return strings.ToUpper(string(c.Texture[:1])) + string(c.Texture[1:])
	}
	var b strings.Builder
	b.WriteString(PitchClassName(c.Root))
	switch c.Quality {
	case QualityMinor:
		b.WriteString("m")
	case QualityDiminished:
		b.WriteString("dim")
	case QualityHalfDiminished:
		b.WriteString("m7b5")
		return b.String()
	case QualityAugmented:
		b.WriteString("aug")
	case QualitySuspended:
		b.WriteString("sus")
		b.WriteString(strconv.Itoa(c.Sus))
	}
	switch c.Seventh {
	case SeventhMajor:
		b.WriteString("maj7")
	case SeventhDominant, SeventhDiminished:
		b.WriteString("7")
	}
	for _, e := range c.Extensions {
		b.WriteString("(")
		b.WriteString(strconv.Itoa(e))
		b.WriteString(")")
	}
	return b.String()
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func trimAnyPrefix(s string, prefixes ...string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return s[len(p):]
		}
	}
	return s
}
