package composer

import (
	"fmt"
	"strings"
)

// Mode is an orchestration style.
type Mode string

const (
	FullOrchestra  Mode = "FULL_ORCHESTRA"
	ChamberDeath   Mode = "CHAMBER_DEATH"
	JazzNoir       Mode = "JAZZ_NOIR"
	Wagnerian      Mode = "WAGNERIAN"
	MinimalistVoid Mode = "MINIMALIST_VOID"
	CyberGlitch    Mode = "CYBER_GLITCH"
)

// Modes lists every orchestration mode.
var Modes = []Mode{FullOrchestra, ChamberDeath, JazzNoir, Wagnerian, MinimalistVoid, CyberGlitch}

// ParseMode reads a mode name case-insensitively, accepting "-" or " " in
// place of "_".
func ParseMode(s string) (Mode, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, m := range Modes {
		if string(m) == norm {
			return m, true
		}
	}
	return "", false
}

// UnmarshalText implements encoding.TextUnmarshaler so modes can be read
// from environment variables and flags. Empty text leaves m unchanged.
func (m *Mode) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return nil
	}
	parsed, ok := ParseMode(string(text))
	if !ok {
		return fmt.Errorf("unknown orchestration mode %q", text)
	}
	*m = parsed
	return nil
}

// Level is how much of the orchestra a moment calls for.
type Level string

const (
	LevelSolo            Level = "SOLO"
	LevelChamber         Level = "CHAMBER"
	LevelSection         Level = "SECTION"
	LevelFullOrchestra   Level = "FULL_ORCHESTRA"
	LevelTuttiFortissimo Level = "TUTTI_FORTISSIMO"
)

// OrchestrationLevel grows the ensemble with a 70/30 blend of trauma and
// entropy.
func OrchestrationLevel(trauma, entropy float64) Level {
	intensity := trauma*0.7 + entropy*0.3
	switch {
	case intensity < 0.2:
		return LevelSolo
	case intensity < 0.4:
		return LevelChamber
	case intensity < 0.6:
		return LevelSection
	case intensity < 0.85:
		return LevelFullOrchestra
	}
	return LevelTuttiFortissimo
}
