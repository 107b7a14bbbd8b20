package scenario

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/calculus"
	"github.com/roach88/mpn/internal/composer"
	"github.com/roach88/mpn/internal/leitmotif"
	"github.com/roach88/mpn/internal/score"
)

// Scenario is an ordered scene: a cast, the frames they play through, and
// the assertions the run must satisfy.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Mode is the orchestration mode. Empty means FULL_ORCHESTRA.
	Mode string `yaml:"mode,omitempty"`

	// Seed seeds melodic variation. Zero means 1.
	Seed uint64 `yaml:"seed,omitempty"`

	// Adjustments override tempo bands and dynamic buckets from the first
	// frame on.
	Adjustments calculus.Adjustments `yaml:"adjustments,omitempty"`

	Actors     []actor.Profile `yaml:"actors"`
	Frames     []FrameSpec     `yaml:"frames"`
	Assertions []Assertion     `yaml:"assertions,omitempty"`
}

// FrameSpec is one step of the scene.
type FrameSpec struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Trauma      float64 `yaml:"trauma"`
	Entropy     float64 `yaml:"entropy"`

	// FocusLayer names the register the frame is about. It stands in for
	// the script's analysis when the script has none.
	FocusLayer string `yaml:"focus_layer,omitempty"`

	// Script is the spoken line. A frame without one is a silent beat.
	Script *score.Frame `yaml:"script,omitempty"`

	// Adjustments are merged into the active ones before the frame plays
	// and stay in force for the frames after it.
	Adjustments calculus.Adjustments `yaml:"adjustments,omitempty"`
}

// Assertion checks one property of a finished run.
type Assertion struct {
	Type string `yaml:"type"`

	// Frame is the frame index (speaker_active, transformation, dynamics).
	Frame int `yaml:"frame,omitempty"`

	// Speaker is an actor ID (speaker_active).
	Speaker string `yaml:"speaker,omitempty"`

	// Transformation is a leitmotif transformation name (transformation).
	Transformation string `yaml:"transformation,omitempty"`

	// From and To are frame indices (tension_rises).
	From int `yaml:"from,omitempty"`
	To   int `yaml:"to,omitempty"`

	// Count is the expected number of frames (frame_count).
	Count int `yaml:"count,omitempty"`

	// Dynamics is a dynamic marking such as "ff" (dynamics).
	Dynamics string `yaml:"dynamics,omitempty"`
}

// Assertion type constants.
const (
	AssertSpeakerActive  = "speaker_active"
	AssertTransformation = "transformation"
	AssertTensionRises   = "tension_rises"
	AssertFrameCount     = "frame_count"
	AssertDynamics       = "dynamics"
)

// Load reads, schema-checks and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data, path)
}

// Parse is Load for a document already in memory. filename is used in
// error positions only.
func Parse(data []byte, filename string) (*Scenario, error) {
	if err := ValidateSchema(data, filename); err != nil {
		return nil, err
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks what the schema cannot: cross references
// between actors, frames and assertions.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Actors) == 0 {
		return fmt.Errorf("actors list is required and must be non-empty")
	}
	if len(s.Frames) == 0 {
		return fmt.Errorf("frames list is required and must be non-empty")
	}
	if s.Mode != "" {
		if _, ok := composer.ParseMode(s.Mode); !ok {
			return fmt.Errorf("unknown mode %q", s.Mode)
		}
	}

	ids := make(map[string]bool, len(s.Actors))
	for i, p := range s.Actors {
		if errs := actor.Validate(p); len(errs) > 0 {
			return fmt.Errorf("actors[%d]: %w", i, errs[0])
		}
		if ids[p.ID] {
			return fmt.Errorf("actors[%d]: duplicate id %q", i, p.ID)
		}
		ids[p.ID] = true
	}

	if err := s.Adjustments.Validate(); err != nil {
		return err
	}
	for i, f := range s.Frames {
		if err := f.Adjustments.Validate(); err != nil {
			return fmt.Errorf("frames[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, len(s.Frames), ids); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion, frames int, actors map[string]bool) error {
	inRange := func(field string, v int) error {
		if v < 0 || v >= frames {
			return fmt.Errorf("assertions[%d]: %s %d out of range (scenario has %d frames)", index, field, v, frames)
		}
		return nil
	}

	switch a.Type {
	case AssertSpeakerActive:
		if !actors[a.Speaker] {
			return fmt.Errorf("assertions[%d]: unknown speaker %q", index, a.Speaker)
		}
		return inRange("frame", a.Frame)
	case AssertTransformation:
		if !leitmotif.Kind(a.Transformation).Valid() {
			return fmt.Errorf("assertions[%d]: unknown transformation %q", index, a.Transformation)
		}
		return inRange("frame", a.Frame)
	case AssertTensionRises:
		if a.From == a.To {
			return fmt.Errorf("assertions[%d]: from and to must differ", index)
		}
		if err := inRange("from", a.From); err != nil {
			return err
		}
		return inRange("to", a.To)
	case AssertFrameCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for frame_count", index)
		}
	case AssertDynamics:
		if !slices.Contains(calculus.DynamicLabels, a.Dynamics) {
			return fmt.Errorf("assertions[%d]: unknown dynamic marking %q", index, a.Dynamics)
		}
		return inRange("frame", a.Frame)
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
