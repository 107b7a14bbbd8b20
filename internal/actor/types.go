package actor

// Register names one of the three Lacanian registers.
type Register string

const (
	RegisterReal      Register = "real"
	RegisterSymbolic  Register = "symbolic"
	RegisterImaginary Register = "imaginary"
)

// Registers lists the registers in tie-break priority order.
var Registers = []Register{RegisterReal, RegisterSymbolic, RegisterImaginary}

// RSI is the three-way Real/Symbolic/Imaginary balance.
// Components conventionally sum to 1, but an all-zero RSI is legal and means
// "no register signal".
type RSI struct {
	Real      float64 `json:"real" yaml:"real"`
	Symbolic  float64 `json:"symbolic" yaml:"symbolic"`
	Imaginary float64 `json:"imaginary" yaml:"imaginary"`
}

// Sum returns Real + Symbolic + Imaginary.
func (r RSI) Sum() float64 {
	return r.Real + r.Symbolic + r.Imaginary
}

// Get returns the component for a register.
func (r RSI) Get(reg Register) float64 {
	switch reg {
	case RegisterReal:
		return r.Real
	case RegisterSymbolic:
		return r.Symbolic
	case RegisterImaginary:
		return r.Imaginary
	}
	return 0
}

// Dominant returns the largest register. Ties resolve by priority
// real > symbolic > imaginary, so a three-way tie (including all zeros)
// returns RegisterReal.
func (r RSI) Dominant() Register {
	best := RegisterReal
	bestVal := r.Real
	if r.Symbolic > bestVal {
		best, bestVal = RegisterSymbolic, r.Symbolic
	}
	if r.Imaginary > bestVal {
		best = RegisterImaginary
	}
	return best
}

// DISC is the four-trait personality vector.
type DISC struct {
	D float64 `json:"D" yaml:"D"`
	I float64 `json:"I" yaml:"I"`
	S float64 `json:"S" yaml:"S"`
	C float64 `json:"C" yaml:"C"`
}

// DISCTrait identifies one DISC dimension.
type DISCTrait string

const (
	TraitD DISCTrait = "D"
	TraitI DISCTrait = "I"
	TraitS DISCTrait = "S"
	TraitC DISCTrait = "C"
)

// Get returns the value of a single trait.
func (d DISC) Get(t DISCTrait) float64 {
	switch t {
	case TraitD:
		return d.D
	case TraitI:
		return d.I
	case TraitS:
		return d.S
	case TraitC:
		return d.C
	}
	return 0
}

// Dominant returns the strongest trait. Ties resolve in D, I, S, C order.
func (d DISC) Dominant() DISCTrait {
	best := TraitD
	bestVal := d.D
	for _, t := range []DISCTrait{TraitI, TraitS, TraitC} {
		if v := d.Get(t); v > bestVal {
			best, bestVal = t, v
		}
	}
	return best
}

// DarkTriad holds the three dark-personality traits.
type DarkTriad struct {
	Machiavellianism float64 `json:"machiavellianism" yaml:"machiavellianism"`
	Narcissism       float64 `json:"narcissism" yaml:"narcissism"`
	Psychopathy      float64 `json:"psychopathy" yaml:"psychopathy"`
}

// DarkTrait identifies one dark triad dimension.
type DarkTrait string

const (
	TraitMachiavellianism DarkTrait = "machiavellianism"
	TraitNarcissism       DarkTrait = "narcissism"
	TraitPsychopathy      DarkTrait = "psychopathy"
)

// Dominant returns the strongest dark trait and its value.
// Ties resolve in machiavellianism, narcissism, psychopathy order.
func (d DarkTriad) Dominant() (DarkTrait, float64) {
	best, bestVal := TraitMachiavellianism, d.Machiavellianism
	if d.Narcissism > bestVal {
		best, bestVal = TraitNarcissism, d.Narcissism
	}
	if d.Psychopathy > bestVal {
		best, bestVal = TraitPsychopathy, d.Psychopathy
	}
	return best, bestVal
}

// BigFive is the OCEAN model. Only N (rhythm) and E (tempo) drive the score.
type BigFive struct {
	O float64 `json:"O" yaml:"O"`
	C float64 `json:"C" yaml:"C"`
	E float64 `json:"E" yaml:"E"`
	A float64 `json:"A" yaml:"A"`
	N float64 `json:"N" yaml:"N"`
}

// Archetype is a narrative role that shapes a leitmotif's interval pattern.
type Archetype string

const (
	ArchetypeNone              Archetype = ""
	ArchetypeHero              Archetype = "hero"
	ArchetypeShadow            Archetype = "shadow"
	ArchetypeMentor            Archetype = "mentor"
	ArchetypeHerald            Archetype = "herald"
	ArchetypeThresholdGuardian Archetype = "threshold_guardian"
	ArchetypeShapeshifter      Archetype = "shapeshifter"
	ArchetypeTrickster         Archetype = "trickster"
)

// ValidArchetypes defines the accepted archetype values.
var ValidArchetypes = map[Archetype]bool{
	ArchetypeNone:              true,
	ArchetypeHero:              true,
	ArchetypeShadow:            true,
	ArchetypeMentor:            true,
	ArchetypeHerald:            true,
	ArchetypeThresholdGuardian: true,
	ArchetypeShapeshifter:      true,
	ArchetypeTrickster:         true,
}

// State is a transient psychometric snapshot supplied per call.
// DISC and DarkTriad are optional refinements used by the timbre mapping.
type State struct {
	Trauma    float64    `json:"trauma" yaml:"trauma"`
	Entropy   float64    `json:"entropy" yaml:"entropy"`
	RSI       RSI        `json:"rsi" yaml:"rsi"`
	DISC      *DISC      `json:"disc,omitempty" yaml:"disc,omitempty"`
	DarkTriad *DarkTriad `json:"dark_triad,omitempty" yaml:"dark_triad,omitempty"`
	Biases    []string   `json:"biases,omitempty" yaml:"biases,omitempty"`
}

// Profile describes one dramatic actor.
type Profile struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	DISC         *DISC      `json:"disc,omitempty" yaml:"disc,omitempty"`
	DarkTriad    *DarkTriad `json:"dark_triad,omitempty" yaml:"dark_triad,omitempty"`
	BigFive      *BigFive   `json:"big_five,omitempty" yaml:"big_five,omitempty"`
	Archetype    Archetype  `json:"archetype,omitempty" yaml:"archetype,omitempty"`
	Biases       []string   `json:"biases,omitempty" yaml:"biases,omitempty"`
	CurrentState *State     `json:"current_state,omitempty" yaml:"current_state,omitempty"`
}

// DISCOrZero returns the DISC block, or the neutral zero value when absent.
func (p Profile) DISCOrZero() DISC {
	if p.DISC == nil {
		return DISC{}
	}
	return *p.DISC
}

// DarkTriadOrZero returns the dark triad block, or zeros when absent.
func (p Profile) DarkTriadOrZero() DarkTriad {
	if p.DarkTriad == nil {
		return DarkTriad{}
	}
	return *p.DarkTriad
}
