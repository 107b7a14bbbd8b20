package actor

import (
	"fmt"
	"math"
	"strings"
)

// Validation error codes (E200-E299).
const (
	ErrEmptyID          = "E201" // profile id is required
	ErrEmptyName        = "E202" // profile name is required
	ErrDISCRange        = "E203" // DISC trait outside [0,1]
	ErrDarkTriadRange   = "E204" // dark triad trait outside [0,1]
	ErrBigFiveRange     = "E205" // big five trait outside [0,1]
	ErrUnknownArchetype = "E206" // archetype not in ValidArchetypes
	ErrStateRange       = "E207" // trauma/entropy/rsi outside [0,1]
)

// ValidationError describes one rejected profile field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Clamp01 limits v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Validate reports every out-of-domain field of p. It does not fail fast.
func Validate(p Profile) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, ValidationError{Field: "id", Message: "id is required", Code: ErrEmptyID})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required", Code: ErrEmptyName})
	}
	if p.DISC != nil {
		errs = appendRange(errs, "disc.D", p.DISC.D, ErrDISCRange)
		errs = appendRange(errs, "disc.I", p.DISC.I, ErrDISCRange)
		errs = appendRange(errs, "disc.S", p.DISC.S, ErrDISCRange)
		errs = appendRange(errs, "disc.C", p.DISC.C, ErrDISCRange)
	}
	if p.DarkTriad != nil {
		errs = appendRange(errs, "dark_triad.machiavellianism", p.DarkTriad.Machiavellianism, ErrDarkTriadRange)
		errs = appendRange(errs, "dark_triad.narcissism", p.DarkTriad.Narcissism, ErrDarkTriadRange)
		errs = appendRange(errs, "dark_triad.psychopathy", p.DarkTriad.Psychopathy, ErrDarkTriadRange)
	}
	if p.BigFive != nil {
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"big_five.O", p.BigFive.O}, {"big_five.C", p.BigFive.C}, {"big_five.E", p.BigFive.E},
			{"big_five.A", p.BigFive.A}, {"big_five.N", p.BigFive.N},
		} {
			errs = appendRange(errs, f.name, f.v, ErrBigFiveRange)
		}
	}
	if !ValidArchetypes[p.Archetype] {
		errs = append(errs, ValidationError{
			Field:   "archetype",
			Message: fmt.Sprintf("unknown archetype %q", p.Archetype),
			Code:    ErrUnknownArchetype,
		})
	}
	if s := p.CurrentState; s != nil {
		errs = appendRange(errs, "current_state.trauma", s.Trauma, ErrStateRange)
		errs = appendRange(errs, "current_state.entropy", s.Entropy, ErrStateRange)
		errs = appendRange(errs, "current_state.rsi.real", s.RSI.Real, ErrStateRange)
		errs = appendRange(errs, "current_state.rsi.symbolic", s.RSI.Symbolic, ErrStateRange)
		errs = appendRange(errs, "current_state.rsi.imaginary", s.RSI.Imaginary, ErrStateRange)
	}

	return errs
}

func appendRange(errs []ValidationError, field string, v float64, code string) []ValidationError {
	if math.IsNaN(v) || v < 0 || v > 1 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value %v outside [0,1]", v),
			Code:    code,
		})
	}
	return errs
}

// Normalize returns a copy of p with every trait clamped to [0,1].
// Trait blocks are copied so the result never aliases the caller's pointers.
func Normalize(p Profile) Profile {
	out := p
	if p.DISC != nil {
		d := DISC{D: Clamp01(p.DISC.D), I: Clamp01(p.DISC.I), S: Clamp01(p.DISC.S), C: Clamp01(p.DISC.C)}
		out.DISC = &d
	}
	if p.DarkTriad != nil {
		dt := DarkTriad{
			Machiavellianism: Clamp01(p.DarkTriad.Machiavellianism),
			Narcissism:       Clamp01(p.DarkTriad.Narcissism),
			Psychopathy:      Clamp01(p.DarkTriad.Psychopathy),
		}
		out.DarkTriad = &dt
	}
	if p.BigFive != nil {
		b := BigFive{
			O: Clamp01(p.BigFive.O), C: Clamp01(p.BigFive.C), E: Clamp01(p.BigFive.E),
			A: Clamp01(p.BigFive.A), N: Clamp01(p.BigFive.N),
		}
		out.BigFive = &b
	}
	if !ValidArchetypes[p.Archetype] {
		out.Archetype = ArchetypeNone
	}
	if p.Biases != nil {
		out.Biases = append([]string(nil), p.Biases...)
	}
	if p.CurrentState != nil {
		s := NormalizeState(*p.CurrentState)
		out.CurrentState = &s
	}
	return out
}

// NormalizeState clamps trauma, entropy and each RSI component to [0,1].
func NormalizeState(s State) State {
	out := s
	out.Trauma = Clamp01(s.Trauma)
	out.Entropy = Clamp01(s.Entropy)
	out.RSI = RSI{
		Real:      Clamp01(s.RSI.Real),
		Symbolic:  Clamp01(s.RSI.Symbolic),
		Imaginary: Clamp01(s.RSI.Imaginary),
	}
	if s.DISC != nil {
		d := DISC{D: Clamp01(s.DISC.D), I: Clamp01(s.DISC.I), S: Clamp01(s.DISC.S), C: Clamp01(s.DISC.C)}
		out.DISC = &d
	}
	if s.DarkTriad != nil {
		dt := DarkTriad{
			Machiavellianism: Clamp01(s.DarkTriad.Machiavellianism),
			Narcissism:       Clamp01(s.DarkTriad.Narcissism),
			Psychopathy:      Clamp01(s.DarkTriad.Psychopathy),
		}
		out.DarkTriad = &dt
	}
	return out
}
