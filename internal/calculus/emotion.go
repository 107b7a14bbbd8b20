package calculus

import "github.com/roach88/mpn/internal/actor"

// EmotionStyle is a speaking style for a text-to-speech collaborator.
// Rate is a multiplier, Pitch a signed percentage shift.
type EmotionStyle struct {
	Style     string  `json:"style"`
	Rate      float64 `json:"rate"`
	Pitch     int     `json:"pitch"`
	Intensity float64 `json:"intensity"`
}

// EmotionFor picks a speaking style from the same state the score is built
// from. Trauma outranks entropy, which outranks the register balance.
func EmotionFor(state actor.State) EmotionStyle {
	s := actor.NormalizeState(state)
	t, e, rsi := s.Trauma, s.Entropy, s.RSI

	switch {
	case t > 0.8 && e > 0.6:
		return EmotionStyle{Style: "fearful", Rate: 1.2, Pitch: 15, Intensity: 0.9}
	case t > 0.7 && e < 0.4:
		return EmotionStyle{Style: "sad", Rate: 0.85, Pitch: -8, Intensity: 0.8}
	case t > 0.6:
		return EmotionStyle{Style: "angry", Rate: 1.1, Pitch: 5, Intensity: t}
	case e > 0.7:
		return EmotionStyle{Style: "excited", Rate: 1.15, Pitch: 8, Intensity: e}
	case rsi.Symbolic > rsi.Real && rsi.Symbolic > rsi.Imaginary:
		return EmotionStyle{Style: "hopeful", Rate: 1.0, Pitch: 3, Intensity: 0.6}
	case rsi.Imaginary > 0.5:
		return EmotionStyle{Style: "whispering", Rate: 0.9, Pitch: -3, Intensity: 0.5}
	}
	return EmotionStyle{Style: "friendly", Rate: 1.0, Pitch: 0, Intensity: 0.4}
}
