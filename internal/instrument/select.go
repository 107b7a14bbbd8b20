package instrument

import (
	"github.com/roach88/mpn/internal/actor"
)

// Score component weights.
const (
	discWeight     = 0.4
	registerWeight = 0.2
	woodwindWeight = 0.2
	rsiWeight      = 0.2
)

// State thresholds for the register and woodwind bonuses.
const (
	HighTrauma  = 0.7
	LowTrauma   = 0.3
	HighEntropy = 0.6
)

// Scored is one catalog entry with its score for a profile.
type Scored struct {
	Instrument Instrument `json:"instrument"`
	Score      float64    `json:"score"`
}

// Score rates every catalog entry for p, in catalog order. The state
// bonuses apply only when p carries a CurrentState.
func Score(p actor.Profile) []Scored {
	disc := p.DISCOrZero()
	out := make([]Scored, 0, len(Catalog))
	for _, in := range Catalog {
		s := discWeight * alignment(disc, in.Weights)
		if st := p.CurrentState; st != nil {
			s += registerWeight * registerBonus(st.Trauma, in.Register)
			if st.Entropy > HighEntropy && in.Family == FamilyWoodwind {
				s += woodwindWeight
			}
			if st.RSI.Sum() > 0 && st.RSI.Dominant() == in.Register {
				s += rsiWeight
			}
		}
		out = append(out, Scored{Instrument: in, Score: s})
	}
	return out
}

// Select returns the highest scoring instrument name for p. Ties resolve
// to the earlier catalog entry, so a profile with no signal gets the first
// entry.
func Select(p actor.Profile) string {
	scores := Score(p)
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Instrument.Name
}

// alignment is the weight-averaged actor trait over the traits the
// instrument cares about.
func alignment(actorDISC, weights actor.DISC) float64 {
	var total, weight float64
	for _, t := range []actor.DISCTrait{actor.TraitD, actor.TraitI, actor.TraitS, actor.TraitC} {
		w := weights.Get(t)
		total += actorDISC.Get(t) * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return total / weight
}

func registerBonus(trauma float64, reg actor.Register) float64 {
	switch {
	case trauma > HighTrauma && reg == actor.RegisterReal:
		return 1
	case trauma < LowTrauma && reg == actor.RegisterImaginary:
		return 1
	}
	return 0
}
