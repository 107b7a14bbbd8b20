package calculus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mpn/internal/actor"
)

func TestEntropyToRhythm_TempoAdjustment(t *testing.T) {
	adj := WithAdjustments(Adjustments{"tempo.strategic": {Tempo: 70}})

	// Strategic band becomes [60,80].
	assert.Equal(t, 60, EntropyToRhythm(0, adj).Tempo)
	assert.Equal(t, 68, EntropyToRhythm(0.4, adj).Tempo)

	// Other bands keep their reference values.
	assert.Equal(t, EntropyToRhythm(0.9).Tempo, EntropyToRhythm(0.9, adj).Tempo)
	assert.Equal(t, EntropyToRhythm(0.4).TimeSignature, EntropyToRhythm(0.4, adj).TimeSignature)
}

func TestTraumaToDynamics_Adjustment(t *testing.T) {
	base := TraumaToDynamics(0.5)
	require.Equal(t, "mf", base.Label)

	got := TraumaToDynamics(0.5, WithAdjustments(Adjustments{"dynamics.mf": {Dynamics: 90}}))
	assert.Equal(t, Dynamics{Label: "mf", Velocity: 90}, got)

	got = TraumaToDynamics(0.5, WithAdjustments(Adjustments{"dynamics.mf": {Dynamics: 90, VelocityOffset: -15}}))
	assert.Equal(t, 75, got.Velocity)

	got = TraumaToDynamics(0.5, WithAdjustments(Adjustments{"dynamics.mf": {VelocityOffset: 8}}))
	assert.Equal(t, base.Velocity+8, got.Velocity)

	assert.Equal(t, TraumaToDynamics(0.1), TraumaToDynamics(0.1, WithAdjustments(Adjustments{"dynamics.mf": {Dynamics: 90}})))
}

func TestAdjustments_ExtremesKeepRanges(t *testing.T) {
	extremes := []Adjustments{
		{"tempo.strategic": {Tempo: 500}, "tempo.operational": {Tempo: 500}, "tempo.crisis": {Tempo: 500}},
		{"tempo.strategic": {Tempo: 1}, "tempo.operational": {Tempo: -5}, "tempo.crisis": {Tempo: 12}},
		{"dynamics.pp": {Dynamics: 300}, "dynamics.mf": {VelocityOffset: 400}, "dynamics.fff": {Dynamics: 127, VelocityOffset: 127}},
		{"dynamics.pp": {VelocityOffset: -200}, "dynamics.mf": {Dynamics: 1, VelocityOffset: -90}, "dynamics.fff": {Dynamics: -40}},
	}
	for _, a := range extremes {
		opt := WithAdjustments(a)
		for i := 0; i <= 100; i++ {
			x := float64(i) / 100
			r := EntropyToRhythm(x, opt)
			assert.GreaterOrEqual(t, r.Tempo, MinTempo, "entropy %.2f %v", x, a)
			assert.LessOrEqual(t, r.Tempo, MaxTempo, "entropy %.2f %v", x, a)

			d := TraumaToDynamics(x, opt)
			assert.GreaterOrEqual(t, d.Velocity, MinVelocity, "trauma %.2f %v", x, a)
			assert.LessOrEqual(t, d.Velocity, MaxVelocity, "trauma %.2f %v", x, a)
			assert.Contains(t, DynamicLabels, d.Label)

			p := PsychometricToMusical(actor.State{Trauma: x, Entropy: x}, opt)
			assert.Equal(t, r.Tempo, p.Tempo)
			assert.Equal(t, d.Velocity, p.Dynamic)
		}
	}
}

func TestAdjustments_NegativeTempoIsUnset(t *testing.T) {
	opt := WithAdjustments(Adjustments{"tempo.operational": {Tempo: -5}})
	assert.Equal(t, EntropyToRhythm(0.6), EntropyToRhythm(0.6, opt))
}

func TestAdjustments_Merge(t *testing.T) {
	active := Adjustments{
		"tempo.crisis": {Tempo: 150},
		"dynamics.f":   {Dynamics: 95, VelocityOffset: 3},
	}
	next := Adjustments{
		"dynamics.f":  {VelocityOffset: -4},
		"dynamics.pp": {Dynamics: 20},
	}

	merged := active.Merge(next)
	assert.Equal(t, Adjustments{
		"tempo.crisis": {Tempo: 150},
		"dynamics.f":   {VelocityOffset: -4},
		"dynamics.pp":  {Dynamics: 20},
	}, merged)

	assert.Len(t, active, 2, "receiver untouched")
	assert.Equal(t, Adjustment{Dynamics: 95, VelocityOffset: 3}, active["dynamics.f"])

	assert.Equal(t, next, Adjustments(nil).Merge(next))
	assert.Nil(t, Adjustments(nil).Clone())
}

func TestAdjustments_Validate(t *testing.T) {
	assert.NoError(t, Adjustments(nil).Validate())
	assert.NoError(t, Adjustments{
		"tempo.crisis": {Tempo: 140},
		"dynamics.pp":  {Dynamics: 20, VelocityOffset: 4},
	}.Validate())

	tests := []struct {
		name string
		adj  Adjustments
		want string
	}{
		{"unknown entry", Adjustments{"dynamics.ppp": {Dynamics: 10}}, `"dynamics.ppp": unknown entry`},
		{"velocity on tempo band", Adjustments{"tempo.crisis": {Dynamics: 90}}, "tempo bands take tempo only"},
		{"tempo on dynamic bucket", Adjustments{"dynamics.f": {Tempo: 90}}, "dynamic buckets take"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.adj.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAdjustmentIDs(t *testing.T) {
	ids := AdjustmentIDs()
	assert.Len(t, ids, 10)
	assert.Contains(t, ids, "tempo.operational")
	for _, l := range DynamicLabels {
		assert.Contains(t, ids, "dynamics."+l)
	}
}
