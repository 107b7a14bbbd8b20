package calculus

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Adjustment overrides the reference values of one mapping entry. Zero or
// negative Tempo and Dynamics leave the entry's own values.
type Adjustment struct {
	// Tempo recentres a tempo band on Tempo with a 10 BPM spread.
	Tempo int `json:"tempo,omitempty" yaml:"tempo,omitempty"`

	// Dynamics replaces a bucket's velocity.
	Dynamics int `json:"dynamics,omitempty" yaml:"dynamics,omitempty"`

	// VelocityOffset is added to a bucket's velocity, after Dynamics.
	VelocityOffset int `json:"velocity_offset,omitempty" yaml:"velocity_offset,omitempty"`
}

// Adjustments maps mapping entry IDs to overrides. Tempo bands are
// "tempo.strategic", "tempo.operational" and "tempo.crisis"; dynamic buckets
// are "dynamics." followed by a marking, e.g. "dynamics.mf".
type Adjustments map[string]Adjustment

const adjustmentSpread = 10

// AdjustmentIDs lists every entry an Adjustment can target.
func AdjustmentIDs() []string {
	ids := make([]string, 0, len(tempoBands)+len(dynamicBuckets))
	for _, b := range tempoBands {
		ids = append(ids, "tempo."+b.name)
	}
	for _, b := range dynamicBuckets {
		ids = append(ids, "dynamics."+b.label)
	}
	return ids
}

// Validate rejects entry IDs no mapping has, and tempo overrides aimed at
// dynamic buckets or velocity overrides aimed at tempo bands.
func (a Adjustments) Validate() error {
	known := AdjustmentIDs()
	for _, id := range slices.Sorted(maps.Keys(a)) {
		if !slices.Contains(known, id) {
			return fmt.Errorf("adjustment %q: unknown entry", id)
		}
		adj := a[id]
		switch {
		case strings.HasPrefix(id, "tempo.") && (adj.Dynamics != 0 || adj.VelocityOffset != 0):
			return fmt.Errorf("adjustment %q: tempo bands take tempo only", id)
		case strings.HasPrefix(id, "dynamics.") && adj.Tempo != 0:
			return fmt.Errorf("adjustment %q: dynamic buckets take dynamics and velocity_offset only", id)
		}
	}
	return nil
}

// Merge returns a new set holding a's entries replaced by next's. An entry
// in next replaces the whole entry in a, it is not merged field by field.
func (a Adjustments) Merge(next Adjustments) Adjustments {
	out := make(Adjustments, len(a)+len(next))
	maps.Copy(out, a)
	maps.Copy(out, next)
	return out
}

// Clone copies a. The clone of nil is nil.
func (a Adjustments) Clone() Adjustments {
	return maps.Clone(a)
}

// MapOption configures PsychometricToMusical and the mappings it composes.
type MapOption func(*mapConfig)

type mapConfig struct {
	adjustments Adjustments
}

// WithAdjustments applies a to the tempo bands and dynamic buckets. The
// tempo and velocity ranges still hold for any adjustment.
func WithAdjustments(a Adjustments) MapOption {
	return func(c *mapConfig) { c.adjustments = a }
}

func newMapConfig(opts []MapOption) mapConfig {
	var c mapConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c mapConfig) band(b tempoBand) tempoBand {
	adj, ok := c.adjustments["tempo."+b.name]
	if !ok || adj.Tempo <= 0 {
		return b
	}
	t := float64(adj.Tempo)
	b.min, b.max = t-adjustmentSpread, t+adjustmentSpread
	return b
}

func (c mapConfig) velocity(label string, v int) int {
	adj, ok := c.adjustments["dynamics."+label]
	if !ok {
		return v
	}
	if adj.Dynamics > 0 {
		v = adj.Dynamics
	}
	return max(MinVelocity, min(MaxVelocity, v+adj.VelocityOffset))
}
