// Package instrument scores a fixed orchestral catalog against an actor's
// personality and current state and picks the best match.
package instrument

import "github.com/roach88/mpn/internal/actor"

// Family groups instruments for orchestration.
type Family string

const (
	FamilyStrings    Family = "strings"
	FamilyBrass      Family = "brass"
	FamilyWoodwind   Family = "woodwind"
	FamilyKeyboard   Family = "keyboard"
	FamilyPercussion Family = "percussion"
)

// Instrument is one catalog entry. Weights holds the DISC traits the
// instrument answers to; traits left at zero do not count toward alignment.
type Instrument struct {
	Name     string         `json:"name"`
	Family   Family         `json:"family"`
	Weights  actor.DISC     `json:"weights"`
	Register actor.Register `json:"register"`
}

// Catalog is ordered; selection ties resolve to the earlier entry.
var Catalog = []Instrument{
	{"violin", FamilyStrings, actor.DISC{S: 0.9, I: 0.3}, actor.RegisterImaginary},
	{"viola", FamilyStrings, actor.DISC{S: 0.85, C: 0.4}, actor.RegisterSymbolic},
	{"cello", FamilyStrings, actor.DISC{S: 0.95, D: 0.2}, actor.RegisterReal},
	{"contrabass", FamilyStrings, actor.DISC{S: 0.8, C: 0.5}, actor.RegisterReal},

	{"trumpet", FamilyBrass, actor.DISC{D: 0.95, I: 0.3}, actor.RegisterSymbolic},
	{"trombone", FamilyBrass, actor.DISC{D: 0.9, S: 0.2}, actor.RegisterReal},
	{"french_horn", FamilyBrass, actor.DISC{D: 0.8, S: 0.4}, actor.RegisterImaginary},
	{"tuba", FamilyBrass, actor.DISC{D: 0.85, C: 0.3}, actor.RegisterReal},

	{"flute", FamilyWoodwind, actor.DISC{I: 0.95, S: 0.2}, actor.RegisterImaginary},
	{"clarinet", FamilyWoodwind, actor.DISC{I: 0.9, C: 0.3}, actor.RegisterSymbolic},
	{"oboe", FamilyWoodwind, actor.DISC{I: 0.85, C: 0.4}, actor.RegisterSymbolic},
	{"bassoon", FamilyWoodwind, actor.DISC{I: 0.7, S: 0.5}, actor.RegisterReal},

	{"piano", FamilyKeyboard, actor.DISC{C: 0.95, I: 0.2}, actor.RegisterSymbolic},
	{"harp", FamilyKeyboard, actor.DISC{C: 0.8, I: 0.5}, actor.RegisterImaginary},
	{"celesta", FamilyKeyboard, actor.DISC{C: 0.85, I: 0.4}, actor.RegisterImaginary},

	{"timpani", FamilyPercussion, actor.DISC{D: 0.9, S: 0.3}, actor.RegisterReal},
	{"snare", FamilyPercussion, actor.DISC{D: 0.85, C: 0.4}, actor.RegisterSymbolic},
	{"cymbals", FamilyPercussion, actor.DISC{D: 0.95, I: 0.2}, actor.RegisterReal},
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Instrument, bool) {
	for _, in := range Catalog {
		if in.Name == name {
			return in, true
		}
	}
	return Instrument{}, false
}

// ByFamily returns the catalog names in a family, in catalog order.
func ByFamily(f Family) []string {
	var out []string
	for _, in := range Catalog {
		if in.Family == f {
			out = append(out, in.Name)
		}
	}
	return out
}
