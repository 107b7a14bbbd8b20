// Package testutil holds fixtures shared by package tests.
package testutil

import "github.com/roach88/mpn/internal/actor"

// Hamlet is conscientious and brooding: C-dominant with a strong
// neuroticism score.
func Hamlet() actor.Profile {
	return actor.Profile{
		ID:        "hamlet",
		Name:      "Hamlet",
		DISC:      &actor.DISC{D: 0.3, I: 0.2, S: 0.1, C: 0.8},
		DarkTriad: &actor.DarkTriad{Machiavellianism: 0.4, Narcissism: 0.3, Psychopathy: 0.2},
		BigFive:   &actor.BigFive{O: 0.9, C: 0.6, E: 0.3, A: 0.5, N: 0.8},
		Biases:    []string{"confirmation_bias"},
	}
}

// Claudius is dominant and machiavellian.
func Claudius() actor.Profile {
	return actor.Profile{
		ID:        "claudius",
		Name:      "Claudius",
		DISC:      &actor.DISC{D: 0.9, I: 0.5, S: 0.1, C: 0.4},
		DarkTriad: &actor.DarkTriad{Machiavellianism: 0.9, Narcissism: 0.6, Psychopathy: 0.4},
		Archetype: actor.ArchetypeShadow,
	}
}

// Ophelia is steady and carries no dark traits.
func Ophelia() actor.Profile {
	return actor.Profile{
		ID:   "ophelia",
		Name: "Ophelia",
		DISC: &actor.DISC{D: 0.1, I: 0.4, S: 0.9, C: 0.3},
	}
}

// Cast returns the three fixtures in a stable order.
func Cast() []actor.Profile {
	return []actor.Profile{Hamlet(), Claudius(), Ophelia()}
}
