package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mpn/internal/actor"
)

func TestCast_Valid(t *testing.T) {
	for _, p := range Cast() {
		assert.Empty(t, actor.Validate(p), p.ID)
	}
}

func TestCast_DistinctIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Cast() {
		assert.False(t, seen[p.ID], p.ID)
		seen[p.ID] = true
	}
}

func TestCast_FreshCopies(t *testing.T) {
	a := Hamlet()
	a.DISC.C = 0
	assert.Equal(t, 0.8, Hamlet().DISC.C)
}
