package inventor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// twoEthanes returns a fragment of two separate ethane units: 0-1 along the
// x axis and 2-3 pointing up from (x, y).
func twoEthanes(t *testing.T, mode Mode, x, y float64) (*invocation, *fragment) {
	t.Helper()
	m := build(t, []int{6, 6, 6, 6}, [3]int{0, 1, 1}, [3]int{2, 3, 1})
	c := newInvocation(m, mode, nil)
	f := newFragment(4)
	f.add(0, 0, 0, 0)
	f.add(1, 1, 0, 0)
	f.add(2, x, y, 0)
	f.add(3, x, y+1, 0)
	c.locateBonds(f)
	return c, f
}

func TestPenaltySkipsBondedPairs(t *testing.T) {
	c, f := twoEthanes(t, 0, 3, 0)
	// bonds slightly shorter than 1 must not count
	f.x[1] = 0.999
	f.y[3] = 0.999

	collisions, penalty := c.collisions(f)
	assert.Empty(t, collisions)
	assert.Zero(t, penalty)

	f.x[1] = 1
	f.x[2], f.y[2] = 0.5, 0.5
	f.x[3], f.y[3] = 0.5, 1.5
	collisions, penalty = c.collisions(f)
	assert.Len(t, collisions, 2)
	// atom 2 sits 1/√2 from atoms 0 and 1
	p := 1 - math.Sqrt(0.5)
	assert.InDelta(t, 2*p*p, penalty, 1e-12)
}

func TestNudgeAtom(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{name: "beside bond", x: 0.5, y: 0.2, wantX: 0.5, wantY: 0.35},
		{name: "below bond", x: 0.5, y: -0.2, wantX: 0.5, wantY: -0.35},
		{name: "near bond atom", x: -0.3, y: 0, wantX: -0.4, wantY: 0},
		{name: "far away", x: 0.5, y: 0.8, wantX: 0.5, wantY: 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := twoEthanes(t, 0, tt.x, tt.y)
			c.nudgeAtom(f, f.mustIndex(2))

			assert.InDelta(t, tt.wantX, f.x[f.mustIndex(2)], eps)
			assert.InDelta(t, tt.wantY, f.y[f.mustIndex(2)], eps)
			// the bond the atom was pushed from stays where it was
			assert.InDelta(t, 0, f.x[f.mustIndex(0)], eps)
			assert.InDelta(t, 1, f.x[f.mustIndex(1)], eps)
		})
	}
}

func TestNudgeAtomsKeepsMarkedAtoms(t *testing.T) {
	for _, mode := range []Mode{0, ModePreferMarkedAtomCoords, ModeKeepMarkedAtomCoords} {
		t.Run(mode.String(), func(t *testing.T) {
			c, f := twoEthanes(t, mode, 0.5, 0.2)
			c.m.SetAtomMarker(2, true)

			c.nudgeAtoms(f, c.symmetryRanks())

			i := f.mustIndex(2)
			assert.InDelta(t, 0.5, f.x[i], eps)
			if mode == ModeKeepMarkedAtomCoords {
				assert.InDelta(t, 0.2, f.y[i], eps)
			} else {
				assert.Greater(t, f.y[i], 0.2)
			}
		})
	}
}
