package inventor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greatlse/openchemlib/pkg/core/mol"
)

func TestSymmetryRanksPropane(t *testing.T) {
	m := carbonChain(t, 3)
	c := newInvocation(m, 0, nil)
	ranks := c.symmetryRanks()

	assert.Equal(t, ranks[0], ranks[2])
	assert.NotEqual(t, ranks[0], ranks[1])
	assert.Equal(t, 1, min(ranks[0], ranks[1]))
}

func TestSymmetryRanksRefineByNeighbors(t *testing.T) {
	// pentane: ends, second atoms and the middle form three classes
	m := carbonChain(t, 5)
	ranks := newInvocation(m, 0, nil).symmetryRanks()

	assert.Equal(t, ranks[0], ranks[4])
	assert.Equal(t, ranks[1], ranks[3])
	assert.NotEqual(t, ranks[1], ranks[2])
	assert.NotEqual(t, ranks[0], ranks[1])
}

func TestSymmetryRanksSeparateByParity(t *testing.T) {
	// the double bond breaks the symmetry of hexa-2-ene's ends
	m := build(t, []int{6, 6, 6, 6, 6, 6},
		[3]int{0, 1, 1}, [3]int{1, 2, 2}, [3]int{2, 3, 1}, [3]int{3, 4, 1}, [3]int{4, 5, 1})
	m.SetBondParity(1, mol.ParityE)
	ranks := newInvocation(m, 0, nil).symmetryRanks()

	assert.NotEqual(t, ranks[1], ranks[4])
}

func TestFlipTiers(t *testing.T) {
	// 1-ethyl-2-methylcyclohexane: ring bonds and terminal bonds never
	// flip, the ring-chain bond is preferred, chain bonds are possible
	m := build(t, []int{6, 6, 6, 6, 6, 6, 6, 6, 6, 6},
		[3]int{0, 1, 1}, [3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{3, 4, 1},
		[3]int{4, 5, 1}, [3]int{5, 0, 1}, [3]int{0, 6, 1}, [3]int{6, 7, 1},
		[3]int{7, 8, 1}, [3]int{1, 9, 1})
	c := newInvocation(m, 0, nil)
	tiers := c.flipTiers(c.symmetryRanks())

	for bond := range 6 {
		assert.Equal(t, flipNever, tiers[bond], "ring bond %d", bond)
	}
	assert.Equal(t, flipPreferred, tiers[6])
	assert.Equal(t, flipPossible, tiers[7])
	assert.Equal(t, flipNever, tiers[8])
	assert.Equal(t, flipNever, tiers[9])
}

func TestFlipTiersSkipSymmetricRing(t *testing.T) {
	// both ring halves of ethylcyclohexane are equivalent
	m := build(t, []int{6, 6, 6, 6, 6, 6, 6, 6},
		[3]int{0, 1, 1}, [3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{3, 4, 1},
		[3]int{4, 5, 1}, [3]int{5, 0, 1}, [3]int{0, 6, 1}, [3]int{6, 7, 1})
	c := newInvocation(m, 0, nil)
	tiers := c.flipTiers(c.symmetryRanks())

	assert.Equal(t, flipNever, tiers[6])
}

func TestFlipTiersSkipSymmetricEnds(t *testing.T) {
	// the tert-butyl end of 2,2-dimethylbutane mirrors onto itself
	m := build(t, []int{6, 6, 6, 6, 6, 6},
		[3]int{0, 1, 1}, [3]int{1, 2, 1}, [3]int{1, 3, 1}, [3]int{1, 4, 1}, [3]int{4, 5, 1})
	c := newInvocation(m, 0, nil)
	tiers := c.flipTiers(c.symmetryRanks())

	assert.Equal(t, flipNever, tiers[3])
}
