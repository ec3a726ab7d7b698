package inventor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinScoreOrder(t *testing.T) {
	terminal := joinScore{partial: 0, high: 256, low: 256, common: 1}
	ringRing := joinScore{partial: 1, high: 122, low: 122, common: 2}
	ringChain := joinScore{partial: 1, high: 131, low: 122, common: 1}
	bigOverlap := joinScore{partial: 1, high: 131, low: 122, common: 3}

	assert.True(t, terminal.less(ringRing))
	assert.True(t, ringRing.less(ringChain))
	assert.True(t, ringChain.less(bigOverlap))
	assert.False(t, bigOverlap.less(ringChain))
	assert.False(t, ringChain.less(ringChain))
}

func TestFuseAtAtomBendsTerminalBonds(t *testing.T) {
	m := carbonChain(t, 3)
	c := newInvocation(m, 0, nil)

	f1 := newFragment(2)
	f1.add(0, 0, 0, 0)
	f1.add(1, 0, 1, 0)
	f2 := newFragment(2)
	f2.add(1, 5, 5, 0)
	f2.add(2, 5, 6, 0)

	f := c.fuseAtAtom(f1, f2, 1)
	require.Equal(t, 3, f.size())

	i0, i1, i2 := f.mustIndex(0), f.mustIndex(1), f.mustIndex(2)
	assert.InDelta(t, 0, f.x[i1], eps)
	assert.InDelta(t, 1, f.y[i1], eps)
	assert.InDelta(t, 1, math.Hypot(f.x[i2]-f.x[i1], f.y[i2]-f.y[i1]), eps)
	assert.InDelta(t, math.Sqrt(3), math.Hypot(f.x[i2]-f.x[i0], f.y[i2]-f.y[i0]), eps)
}

func TestJoinDropsContainedFragments(t *testing.T) {
	m := carbonChain(t, 3)
	c := newInvocation(m, 0, nil)

	whole := newFragment(3)
	whole.add(0, 0, 0, 10)
	whole.add(1, 1, 0, 10)
	whole.add(2, 2, 0, 10)
	part := newFragment(2)
	part.add(1, 7, 7, 1)
	part.add(2, 8, 7, 1)
	c.fragments = []*fragment{part, whole}

	c.joinOverlappingFragments()

	require.Len(t, c.fragments, 1)
	assert.Same(t, whole, c.fragments[0])
}

func TestSuggestNewBondAngle(t *testing.T) {
	m := carbonChain(t, 3)
	c := newInvocation(m, 0, nil)

	f := newFragment(3)
	f.add(1, 0, 0, 0)
	assert.InDelta(t, math.Pi, c.suggestNewBondAngle(f, 1), eps)

	f.add(0, 0, 1, 0)
	assert.InDelta(t, math.Pi, c.suggestNewBondAngle(f, 1), eps)

	f.add(2, 1, 0, 0)
	// neighbors up and right leave the lower left sector free
	angle := c.suggestNewBondAngle(f, 1)
	assert.InDelta(t, 0, angleDiff(angle, -3*math.Pi/4), eps)
}

func TestArrangeAllFragmentsSeparates(t *testing.T) {
	m := carbonChain(t, 2)
	m.AddAtom(8)
	c := newInvocation(m, 0, nil)

	ethane := newFragment(2)
	ethane.add(0, 0, 0.5, 0)
	ethane.add(1, math.Sqrt(3)/2, 0, 0)
	oxygen := newFragment(1)
	oxygen.add(2, 0, 0, 0)
	c.fragments = []*fragment{oxygen, ethane}

	c.arrangeAllFragments()

	require.Len(t, c.fragments, 1)
	f := c.fragments[0]
	// the larger fragment keeps its place
	assert.InDelta(t, 0.5, f.y[f.mustIndex(0)], eps)
	o := f.mustIndex(2)
	for _, atom := range []int{0, 1} {
		k := f.mustIndex(atom)
		assert.Greater(t, math.Hypot(f.x[o]-f.x[k], f.y[o]-f.y[k]), 0.5)
	}
}

func TestCollisionsAndFlip(t *testing.T) {
	// butane folded so that the ends touch
	m := carbonChain(t, 4)
	c := newInvocation(m, 0, nil)
	f := newFragment(4)
	f.add(0, 0.5, 0.1, 0)
	f.add(1, 0, 0.9, 0)
	f.add(2, 1, 0.9, 0)
	f.add(3, 0.5, 0, 0)
	c.locateBonds(f)

	collisions, penalty := c.collisions(f)
	require.Len(t, collisions, 1)
	assert.ElementsMatch(t, []int{0, 3}, collisions[0][:])
	assert.Greater(t, penalty, 0.5)

	c.flipOneSide(f, 1)
	collisions, after := c.collisions(f)
	assert.Empty(t, collisions)
	assert.Less(t, after, penalty)
}
