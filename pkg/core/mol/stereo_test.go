package mol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func butene(t *testing.T, y3 float64) *Molecule {
	t.Helper()
	m := New()
	c := carbons(m, 4)
	chain(t, m, c[0], c[1])
	_, err := m.AddBond(c[1], c[2], 2)
	require.NoError(t, err)
	chain(t, m, c[2], c[3])
	m.SetAtomCoords(c[0], -0.5, 0.866)
	m.SetAtomCoords(c[1], 0, 0)
	m.SetAtomCoords(c[2], 1, 0)
	m.SetAtomCoords(c[3], 1.5, y3)
	return m
}

func TestPerceiveParities(t *testing.T) {
	trans := butene(t, -0.866)
	require.True(t, trans.PerceiveParities())
	assert.Equal(t, ParityE, trans.BondParity(1))

	cis := butene(t, 0.866)
	require.True(t, cis.PerceiveParities())
	assert.Equal(t, ParityZ, cis.BondParity(1))
}

func TestPerceiveParitiesKeepsExplicitParity(t *testing.T) {
	m := butene(t, 0.866)
	m.SetBondParity(1, ParityUnknown)
	m.PerceiveParities()
	assert.Equal(t, ParityUnknown, m.BondParity(1))
}

func TestPerceiveParitiesWithoutCoordinates(t *testing.T) {
	m := New()
	c := carbons(m, 2)
	_, err := m.AddBond(c[0], c[1], 2)
	require.NoError(t, err)
	assert.False(t, m.PerceiveParities())
}
