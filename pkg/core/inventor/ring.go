package inventor

import (
	"math"

	"github.com/greatlse/openchemlib/pkg/core/mol"
)

const (
	minTemplateRingSize = 10
	maxTemplateRingSize = 24
	largeRingSize       = 8
)

// addRingFragment places a ring given in cyclic order and claims nothing;
// callers mark atoms and bonds as handled.
func (c *invocation) addRingFragment(atoms, bonds []int) {
	n := len(atoms)
	f := newFragment(n)
	for _, atom := range atoms {
		f.add(atom, 0, 0, priorityRingBase-n)
	}
	if n < largeRingSize || !c.placeLargeRing(f, bonds) {
		placeRegularRing(f)
	}
	c.fragments = append(c.fragments, f)
}

// placeRegularRing puts the fragment atoms on a regular polygon with unit
// edges, starting at the origin.
func placeRegularRing(f *fragment) {
	n := float64(f.size())
	turn := math.Pi - math.Pi*(n-2)/n
	f.x[0], f.y[0] = 0, 0
	for i := 1; i < f.size(); i++ {
		a := turn * float64(i-1)
		f.x[i] = f.x[i-1] + math.Sin(a)
		f.y[i] = f.y[i-1] + math.Cos(a)
	}
}

// placeLargeRing searches the template table for a turn pattern that
// honors the E/Z parities of the ring's double bonds and walks it. It
// reports false if no template fits.
func (c *invocation) placeLargeRing(f *fragment, bonds []int) bool {
	n := f.size()
	if n < minTemplateRingSize || n > maxTemplateRingSize {
		return false
	}
	templates := ringTemplates[n-minTemplateRingSize]
	if templates == nil {
		return false
	}

	var eMask, zMask uint32
	for i, bond := range bonds {
		if c.m.BondOrder(bond) != 2 {
			continue
		}
		switch c.m.BondParity(bond) {
		case mol.ParityE:
			eMask |= 1 << i
		case mol.ParityZ:
			zMask |= 1 << i
		}
	}

	for _, t := range templates {
		pattern := t &^ templateAsymmetric
		if pattern == 0 {
			continue
		}
		if p, ok := matchRotation(pattern, n, eMask, zMask); ok {
			walkRing(f, p)
			return true
		}
		if t&templateAsymmetric == 0 {
			continue
		}
		if p, ok := matchRotation(reverseBits(pattern, n), n, eMask, zMask); ok {
			walkRing(f, p)
			return true
		}
	}
	return false
}

// matchRotation tries all n cyclic rotations of an n-bit pattern and
// returns the first one without turn change at E bonds and with a turn
// change at every Z bond.
func matchRotation(pattern uint32, n int, eMask, zMask uint32) (uint32, bool) {
	topBit := uint32(1) << n
	for range n {
		if pattern&eMask == 0 && ^pattern&zMask == 0 {
			return pattern, true
		}
		if pattern&1 != 0 {
			pattern |= topBit
		}
		pattern >>= 1
	}
	return 0, false
}

func reverseBits(pattern uint32, n int) uint32 {
	var r uint32
	for i := range n {
		r <<= 1
		if pattern&(1<<i) != 0 {
			r |= 1
		}
	}
	return r
}

// walkRing places ring atoms with ±60° turns. The walk starts upwards with
// right turns; every 0 bit reverses the turn direction.
func walkRing(f *fragment, pattern uint32) {
	angle := 0.0
	rightTurn := true
	f.x[0], f.y[0] = 0, 0
	for i := 1; i < f.size(); i++ {
		f.x[i] = f.x[i-1] + math.Sin(angle)
		f.y[i] = f.y[i-1] + math.Cos(angle)
		if pattern&1 == 0 {
			rightTurn = !rightTurn
		}
		if rightTurn {
			angle += math.Pi / 3
		} else {
			angle -= math.Pi / 3
		}
		pattern >>= 1
	}
}
