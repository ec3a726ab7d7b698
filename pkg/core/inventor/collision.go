package inventor

import (
	"math"
	"slices"
)

// flipTier says how readily a bond may be flipped. Higher tiers are tried
// first.
type flipTier uint8

const (
	flipNever flipTier = iota
	flipLastResort
	flipPossible
	flipPreferred
)

const (
	preferredFlips  = 32
	possibleFlips   = 64
	lastResortFlips = 128
	totalFlips      = preferredFlips + possibleFlips + lastResortFlips

	collisionLimitBondRotation = 0.8
	collisionLimitAtomMovement = 0.5
	maxCollisionForces         = 4
)

// flipTiers classifies every bond. Only acyclic single bonds between
// non-terminal atoms can be flipped, and not if one end carries
// substituents that are all equivalent, since mirroring them changes
// nothing.
func (c *invocation) flipTiers(ranks []int) []flipTier {
	tiers := make([]flipTier, c.bonds)
	for bond := range c.bonds {
		a1, a2 := c.bondAtoms(bond)
		if c.m.IsRingBond(bond) || c.m.BondOrder(bond) != 1 || c.conn[a1] == 1 || c.conn[a2] == 1 {
			continue
		}
		bothMarked := c.m.IsMarkedAtom(a1) && c.m.IsMarkedAtom(a2)
		if c.mode&ModeKeepMarkedAtomCoords != 0 && bothMarked {
			continue
		}
		if c.isSymmetricEnd(a1, a2, ranks) || c.isSymmetricEnd(a2, a1, ranks) {
			continue
		}

		switch {
		case c.mode&ModePreferMarkedAtomCoords != 0 && bothMarked:
			tiers[bond] = flipLastResort
		case c.m.IsRingAtom(a1) || c.m.IsRingAtom(a2):
			tiers[bond] = flipPreferred
		default:
			tiers[bond] = flipPossible
		}
	}
	return tiers
}

// isSymmetricEnd reports whether atom has more than two neighbors and all
// of them except other share one symmetry rank.
func (c *invocation) isSymmetricEnd(atom, other int, ranks []int) bool {
	if c.conn[atom] <= 2 {
		return false
	}
	rank := -1
	for i := range c.conn[atom] {
		nb := c.connAtom(atom, i)
		if nb == other {
			continue
		}
		if rank == -1 {
			rank = ranks[nb]
		} else if rank != ranks[nb] {
			return false
		}
	}
	return true
}

// optimizeFragments runs the flip search on every fragment, keeps the
// configuration with the lowest penalty and then nudges crowded atoms.
func (c *invocation) optimizeFragments() {
	ranks := c.symmetryRanks()
	tiers := c.flipTiers(ranks)

	for fi, f := range c.fragments {
		collisions, penalty := c.collisions(f)
		report := FragmentReport{Atoms: f.size(), InitialPenalty: penalty, Penalty: penalty}
		best := f.clone()

		lastBond := -1
		for flip := 0; flip < totalFlips && len(collisions) != 0; flip++ {
			pair := collisions[c.rng.IntN(len(collisions))]
			seq := c.shortestConnection(pair[0], pair[1])
			if len(seq) < 3 {
				continue
			}

			minTier := flipLastResort
			switch {
			case flip < preferredFlips:
				minTier = flipPreferred
			case flip < preferredFlips+possibleFlips:
				minTier = flipPossible
			}
			var available []int
			for _, bond := range seq[1 : len(seq)-1] {
				if tiers[bond] >= minTier {
					available = append(available, bond)
				}
			}
			if len(available) == 0 {
				continue
			}

			bond := available[0]
			if len(available) > 1 {
				// never rotate twice in a row around the same bond
				for {
					bond = available[c.rng.IntN(len(available))]
					if bond != lastBond {
						break
					}
				}
			}
			if bond == lastBond {
				continue
			}
			lastBond = bond

			c.flipOneSide(f, bond)
			report.Flips++
			collisions, penalty = c.collisions(f)
			if penalty < report.Penalty {
				report.Penalty = penalty
				best = f.clone()
			}
		}

		c.fragments[fi] = best
		c.nudgeAtoms(best, ranks)
		c.report.Fragments = append(c.report.Fragments, report)
	}
}

// collisions lists the pairs of non-bonded atoms closer than the collision
// limit, widened by the atoms' steric surplus, and returns the penalty
// Σ(1 - min(d,1))² over all non-bonded atom pairs.
func (c *invocation) collisions(f *fragment) ([][2]int, float64) {
	var list [][2]int
	penalty := 0.0
	for i := 1; i < f.size(); i++ {
		si := c.surplus(f.atoms[i])
		for j := range i {
			if c.bonded(f.atoms[i], f.atoms[j]) {
				continue
			}
			d := math.Hypot(f.x[i]-f.x[j], f.y[i]-f.y[j])
			if d < collisionLimitBondRotation+(si+c.surplus(f.atoms[j]))/2 {
				list = append(list, [2]int{f.atoms[i], f.atoms[j]})
			}
			p := 1 - math.Min(d, 1)
			penalty += p * p
		}
	}
	return list, penalty
}

// surplus is the extra space an atom label needs.
func (c *invocation) surplus(atom int) float64 {
	switch {
	case c.m.HasQueryFeatures(atom):
		return 0.6
	case c.m.AtomicNo(atom) != 6:
		return 0.25
	}
	return 0
}

func (c *invocation) bonded(a1, a2 int) bool {
	for i := range c.conn[a1] {
		if c.connAtom(a1, i) == a2 {
			return true
		}
	}
	return false
}

// flipOneSide mirrors the atoms on one side of bond at the bond axis. The
// smaller side is mirrored, unless marked atoms lie on one side only, in
// which case the other side is.
func (c *invocation) flipOneSide(f *fragment, bond int) {
	if f.flipLists == nil {
		f.flipLists = make(map[int][]int)
	}
	list, ok := f.flipLists[bond]
	if !ok {
		list = c.flipList(f, bond)
		f.flipLists[bond] = list
	}

	x, y := f.x[list[0]], f.y[list[0]]
	mirror := angleOf(x, y, f.x[list[1]], f.y[list[1]])
	for _, i := range list[2:] {
		f.mirrorAtom(i, x, y, mirror)
	}
}

func (c *invocation) flipList(f *fragment, bond int) []int {
	atom1, atom2 := c.bondAtoms(bond)
	onSide := make([]bool, c.atoms)
	onSide[atom1] = true
	queue := []int{atom1}
	for head := 0; head < len(queue); head++ {
		atom := queue[head]
		for i := range c.conn[atom] {
			nb := c.connAtom(atom, i)
			if !onSide[nb] && nb != atom2 {
				onSide[nb] = true
				queue = append(queue, nb)
			}
		}
	}

	flipOther := len(queue) > f.size()/2
	if c.mode&modeConsiderMarkedAtoms != 0 {
		coreOn, coreOff := false, false
		for _, atom := range f.atoms {
			if !c.m.IsMarkedAtom(atom) {
				continue
			}
			if onSide[atom] {
				coreOn = true
			} else {
				coreOff = true
			}
		}
		if coreOn != coreOff {
			flipOther = coreOn
		}
	}

	list := make([]int, 2, f.size())
	for i, atom := range f.atoms {
		switch {
		case atom == atom1:
			if flipOther {
				list[0] = i
			} else {
				list[1] = i
			}
		case atom == atom2:
			if flipOther {
				list[1] = i
			} else {
				list[0] = i
			}
		case flipOther != onSide[atom]:
			list = append(list, i)
		}
	}
	return list
}

// nudgeAtoms moves atoms away from close atoms and bonds, visiting atoms
// by increasing symmetry rank. Marked atoms stay put in keep mode.
func (c *invocation) nudgeAtoms(f *fragment, ranks []int) {
	keep := c.mode&ModeKeepMarkedAtomCoords != 0
	var distinct []int
	for _, atom := range f.atoms {
		distinct = append(distinct, ranks[atom])
	}
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)

	for _, rank := range distinct {
		for i, atom := range f.atoms {
			if ranks[atom] == rank && !(keep && c.m.IsMarkedAtom(atom)) {
				c.nudgeAtom(f, i)
			}
		}
	}
}

// nudgeAtom collects up to four repulsive forces from bonds the atom lies
// beside and from bond atoms it is too close to, and moves the atom by
// their mean.
func (c *invocation) nudgeAtom(f *fragment, i int) {
	x, y := f.x[i], f.y[i]
	forces := make([]polar, 0, maxCollisionForces)
	push := func(fromX, fromY, d float64) {
		forces = append(forces, polar{
			angle:  angleOf(fromX, fromY, x, y),
			length: (collisionLimitAtomMovement - d) / 2,
		})
	}

	for _, bond := range f.bonds {
		if len(forces) >= maxCollisionForces {
			break
		}
		a1, a2 := c.bondAtoms(bond)
		i1, i2 := f.mustIndex(a1), f.mustIndex(a2)
		if i == i1 || i == i2 {
			continue
		}
		x1, y1, x2, y2 := f.x[i1], f.y[i1], f.x[i2], f.y[i2]
		d1 := math.Hypot(x1-x, y1-y)
		d2 := math.Hypot(x2-x, y2-y)
		length := math.Hypot(x2-x1, y2-y1)

		if d1 < length && d2 < length {
			// beside the bond: push away from the foot of the perpendicular
			switch {
			case x1 == x2:
				if d := math.Abs(x - x1); d < collisionLimitAtomMovement {
					push(x1, y, d)
				}
			case y1 == y2:
				if d := math.Abs(y - y1); d < collisionLimitAtomMovement {
					push(x, y1, d)
				}
			default:
				m1 := (y2 - y1) / (x2 - x1)
				m2 := -1 / m1
				a1 := y1 - m1*x1
				a2 := y - m2*x
				xs := (a2 - a1) / (m1 - m2)
				ys := m1*xs + a1
				if d := math.Hypot(xs-x, ys-y); d < collisionLimitAtomMovement {
					push(xs, ys, d)
				}
			}
			continue
		}

		if d1 < collisionLimitAtomMovement {
			push(x1, y1, d1)
			continue
		}
		if d2 < collisionLimitAtomMovement {
			push(x2, y2, d2)
		}
	}

	if len(forces) > 0 {
		force := meanAngle(forces)
		f.x[i] += force.length * math.Sin(force.angle)
		f.y[i] += force.length * math.Cos(force.angle)
	}
}
