package inventor

import (
	"math"
	"slices"
)

// joinScore ranks a candidate pair of overlapping fragments. Scores compare
// field by field in declaration order.
type joinScore struct {
	// partial is 0 for a single shared atom that is terminal in both
	// fragments and 1 otherwise.
	partial int
	high    int // higher of the two max priorities at shared atoms
	low     int // lower of the two
	common  int // number of shared atoms
}

func (s joinScore) less(o joinScore) bool {
	switch {
	case s.partial != o.partial:
		return s.partial < o.partial
	case s.high != o.high:
		return s.high < o.high
	case s.low != o.low:
		return s.low < o.low
	}
	return s.common < o.common
}

// joinOverlappingFragments fuses fragments sharing atoms until all
// fragments are disjoint. Each round joins the best scoring pair; on ties
// the first pair found wins.
func (c *invocation) joinOverlappingFragments() {
	for {
		var best joinScore
		var f1, f2 *fragment
		for i := 1; i < len(c.fragments); i++ {
			fi := c.fragments[i]
			for j := range i {
				fj := c.fragments[j]
				score, ok := c.scoreJoin(fi, fj)
				if !ok || (f1 != nil && !best.less(score)) {
					continue
				}
				best = score
				// the fragment holding the overall highest priority keeps
				// its coordinates
				if fi.maxPriority() > fj.maxPriority() {
					f1, f2 = fi, fj
				} else {
					f1, f2 = fj, fi
				}
			}
		}
		if f1 == nil {
			return
		}

		switch best.common {
		case f1.size():
			c.fragments = removeFragment(c.fragments, f1)
		case f2.size():
			c.fragments = removeFragment(c.fragments, f2)
		default:
			c.joinFragments(f1, f2)
		}
	}
}

func (c *invocation) scoreJoin(fi, fj *fragment) (joinScore, bool) {
	common, commonAtom := 0, -1
	maxI, maxJ := 0, 0
	for k, atom := range fi.atoms {
		l := fj.indexOf(atom)
		if l == -1 {
			continue
		}
		common++
		commonAtom = atom
		maxI = max(maxI, fi.priority[k])
		maxJ = max(maxJ, fj.priority[l])
	}
	if common == 0 {
		return joinScore{}, false
	}
	s := joinScore{partial: 1, high: max(maxI, maxJ), low: min(maxI, maxJ), common: common}
	if common == 1 && c.fragmentConnAtoms(fi, commonAtom) == 1 && c.fragmentConnAtoms(fj, commonAtom) == 1 {
		s.partial = 0
	}
	return s, true
}

// joinFragments replaces f1 and f2 by their fusion. f1 keeps its
// coordinates.
func (c *invocation) joinFragments(f1, f2 *fragment) {
	var common []int
	for _, atom := range f1.atoms {
		if f2.contains(atom) {
			common = append(common, atom)
		}
	}

	var f *fragment
	if len(common) == 1 {
		f = c.fuseAtAtom(f1, f2, common[0])
	} else {
		f = c.fuseAtAtoms(f1, f2, common)
	}
	c.fragments = append(c.fragments, f)
	c.fragments = removeFragment(c.fragments, f1)
	c.fragments = removeFragment(c.fragments, f2)
}

// fuseAtAtom joins two fragments sharing one atom. f2 is moved onto the
// shared atom and turned so that its free direction opposes the free
// direction of f1. Two terminal bonds meet at 120° instead of 180°.
func (c *invocation) fuseAtAtom(f1, f2 *fragment, atom int) *fragment {
	i1, i2 := f1.mustIndex(atom), f2.mustIndex(atom)
	f2.translate(f1.x[i1]-f2.x[i2], f1.y[i1]-f2.y[i2])

	angle1 := c.suggestNewBondAngle(f1, atom)
	angle2 := c.suggestNewBondAngle(f2, atom)

	inc := 0.0
	if c.fragmentConnAtoms(f1, atom) == 1 && c.fragmentConnAtoms(f2, atom) == 1 {
		inc = math.Pi / 3
	}
	f2.rotate(f2.x[i2], f2.y[i2], angle1-angle2+inc+math.Pi)
	return merged(f1, f2)
}

// fuseAtAtoms joins two fragments sharing several atoms. Shared atom
// centroids are aligned, then f2 is rotated, or mirrored and rotated,
// whichever brings its non-shared neighbors closer to the directions of
// f1's non-shared neighbors.
func (c *invocation) fuseAtAtoms(f1, f2 *fragment, common []int) *fragment {
	n := len(common)
	index1 := make([]int, n)
	index2 := make([]int, n)
	var mx1, my1, mx2, my2 float64
	for i, atom := range common {
		index1[i] = f1.mustIndex(atom)
		index2[i] = f2.mustIndex(atom)
		mx1 += f1.x[index1[i]]
		my1 += f1.y[index1[i]]
		mx2 += f2.x[index2[i]]
		my2 += f2.y[index2[i]]
	}
	mx1 /= float64(n)
	my1 /= float64(n)
	mx2 /= float64(n)
	my2 /= float64(n)
	f2.translate(mx1-mx2, my1-my2)

	dif := make([]polar, n)
	difFlip := make([]polar, n)
	for i := range common {
		a1 := polarBetween(mx1, my1, f1.x[index1[i]], f1.y[index1[i]])
		a2 := polarBetween(mx1, my1, f2.x[index2[i]], f2.y[index2[i]])
		dif[i] = polar{angle: a1.angle - a2.angle, length: a1.length * a2.length}
		difFlip[i] = polar{angle: a1.angle + a2.angle, length: a1.length * a2.length}
	}
	meanDif := meanAngle(dif)
	meanDifFlip := meanAngle(difFlip)

	var nb1, nb2, nb2Flip []polar
	for i, atom := range common {
		for j := range c.conn[atom] {
			nb := c.connAtom(atom, j)
			in1, in2 := f1.contains(nb), f2.contains(nb)
			switch {
			case in1 && !in2:
				k := f1.mustIndex(nb)
				nb1 = append(nb1, polarBetween(f1.x[index1[i]], f1.y[index1[i]], f1.x[k], f1.y[k]))
			case in2 && !in1:
				k := f2.mustIndex(nb)
				a := polarBetween(f2.x[index2[i]], f2.y[index2[i]], f2.x[k], f2.y[k])
				nb2 = append(nb2, polar{angle: meanDif.angle + a.angle, length: a.length})
				nb2Flip = append(nb2Flip, polar{angle: meanDifFlip.angle - a.angle, length: a.length})
			}
		}
	}
	mean1 := meanAngle(nb1)
	mean2 := meanAngle(nb2)
	mean2Flip := meanAngle(nb2Flip)

	if math.Abs(angleDiff(mean1.angle, mean2.angle)) > math.Abs(angleDiff(mean1.angle, mean2Flip.angle)) {
		f2.rotate(mx1, my1, meanDif.angle)
	} else {
		f2.flip(mx1, my1, 0)
		f2.rotate(mx1, my1, meanDifFlip.angle)
	}
	return merged(f1, f2)
}

// suggestNewBondAngle returns the direction of the largest free sector
// around atom in f. Sectors between two ring bonds are penalized so that
// new bonds point out of rings, the more so the smaller the ring.
func (c *invocation) suggestNewBondAngle(f *fragment, atom int) float64 {
	type direction struct {
		angle      float64
		atom, bond int
	}
	root := f.mustIndex(atom)
	var dirs []direction
	for i := range c.conn[atom] {
		nb := c.connAtom(atom, i)
		k := f.indexOf(nb)
		if k == -1 {
			continue
		}
		dirs = append(dirs, direction{
			angle: angleOf(f.x[root], f.y[root], f.x[k], f.y[k]),
			atom:  nb,
			bond:  c.connBond(atom, i),
		})
	}

	switch len(dirs) {
	case 0:
		return math.Pi
	case 1:
		return dirs[0].angle + math.Pi
	}

	slices.SortStableFunc(dirs, func(a, b direction) int {
		switch {
		case a.angle < b.angle:
			return -1
		case a.angle > b.angle:
			return 1
		}
		return 0
	})
	n := len(dirs)
	dirs = append(dirs, direction{angle: dirs[0].angle + 2*math.Pi, atom: dirs[0].atom, bond: dirs[0].bond})

	maxGap := -100.0
	maxIndex := 0
	for i := range n {
		gap := dirs[i+1].angle - dirs[i].angle
		if n > 2 && c.m.IsRingBond(dirs[i].bond) && c.m.IsRingBond(dirs[i+1].bond) {
			if size := c.smallestRingSize(dirs[i].atom, atom, dirs[i+1].atom); size != 0 {
				gap -= 100 - float64(size)
			}
		}
		if maxGap < gap {
			maxGap = gap
			maxIndex = i
		}
	}
	return (dirs[maxIndex].angle + dirs[maxIndex+1].angle) / 2
}

// fragmentConnAtoms counts the neighbors of atom that belong to f.
func (c *invocation) fragmentConnAtoms(f *fragment, atom int) int {
	n := 0
	for i := range c.conn[atom] {
		if f.contains(c.connAtom(atom, i)) {
			n++
		}
	}
	return n
}
