package inventor

import "math"

// bounds is the box around a fragment including atom label surplus.
type bounds struct {
	minX, maxX, minY, maxY float64
}

// width and height add half a bond length on every side.
func (b bounds) width() float64  { return b.maxX - b.minX + 1 }
func (b bounds) height() float64 { return b.maxY - b.minY + 1 }

func (c *invocation) bounds(f *fragment) bounds {
	b := bounds{minX: f.x[0], maxX: f.x[0], minY: f.y[0], maxY: f.y[0]}
	for i, atom := range f.atoms {
		s := c.surplus(atom)
		b.minX = math.Min(b.minX, f.x[i]-s)
		b.maxX = math.Max(b.maxX, f.x[i]+s)
		b.minY = math.Min(b.minY, f.y[i]-s)
		b.maxY = math.Max(b.maxY, f.y[i]+s)
	}
	return b
}

// cornerDistance measures how far the diagonal through a corner of the
// bounding box can move inwards before it touches an atom. Corners are
// numbered 0 top right, 1 bottom right, 2 bottom left, 3 top left.
func (c *invocation) cornerDistance(f *fragment, b bounds, corner int) float64 {
	minDistance := 9999.0
	for i, atom := range f.atoms {
		x, y := f.x[i], f.y[i]
		var d float64
		switch corner {
		case 0:
			d = b.maxX - 0.5*(b.maxX+b.minY+x-y)
		case 1:
			d = b.maxX - 0.5*(b.maxX-b.maxY+x+y)
		case 2:
			d = 0.5*(b.minX+b.maxY+x-y) - b.minX
		case 3:
			d = 0.5*(b.minX-b.minY+x+y) - b.minX
		}
		minDistance = math.Min(minDistance, d-c.surplus(atom))
	}
	return minDistance
}

// arrangeWith translates f2 next to f1: diagonally into a free corner, beside
// it or on top of it, whichever gives the most compact result.
func (c *invocation) arrangeWith(f1, f2 *fragment) {
	b1, b2 := c.bounds(f1), c.bounds(f2)

	maxGain := 0.0
	maxCorner := 0
	for corner := range 4 {
		gain := c.cornerDistance(f1, b1, corner) + c.cornerDistance(f2, b2, (corner+2)%4)
		if maxGain < gain {
			maxGain = gain
			maxCorner = corner
		}
	}

	sumHeight := b1.height() + b2.height()
	sumWidth := 0.75 * (b1.width() + b2.width())
	maxHeight := math.Max(b1.height(), b2.height())
	maxWidth := 0.75 * math.Max(b1.width(), b2.width())

	bestCorner := math.Hypot(sumHeight-maxGain, sumWidth-0.75*maxGain)
	topped := math.Max(maxWidth, sumHeight)
	beside := math.Max(maxHeight, sumWidth)

	switch {
	case bestCorner < topped && bestCorner < beside:
		switch maxCorner {
		case 0:
			f2.translate(b1.maxX-b2.minX-maxGain+1, b1.minY-b2.maxY+maxGain-1)
		case 1:
			f2.translate(b1.maxX-b2.minX-maxGain+1, b1.maxY-b2.minY-maxGain+1)
		case 2:
			f2.translate(b1.minX-b2.maxX+maxGain-1, b1.maxY-b2.minY-maxGain+1)
		case 3:
			f2.translate(b1.minX-b2.maxX+maxGain-1, b1.minY-b2.maxY+maxGain-1)
		}
	case beside < topped:
		f2.translate(b1.maxX-b2.minX+1, (b1.maxY+b1.minY-b2.maxY-b2.minY)/2)
	default:
		f2.translate((b1.maxX+b1.minX-b2.maxX-b2.minX)/2, b1.maxY-b2.minY+1)
	}
}

// arrangeAllFragments repeatedly places the second largest fragment next
// to the largest one and merges them until one fragment remains.
func (c *invocation) arrangeAllFragments() {
	for len(c.fragments) > 1 {
		var large [2]*fragment
		var size [2]float64
		for _, f := range c.fragments {
			b := c.bounds(f)
			s := b.width() + b.height()
			switch {
			case large[0] == nil || size[0] < s:
				large[1], size[1] = large[0], size[0]
				large[0], size[0] = f, s
			case large[1] == nil || size[1] < s:
				large[1], size[1] = f, s
			}
		}

		c.arrangeWith(large[0], large[1])
		c.fragments = append(c.fragments, merged(large[0], large[1]))
		c.fragments = removeFragment(c.fragments, large[0])
		c.fragments = removeFragment(c.fragments, large[1])
	}
}
