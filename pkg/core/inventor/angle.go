package inventor

import "math"

// polar is a direction with a weight. Angles are measured clockwise from
// the +y axis, so a unit vector at angle a is (sin a, cos a).
type polar struct {
	angle  float64
	length float64
}

func polarBetween(x1, y1, x2, y2 float64) polar {
	return polar{
		angle:  angleOf(x1, y1, x2, y2),
		length: math.Hypot(x2-x1, y2-y1),
	}
}

// angleOf returns the direction from (x1,y1) to (x2,y2).
func angleOf(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	if dy == 0 {
		if dx > 0 {
			return math.Pi / 2
		}
		return -math.Pi / 2
	}
	angle := math.Atan(dx / dy)
	if dy < 0 {
		if dx < 0 {
			angle -= math.Pi
		} else {
			angle += math.Pi
		}
	}
	return angle
}

// angleDiff returns angle1 - angle2 normalized to [-π, π].
func angleDiff(angle1, angle2 float64) float64 {
	d := angle1 - angle2
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// meanAngle adds the weighted unit vectors of all values and returns the
// direction of the sum. The length of the result is the sum's magnitude
// divided by the number of values and measures their agreement.
func meanAngle(values []polar) polar {
	if len(values) == 0 {
		return polar{angle: -math.Pi / 2}
	}
	var sinSum, cosSum float64
	for _, v := range values {
		sinSum += v.length * math.Sin(v.angle)
		cosSum += v.length * math.Cos(v.angle)
	}

	var angle float64
	if cosSum == 0 {
		if sinSum > 0 {
			angle = math.Pi / 2
		} else {
			angle = -math.Pi / 2
		}
	} else {
		angle = math.Atan(sinSum / cosSum)
		if cosSum < 0 {
			angle += math.Pi
		}
	}
	return polar{angle: angle, length: math.Hypot(sinSum, cosSum) / float64(len(values))}
}
