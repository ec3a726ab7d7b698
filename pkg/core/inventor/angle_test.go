package inventor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAngleOf(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           float64
	}{
		{"up", 0, 0, 0, 1, 0},
		{"right", 0, 0, 1, 0, math.Pi / 2},
		{"left", 0, 0, -1, 0, -math.Pi / 2},
		{"down", 0, 0, 0, -1, math.Pi},
		{"down left", 0, 0, -1, -1, -3 * math.Pi / 4},
		{"offset", 1, 1, 2, 2, math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, angleOf(tt.x1, tt.y1, tt.x2, tt.y2), eps)
		})
	}
}

func TestAngleDiffWraps(t *testing.T) {
	assert.InDelta(t, 6-2*math.Pi, angleDiff(3, -3), eps)
	assert.InDelta(t, 2*math.Pi-6, angleDiff(-3, 3), eps)
	assert.InDelta(t, 0.5, angleDiff(1, 0.5), eps)
}

func TestMeanAngle(t *testing.T) {
	m := meanAngle([]polar{{angle: 0, length: 1}, {angle: math.Pi / 2, length: 1}})
	assert.InDelta(t, math.Pi/4, m.angle, eps)
	assert.InDelta(t, math.Sqrt2/2, m.length, eps)

	opposite := meanAngle([]polar{{angle: 0, length: 1}, {angle: math.Pi, length: 1}})
	assert.InDelta(t, 0, opposite.length, eps)

	empty := meanAngle(nil)
	assert.Zero(t, empty.length)
}

func TestPolarBetween(t *testing.T) {
	p := polarBetween(1, 1, 4, 5)
	assert.InDelta(t, 5, p.length, eps)
	assert.InDelta(t, math.Atan(3.0/4), p.angle, eps)
}
