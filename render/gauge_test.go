package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedleAngle(t *testing.T) {
	tests := []struct {
		speed float64
		want  float64
	}{
		{0, -90},
		{50, -45},
		{100, 0},
		{200, 90},
		{350, 90},
		{-5, -90},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NeedleAngle(tt.speed), 1e-12, "speed %v", tt.speed)
	}
}

func TestSpeedText(t *testing.T) {
	assert.Equal(t, "Speed: 0.0 km/h", SpeedText(0))
	assert.Equal(t, "Speed: 49.9 km/h", SpeedText(49.94))
	assert.Equal(t, "50", NeedleLabel(49.6))
	assert.Equal(t, "0", NeedleLabel(0.2))
}
