package render

import (
	"fmt"
	"math"

	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/vmath"
)

// NeedleAngle maps speed in km/h linearly onto the dial, clamped to its ends
func NeedleAngle(speed float64) float64 {
	s := vmath.Clamp(speed, 0, parameter.GaugeMaxSpeed)
	return parameter.GaugeMinAngle + s/parameter.GaugeMaxSpeed*(parameter.GaugeMaxAngle-parameter.GaugeMinAngle)
}

// SpeedText is the dashboard readout with one decimal
func SpeedText(speed float64) string {
	return fmt.Sprintf("Speed: %.1f km/h", speed)
}

// NeedleLabel is the whole-number label drawn beside the needle
func NeedleLabel(speed float64) string {
	return fmt.Sprintf("%d", int(math.Round(speed)))
}
