package control

import (
	"math"

	"github.com/lixenwraith/vi-drive/parameter"
)

// BrakeFactor is the fraction of horizontal velocity kept by one brake press, in [0.7, 1]
func BrakeFactor(speed float64) float64 {
	return math.Min(1, math.Max(parameter.BrakeFactorMin, 1-speed*parameter.BrakeFactorSlope))
}

// TiltFactor is the nose-dip magnitude for a brake press, in [0, 8]
func TiltFactor(speed float64) float64 {
	return math.Max(0, math.Min(speed*parameter.TiltSlope, parameter.TiltMax))
}

// SkidFactor scales the skid impulse. u is uniform in [0, 1).
// Zero up to 40 km/h, then within ±0.1·speed/100.
func SkidFactor(speed, u float64) float64 {
	if speed <= parameter.SkidSpeedMin {
		return 0
	}
	return (u*2*parameter.SkidJitter - parameter.SkidJitter) * (speed / parameter.SkidSpeedScale)
}

// BrakeDamping is the linear damping set by a brake press
func BrakeDamping(speed float64) float64 {
	return math.Min(parameter.BrakeDampingMax, parameter.BrakeDampingBase+speed*parameter.BrakeDampingSlope)
}
