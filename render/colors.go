package render

import "github.com/gdamore/tcell/v2"

var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)
	RgbGrid       = tcell.NewRGBColor(60, 62, 80)
	RgbHUDText    = tcell.NewRGBColor(220, 220, 220)
	RgbHUDDim     = tcell.NewRGBColor(120, 120, 130)
	RgbPanelBg    = tcell.NewRGBColor(20, 20, 28)

	RgbChassisOff   = tcell.NewRGBColor(110, 110, 120)
	RgbChassisOn    = tcell.NewRGBColor(100, 150, 255)
	RgbChassisTurbo = tcell.NewRGBColor(255, 140, 0)
	RgbWheel        = tcell.NewRGBColor(30, 30, 30)
	RgbWheelRim     = tcell.NewRGBColor(200, 200, 200)
	RgbHeadlight    = tcell.NewRGBColor(255, 240, 160)
	RgbCamera       = tcell.NewRGBColor(0, 200, 200)

	RgbEngineOn  = tcell.NewRGBColor(144, 238, 144)
	RgbEngineOff = tcell.NewRGBColor(200, 50, 50)
	RgbPaused    = tcell.NewRGBColor(255, 255, 0)
)

// SpeedBarColor returns the fill color at progress 0..1 along the speed bar:
// green through yellow and orange to red. Zero or less is unfilled black.
func SpeedBarColor(progress float64) tcell.Color {
	if progress <= 0 {
		return tcell.NewRGBColor(0, 0, 0)
	}
	if progress > 1 {
		progress = 1
	}

	switch {
	case progress < 0.5: // green to yellow
		t := progress / 0.5
		return tcell.NewRGBColor(int32(34+(255-34)*t), int32(139+(215-139)*t), int32(34-34*t))
	case progress < 0.8: // yellow to orange
		t := (progress - 0.5) / 0.3
		return tcell.NewRGBColor(255, int32(215-(215-69)*t), 0)
	default: // orange to deep red
		t := (progress - 0.8) / 0.2
		return tcell.NewRGBColor(int32(255-(255-139)*t), int32(69-69*t), 0)
	}
}

// ChassisColor picks the car body color for the current drive state
func ChassisColor(engineOn, turbo bool) tcell.Color {
	switch {
	case turbo:
		return RgbChassisTurbo
	case engineOn:
		return RgbChassisOn
	default:
		return RgbChassisOff
	}
}
