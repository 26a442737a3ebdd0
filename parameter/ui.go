package parameter

// Speedometer
const (
	GaugeMaxSpeed = 200.0
	GaugeMinAngle = -90.0
	GaugeMaxAngle = 90.0
)

// Top-down view
const (
	// ViewCellsPerMetre is the horizontal scale of the map view
	ViewCellsPerMetre = 1.0

	// ViewAspect compensates for terminal cells being about twice as tall as wide
	ViewAspect = 2.0

	// GridSpacing is the ground dot spacing in metres
	GridSpacing = 5.0

	// HUDHeight is the number of rows reserved for the dashboard
	HUDHeight = 4

	// StatusPanelWidth is the width of the side metrics panel
	StatusPanelWidth = 28
)
