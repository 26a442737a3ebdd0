package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-drive/camera"
	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/vmath"
)

// Scene is the read-only visual state handed to a renderer each frame
type Scene struct {
	Chassis     vmath.Pose
	HalfExtents mgl64.Vec3
	Wheels      [parameter.WheelCount]vmath.Pose
	Camera      camera.State

	Speed      float64
	Steering   float64
	Headlights float64
	EngineOn   bool
	Turbo      bool
	Paused     bool
	Tick       uint64
}
