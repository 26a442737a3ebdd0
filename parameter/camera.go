package parameter

// Chase camera
const (
	// CameraStartX/Y/Z is the camera position before the first follow step
	CameraStartX = 0.0
	CameraStartY = 8.0
	CameraStartZ = 24.0

	// CameraChaseZ is the Z offset forced every frame, behind a +Z-facing car
	CameraChaseZ = -20.0

	// CameraLerp is the per-frame approach fraction
	CameraLerp = 0.01

	// CameraLookX/Y/Z is the look-at point in chassis local space
	CameraLookX = 0.0
	CameraLookY = 2.0
	CameraLookZ = 5.0

	// CameraResetX/Y/Z is the offset from the car used when the camera turns non-finite
	CameraResetX = 0.0
	CameraResetY = 5.0
	CameraResetZ = 10.0

	// CameraOrbitStep is the X/Y shift per orbit key press in metres
	CameraOrbitStep = 0.5
)
