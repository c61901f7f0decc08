package parameter

// Viewer camera
// The dead zone is the inner area where agent movement doesn't scroll the camera;
// the margin is the band between the dead zone and the viewport edge
const (
	// CameraCellsPerMetreX is the horizontal world scale; terminal cells are about twice as tall as wide
	CameraCellsPerMetreX = 2.0

	// CameraCellsPerMetreY is the vertical world scale
	CameraCellsPerMetreY = 1.0

	// CameraDeadZoneMarginX is horizontal margin in cells from viewport edge
	CameraDeadZoneMarginX = 16

	// CameraDeadZoneMarginY is vertical margin in cells from viewport edge
	CameraDeadZoneMarginY = 5
)
