package schematic

// ============================================================
// Draw parameters
// ============================================================

// ScalingFactor converts metres into drawing units.
const ScalingFactor = 200.0

// Line widths
const (
	wallWidth          = 16.0
	hideSurfaceWidth   = 24.0
	doorWidth          = 4.0
	doorArcWidth       = 2.0
	windowWidth        = 8.0
	windowLineWidth    = 1.0
	windowLineSpacing  = 3.0
	objectOutlineWidth = 8.0
	dimensionWidth     = 1.0
)

// Door swing dashes
const (
	doorArcDashLength = 4.0
	doorArcGapLength  = 2.0
)

// Dimension annotations
const (
	tickHalfLength               = 22.0
	dimensionLineDistFromSurface = 30.0
	dimensionLabelWidth          = 50.0
	doorWindowDimensionOffset    = 20.0
	labelFontSize                = 12.0
)

// Furniture fill opacity
const objectFillOpacity = 0.3

// Layer is the z position of a primitive. Higher layers draw on top.
type Layer int

const (
	LayerWall          Layer = 0
	LayerHiddenWall    Layer = 1
	LayerWindow        Layer = 10
	LayerDoor          Layer = 20
	LayerDoorArc       Layer = 21
	LayerObject        Layer = 30
	LayerObjectOutline Layer = 31
)
