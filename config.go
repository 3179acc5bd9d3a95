package voyage

// VoyageConfig holds the tunable options for a single CalculateRoute call.
// Zero-value fields should be filled in with DefaultVoyageConfig before
// use.
type VoyageConfig struct {
	ShipSpeedMps       float64 `mapstructure:"shipSpeedMps"`
	DraftM             float64 `mapstructure:"draftM"`
	TrimM              float64 `mapstructure:"trimM"`
	StartTimeUnix      int64   `mapstructure:"startTimeUnix"`
	GridCellSizeKm     float64 `mapstructure:"gridCellSizeKm"`
	GridMarginCells    int     `mapstructure:"gridMarginCells"`
	MaxSnapRadiusKm    float64 `mapstructure:"maxSnapRadiusKm"`
	CalculateShortest  bool    `mapstructure:"calculateShortest"`
	CalculateOptimized bool    `mapstructure:"calculateOptimized"`

	// MaxAngleDegrees is the maximum turn angle, in degrees, allowed
	// between consecutive edges of a searched path.
	MaxAngleDegrees float64 `mapstructure:"maxAngleDegrees"`
}

// DefaultVoyageConfig returns the standard configuration defaults.
func DefaultVoyageConfig() VoyageConfig {
	return VoyageConfig{
		ShipSpeedMps:       8.0,
		DraftM:             10.0,
		TrimM:              0.0,
		StartTimeUnix:      0,
		GridCellSizeKm:     5.0,
		GridMarginCells:    20,
		MaxSnapRadiusKm:    50.0,
		CalculateShortest:  true,
		CalculateOptimized: true,
		MaxAngleDegrees:    90.0,
	}
}

// VoyageInfo carries the ship/voyage state needed by a cost strategy to
// evaluate a single edge. HeadingDeg is recomputed per edge; the other
// fields are inherited from VoyageConfig for the whole voyage.
type VoyageInfo struct {
	HeadingDeg   float64
	ShipSpeedMps float64
	DraftM       float64
	TrimM        float64
}
