// Package shipdynamics provides a reference voyage.ShipDynamics
// implementation: a calm-water resistance curve plus added-resistance terms
// for wind, waves, and current.
//
// Production deployments typically supply their own fuel model, often
// backed by a loaded native library; this package is a physically
// plausible stand-in built from the standard naval-architecture resistance
// decomposition.
package shipdynamics

import (
	"math"

	"github.com/ctessum/unit"

	"github.com/oceanrouting/voyage"
)

// Model is a reference ship-dynamics fuel model. Coefficients default to
// values representative of a mid-size bulk carrier; override them to model
// a different hull.
type Model struct {
	// CalmWaterCoeffs are the coefficients (c0..c3) of the calm-water power
	// curve P = c0 + c1*v + c2*v^2 + c3*v^3, v in m/s, P in kW.
	CalmWaterCoeffs []float64

	// SpecificFuelConsumption is fuel burned per unit of engine power,
	// in kg per kWh.
	SpecificFuelConsumption float64

	// DraftReferenceM is the draft at which CalmWaterCoeffs were fitted;
	// deeper drafts increase resistance proportionally to the ratio.
	DraftReferenceM float64

	// WindCoeff, WaveCoeff, and CurrentCoeff scale each weather term's
	// contribution to added resistance power, in kW per (m/s)^2 of relative
	// speed (wind, current) or per meter^2 of wave height (wave).
	WindCoeff    float64
	WaveCoeff    float64
	CurrentCoeff float64
}

// NewDefaultModel returns a Model with representative coefficients for a
// displacement-hull cargo ship cruising in the 6-12 m/s range.
func NewDefaultModel() *Model {
	return &Model{
		CalmWaterCoeffs:         []float64{50, 5, 0.8, 0.09},
		SpecificFuelConsumption: 0.19,
		DraftReferenceM:         10.0,
		WindCoeff:               0.012,
		WaveCoeff:               45.0,
		CurrentCoeff:            0.8,
	}
}

// Evaluate implements voyage.ShipDynamics. It is not safe for concurrent
// use if a future implementation introduces internal caching state; callers
// must serialize calls.
func (m *Model) Evaluate(in voyage.ShipInput) (voyage.ShipOutput, error) {
	speed := unit.New(in.ShipSpeedMps, unit.MeterPerSecond)

	calmPowerKw := evalPoly(speed.Value(), m.CalmWaterCoeffs)
	if m.DraftReferenceM > 0 {
		calmPowerKw *= in.DraftM / m.DraftReferenceM
	}
	if in.TrimM != 0 {
		calmPowerKw *= 1 + 0.01*math.Abs(in.TrimM)
	}

	windPowerKw := m.windResistancePower(in)
	wavePowerKw := m.WaveCoeff * in.Weather.WaveHgt * in.Weather.WaveHgt

	currentSpeedAlong := in.Weather.CurrSpd * math.Cos(relativeAngleRad(in.HeadingDeg, in.Weather.CurrDir))
	currentPowerKw := m.CurrentCoeff * currentSpeedAlong * math.Abs(currentSpeedAlong)
	if currentPowerKw < 0 {
		// a following current reduces required power, at most cancelling
		// the calm-water term.
		currentPowerKw = math.Max(currentPowerKw, -calmPowerKw)
	}

	totalPowerKw := math.Max(0, calmPowerKw+windPowerKw+wavePowerKw+currentPowerKw)

	power := unit.New(totalPowerKw*1e3, unit.Watt)
	// SpecificFuelConsumption is kg/kWh; one kWh is 3.6e6 J.
	sfc := unit.Div(unit.New(m.SpecificFuelConsumption, unit.Kilogram), unit.New(3.6e6, unit.Joule))
	burn := unit.Mul(power, sfc) // kg/s

	return voyage.ShipOutput{FuelRateKgPerHour: burn.Value() * 3600}, nil
}

// windResistancePower estimates the added power from relative wind using a
// quadratic drag law on the relative wind speed component facing the bow.
func (m *Model) windResistancePower(in voyage.ShipInput) float64 {
	angle := relativeAngleRad(in.HeadingDeg, in.Weather.WindDir)
	headwindComponent := in.Weather.WindSpd * math.Cos(angle)
	if headwindComponent <= 0 {
		return 0
	}
	return m.WindCoeff * headwindComponent * headwindComponent
}

// evalPoly evaluates c0 + c1*x + c2*x^2 + ... via Horner's method.
func evalPoly(x float64, c []float64) float64 {
	if len(c) == 0 {
		return 0
	}
	result := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}

// relativeAngleRad returns the angle in radians between a ship heading and
// a weather direction, both in compass degrees.
func relativeAngleRad(headingDeg, fromDeg float64) float64 {
	diff := math.Mod(fromDeg-headingDeg+180, 360)
	if diff < 0 {
		diff += 360
	}
	diff -= 180
	return diff * math.Pi / 180
}
