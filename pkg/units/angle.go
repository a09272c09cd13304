package units

import "math"

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// ToDegrees converts radians to degrees.
func ToDegrees(radians float64) float64 {
	return radians * (180 / math.Pi)
}

// ConvertWindAngle renders a wind angle as signed degrees without a side
// qualifier. Unlike the AWA arm of Convert, a missing angle renders as 0°.
func ConvertWindAngle(radians float64) Result {
	if IsMissing(radians) {
		return Result{Value: "0", Unit: "°", UnitSpace: ""}
	}
	return Result{Value: formatRaw(ToDegrees(radians)), Unit: "°", UnitSpace: ""}
}
