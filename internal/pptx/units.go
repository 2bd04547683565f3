// Package pptx provides an in-memory model of OOXML presentation packages
// sufficient to locate shapes on a slide and rewrite their text and fills.
package pptx

import "math"

// EMU is a DrawingML length in English Metric Units.
// 1 inch = 914400 EMU, 1 point = 12700 EMU.
type EMU int64

const (
	// EMUPerInch is the number of EMUs in one inch.
	EMUPerInch EMU = 914400
	// EMUPerPoint is the number of EMUs in one typographic point.
	EMUPerPoint EMU = 12700
)

// Inches converts a length in inches to EMU.
func Inches(v float64) EMU {
	return EMU(math.Round(v * float64(EMUPerInch)))
}

// Points converts a length in points to EMU.
func Points(v float64) EMU {
	return EMU(math.Round(v * float64(EMUPerPoint)))
}

// Inches reports the length in inches.
func (e EMU) Inches() float64 {
	return float64(e) / float64(EMUPerInch)
}

// centipoints converts points to the 1/100 pt unit used by sz and spcPts.
func centipoints(pt float64) int {
	return int(math.Round(pt * 100))
}
