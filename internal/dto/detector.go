package dto

// RawDetection is what the detector adapter returns before category policy
// is applied: the model's label verbatim plus confidence and box.
type RawDetection struct {
	Label      string
	Confidence float64
	X1, Y1     float64
	X2, Y2     float64
}
