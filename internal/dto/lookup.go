package dto

// BatteryBinResult is one ranked match. When Message is set it is instead a
// single informational "no match" row. A miss is a result, not an error.
type BatteryBinResult struct {
	Address      string  `json:"address,omitempty"`
	Location     string  `json:"location,omitempty"`
	OpeningHours string  `json:"openingHours,omitempty"`
	Contact      string  `json:"contact,omitempty"`
	Score        float64 `json:"score,omitempty"`
	Message      string  `json:"message,omitempty"`
}

type WasteFeeResult struct {
	Region        string `json:"region,omitempty"`
	Item          string `json:"item,omitempty"`
	Specification string `json:"specification,omitempty"`
	Fee           string `json:"fee,omitempty"`
	Message       string `json:"message,omitempty"`
}
