package dto

type EarnPointsRequest struct {
	ClassificationID string `json:"classificationId"`
}

type EarnPointsResponse struct {
	PointsEarned  int    `json:"pointsEarned"`
	TransactionID string `json:"transactionId"`
}

type SpendPointsRequest struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

type SpendPointsResponse struct {
	PointsUsed      int    `json:"pointsUsed"`
	RemainingPoints int    `json:"remainingPoints"`
	TransactionID   string `json:"transactionId"`
}

type EnvironmentalImpact struct {
	CO2ReductionGrams float64 `json:"co2ReductionGrams"`
	RecyclableItems   float64 `json:"recyclableItems"`
}

// PointsStats aggregates over the recent-history window, not the lifetime
// ledger; TotalPoints is the only lifetime figure.
type PointsStats struct {
	TotalPoints         int                 `json:"totalPoints"`
	TotalEarned         int                 `json:"totalEarned"`
	TotalSpent          int                 `json:"totalSpent"`
	TransactionCount    int                 `json:"transactionCount"`
	EnvironmentalImpact EnvironmentalImpact `json:"environmentalImpact"`
}
