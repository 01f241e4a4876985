package dto

import (
	"github.com/recycleme/backend/internal/models"
)

type ClassifyRequest struct {
	ImageData string `json:"imageData,omitempty"` // base64-encoded image
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Special message types and actions, mirrored by the mobile client.
const (
	MessageTypeBattery = "battery"
	MessageTypeOther   = "other"
	MessageTypePoints  = "points"
	MessageTypeNote    = "note"

	ActionSearchBatteryBins = "search_battery_bins"
	ActionSearchWasteFees   = "search_waste_fees"
	ActionEarnPoints        = "earn_points"
)

type SpecialMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Points  int    `json:"points,omitempty"`
}

type ClassifyResponse struct {
	Result *models.ClassificationResult `json:"result"`
	// PointsEligible is a proposed grant; nothing is credited until the
	// client calls the points earn endpoint.
	PointsEligible      int                `json:"pointsEligible"`
	SpecialMessages     []SpecialMessage   `json:"specialMessages"`
	SecondaryDetections []models.Detection `json:"secondaryDetections,omitempty"`
}

type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
	ClassifyResponse
}
