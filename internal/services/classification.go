package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/recycleme/backend/internal/dto"
	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/models"
	"github.com/recycleme/backend/pkg/logger"
)

type detectorClient interface {
	Infer(ctx context.Context, endpoint string, image []byte, confidenceThreshold float64) ([]dto.RawDetection, error)
}

type classificationSaveStore interface {
	SaveClassification(ctx context.Context, result *models.ClassificationResult) error
}

type classificationService struct {
	detector detectorClient
	results  classificationSaveStore
	classes  ClassTable

	primaryEndpoint string
	batteryEndpoint string

	confidenceThreshold float64
	pointsPerRecyclable int

	httpClient *http.Client
}

func NewClassificationService(detector detectorClient, results classificationSaveStore, classes ClassTable, primaryEndpoint, batteryEndpoint string, confidenceThreshold float64, pointsPerRecyclable int) *classificationService {
	return &classificationService{
		detector:            detector,
		results:             results,
		classes:             classes,
		primaryEndpoint:     primaryEndpoint,
		batteryEndpoint:     batteryEndpoint,
		confidenceThreshold: confidenceThreshold,
		pointsPerRecyclable: pointsPerRecyclable,
		httpClient:          &http.Client{Timeout: 30 * time.Second},
	}
}

// Classify resolves the request to image bytes and runs the detection
// pipeline. It never touches the ledger; crediting the eligible points is a
// separate explicit call.
func (s *classificationService) Classify(ctx context.Context, req dto.ClassifyRequest) (*dto.ClassifyResponse, error) {
	image, err := s.resolveImage(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.ClassifyImage(ctx, image)
}

// ClassifyImage runs the primary detector, escalates to the battery-tuned
// secondary detector when the primary reports an "other" item, persists the
// result, and derives the advisory messages.
func (s *classificationService) ClassifyImage(ctx context.Context, image []byte) (*dto.ClassifyResponse, error) {
	log := logger.FromContext(ctx)

	raw, err := s.detector.Infer(ctx, s.primaryEndpoint, image, s.confidenceThreshold)
	if err != nil {
		return nil, errs.NewExternalServiceError("detector", "object detection failed", true, err)
	}

	result := &models.ClassificationResult{
		ImageID:    uuid.NewString(),
		Detections: s.mapDetections(ctx, raw),
		CreatedAt:  time.Now(),
	}

	// Two-state pipeline: the battery-tuned model runs only when the
	// primary result contains an unclassifiable item, and its detections
	// supplement the primary list rather than replacing it.
	var secondary []models.Detection
	secondaryFailed := false
	if result.HasOther() && s.batteryEndpoint != "" {
		rawSecondary, err := s.detector.Infer(ctx, s.batteryEndpoint, image, s.confidenceThreshold)
		if err != nil {
			// Optional enrichment; the primary result stands on its own.
			log.Warn("secondary detector failed", "error", err)
			secondaryFailed = true
		} else {
			secondary = s.mapDetections(ctx, rawSecondary)
		}
	}

	if err := s.results.SaveClassification(ctx, result); err != nil {
		return nil, err
	}

	pointsEligible := result.RecyclableCount() * s.pointsPerRecyclable
	log.Info("image classified",
		"image_id", result.ImageID,
		"detections", len(result.Detections),
		"secondary_detections", len(secondary),
		"points_eligible", pointsEligible,
	)

	return &dto.ClassifyResponse{
		Result:              result,
		PointsEligible:      pointsEligible,
		SpecialMessages:     s.specialMessages(result, secondaryFailed),
		SecondaryDetections: secondary,
	}, nil
}

func (s *classificationService) mapDetections(ctx context.Context, raw []dto.RawDetection) []models.Detection {
	log := logger.FromContext(ctx)

	detections := make([]models.Detection, 0, len(raw))
	for _, d := range raw {
		category, ok := s.classes.Resolve(d.Label)
		if !ok {
			// One unrecognized label never fails the classification.
			log.Warn("unknown detector label, using 'other'", "label", d.Label)
		}
		detections = append(detections, models.Detection{
			Category:   category,
			Confidence: d.Confidence,
			Box:        models.DetectionBox{X1: d.X1, Y1: d.Y1, X2: d.X2, Y2: d.Y2},
		})
	}
	return detections
}

// specialMessages is a pure function of the classification outcome.
func (s *classificationService) specialMessages(result *models.ClassificationResult, secondaryFailed bool) []dto.SpecialMessage {
	var messages []dto.SpecialMessage

	if result.HasBattery() {
		messages = append(messages, dto.SpecialMessage{
			Type:    dto.MessageTypeBattery,
			Message: "A battery was detected. Search battery bins with your address to find the nearest collection point.",
			Action:  dto.ActionSearchBatteryBins,
		})
	}

	if result.HasOther() || result.HasBulkyWaste() {
		messages = append(messages, dto.SpecialMessage{
			Type:    dto.MessageTypeOther,
			Message: "Use a standard disposal bag, or look up the disposal fee by region and item for bulky waste.",
			Action:  dto.ActionSearchWasteFees,
		})
	}

	if count := result.RecyclableCount(); count > 0 {
		points := count * s.pointsPerRecyclable
		messages = append(messages, dto.SpecialMessage{
			Type:    dto.MessageTypePoints,
			Message: fmt.Sprintf("%d recyclable item(s) detected. Confirm to earn %d points.", count, points),
			Action:  dto.ActionEarnPoints,
			Points:  points,
		})
	}

	if secondaryFailed {
		messages = append(messages, dto.SpecialMessage{
			Type:    dto.MessageTypeNote,
			Message: "Detailed battery classification was unavailable; showing primary detections only.",
		})
	}

	return messages
}

func (s *classificationService) resolveImage(ctx context.Context, req dto.ClassifyRequest) ([]byte, error) {
	switch {
	case req.ImageData != "":
		image, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			return nil, errs.NewValidationError("imageData is not valid base64")
		}
		return image, nil

	case req.ImageURL != "":
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.ImageURL, nil)
		if err != nil {
			return nil, errs.NewValidationError("imageUrl is not a valid URL")
		}
		resp, err := s.httpClient.Do(httpReq)
		if err != nil {
			return nil, errs.NewExternalServiceError("image_fetch", "failed to fetch image", true, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, errs.NewExternalServiceError("image_fetch",
				fmt.Sprintf("image fetch returned status %d", resp.StatusCode), false, nil)
		}
		image, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errs.NewExternalServiceError("image_fetch", "failed to read image", true, err)
		}
		return image, nil

	default:
		return nil, errs.NewValidationError("either imageData or imageUrl must be provided")
	}
}
