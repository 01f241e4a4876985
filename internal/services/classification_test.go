package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/recycleme/backend/internal/dto"
	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/models"
	"github.com/recycleme/backend/pkg/helpers"
)

type stubDetector struct {
	byEndpoint map[string][]dto.RawDetection
	errs       map[string]error
	calls      []string
}

func (s *stubDetector) Infer(_ context.Context, endpoint string, _ []byte, _ float64) ([]dto.RawDetection, error) {
	s.calls = append(s.calls, endpoint)
	if err := s.errs[endpoint]; err != nil {
		return nil, err
	}
	return s.byEndpoint[endpoint], nil
}

type stubResultStore struct {
	saved *models.ClassificationResult
	err   error
}

func (s *stubResultStore) SaveClassification(_ context.Context, result *models.ClassificationResult) error {
	if s.err != nil {
		return s.err
	}
	s.saved = result
	return nil
}

func newTestClassifier(detector *stubDetector, store *stubResultStore) *classificationService {
	return NewClassificationService(detector, store, DefaultClassTable(), "primary", "battery", 0.4, 10)
}

func TestClassifyImageCreditsRecyclablesAndFlagsBattery(t *testing.T) {
	detector := &stubDetector{
		byEndpoint: map[string][]dto.RawDetection{
			"primary": {
				{Label: "paper", Confidence: 0.9},
				{Label: "plastic", Confidence: 0.8},
				{Label: "battery", Confidence: 0.95},
			},
		},
	}
	store := &stubResultStore{}
	svc := newTestClassifier(detector, store)

	resp, err := svc.ClassifyImage(helpers.TestCtx(), []byte("img"))
	if err != nil {
		t.Fatalf("ClassifyImage returned error: %v", err)
	}

	if resp.PointsEligible != 20 {
		t.Fatalf("pointsEligible = %d, want 20", resp.PointsEligible)
	}
	if store.saved == nil || store.saved.ImageID != resp.Result.ImageID {
		t.Fatalf("classification result not persisted")
	}
	if len(detector.calls) != 1 {
		t.Fatalf("secondary detector invoked without an 'other' detection: %v", detector.calls)
	}

	var battery, points bool
	for _, m := range resp.SpecialMessages {
		switch m.Type {
		case dto.MessageTypeBattery:
			battery = true
			if m.Action != dto.ActionSearchBatteryBins {
				t.Fatalf("battery message action = %q", m.Action)
			}
		case dto.MessageTypePoints:
			points = true
			if m.Points != 20 {
				t.Fatalf("points message amount = %d, want 20", m.Points)
			}
		case dto.MessageTypeOther:
			t.Fatalf("unexpected disposal-fee message: %+v", m)
		}
	}
	if !battery || !points {
		t.Fatalf("missing expected messages: %+v", resp.SpecialMessages)
	}
}

func TestClassifyImageEscalatesOnOther(t *testing.T) {
	detector := &stubDetector{
		byEndpoint: map[string][]dto.RawDetection{
			"primary": {{Label: "other", Confidence: 0.7}},
			"battery": {{Label: "battery", Confidence: 0.85}},
		},
	}
	store := &stubResultStore{}
	svc := newTestClassifier(detector, store)

	resp, err := svc.ClassifyImage(helpers.TestCtx(), []byte("img"))
	if err != nil {
		t.Fatalf("ClassifyImage returned error: %v", err)
	}

	if len(detector.calls) != 2 || detector.calls[1] != "battery" {
		t.Fatalf("detector calls = %v, want primary then battery", detector.calls)
	}
	if len(resp.SecondaryDetections) != 1 || resp.SecondaryDetections[0].Category != models.CategoryBattery {
		t.Fatalf("unexpected secondary detections: %+v", resp.SecondaryDetections)
	}
	// Primary detections are never replaced by the secondary pass.
	if len(resp.Result.Detections) != 1 || resp.Result.Detections[0].Category != models.CategoryOther {
		t.Fatalf("primary result altered: %+v", resp.Result.Detections)
	}
}

func TestClassifyImageUnknownLabelFallsBackToOther(t *testing.T) {
	detector := &stubDetector{
		byEndpoint: map[string][]dto.RawDetection{
			"primary": {{Label: "mystery_object", Confidence: 0.6}},
			"battery": {},
		},
	}
	svc := newTestClassifier(detector, &stubResultStore{})

	resp, err := svc.ClassifyImage(helpers.TestCtx(), []byte("img"))
	if err != nil {
		t.Fatalf("ClassifyImage returned error: %v", err)
	}
	if resp.Result.Detections[0].Category != models.CategoryOther {
		t.Fatalf("unknown label mapped to %q, want other", resp.Result.Detections[0].Category)
	}
	// An 'other' fallback still triggers the secondary pass.
	if len(detector.calls) != 2 {
		t.Fatalf("detector calls = %v, want escalation", detector.calls)
	}
}

func TestClassifyImageSecondaryFailureIsNonFatal(t *testing.T) {
	detector := &stubDetector{
		byEndpoint: map[string][]dto.RawDetection{
			"primary": {{Label: "other", Confidence: 0.7}},
		},
		errs: map[string]error{"battery": errors.New("endpoint unavailable")},
	}
	store := &stubResultStore{}
	svc := newTestClassifier(detector, store)

	resp, err := svc.ClassifyImage(helpers.TestCtx(), []byte("img"))
	if err != nil {
		t.Fatalf("secondary failure should not fail the request: %v", err)
	}
	if store.saved == nil {
		t.Fatalf("primary result not persisted after secondary failure")
	}

	var note bool
	for _, m := range resp.SpecialMessages {
		if m.Type == dto.MessageTypeNote {
			note = true
		}
	}
	if !note {
		t.Fatalf("missing degraded-classification note: %+v", resp.SpecialMessages)
	}
}

func TestClassifyImagePrimaryFailure(t *testing.T) {
	detector := &stubDetector{errs: map[string]error{"primary": errors.New("deadline exceeded")}}
	svc := newTestClassifier(detector, &stubResultStore{})

	_, err := svc.ClassifyImage(helpers.TestCtx(), []byte("img"))
	var external *errs.ExternalServiceError
	if !errors.As(err, &external) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if external.Service != "detector" || !external.Transient {
		t.Fatalf("unexpected error details: %+v", external)
	}
}

func TestClassifyImageSaveFailure(t *testing.T) {
	detector := &stubDetector{
		byEndpoint: map[string][]dto.RawDetection{
			"primary": {{Label: "paper", Confidence: 0.9}},
		},
	}
	store := &stubResultStore{err: errs.NewDatabaseError("create", "write failed", errors.New("unavailable"))}
	svc := newTestClassifier(detector, store)

	_, err := svc.ClassifyImage(helpers.TestCtx(), []byte("img"))
	var database *errs.DatabaseError
	if !errors.As(err, &database) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
}

func TestClassifyDecodesBase64Payload(t *testing.T) {
	detector := &stubDetector{
		byEndpoint: map[string][]dto.RawDetection{
			"primary": {{Label: "glass", Confidence: 0.8}},
		},
	}
	svc := newTestClassifier(detector, &stubResultStore{})

	req := dto.ClassifyRequest{ImageData: base64.StdEncoding.EncodeToString([]byte("img"))}
	resp, err := svc.Classify(helpers.TestCtx(), req)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if resp.PointsEligible != 10 {
		t.Fatalf("pointsEligible = %d, want 10", resp.PointsEligible)
	}
}

func TestClassifyRejectsBadInput(t *testing.T) {
	svc := newTestClassifier(&stubDetector{}, &stubResultStore{})

	for _, req := range []dto.ClassifyRequest{
		{},
		{ImageData: "not-base64!!"},
	} {
		_, err := svc.Classify(helpers.TestCtx(), req)
		var validation *errs.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("Classify(%+v): expected ValidationError, got %v", req, err)
		}
	}
}

func TestClassTableResolvesNamesAndIndices(t *testing.T) {
	table := DefaultClassTable()

	for _, tc := range []struct {
		label string
		want  models.RecyclingCategory
	}{
		{"paper", models.CategoryPaper},
		{"0", models.CategoryPaper},
		{"battery", models.CategoryBattery},
		{"6", models.CategoryBattery},
	} {
		got, ok := table.Resolve(tc.label)
		if !ok || got != tc.want {
			t.Fatalf("Resolve(%q) = %q/%v, want %q", tc.label, got, ok, tc.want)
		}
	}

	got, ok := table.Resolve("unheard_of")
	if ok || got != models.CategoryOther {
		t.Fatalf("Resolve fallback = %q/%v, want other/false", got, ok)
	}
}
