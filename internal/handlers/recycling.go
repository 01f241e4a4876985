package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recycleme/backend/internal/dto"
	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/response"
)

type classifyService interface {
	Classify(ctx context.Context, req dto.ClassifyRequest) (*dto.ClassifyResponse, error)
	ClassifyImage(ctx context.Context, image []byte) (*dto.ClassifyResponse, error)
}

type lookupService interface {
	BatteryBins(ctx context.Context, address string) []dto.BatteryBinResult
	WasteFees(ctx context.Context, region, item string) []dto.WasteFeeResult
}

type imageUploader interface {
	UploadImage(ctx context.Context, data []byte, contentType string) (string, error)
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type recyclingHandlers struct {
	ResponseHandler response.ResponseHandler
	ClassifySvc     classifyService
	LookupSvc       lookupService
	Images          imageUploader
	MaxImageBytes   int64
}

func NewRecyclingHandlers(deps *Deps) *recyclingHandlers {
	return &recyclingHandlers{
		ResponseHandler: deps.ResponseHandler,
		ClassifySvc:     deps.ClassifySvc,
		LookupSvc:       deps.LookupSvc,
		Images:          deps.Images,
		MaxImageBytes:   deps.MaxImageBytes,
	}
}

func (h *recyclingHandlers) RecyclingRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/classify", h.Classify)
	r.Post("/upload", h.Upload)
	r.Get("/battery-bins", h.SearchBatteryBins)
	r.Get("/waste-fees", h.SearchWasteFees)
	return r
}

func (h *recyclingHandlers) Classify(w http.ResponseWriter, r *http.Request) {
	var req dto.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	resp, err := h.ClassifySvc.Classify(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

// Upload accepts a multipart image, stores it, and classifies it in one
// round trip. The stored URL comes back alongside the classification so the
// client can attach it to the earn request.
func (h *recyclingHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxImageBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("image exceeds the maximum upload size"))
			return
		}
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("multipart field 'image' is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("image exceeds the maximum upload size"))
			return
		}
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("failed to read uploaded image"))
		return
	}

	// Sniffed content type wins over the client-declared one.
	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		h.ResponseHandler.HandleError(w, r,
			errs.NewValidationError("unsupported image type, expected JPEG, PNG or WebP"))
		return
	}
	url, err := h.Images.UploadImage(r.Context(), data, contentType)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	classification, err := h.ClassifySvc.ClassifyImage(r.Context(), data)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.UploadResponse{
		ImageURL:         url,
		ClassifyResponse: *classification,
	})
}

func (h *recyclingHandlers) SearchBatteryBins(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("address query parameter is required"))
		return
	}
	results := h.LookupSvc.BatteryBins(r.Context(), address)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, results)
}

func (h *recyclingHandlers) SearchWasteFees(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	item := r.URL.Query().Get("item")
	if item == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("item query parameter is required"))
		return
	}
	results := h.LookupSvc.WasteFees(r.Context(), region, item)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, results)
}
