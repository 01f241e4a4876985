package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/recycleme/backend/internal/dto"
	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/middleware"
	"github.com/recycleme/backend/internal/models"
	"github.com/recycleme/backend/internal/response"
)

type pointsService interface {
	Grant(ctx context.Context, userID, classificationID string) (int, string, error)
	Spend(ctx context.Context, userID string, amount int, description string) (int, string, error)
	Balance(ctx context.Context, userID string) (*models.PointsBalance, error)
	History(ctx context.Context, userID string, limit int) ([]models.PointsTransaction, error)
	Stats(ctx context.Context, userID string) (*dto.PointsStats, error)
}

type pointsHandlers struct {
	ResponseHandler response.ResponseHandler
	PointsSvc       pointsService
}

func NewPointsHandlers(deps *Deps) *pointsHandlers {
	return &pointsHandlers{
		ResponseHandler: deps.ResponseHandler,
		PointsSvc:       deps.PointsSvc,
	}
}

func (h *pointsHandlers) PointsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/earn", h.EarnPoints)
	r.Post("/use", h.SpendPoints)
	r.Get("/balance", h.GetBalance)
	r.Get("/history", h.GetHistory)
	r.Get("/stats", h.GetStats)
	return r
}

func (h *pointsHandlers) EarnPoints(w http.ResponseWriter, r *http.Request) {
	var req dto.EarnPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	amount, txID, err := h.PointsSvc.Grant(r.Context(), uid, req.ClassificationID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.EarnPointsResponse{
		PointsEarned:  amount,
		TransactionID: txID,
	})
}

func (h *pointsHandlers) SpendPoints(w http.ResponseWriter, r *http.Request) {
	var req dto.SpendPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	remaining, txID, err := h.PointsSvc.Spend(r.Context(), uid, req.Amount, req.Description)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.SpendPointsResponse{
		PointsUsed:      req.Amount,
		RemainingPoints: remaining,
		TransactionID:   txID,
	})
}

func (h *pointsHandlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	balance, err := h.PointsSvc.Balance(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, balance)
}

func (h *pointsHandlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("limit must be an integer"))
			return
		}
		limit = parsed
	}

	uid := middleware.UID(r.Context())
	txns, err := h.PointsSvc.History(r.Context(), uid, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txns)
}

func (h *pointsHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	stats, err := h.PointsSvc.Stats(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}
