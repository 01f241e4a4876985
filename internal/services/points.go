package services

import (
	"context"
	"fmt"

	"github.com/recycleme/backend/internal/dto"
	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/models"
	"github.com/recycleme/backend/pkg/logger"
)

type pointsLedgerStore interface {
	Append(ctx context.Context, txn *models.PointsTransaction) (int, error)
	RecentByUser(ctx context.Context, uid string, limit int) ([]models.PointsTransaction, error)
}

type pointsUserStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type pointsClassificationStore interface {
	GetClassification(ctx context.Context, id string) (*models.ClassificationResult, error)
}

const maxHistoryLimit = 100

type pointsService struct {
	ledger          pointsLedgerStore
	users           pointsUserStore
	classifications pointsClassificationStore

	pointsPerRecyclable int
	historyLimit        int
}

func NewPointsService(ledger pointsLedgerStore, users pointsUserStore, classifications pointsClassificationStore, pointsPerRecyclable, historyLimit int) *pointsService {
	return &pointsService{
		ledger:              ledger,
		users:               users,
		classifications:     classifications,
		pointsPerRecyclable: pointsPerRecyclable,
		historyLimit:        historyLimit,
	}
}

// Grant credits recyclableCount * pointsPerRecyclable for one classification.
// The earn transaction id is derived from the classification id, so a repeat
// grant for the same classification fails with AlreadyExistsError instead of
// double-crediting.
func (s *pointsService) Grant(ctx context.Context, userID, classificationID string) (int, string, error) {
	log := logger.FromContext(ctx)

	if userID == "" || classificationID == "" {
		return 0, "", errs.NewValidationError("userId and classificationId are required")
	}

	result, err := s.classifications.GetClassification(ctx, classificationID)
	if err != nil {
		return 0, "", err
	}

	recyclableCount := result.RecyclableCount()
	amount := recyclableCount * s.pointsPerRecyclable
	if amount == 0 {
		// Expected steady state for images with nothing creditable.
		log.Info("no eligible items in classification", "classification_id", classificationID)
		return 0, "", errs.NewNoEligibleItemsError()
	}

	txn := &models.PointsTransaction{
		ID:              "earn-" + classificationID,
		UserID:          userID,
		Amount:          amount,
		TransactionType: models.TransactionEarn,
		Description:     fmt.Sprintf("recycling credit for classification %s", classificationID),
		Metadata: map[string]any{
			"classification_id": classificationID,
			"recyclable_count":  recyclableCount,
		},
	}

	if _, err := s.ledger.Append(ctx, txn); err != nil {
		return 0, "", err
	}

	log.Info("points granted", "amount", amount, "recyclable_count", recyclableCount, "classification_id", classificationID)
	return amount, txn.ID, nil
}

// Spend debits the balance; it fails with InsufficientBalanceError and no
// ledger effect when the balance cannot cover the amount.
func (s *pointsService) Spend(ctx context.Context, userID string, amount int, description string) (int, string, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return 0, "", errs.NewValidationError("userId is required")
	}
	if amount <= 0 {
		return 0, "", errs.NewValidationError("amount must be positive")
	}
	if description == "" {
		return 0, "", errs.NewValidationError("description is required")
	}

	txn := &models.PointsTransaction{
		UserID:          userID,
		Amount:          -amount,
		TransactionType: models.TransactionSpend,
		Description:     description,
	}

	remaining, err := s.ledger.Append(ctx, txn)
	if err != nil {
		return 0, "", err
	}

	log.Info("points spent", "amount", amount, "remaining", remaining)
	return remaining, txn.ID, nil
}

func (s *pointsService) Balance(ctx context.Context, userID string) (*models.PointsBalance, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	txns, err := s.ledger.RecentByUser(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &models.PointsBalance{
		UserID:             userID,
		TotalPoints:        user.Points,
		RecentTransactions: txns,
	}, nil
}

func (s *pointsService) History(ctx context.Context, userID string, limit int) ([]models.PointsTransaction, error) {
	if limit < 1 {
		limit = s.historyLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.ledger.RecentByUser(ctx, userID, limit)
}

// Stats aggregates earned/spent over the recent-history window (the
// configured history limit), not the lifetime ledger; only TotalPoints is a
// lifetime figure. Widen HISTORYLIMIT to widen the window.
func (s *pointsService) Stats(ctx context.Context, userID string) (*dto.PointsStats, error) {
	balance, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalEarned, totalSpent := 0, 0
	for _, txn := range balance.RecentTransactions {
		switch txn.TransactionType {
		case models.TransactionEarn:
			totalEarned += txn.Amount
		case models.TransactionSpend:
			totalSpent += -txn.Amount
		}
	}

	// One credited recyclable item stands in for 100g of avoided CO2; a
	// policy constant, not science.
	recyclableItems := float64(totalEarned) / float64(s.pointsPerRecyclable)

	return &dto.PointsStats{
		TotalPoints:      balance.TotalPoints,
		TotalEarned:      totalEarned,
		TotalSpent:       totalSpent,
		TransactionCount: len(balance.RecentTransactions),
		EnvironmentalImpact: dto.EnvironmentalImpact{
			CO2ReductionGrams: recyclableItems * 100,
			RecyclableItems:   recyclableItems,
		},
	}, nil
}
