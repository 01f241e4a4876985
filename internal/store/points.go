package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/models"
)

type pointsStore struct {
	client *firestore.Client
}

func NewPointsStore(client *firestore.Client) *pointsStore {
	return &pointsStore{client: client}
}

func (s *pointsStore) txCollection() *firestore.CollectionRef {
	return s.client.Collection("points_transactions")
}

// Append writes one ledger entry and moves the user's points counter in a
// single Firestore transaction, so the counter always equals the sum of
// recorded amounts. A negative entry that would drive the counter below
// zero fails with InsufficientBalanceError and leaves everything untouched.
// If the transaction carries a pre-set ID, a second append with the same ID
// fails with AlreadyExistsError; grant idempotency rides on that.
func (s *pointsStore) Append(ctx context.Context, txn *models.PointsTransaction) (int, error) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	userRef := s.client.Collection("users").Doc(txn.UserID)
	txnRef := s.txCollection().Doc(txn.ID)

	var newTotal int
	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		snap, err := t.Get(userRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("user not found")
			}
			return err
		}

		var user models.User
		if err := snap.DataTo(&user); err != nil {
			return err
		}

		newTotal = user.Points + txn.Amount
		if newTotal < 0 {
			return errs.NewInsufficientBalanceError("insufficient points", user.Points)
		}

		if err := t.Create(txnRef, txn); err != nil {
			return err
		}
		return t.Update(userRef, []firestore.Update{
			{Path: "points", Value: newTotal},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		switch err.(type) {
		case *errs.NotFoundError, *errs.InsufficientBalanceError:
			return 0, err
		}
		if status.Code(err) == codes.AlreadyExists {
			return 0, errs.NewAlreadyExistsError("transaction already recorded")
		}
		return 0, errs.NewDatabaseError("append", "failed to append points transaction", err)
	}

	return newTotal, nil
}

// RecentByUser returns the user's latest transactions, newest first.
func (s *pointsStore) RecentByUser(ctx context.Context, uid string, limit int) ([]models.PointsTransaction, error) {
	docs, err := s.txCollection().
		Where("userId", "==", uid).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to query points transactions", err)
	}

	txns := make([]models.PointsTransaction, 0, len(docs))
	for _, d := range docs {
		var txn models.PointsTransaction
		if err := d.DataTo(&txn); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse points transaction", err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
