package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/models"
)

// MemoryStore backs local runs and tests with the same contract as the
// Firestore stores. It is selected by explicit configuration, never as a
// silent fallback when the real store is uninitialized.
type MemoryStore struct {
	mu              sync.Mutex
	users           map[string]models.User
	transactions    map[string]models.PointsTransaction
	order           []string // transaction ids, append order
	classifications map[string]models.ClassificationResult
	images          map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:           make(map[string]models.User),
		transactions:    make(map[string]models.PointsTransaction),
		classifications: make(map[string]models.ClassificationResult),
		images:          make(map[string][]byte),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UID]; ok {
		return errs.NewAlreadyExistsError("user already registered")
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.UID] = *user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	return &user, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, uid string, updates map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[uid]
	if !ok {
		return errs.NewNotFoundError("user not found")
	}
	if name, ok := updates["displayName"].(string); ok {
		user.DisplayName = name
	}
	if active, ok := updates["isActive"].(bool); ok {
		user.IsActive = active
	}
	user.UpdatedAt = time.Now()
	s.users[uid] = user
	return nil
}

func (s *MemoryStore) Append(_ context.Context, txn *models.PointsTransaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	user, ok := s.users[txn.UserID]
	if !ok {
		return 0, errs.NewNotFoundError("user not found")
	}
	if _, ok := s.transactions[txn.ID]; ok {
		return 0, errs.NewAlreadyExistsError("transaction already recorded")
	}

	newTotal := user.Points + txn.Amount
	if newTotal < 0 {
		return 0, errs.NewInsufficientBalanceError("insufficient points", user.Points)
	}

	s.transactions[txn.ID] = *txn
	s.order = append(s.order, txn.ID)
	user.Points = newTotal
	user.UpdatedAt = time.Now()
	s.users[txn.UserID] = user
	return newTotal, nil
}

func (s *MemoryStore) RecentByUser(_ context.Context, uid string, limit int) ([]models.PointsTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txns []models.PointsTransaction
	for i := len(s.order) - 1; i >= 0 && len(txns) < limit; i-- {
		txn := s.transactions[s.order[i]]
		if txn.UserID == uid {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

func (s *MemoryStore) SaveClassification(_ context.Context, result *models.ClassificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classifications[result.ImageID]; ok {
		return errs.NewAlreadyExistsError("classification result already saved")
	}
	s.classifications[result.ImageID] = *result
	return nil
}

func (s *MemoryStore) GetClassification(_ context.Context, id string) (*models.ClassificationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.classifications[id]
	if !ok {
		return nil, errs.NewNotFoundError("classification result not found")
	}
	return &result, nil
}

func (s *MemoryStore) UploadImage(_ context.Context, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.images[id] = data
	return fmt.Sprintf("mem://recycling_images/%s", id), nil
}
