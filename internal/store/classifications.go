package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/models"
)

type classificationStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewClassificationStore(client *firestore.Client) *classificationStore {
	return &classificationStore{
		client:     client,
		collection: client.Collection("classification_results"),
	}
}

func (s *classificationStore) SaveClassification(ctx context.Context, result *models.ClassificationResult) error {
	_, err := s.collection.Doc(result.ImageID).Create(ctx, result)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save classification result", err)
	}
	return nil
}

func (s *classificationStore) GetClassification(ctx context.Context, id string) (*models.ClassificationResult, error) {
	doc, err := s.collection.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("classification result not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get classification result", err)
	}

	var result models.ClassificationResult
	if err := doc.DataTo(&result); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse classification result", err)
	}
	return &result, nil
}
