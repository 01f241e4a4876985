package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"

	vertexclient "github.com/recycleme/backend/internal/client/vertex"
	"github.com/recycleme/backend/internal/config"
	"github.com/recycleme/backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Storage   *storage.Client
	Detector  *vertexclient.Adapter
}

// Run initializes the shared clients. In the in-memory store mode only the
// logger and detector come up; Firestore, Firebase and Cloud Storage stay
// nil, which local development tolerates and the wiring in cmd respects.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	if cfg.Store == config.StoreFirestore {
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		bs.Firebase, err = InitFirebase(applicationCtx)
		if err != nil {
			return bs, err
		}
		bs.Storage, err = storage.NewClient(applicationCtx)
		if err != nil {
			return bs, err
		}
	}

	if cfg.DetectorEndpoint != "" {
		bs.Detector, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.Region)
		if err != nil {
			return bs, err
		}
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Detector != nil {
		if err := bs.Detector.Close(); err != nil {
			bs.Log.Warn("failed to close detector client", "error", err)
		}
	}
	if bs.Storage != nil {
		if err := bs.Storage.Close(); err != nil {
			bs.Log.Warn("failed to close storage client", "error", err)
		}
	}
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("failed to close firestore client", "error", err)
		}
	}
}
