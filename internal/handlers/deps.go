package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/recycleme/backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	UserSvc         userService
	PointsSvc       pointsService
	ClassifySvc     classifyService
	LookupSvc       lookupService
	Images          imageUploader
	Firebase        *auth.Client
	MaxImageBytes   int64
}
