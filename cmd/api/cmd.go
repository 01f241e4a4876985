package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/recycleme/backend/internal/bootstrap"
	"github.com/recycleme/backend/internal/config"
	"github.com/recycleme/backend/internal/handlers"
	"github.com/recycleme/backend/internal/refdata"
	"github.com/recycleme/backend/internal/response"
	"github.com/recycleme/backend/internal/router"
	"github.com/recycleme/backend/internal/services"
	"github.com/recycleme/backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	if bs.Detector == nil {
		exitOnError("configuration invalid", errors.New("DETECTORENDPOINT is required"), bs.Log)
	}

	// reference tables; a missing file disables that lookup but not the server
	bins, err := refdata.LoadBatteryBins(cfg.BatteryBinsCSV)
	if err != nil {
		bs.Log.Warn("battery bin table unavailable", "path", cfg.BatteryBinsCSV, "error", err)
		bins = nil
	}
	fees, err := refdata.LoadWasteFees(cfg.WasteFeesCSV)
	if err != nil {
		bs.Log.Warn("waste fee table unavailable", "path", cfg.WasteFeesCSV, "error", err)
		fees = nil
	}

	classes := services.DefaultClassTable()
	if cfg.ClassNamesPath != "" {
		classes, err = services.LoadClassTable(cfg.ClassNamesPath)
		exitOnError("class names file unreadable", err, bs.Log)
	}

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.MaxImageBytes = cfg.MaxImageBytes
	deps.LookupSvc = services.NewLookupService(bins, fees, cfg.MatchCutoff)

	// stores and the services over them
	switch cfg.Store {
	case config.StoreMemory:
		bs.Log.Warn("using in-memory store; all data is lost on restart")
		mem := store.NewMemoryStore()
		deps.UserSvc = services.NewUserService(mem)
		deps.PointsSvc = services.NewPointsService(mem, mem, mem, cfg.PointsPerRecyclable, cfg.HistoryLimit)
		deps.ClassifySvc = services.NewClassificationService(bs.Detector, mem, classes,
			cfg.DetectorEndpoint, cfg.BatteryDetectorEndpoint, cfg.ConfidenceThreshold, cfg.PointsPerRecyclable)
		deps.Images = mem

	default:
		ustore := store.NewUserStore(bs.Firestore)
		pstore := store.NewPointsStore(bs.Firestore)
		cstore := store.NewClassificationStore(bs.Firestore)
		deps.UserSvc = services.NewUserService(ustore)
		deps.PointsSvc = services.NewPointsService(pstore, ustore, cstore, cfg.PointsPerRecyclable, cfg.HistoryLimit)
		deps.ClassifySvc = services.NewClassificationService(bs.Detector, cstore, classes,
			cfg.DetectorEndpoint, cfg.BatteryDetectorEndpoint, cfg.ConfidenceThreshold, cfg.PointsPerRecyclable)
		deps.Images = store.NewImageStore(bs.Storage, cfg.StorageBucket)
	}

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("server listening", "addr", ":8080", "store", string(cfg.Store))
	err = http.ListenAndServe(":8080", r)
	exitOnError("server start failed", err, bs.Log)
}
