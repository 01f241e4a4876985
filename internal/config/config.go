package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type StoreKind string

const (
	StoreFirestore StoreKind = "firestore"
	StoreMemory    StoreKind = "memory"
)

type Config struct {
	ProjectID string
	Region    string
	LogLevel  string

	// Store selects the ledger backend explicitly; there is no implicit
	// fallback when Firestore is unreachable.
	Store StoreKind

	StorageBucket string

	// Vertex AI endpoint resource names for the primary detector and the
	// battery-tuned secondary detector.
	DetectorEndpoint        string
	BatteryDetectorEndpoint string
	ConfidenceThreshold     float64

	PointsPerRecyclable int
	HistoryLimit        int

	MatchCutoff    float64
	BatteryBinsCSV string
	WasteFeesCSV   string
	ClassNamesPath string

	MaxImageBytes int64
}

func New() *Config {
	// Local runs keep settings in a .env file; deployed revisions get real
	// env vars and the load is a no-op.
	_ = godotenv.Load()

	return &Config{
		ProjectID:               os.Getenv("PROJECTID"),
		Region:                  os.Getenv("REGION"),
		LogLevel:                os.Getenv("LOGLEVEL"),
		Store:                   getStoreKind(os.Getenv("STORE")),
		StorageBucket:           os.Getenv("STORAGEBUCKET"),
		DetectorEndpoint:        os.Getenv("DETECTORENDPOINT"),
		BatteryDetectorEndpoint: os.Getenv("BATTERYDETECTORENDPOINT"),
		ConfidenceThreshold:     getFloat("CONFIDENCETHRESHOLD", 0.4),
		PointsPerRecyclable:     getInt("POINTSPERRECYCLABLE", 10),
		HistoryLimit:            getInt("HISTORYLIMIT", 10),
		MatchCutoff:             getFloat("MATCHCUTOFF", 0.3),
		BatteryBinsCSV:          getString("BATTERYBINSCSV", "data/battery_bins.csv"),
		WasteFeesCSV:            getString("WASTEFEESCSV", "data/waste_fees.csv"),
		ClassNamesPath:          os.Getenv("CLASSNAMESPATH"),
		MaxImageBytes:           10 << 20,
	}
}

func getStoreKind(v string) StoreKind {
	if v == string(StoreMemory) {
		return StoreMemory
	}
	return StoreFirestore
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
