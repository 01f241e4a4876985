package models

import (
	"time"
)

const (
	TransactionEarn  = "earn"
	TransactionSpend = "spend"
)

// PointsTransaction is one ledger entry. Entries are append-only: a
// correction is a new offsetting transaction, never an edit.
type PointsTransaction struct {
	ID              string         `firestore:"id" json:"id"`
	UserID          string         `firestore:"userId" json:"userId"`
	Amount          int            `firestore:"amount" json:"amount"` // positive = earn, negative = spend
	TransactionType string         `firestore:"transactionType" json:"transactionType"`
	Description     string         `firestore:"description" json:"description"`
	CreatedAt       time.Time      `firestore:"createdAt" json:"createdAt"`
	Metadata        map[string]any `firestore:"metadata" json:"metadata,omitempty"`
}

// PointsBalance is a view over the ledger: the running total plus the most
// recent transactions, newest first.
type PointsBalance struct {
	UserID             string              `json:"userId"`
	TotalPoints        int                 `json:"totalPoints"`
	RecentTransactions []PointsTransaction `json:"recentTransactions"`
}
