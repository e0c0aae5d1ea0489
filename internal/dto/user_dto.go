package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreditsResponse struct {
	Credits int     `json:"credits"`
	User    UserDTO `json:"user"`
}

type TransactionResponse struct {
	Id             uuid.UUID  `json:"id"`
	PlanId         string     `json:"plan"`
	Amount         string     `json:"amount"`
	Currency       string     `json:"currency"`
	CreditsGranted int        `json:"credits"`
	Settled        bool       `json:"payment"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type StatsResponse struct {
	Credits         int   `json:"credits"`
	ImagesGenerated int64 `json:"images_generated"`
	TotalPurchases  int64 `json:"total_purchases"`
}

type LedgerEntryResponse struct {
	Id           uuid.UUID  `json:"id"`
	Kind         string     `json:"kind"`
	Amount       int        `json:"amount"`
	BalanceAfter int        `json:"balance_after"`
	ReferenceId  *uuid.UUID `json:"reference_id,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
