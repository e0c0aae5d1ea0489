package dto

import "github.com/google/uuid"

// PurchaseReceiptMessage is queued after a payment is credited.
type PurchaseReceiptMessage struct {
	TransactionId  uuid.UUID `json:"transaction_id"`
	UserId         uuid.UUID `json:"user_id"`
	PlanId         string    `json:"plan_id"`
	CreditsGranted int       `json:"credits_granted"`
	AmountMinor    int64     `json:"amount_minor"`
	Currency       string    `json:"currency"`
	NewBalance     int       `json:"new_balance"`
}
