package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlanResponse struct {
	Id       string `json:"id"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Credits  int    `json:"credits"`
}

type CreateOrderRequest struct {
	PlanId string `json:"planId" validate:"required"`
}

type OrderResponse struct {
	TransactionId uuid.UUID `json:"transaction_id"`
	OrderId       string    `json:"order_id"`
	Token         string    `json:"token"`
	RedirectURL   string    `json:"redirect_url"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Plan          string    `json:"plan"`
	Credits       int       `json:"credits"`
}

type VerifyPaymentRequest struct {
	OrderId string `json:"order_id" validate:"required,max=255"`
}

type SettlementResponse struct {
	Credits        int  `json:"credits"`
	Credited       bool `json:"credited"`
	AlreadySettled bool `json:"already_settled"`
}

// MidtransWebhookRequest is the notification body Midtrans posts.
type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

// FormatMinor renders an amount in minor units with two decimals, e.g. 1000 -> "10.00".
func FormatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// FormatMajor renders a whole-unit price with two decimals.
func FormatMajor(major int64) string {
	return decimal.NewFromInt(major).StringFixed(2)
}
