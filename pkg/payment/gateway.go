package payment

import (
	"context"
	"errors"
)

type OrderState string

const (
	OrderCreated OrderState = "created"
	OrderPaid    OrderState = "paid"
	OrderFailed  OrderState = "failed"
)

var (
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrOrderNotFound       = errors.New("payment order not found")
	ErrUnsupportedCurrency = errors.New("payment currency not supported by gateway")
)

type OrderRequest struct {
	AmountMinor   int64
	Currency      string
	CorrelationId string
	ItemName      string
	CustomerEmail string
	CustomerName  string
}

type Order struct {
	OrderId     string
	Token       string
	RedirectURL string
	Raw         map[string]interface{}
}

type OrderStatus struct {
	OrderId       string
	CorrelationId string
	State         OrderState
	GatewayStatus string
	GrossAmount   string
}

// Notification is the subset of a gateway callback needed to authenticate it.
type Notification struct {
	OrderId      string
	StatusCode   string
	GrossAmount  string
	SignatureKey string
}

// Gateway is the payment provider contract. CorrelationId on the request is
// echoed back on every status lookup so callers can resolve their own row.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	FetchOrder(ctx context.Context, orderId string) (*OrderStatus, error)
	VerifyNotification(n Notification) bool
}
