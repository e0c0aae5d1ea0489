// FILE: internal/entity/payment_transaction_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentTransaction is a plan purchase. Settled flips false->true once,
// together with crediting CreditsGranted to the owner.
type PaymentTransaction struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	PlanId         PlanId
	AmountCharged  int64 // minor units
	Currency       string
	CreditsGranted int
	Settled        bool
	SettledAt      *time.Time
	GatewayOrderId string
	GatewayPayload []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
