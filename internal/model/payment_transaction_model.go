package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentTransaction struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index:idx_payment_transactions_user_settled,priority:1"`
	PlanId         string         `gorm:"type:varchar(50);not null"`
	AmountCharged  int64          `gorm:"not null"`
	Currency       string         `gorm:"type:varchar(3);not null"`
	CreditsGranted int            `gorm:"not null"`
	Settled        bool           `gorm:"not null;default:false;index:idx_payment_transactions_user_settled,priority:2"`
	SettledAt      *time.Time
	GatewayOrderId *string        `gorm:"type:varchar(255);uniqueIndex"`
	GatewayPayload datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
