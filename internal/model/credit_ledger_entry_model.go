package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditLedgerEntry struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind         string     `gorm:"type:varchar(20);not null;index"`
	Amount       int        `gorm:"not null"`
	BalanceAfter int        `gorm:"not null"`
	ReferenceId  *uuid.UUID `gorm:"type:uuid;index"`
	Notes        *string    `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"default:now();not null"`
}

func (CreditLedgerEntry) TableName() string {
	return "credit_ledger_entries"
}
