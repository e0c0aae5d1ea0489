// FILE: internal/entity/credit_ledger_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreditEntryKind string

const (
	CreditEntryDebit    CreditEntryKind = "debit"
	CreditEntryRefund   CreditEntryKind = "refund"
	CreditEntryPurchase CreditEntryKind = "purchase"
	CreditEntryGrant    CreditEntryKind = "grant"
)

// CreditLedgerEntry is the audit row written next to every balance change.
// Amount is signed: negative for debits.
type CreditLedgerEntry struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Kind         CreditEntryKind
	Amount       int
	BalanceAfter int
	ReferenceId  *uuid.UUID
	Notes        *string
	CreatedAt    time.Time
}
