// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User is the account that owns a credit balance.
// CreditBalance is only ever changed through the credit ledger.
type User struct {
	Id            uuid.UUID
	Email         string
	PasswordHash  *string
	FullName      string
	Role          UserRole
	CreditBalance int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserStats struct {
	CreditBalance   int
	ImagesGenerated int64
	TotalPurchases  int64
}
