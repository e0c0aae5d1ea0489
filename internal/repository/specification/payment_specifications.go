package specification

import "gorm.io/gorm"

// SettledOnly keeps purchases that were credited.
type SettledOnly struct{}

func (s SettledOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("settled = ?", true)
}

type ByGatewayOrderID struct {
	OrderID string
}

func (s ByGatewayOrderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("gateway_order_id = ?", s.OrderID)
}
