package model

// All lists every persisted model in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&PaymentTransaction{},
		&ImageGeneration{},
		&CreditLedgerEntry{},
	}
}
