// Package catalog holds the fixed set of purchasable credit plans.
package catalog

import "ai-imagegen-be/internal/entity"

var plans = [...]entity.Plan{
	{Id: entity.PlanBasic, Price: 10, CreditsGranted: 100},
	{Id: entity.PlanAdvanced, Price: 50, CreditsGranted: 500},
	{Id: entity.PlanBusiness, Price: 250, CreditsGranted: 5000},
}

// Lookup returns the plan for id. Unknown ids, including case variants, miss.
func Lookup(id entity.PlanId) (entity.Plan, bool) {
	for _, p := range plans {
		if p.Id == id {
			return p, true
		}
	}
	return entity.Plan{}, false
}

// All returns the plans in display order. The slice is a copy.
func All() []entity.Plan {
	out := make([]entity.Plan, len(plans))
	copy(out, plans[:])
	return out
}
