// FILE: internal/entity/plan_entity.go
package entity

type PlanId string

const (
	PlanBasic    PlanId = "Basic"
	PlanAdvanced PlanId = "Advanced"
	PlanBusiness PlanId = "Business"
)

// Plan is a static catalog entry. Price is in major currency units.
type Plan struct {
	Id             PlanId
	Price          int64
	CreditsGranted int
}

// MinorUnits converts the price for the gateway (e.g. rupees to paise).
func (p Plan) MinorUnits() int64 {
	return p.Price * 100
}
