package mapper

import (
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/model"

	"gorm.io/datatypes"
)

type PaymentTransactionMapper struct{}

func NewPaymentTransactionMapper() *PaymentTransactionMapper {
	return &PaymentTransactionMapper{}
}

func (m *PaymentTransactionMapper) ToEntity(t *model.PaymentTransaction) *entity.PaymentTransaction {
	if t == nil {
		return nil
	}
	e := &entity.PaymentTransaction{
		Id:             t.Id,
		UserId:         t.UserId,
		PlanId:         entity.PlanId(t.PlanId),
		AmountCharged:  t.AmountCharged,
		Currency:       t.Currency,
		CreditsGranted: t.CreditsGranted,
		Settled:        t.Settled,
		SettledAt:      t.SettledAt,
		GatewayPayload: []byte(t.GatewayPayload),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.GatewayOrderId != nil {
		e.GatewayOrderId = *t.GatewayOrderId
	}
	return e
}

func (m *PaymentTransactionMapper) ToModel(t *entity.PaymentTransaction) *model.PaymentTransaction {
	if t == nil {
		return nil
	}
	res := &model.PaymentTransaction{
		Id:             t.Id,
		UserId:         t.UserId,
		PlanId:         string(t.PlanId),
		AmountCharged:  t.AmountCharged,
		Currency:       t.Currency,
		CreditsGranted: t.CreditsGranted,
		Settled:        t.Settled,
		SettledAt:      t.SettledAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.GatewayOrderId != "" {
		orderId := t.GatewayOrderId
		res.GatewayOrderId = &orderId
	}
	if len(t.GatewayPayload) > 0 {
		res.GatewayPayload = datatypes.JSON(t.GatewayPayload)
	}
	return res
}

func (m *PaymentTransactionMapper) ToEntities(ts []*model.PaymentTransaction) []*entity.PaymentTransaction {
	res := make([]*entity.PaymentTransaction, 0, len(ts))
	for _, t := range ts {
		res = append(res, m.ToEntity(t))
	}
	return res
}
