package mapper

import (
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/model"
)

type CreditLedgerMapper struct{}

func NewCreditLedgerMapper() *CreditLedgerMapper {
	return &CreditLedgerMapper{}
}

func (m *CreditLedgerMapper) ToEntity(e *model.CreditLedgerEntry) *entity.CreditLedgerEntry {
	if e == nil {
		return nil
	}
	return &entity.CreditLedgerEntry{
		Id:           e.Id,
		UserId:       e.UserId,
		Kind:         entity.CreditEntryKind(e.Kind),
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		ReferenceId:  e.ReferenceId,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *CreditLedgerMapper) ToModel(e *entity.CreditLedgerEntry) *model.CreditLedgerEntry {
	if e == nil {
		return nil
	}
	return &model.CreditLedgerEntry{
		Id:           e.Id,
		UserId:       e.UserId,
		Kind:         string(e.Kind),
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		ReferenceId:  e.ReferenceId,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *CreditLedgerMapper) ToEntities(es []*model.CreditLedgerEntry) []*entity.CreditLedgerEntry {
	res := make([]*entity.CreditLedgerEntry, 0, len(es))
	for _, e := range es {
		res = append(res, m.ToEntity(e))
	}
	return res
}
