package postgres

import (
	"github.com/payrexx-gateway/internal/domain"
)

func toDBModel(t *domain.OrderTransaction) TransactionModel {
	return TransactionModel{
		ID:          t.ID,
		OrderNumber: t.OrderNumber,
		AmountCents: t.AmountCents,
		Currency:    t.Currency,
		State:       string(t.State),
		GatewayIDs:  t.Gateways.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toDomainModel(m TransactionModel) *domain.OrderTransaction {
	return &domain.OrderTransaction{
		ID:          m.ID,
		OrderNumber: m.OrderNumber,
		AmountCents: m.AmountCents,
		Currency:    m.Currency,
		State:       domain.TransactionState(m.State),
		Gateways:    domain.ParseGatewayHistory(m.GatewayIDs),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
