package http

import (
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

func toLotRecords(records []entity.LotRecord) []dto.LotRecordResponse {
	out := make([]dto.LotRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.LotRecordResponse{LotID: r.LotID, UnitPrice: r.UnitPrice, ArrivedAt: r.ArrivedAt, Quantity: r.Quantity})
	}
	return out
}

func toLot(l *entity.CostLot) dto.LotResponse {
	return dto.LotResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		Scope:             string(l.Scope.Kind),
		SourceID:          l.Scope.SourceID,
		UnitPrice:         l.UnitPrice,
		ArrivedAt:         l.ArrivedAt,
		RemainingQuantity: l.RemainingQuantity,
		Sequence:          l.Sequence,
	}
}

func toMovement(m *entity.StockMovement) dto.MovementResponse {
	if m == nil {
		return dto.MovementResponse{}
	}
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		SourceKind:     m.SourceKind.String(),
		SourceID:       m.SourceID,
		ItemCount:      m.ItemCount,
		ResultingStock: m.ResultingStock,
		UnitPrice:      m.UnitPrice,
		TotalCost:      m.TotalCost(),
		Lots:           toLotRecords(m.Lots),
		Description:    m.Description,
		StaffID:        m.StaffID,
		CreatedAt:      m.CreatedAt,
	}
}

func toMovements(list []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovement(m))
	}
	return out
}

func toSummary(s *inventory.MovementSummary) *dto.SummaryResponse {
	if s == nil {
		return nil
	}
	return &dto.SummaryResponse{Text: s.Text, Quantity: s.Quantity, TotalCost: s.TotalCost, TotalCostWithTax: s.TotalCostWithTax}
}

func toIncrease(res *inventory.IncreaseResult) dto.IncreaseResponse {
	return dto.IncreaseResponse{
		Movement:       toMovement(res.Movement),
		Lots:           toLotRecords(res.Lots),
		ResultingStock: res.ResultingStock,
	}
}

func toDecrease(res *inventory.DecreaseResult) dto.DecreaseResponse {
	out := dto.DecreaseResponse{
		Movement:       toMovement(res.Movement),
		Consumed:       toLotRecords(res.Consumed),
		ResultingStock: res.ResultingStock,
	}
	for _, c := range res.Components {
		out.Components = append(out.Components, dto.ComponentLotsResponse{ProductID: c.ProductID, Lots: toLotRecords(c.Lots)})
	}
	return out
}

func toPackOpening(h *entity.PackOpenHistory) dto.PackOpeningResponse {
	cards := make([]dto.PackCardResponse, 0, len(h.Cards))
	for _, c := range h.Cards {
		cards = append(cards, dto.PackCardResponse{ProductID: c.ProductID, Quantity: c.Quantity, UnitPrice: c.UnitPrice})
	}
	return dto.PackOpeningResponse{
		ID:                    h.ID,
		BoxProductID:          h.BoxProductID,
		BoxCategory:           string(h.BoxCategory),
		PackCount:             h.PackCount,
		CardsPerPack:          h.CardsPerPack,
		Cards:                 cards,
		UnregisteredProductID: h.UnregisteredProductID,
		UnregisteredQuantity:  h.UnregisteredQuantity,
		UnregisteredUnitPrice: h.UnregisteredUnitPrice,
		ConsumedCost:          h.ConsumedCost,
		LossCost:              h.LossCost,
		UnallocatedCost:       h.UnallocatedCost,
		Status:                string(h.Status),
		Description:           h.Description,
		StaffID:               h.StaffID,
		CreatedAt:             h.CreatedAt,
		RolledBackAt:          h.RolledBackAt,
		RollbackDescription:   h.RollbackDescription,
	}
}

func toBundle(res *inventory.BundleResult) dto.BundleResponse {
	return dto.BundleResponse{
		Bundle:     toMovement(res.Bundle),
		Components: toMovements(res.Components),
		Lots:       toLotRecords(res.Lots),
	}
}
