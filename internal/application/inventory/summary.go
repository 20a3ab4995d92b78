package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MovementSummary texto legible de una operación más su costo, con impuesto si hay calculadora.
type MovementSummary struct {
	Text             string           `json:"text"`
	Quantity         int64            `json:"quantity"`
	TotalCost        decimal.Decimal  `json:"total_cost"`
	TotalCostWithTax *decimal.Decimal `json:"total_cost_with_tax,omitempty"`
}

// Summarizer arma resúmenes con separadores de miles según la configuración regional.
type Summarizer struct {
	printer *message.Printer
	tax     TaxCalculator
}

// NewSummarizer locale en formato BCP 47 ("ja", "es-CO"...); tax puede ser nil.
func NewSummarizer(locale string, tax TaxCalculator) *Summarizer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Japanese
	}
	return &Summarizer{printer: message.NewPrinter(tag), tax: tax}
}

func (s *Summarizer) build(ctx context.Context, storeID, text string, quantity int64, lots []entity.LotRecord) *MovementSummary {
	sum := &MovementSummary{Text: text, Quantity: quantity, TotalCost: entity.TotalCost(lots)}
	if s.tax != nil {
		// Sin impuesto el resumen sigue siendo válido.
		if withTax, err := s.tax.WithTax(ctx, storeID, sum.TotalCost); err == nil {
			sum.TotalCostWithTax = &withTax
		}
	}
	return sum
}

func (s *Summarizer) Increase(ctx context.Context, res *IncreaseResult) *MovementSummary {
	text := s.printer.Sprintf("%d units added to %s (stock %d)",
		res.Movement.ItemCount, res.Product.DisplayName, res.ResultingStock)
	return s.build(ctx, res.Product.StoreID, text, res.Movement.ItemCount, res.Movement.Lots)
}

func (s *Summarizer) Decrease(ctx context.Context, res *DecreaseResult) *MovementSummary {
	text := s.printer.Sprintf("%d units removed from %s (stock %d)",
		-res.Movement.ItemCount, res.Product.DisplayName, res.ResultingStock)
	return s.build(ctx, res.Product.StoreID, text, -res.Movement.ItemCount, res.Consumed)
}

func (s *Summarizer) Transfer(ctx context.Context, res *TransferResult) *MovementSummary {
	n := res.To.Movement.ItemCount
	text := s.printer.Sprintf("%d units moved from %s to %s", n, res.From.Product.DisplayName, res.To.Product.DisplayName)
	return s.build(ctx, res.From.Product.StoreID, text, n, res.From.Consumed)
}

func (s *Summarizer) OpenPack(ctx context.Context, res *OpenPackResult) *MovementSummary {
	h := res.History
	text := s.printer.Sprintf("%d of %s opened into %d cards (%d unregistered)",
		h.PackCount, res.Box.Product.DisplayName, h.TotalCards(), h.UnregisteredQuantity)
	return s.build(ctx, h.StoreID, text, h.PackCount, res.Box.Consumed)
}

func (s *Summarizer) Bundle(ctx context.Context, storeID, verb string, in BundleInput, res *BundleResult) *MovementSummary {
	text := s.printer.Sprintf("%d bundles of %s %s", in.Quantity, in.BundleProductID, verb)
	return s.build(ctx, storeID, text, in.Quantity, res.Lots)
}

func (s *Summarizer) Rollback(ctx context.Context, res *RollbackResult) *MovementSummary {
	var lots []entity.LotRecord
	for _, m := range res.Movements {
		if m.ItemCount > 0 {
			lots = append(lots, m.Lots...)
		}
	}
	text := s.printer.Sprintf("pack opening %s: %s, %d movements", res.History.ID, res.Outcome, len(res.Movements))
	return s.build(ctx, res.History.StoreID, text, int64(len(res.Movements)), lots)
}
