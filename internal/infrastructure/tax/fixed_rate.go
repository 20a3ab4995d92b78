package tax

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
)

var _ inventory.TaxCalculator = (*FixedRate)(nil)

// FixedRate aplica una única tasa a todas las tiendas y redondea al entero (yen) hacia abajo.
type FixedRate struct {
	rate decimal.Decimal
}

// NewFixedRate construye el calculador. rate es la fracción (0.10 = 10%).
func NewFixedRate(rate float64) (*FixedRate, error) {
	if rate < 0 {
		return nil, fmt.Errorf("tasa de impuesto negativa: %v", rate)
	}
	return &FixedRate{rate: decimal.NewFromFloat(rate)}, nil
}

// WithTax devuelve amount × (1 + rate) truncado.
func (f *FixedRate) WithTax(_ context.Context, _ string, amount decimal.Decimal) (decimal.Decimal, error) {
	return amount.Mul(decimal.NewFromInt(1).Add(f.rate)).Floor(), nil
}
