package profit

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
)

// Breakdown desglose de la ganancia de un pedido. Es un valor efímero: se
// recalcula siempre desde la configuración vigente y nunca se persiste por
// separado del pedido.
type Breakdown struct {
	TotalRevenue  decimal.Decimal // Σ precio_venta × cantidad
	TotalCost     decimal.Decimal // Σ precio_importación × cantidad
	BaseProfit    decimal.Decimal // TotalRevenue - TotalCost
	TotalFees     decimal.Decimal // comisiones aditivas - descuentos (puede ser negativo)
	PackagingCost decimal.Decimal
	ExternalCosts decimal.Decimal
	FinalProfit   decimal.Decimal // BaseProfit - TotalFees - PackagingCost - ExternalCosts

	// PerFeeAmounts monto individual de cada comisión aplicada, por nombre de
	// clave (auditoría del desglose). Los descuentos aparecen con su monto
	// positivo; su efecto restador ya está reflejado en TotalFees.
	PerFeeAmounts map[string]decimal.Decimal
}

// ComputeBreakdown calcula el desglose completo de un pedido con la
// configuración dada. Determinista para el mismo pedido y snapshot de
// configuración; no muta sus entradas. Configuraciones nil equivalen a
// vacías (ninguna comisión aplica).
//
// Las claves de tipo descuento (descuento de envío del vendedor, del
// marketplace, subsidio de envío) se RESTAN del total de comisiones: reducen
// el costo neto. Un pedido muy subsidiado puede tener comisiones netas
// negativas, lo que legítimamente aumenta la ganancia final.
func ComputeBreakdown(
	o entity.Order,
	fees *entity.PlatformFeeConfig,
	ext *entity.ExternalCostConfig,
	packaging *PackagingCalculator,
) Breakdown {
	revenue := o.TotalRevenue()
	cost := o.TotalCost()

	b := Breakdown{
		TotalRevenue:  revenue,
		TotalCost:     cost,
		BaseProfit:    revenue.Sub(cost),
		PerFeeAmounts: make(map[string]decimal.Decimal),
	}

	// Comisiones de marketplace: claves cerradas en orden estable + personalizadas.
	if fees != nil {
		for _, key := range entity.AllFeeKeys {
			rule, ok := fees.Fees[key]
			if !ok || !rule.Enabled() {
				continue
			}
			amount := rule.Amount(revenue)
			b.PerFeeAmounts[string(key)] = amount
			if entity.IsDiscountFee(key) {
				b.TotalFees = b.TotalFees.Sub(amount)
			} else {
				b.TotalFees = b.TotalFees.Add(amount)
			}
		}
		for _, cf := range fees.Custom {
			if !cf.Rule.Enabled() {
				continue
			}
			amount := cf.Rule.Amount(revenue)
			b.PerFeeAmounts[cf.Name] = amount
			b.TotalFees = b.TotalFees.Add(amount)
		}
	}

	// Empaque.
	if packaging != nil {
		b.PackagingCost = packaging.Cost(o)
	}

	// Costos operativos externos: todos aditivos, sin categoría de descuento.
	if ext != nil {
		for _, key := range entity.AllCostKeys {
			rule, ok := ext.Costs[key]
			if !ok || !rule.Enabled() {
				continue
			}
			b.ExternalCosts = b.ExternalCosts.Add(rule.Amount(revenue))
		}
		for _, cc := range ext.Custom {
			if !cc.Rule.Enabled() {
				continue
			}
			b.ExternalCosts = b.ExternalCosts.Add(cc.Rule.Amount(revenue))
		}
	}

	b.FinalProfit = b.BaseProfit.Sub(b.TotalFees).Sub(b.PackagingCost).Sub(b.ExternalCosts)
	return b
}
