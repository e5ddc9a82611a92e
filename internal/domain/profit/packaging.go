package profit

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
)

// PackagingCalculator calcula el costo de empaque de un pedido a partir de la
// tabla de escalones por categoría de producto.
//
// El empaque se compra por categoría de envío, no por línea: en un pedido
// multi-producto las líneas se agrupan por categoría, se suma el peso del
// grupo (peso unitario × cantidad) y se busca el escalón de cada grupo por
// separado.
type PackagingCalculator struct {
	tiers map[entity.ProductType][]entity.PackagingTier // ordenados por límite ascendente
}

// NewPackagingCalculator construye el calculador con la tabla de escalones.
func NewPackagingCalculator(tiers []entity.PackagingTier) *PackagingCalculator {
	byType := make(map[entity.ProductType][]entity.PackagingTier)
	for _, t := range tiers {
		pt := entity.NormalizeProductType(string(t.ProductType))
		byType[pt] = append(byType[pt], t)
	}
	for pt := range byType {
		sort.SliceStable(byType[pt], func(i, j int) bool {
			return byType[pt][i].WeightThreshold.LessThan(byType[pt][j].WeightThreshold)
		})
	}
	return &PackagingCalculator{tiers: byType}
}

// Cost devuelve el costo de empaque del pedido. Nunca retorna error: sin
// escalones configurados para una categoría el costo es cero.
func (p *PackagingCalculator) Cost(o entity.Order) decimal.Decimal {
	if !o.MultiItem() {
		return p.tierCost(entity.NormalizeProductType(string(o.ProductType)), o.Weight)
	}

	// Agrupar por categoría: peso del grupo = Σ peso_unitario × cantidad.
	// Una línea sin peso aporta cero al grupo.
	groupWeight := make(map[entity.ProductType]decimal.Decimal)
	for _, it := range o.Items {
		if !it.Valid() || !it.Weight.IsPositive() {
			continue
		}
		pt := entity.NormalizeProductType(string(it.ProductType))
		groupWeight[pt] = groupWeight[pt].Add(it.Weight.Mul(it.Quantity))
	}

	total := decimal.Zero
	for pt, w := range groupWeight {
		total = total.Add(p.tierCost(pt, w))
	}
	return total
}

// tierCost busca el escalón más pequeño cuyo límite sea >= weight. Un peso
// que supera todos los límites usa el escalón más alto (un paquete pesado no
// puede costar cero de empaque). Peso ausente o cero: costo cero.
func (p *PackagingCalculator) tierCost(pt entity.ProductType, weight decimal.Decimal) decimal.Decimal {
	if !weight.IsPositive() {
		return decimal.Zero
	}
	tiers := p.tiers[pt]
	if len(tiers) == 0 {
		return decimal.Zero
	}
	for _, t := range tiers {
		if t.WeightThreshold.GreaterThanOrEqual(weight) {
			return t.Cost
		}
	}
	return tiers[len(tiers)-1].Cost
}
