package entity

import "github.com/shopspring/decimal"

// PackagingTier costo fijo de empaque para una categoría de producto hasta un
// peso límite. Es una función escalón: aplica el costo del escalón más pequeño
// cuyo límite sea >= el peso total del grupo, no una tarifa continua por kilo.
type PackagingTier struct {
	ProductType     ProductType     `json:"product_type"`
	WeightThreshold decimal.Decimal `json:"weight_threshold"` // límite superior del escalón (inclusive)
	Cost            decimal.Decimal `json:"cost"`
}
