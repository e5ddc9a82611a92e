package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Tipos de regla de costo.
const (
	FeeTypePercent = "percent" // porcentaje sobre los ingresos del pedido
	FeeTypeFixed   = "fixed"   // monto fijo por pedido
)

// FeeRule un término de costo configurado: porcentaje sobre ingresos o monto
// fijo por pedido. Una regla con valor <= 0 se considera deshabilitada.
type FeeRule struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Enabled informa si la regla aplica (valor estrictamente positivo).
func (r FeeRule) Enabled() bool {
	return r.Value.IsPositive()
}

// Amount calcula el monto de la regla sobre los ingresos dados.
// percent: ingresos × valor / 100; fixed: valor, una vez por pedido.
func (r FeeRule) Amount(revenue decimal.Decimal) decimal.Decimal {
	if !r.Enabled() {
		return decimal.Zero
	}
	if r.Type == FeeTypeFixed {
		return r.Value
	}
	return revenue.Mul(r.Value).Div(decimal.NewFromInt(100))
}

// UnmarshalJSON acepta las dos formas históricas de la configuración
// almacenada: un objeto {type, value} o un número suelto. El número suelto
// se normaliza como regla porcentual (era la forma dominante en los datos
// heredados). Un valor no numérico queda como regla deshabilitada.
func (r *FeeRule) UnmarshalJSON(data []byte) error {
	var obj struct {
		Type  string          `json:"type"`
		Value decimal.Decimal `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Type != "" {
		r.Type = obj.Type
		r.Value = obj.Value
		return nil
	}
	var n decimal.Decimal
	if err := json.Unmarshal(data, &n); err == nil {
		r.Type = FeeTypePercent
		r.Value = n
		return nil
	}
	// Forma irreconocible: regla deshabilitada, no propagamos el error.
	*r = FeeRule{Type: FeeTypePercent, Value: decimal.Zero}
	return nil
}

// FeeKey claves cerradas de comisiones de marketplace. El significado de cada
// comisión vive en esta enumeración, nunca se infiere del texto mostrado.
type FeeKey string

const (
	FeeTransaction          FeeKey = "transaction"
	FeeCommission           FeeKey = "commission"
	FeeActualShipping       FeeKey = "actual_shipping"
	FeeShippingDiscount     FeeKey = "shipping_discount"
	FeeSellerShippingDisc   FeeKey = "seller_shipping_discount"
	FeePlatformShippingDisc FeeKey = "marketplace_shipping_discount"
	FeeReturnShipping       FeeKey = "return_shipping"
	FeeShippingSubsidy      FeeKey = "shipping_subsidy"
	FeeAffiliateCommission  FeeKey = "affiliate_commission"
	FeeVoucher              FeeKey = "voucher"
	FeeVAT                  FeeKey = "vat"
	FeePersonalIncomeTax    FeeKey = "personal_income_tax"
	FeeSellerDiscount       FeeKey = "seller_discount"
)

// AllFeeKeys orden estable de aplicación de las comisiones (determinismo del
// desglose y de los tests).
var AllFeeKeys = []FeeKey{
	FeeTransaction,
	FeeCommission,
	FeeActualShipping,
	FeeShippingDiscount,
	FeeSellerShippingDisc,
	FeePlatformShippingDisc,
	FeeReturnShipping,
	FeeShippingSubsidy,
	FeeAffiliateCommission,
	FeeVoucher,
	FeeVAT,
	FeePersonalIncomeTax,
	FeeSellerDiscount,
}

// discountFeeKeys comisiones de tipo descuento: reducen el costo neto del
// vendedor, se restan del total de comisiones en vez de sumarse.
var discountFeeKeys = map[FeeKey]bool{
	FeeShippingDiscount:     true,
	FeeSellerShippingDisc:   true,
	FeePlatformShippingDisc: true,
	FeeShippingSubsidy:      true,
}

// IsDiscountFee informa si la clave es un descuento (resta en vez de sumar).
func IsDiscountFee(k FeeKey) bool {
	return discountFeeKeys[k]
}

// CustomFee comisión o costo adicional con nombre libre, definido por el
// operador de la tienda fuera del conjunto cerrado de claves.
type CustomFee struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Rule FeeRule `json:"rule"`
}

// PlatformFeeConfig configuración de comisiones de un marketplace, por tienda
// o global por plataforma.
type PlatformFeeConfig struct {
	StoreID  string             `json:"store_id,omitempty"` // vacío = configuración global
	Platform string             `json:"platform"`
	Fees     map[FeeKey]FeeRule `json:"fees"`
	Custom   []CustomFee        `json:"custom,omitempty"`
}

// Empty informa si la configuración no tiene ninguna regla (todas las
// comisiones se tratan como cero; no es un error).
func (c *PlatformFeeConfig) Empty() bool {
	return c == nil || (len(c.Fees) == 0 && len(c.Custom) == 0)
}

// CostKey claves cerradas de costos operativos externos, por tienda.
type CostKey string

const (
	CostShipping  CostKey = "shipping"
	CostPackaging CostKey = "packaging"
	CostStorage   CostKey = "storage"
	CostMarketing CostKey = "marketing"
	CostStaff     CostKey = "staff"
	CostRent      CostKey = "rent"
	CostUtilities CostKey = "utilities"
	CostInsurance CostKey = "insurance"
	CostEquipment CostKey = "equipment"
	CostAdmin     CostKey = "admin"
)

// AllCostKeys orden estable de aplicación de los costos externos.
var AllCostKeys = []CostKey{
	CostShipping,
	CostPackaging,
	CostStorage,
	CostMarketing,
	CostStaff,
	CostRent,
	CostUtilities,
	CostInsurance,
	CostEquipment,
	CostAdmin,
}

// ExternalCostConfig costos operativos de una tienda (personal, arriendo,
// marketing, ...). Sin dimensión de plataforma y sin categoría de descuento:
// todos los términos habilitados suman.
type ExternalCostConfig struct {
	StoreID string              `json:"store_id"`
	Costs   map[CostKey]FeeRule `json:"costs"`
	Custom  []CustomFee         `json:"custom,omitempty"`
}

// Empty informa si la configuración no tiene ninguna regla.
func (c *ExternalCostConfig) Empty() bool {
	return c == nil || (len(c.Costs) == 0 && len(c.Custom) == 0)
}
