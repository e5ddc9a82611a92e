package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
)

// LooseNumber número que llega del almacén externo en cualquier forma:
// número JSON, string numérico, null o basura. Las formas no numéricas se
// coercionan a cero y se marcan, nunca se propaga un error ni un NaN.
type LooseNumber struct {
	Value   decimal.Decimal
	Coerced bool // true si el valor original era ausente o no numérico
}

// UnmarshalJSON implementa la coerción tolerante.
func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		n.Value = decimal.Zero
		n.Coerced = true
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err == nil {
		n.Value = d
		return nil
	}
	n.Value = decimal.Zero
	n.Coerced = true
	return nil
}

// RawOrderItem línea de pedido tal como viene del almacén (JSON flexible).
type RawOrderItem struct {
	ProductName  string      `json:"productName"`
	SKU          string      `json:"sku"`
	Quantity     LooseNumber `json:"quantity"`
	SellingPrice LooseNumber `json:"sellingPrice"`
	ImportPrice  LooseNumber `json:"importPrice"`
	ProductType  string      `json:"productType"`
	Weight       LooseNumber `json:"weight"`
}

// RawOrder pedido crudo del almacén externo, antes de normalizar.
type RawOrder struct {
	ID           string         `json:"id"`
	StoreID      string         `json:"storeId"`
	ChannelTag   string         `json:"channel"`
	Platform     string         `json:"platform"`
	Source       string         `json:"source"`
	CustomerName string         `json:"customerName"`
	Supplier     string         `json:"supplier"`
	Notes        string         `json:"notes"`
	ProductName  string         `json:"productName"`
	SKU          string         `json:"sku"`
	Quantity     LooseNumber    `json:"quantity"`
	SellingPrice LooseNumber    `json:"sellingPrice"`
	ImportPrice  LooseNumber    `json:"importPrice"`
	ProductType  string         `json:"productType"`
	Weight       LooseNumber    `json:"weight"`
	Items        []RawOrderItem `json:"items"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Normalize convierte el registro crudo en la entidad validada. Devuelve
// también cuántos campos numéricos hubo que coercionar a cero, para la
// visibilidad de calidad de datos.
func (r RawOrder) Normalize() (entity.Order, int) {
	coerced := 0
	count := func(n LooseNumber) decimal.Decimal {
		if n.Coerced {
			coerced++
		}
		return n.Value
	}

	o := entity.Order{
		ID:           r.ID,
		StoreID:      r.StoreID,
		ChannelTag:   r.ChannelTag,
		Platform:     r.Platform,
		Source:       r.Source,
		CustomerName: r.CustomerName,
		Supplier:     r.Supplier,
		Notes:        r.Notes,
		ProductName:  r.ProductName,
		SKU:          r.SKU,
		Quantity:     count(r.Quantity),
		SellingPrice: count(r.SellingPrice),
		ImportPrice:  count(r.ImportPrice),
		ProductType:  entity.NormalizeProductType(r.ProductType),
		Weight:       count(r.Weight),
		CreatedAt:    r.CreatedAt,
	}

	for _, ri := range r.Items {
		o.Items = append(o.Items, entity.OrderItem{
			ProductName:  ri.ProductName,
			SKU:          ri.SKU,
			Quantity:     count(ri.Quantity),
			SellingPrice: count(ri.SellingPrice),
			ImportPrice:  count(ri.ImportPrice),
			ProductType:  entity.NormalizeProductType(ri.ProductType),
			Weight:       count(ri.Weight),
		})
	}

	o.Malformed = coerced > 0
	return o, coerced
}
