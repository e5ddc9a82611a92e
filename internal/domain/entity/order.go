package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Channel canal de venta al que pertenece un pedido después de clasificarlo.
type Channel string

const (
	ChannelEcommerce Channel = "ecommerce" // vendido por marketplace (Shopee, TikTok Shop, ...)
	ChannelRetail    Channel = "retail"    // venta al detalle
	ChannelWholesale Channel = "wholesale" // venta al por mayor
)

// ProductType categoría de empaque del producto. Determina la tabla de
// tarifas de empaque aplicable (ver PackagingTier).
type ProductType string

const (
	ProductTypeDry    ProductType = "dry"
	ProductTypeCold   ProductType = "cold"
	ProductTypeLiquid ProductType = "liquid"
)

// NormalizeProductType devuelve la categoría reconocida; cualquier valor
// desconocido o vacío cae a "dry" (la categoría por defecto del empaque).
func NormalizeProductType(s string) ProductType {
	switch ProductType(s) {
	case ProductTypeCold:
		return ProductTypeCold
	case ProductTypeLiquid:
		return ProductTypeLiquid
	default:
		return ProductTypeDry
	}
}

// SourceManagement valor del campo Source cuando el pedido fue importado
// desde el sistema de gestión (origen que implica canal ecommerce).
const SourceManagement = "management"

// OrderItem una línea de un pedido multi-producto.
type OrderItem struct {
	ProductName  string
	SKU          string
	Quantity     decimal.Decimal
	SellingPrice decimal.Decimal // precio de venta unitario
	ImportPrice  decimal.Decimal // costo de importación unitario
	ProductType  ProductType
	Weight       decimal.Decimal // peso unitario, para la tarifa de empaque
}

// Valid informa si la línea aporta cantidad (las líneas con cantidad <= 0
// no suman ni ingresos ni unidades).
func (it OrderItem) Valid() bool {
	return it.Quantity.IsPositive()
}

// Order un pedido vendido, de una o varias líneas.
//
// Es una unión discriminada por la presencia de Items: si Items no está
// vacío, los campos de cantidad/precio a nivel de pedido se ignoran y cada
// línea lleva los suyos. Los campos numéricos ausentes o malformados se
// normalizan a cero en la frontera de ingestión, nunca llegan como NaN.
type Order struct {
	ID      string
	StoreID string

	// Señales de clasificación de canal.
	ChannelTag   string // etiqueta explícita: "ecommerce"|"tmdt"|"retail"|"wholesale"
	Platform     string // marketplace de origen ("shopee", "tiktok", ...)
	Source       string // origen del registro ("management" = sistema de gestión)
	CustomerName string
	Supplier     string
	Notes        string

	// Pedido de línea única (ignorado si Items no está vacío).
	ProductName  string
	SKU          string
	Quantity     decimal.Decimal
	SellingPrice decimal.Decimal
	ImportPrice  decimal.Decimal
	ProductType  ProductType
	Weight       decimal.Decimal

	Items []OrderItem

	CreatedAt time.Time

	// Malformed marca que algún campo numérico llegó ausente o no numérico y
	// fue coercionado a cero en la ingestión. No invalida el pedido; el
	// reporte lo cuenta para visibilidad de calidad de datos.
	Malformed bool
}

// MultiItem informa si el pedido lleva lista de líneas.
func (o Order) MultiItem() bool {
	return len(o.Items) > 0
}

// TotalQuantity unidades vendidas del pedido. Un pedido sin líneas válidas
// aporta cero (se trata como vacío, no como error).
func (o Order) TotalQuantity() decimal.Decimal {
	if !o.MultiItem() {
		if o.Quantity.IsPositive() {
			return o.Quantity
		}
		return decimal.Zero
	}
	total := decimal.Zero
	for _, it := range o.Items {
		if it.Valid() {
			total = total.Add(it.Quantity)
		}
	}
	return total
}

// TotalRevenue ingresos del pedido: precio de venta × cantidad, sumado por línea.
func (o Order) TotalRevenue() decimal.Decimal {
	if !o.MultiItem() {
		if o.Quantity.IsPositive() {
			return o.SellingPrice.Mul(o.Quantity)
		}
		return decimal.Zero
	}
	total := decimal.Zero
	for _, it := range o.Items {
		if it.Valid() {
			total = total.Add(it.SellingPrice.Mul(it.Quantity))
		}
	}
	return total
}

// TotalCost costo de mercancía del pedido: costo de importación × cantidad.
func (o Order) TotalCost() decimal.Decimal {
	if !o.MultiItem() {
		if o.Quantity.IsPositive() {
			return o.ImportPrice.Mul(o.Quantity)
		}
		return decimal.Zero
	}
	total := decimal.Zero
	for _, it := range o.Items {
		if it.Valid() {
			total = total.Add(it.ImportPrice.Mul(it.Quantity))
		}
	}
	return total
}

// SearchFields devuelve los textos contra los que se aplica la búsqueda libre:
// nombre de producto, SKU e ID del pedido (de todas las líneas).
func (o Order) SearchFields() []string {
	fields := []string{o.ID}
	if o.MultiItem() {
		for _, it := range o.Items {
			fields = append(fields, it.ProductName, it.SKU)
		}
		return fields
	}
	return append(fields, o.ProductName, o.SKU)
}
