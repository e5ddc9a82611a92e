package dto

import "github.com/shopspring/decimal"

// ── Parámetros de consulta ────────────────────────────────────────────────────

// ReportRequest parámetros para GET /api/reports/profit.
// Todos los filtros son opcionales e independientes.
type ReportRequest struct {
	Channel  string `query:"channel"`   // ecommerce | retail | wholesale
	Platform string `query:"platform"`  // con normalización de sinónimos ("tiktok shop" ≡ "tiktok")
	StoreID  string `query:"store_id"`  // vacío = todas las tiendas
	From     string `query:"from"`      // YYYY-MM-DD, inclusive
	To       string `query:"to"`        // YYYY-MM-DD, inclusive hasta fin de día
	Search   string `query:"search"`    // substring sobre producto, SKU o ID (OR)
	Page     int    `query:"page"`      // 1-indexado; fuera de rango = página vacía
	PageSize int    `query:"page_size"` // default configurable (10)
}

// ── Pedido enriquecido ────────────────────────────────────────────────────────

// OrderProfitDTO un pedido con su desglose de ganancia calculado.
type OrderProfitDTO struct {
	OrderID       string                     `json:"order_id"`
	StoreID       string                     `json:"store_id"`
	Platform      string                     `json:"platform,omitempty"`
	Channel       string                     `json:"channel"`
	CreatedAt     string                     `json:"created_at"` // YYYY-MM-DD
	Quantity      decimal.Decimal            `json:"quantity"`
	TotalRevenue  decimal.Decimal            `json:"total_revenue"`
	TotalCost     decimal.Decimal            `json:"total_cost"`
	BaseProfit    decimal.Decimal            `json:"base_profit"`
	TotalFees     decimal.Decimal            `json:"total_fees"`
	PackagingCost decimal.Decimal            `json:"packaging_cost"`
	ExternalCosts decimal.Decimal            `json:"external_costs"`
	FinalProfit   decimal.Decimal            `json:"final_profit"`
	PerFeeAmounts map[string]decimal.Decimal `json:"per_fee_amounts,omitempty"`
}

// ── Rollups ──────────────────────────────────────────────────────────────────

// ProductRollupDTO agregado por producto. El ranking se ordena por unidades
// vendidas descendente; los empates conservan el orden de aparición.
type ProductRollupDTO struct {
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
	QuantityPct decimal.Decimal `json:"quantity_pct"` // participación % en unidades totales
	RevenuePct  decimal.Decimal `json:"revenue_pct"`
}

// StoreRollupDTO agregado por tienda.
type StoreRollupDTO struct {
	StoreID    string          `json:"store_id"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Profit     decimal.Decimal `json:"profit"`
	RevenuePct decimal.Decimal `json:"revenue_pct"`
}

// DayRollupDTO agregado por día calendario.
type DayRollupDTO struct {
	Date       string          `json:"date"` // YYYY-MM-DD
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Profit     decimal.Decimal `json:"profit"`
	RevenuePct decimal.Decimal `json:"revenue_pct"`
}

// ── Estadísticas y respuesta ──────────────────────────────────────────────────

// ReportStatsDTO estadísticas del conjunto filtrado completo (no solo la página).
type ReportStatsDTO struct {
	OrderCount       int             `json:"order_count"`
	TotalQuantity    decimal.Decimal `json:"total_quantity"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalBaseProfit  decimal.Decimal `json:"total_base_profit"`
	TotalFees        decimal.Decimal `json:"total_fees"`
	TotalPackaging   decimal.Decimal `json:"total_packaging"`
	TotalExternal    decimal.Decimal `json:"total_external"`
	TotalFinalProfit decimal.Decimal `json:"total_final_profit"`
	MarginPct        decimal.Decimal `json:"margin_pct"` // ganancia final / ingresos × 100

	LargeWholesale  int `json:"large_wholesale_orders"` // pedidos sobre el umbral estricto de mayoreo
	MalformedOrders int `json:"malformed_orders"`       // pedidos con campos coercionados (calidad de datos)

	TopProducts []ProductRollupDTO `json:"top_products"`
	ByStore     []StoreRollupDTO   `json:"by_store"`
	ByDay       []DayRollupDTO     `json:"by_day"`
}

// ReportDTO respuesta completa de GET /api/reports/profit.
// Un conjunto filtrado vacío produce estadísticas en cero y página vacía:
// "sin datos" no es un estado de error.
type ReportDTO struct {
	Page      PageResponse     `json:"page"`
	PageItems []OrderProfitDTO `json:"page_items"`
	Stats     ReportStatsDTO   `json:"stats"`
}
