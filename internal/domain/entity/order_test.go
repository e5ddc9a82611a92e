package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
)

// TestOrder_TotalesLineaUnica los campos a nivel de pedido mandan cuando no
// hay lista de líneas.
func TestOrder_TotalesLineaUnica(t *testing.T) {
	o := entity.Order{
		Quantity:     decimal.NewFromInt(2),
		SellingPrice: decimal.NewFromInt(100_000),
		ImportPrice:  decimal.NewFromInt(70_000),
	}

	assert.True(t, decimal.NewFromInt(2).Equal(o.TotalQuantity()))
	assert.True(t, decimal.NewFromInt(200_000).Equal(o.TotalRevenue()))
	assert.True(t, decimal.NewFromInt(140_000).Equal(o.TotalCost()))
}

// TestOrder_ItemsIgnoranCamposDePedido con Items presentes, los campos de
// cantidad/precio a nivel de pedido se ignoran por completo.
func TestOrder_ItemsIgnoranCamposDePedido(t *testing.T) {
	o := entity.Order{
		// Residuo de la forma de línea única: no debe sumar.
		Quantity:     decimal.NewFromInt(99),
		SellingPrice: decimal.NewFromInt(1_000_000),

		Items: []entity.OrderItem{
			{ProductName: "A", Quantity: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(10_000)},
			{ProductName: "B", Quantity: decimal.NewFromInt(2), SellingPrice: decimal.NewFromInt(5_000)},
		},
	}

	assert.True(t, o.MultiItem())
	assert.True(t, decimal.NewFromInt(3).Equal(o.TotalQuantity()))
	assert.True(t, decimal.NewFromInt(20_000).Equal(o.TotalRevenue()))
}

// TestOrder_LineasInvalidasNoSuman cantidad <= 0 excluye la línea de todos
// los totales.
func TestOrder_LineasInvalidasNoSuman(t *testing.T) {
	o := entity.Order{
		Items: []entity.OrderItem{
			{ProductName: "válida", Quantity: decimal.NewFromInt(2), SellingPrice: decimal.NewFromInt(10_000)},
			{ProductName: "cero", Quantity: decimal.Zero, SellingPrice: decimal.NewFromInt(99_000)},
			{ProductName: "negativa", Quantity: decimal.NewFromInt(-5), SellingPrice: decimal.NewFromInt(99_000)},
		},
	}

	assert.True(t, decimal.NewFromInt(2).Equal(o.TotalQuantity()))
	assert.True(t, decimal.NewFromInt(20_000).Equal(o.TotalRevenue()))
}

// TestOrder_SearchFields la búsqueda cubre ID, nombre de producto y SKU de
// todas las líneas.
func TestOrder_SearchFields(t *testing.T) {
	simple := entity.Order{ID: "ORD-1", ProductName: "Trà Đào", SKU: "TD-01"}
	assert.ElementsMatch(t, []string{"ORD-1", "Trà Đào", "TD-01"}, simple.SearchFields())

	multi := entity.Order{
		ID: "ORD-2",
		Items: []entity.OrderItem{
			{ProductName: "A", SKU: "SKU-A"},
			{ProductName: "B", SKU: "SKU-B"},
		},
	}
	assert.ElementsMatch(t, []string{"ORD-2", "A", "SKU-A", "B", "SKU-B"}, multi.SearchFields())
}
