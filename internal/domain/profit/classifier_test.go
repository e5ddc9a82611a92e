package profit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
	"github.com/jhoicas/ventapro-api/internal/domain/profit"
)

// TestClassify_EtiquetaExplicitaGanaSobrePlataforma la etiqueta explícita de
// canal siempre gana, incluso contra una plataforma de marketplace presente.
func TestClassify_EtiquetaExplicitaGanaSobrePlataforma(t *testing.T) {
	c := profit.NewClassifier(0, 0)

	order := entity.Order{
		ID:         "ORD-100",
		ChannelTag: "retail",
		Platform:   "shopee", // señal contradictoria: la etiqueta manda
	}

	assert.Equal(t, entity.ChannelRetail, c.Classify(order),
		"la etiqueta explícita gana sobre la plataforma")
}

// TestClassify_CascadaDeSenales recorre la cascada completa regla por regla.
func TestClassify_CascadaDeSenales(t *testing.T) {
	c := profit.NewClassifier(0, 0)

	tests := []struct {
		name  string
		order entity.Order
		want  entity.Channel
	}{
		{
			name:  "etiqueta tmdt es sinónimo de ecommerce",
			order: entity.Order{ChannelTag: "tmdt"},
			want:  entity.ChannelEcommerce,
		},
		{
			name:  "etiqueta wholesale explícita",
			order: entity.Order{ChannelTag: "wholesale", Quantity: decimal.NewFromInt(1)},
			want:  entity.ChannelWholesale,
		},
		{
			name:  "plataforma presente implica ecommerce",
			order: entity.Order{Platform: "lazada"},
			want:  entity.ChannelEcommerce,
		},
		{
			name:  "sinónimo de plataforma también cuenta",
			order: entity.Order{Platform: "TikTok Shop"},
			want:  entity.ChannelEcommerce,
		},
		{
			name:  "origen sistema de gestión implica ecommerce",
			order: entity.Order{Source: entity.SourceManagement},
			want:  entity.ChannelEcommerce,
		},
		{
			name:  "palabra de marketplace en notas",
			order: entity.Order{Notes: "đơn sàn TMĐT tháng 3"},
			want:  entity.ChannelEcommerce,
		},
		{
			name:  "palabra de mayoreo con diacríticos en el cliente",
			order: entity.Order{CustomerName: "Chị Lan bán sỉ"},
			want:  entity.ChannelWholesale,
		},
		{
			name:  "palabra de mayoreo en el proveedor",
			order: entity.Order{Supplier: "kho BÁN BUÔN miền nam"},
			want:  entity.ChannelWholesale,
		},
		{
			name:  "cantidad en el umbral clasifica mayoreo",
			order: entity.Order{Quantity: decimal.NewFromInt(20)},
			want:  entity.ChannelWholesale,
		},
		{
			name:  "cantidad bajo el umbral cae a retail",
			order: entity.Order{Quantity: decimal.NewFromInt(19)},
			want:  entity.ChannelRetail,
		},
		{
			name:  "sin ninguna señal cae a retail",
			order: entity.Order{ID: "ORD-000"},
			want:  entity.ChannelRetail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.order))
		})
	}
}

// TestClassify_PalabraMarketplaceGanaSobreCantidad dentro del heurístico, la
// señal de marketplace se evalúa antes que la de mayoreo.
func TestClassify_PalabraMarketplaceGanaSobreCantidad(t *testing.T) {
	c := profit.NewClassifier(0, 0)

	order := entity.Order{
		Notes:    "đơn shopee",
		Quantity: decimal.NewFromInt(50),
	}

	assert.Equal(t, entity.ChannelEcommerce, c.Classify(order))
}

// TestClassify_UmbralConfigurable el umbral de mayoreo es configurable; con
// umbral 5 una venta de 5 unidades ya es mayoreo.
func TestClassify_UmbralConfigurable(t *testing.T) {
	c := profit.NewClassifier(5, 50)

	assert.Equal(t, entity.ChannelWholesale,
		c.Classify(entity.Order{Quantity: decimal.NewFromInt(5)}))
	assert.Equal(t, entity.ChannelRetail,
		c.Classify(entity.Order{Quantity: decimal.NewFromInt(4)}))
}

// TestClassify_CantidadMultiLinea la cantidad del heurístico es la suma de
// todas las líneas válidas del pedido.
func TestClassify_CantidadMultiLinea(t *testing.T) {
	c := profit.NewClassifier(0, 0)

	order := entity.Order{
		Items: []entity.OrderItem{
			{ProductName: "A", Quantity: decimal.NewFromInt(12)},
			{ProductName: "B", Quantity: decimal.NewFromInt(8)},
			{ProductName: "inválida", Quantity: decimal.Zero},
		},
	}

	assert.Equal(t, entity.ChannelWholesale, c.Classify(order), "12 + 8 = 20 unidades")
}

// TestLargeWholesale umbral estricto de mayoreo grande, independiente del canal.
func TestLargeWholesale(t *testing.T) {
	c := profit.NewClassifier(0, 0)

	assert.True(t, c.LargeWholesale(entity.Order{Quantity: decimal.NewFromInt(100)}))
	assert.False(t, c.LargeWholesale(entity.Order{Quantity: decimal.NewFromInt(99)}))
}

// TestNewClassifier_UmbralesInvalidosCaenADefaults valores <= 0 usan 20 y 100.
func TestNewClassifier_UmbralesInvalidosCaenADefaults(t *testing.T) {
	c := profit.NewClassifier(-3, 0)

	assert.Equal(t, entity.ChannelWholesale,
		c.Classify(entity.Order{Quantity: decimal.NewFromInt(profit.DefaultWholesaleQty)}))
	assert.True(t, c.LargeWholesale(entity.Order{Quantity: decimal.NewFromInt(profit.DefaultLargeWholesaleQty)}))
}
