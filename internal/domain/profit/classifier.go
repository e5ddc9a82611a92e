// Package profit contiene el motor de rentabilidad: clasificación de canal,
// costo de empaque y desglose de ganancia por pedido (servicios de dominio,
// sin I/O).
package profit

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
	"github.com/jhoicas/ventapro-api/pkg/textnorm"
)

// Umbrales por defecto de clasificación por cantidad. El sistema anterior
// usaba 20 y 100 en rutas distintas sin documentarlo; aquí son constantes de
// configuración explícitas (sobreescribibles vía env).
const (
	DefaultWholesaleQty      = 20
	DefaultLargeWholesaleQty = 100
)

// Palabras clave del heurístico de texto libre, en forma normalizada
// (minúsculas, sin diacríticos). Cubren los términos vietnamitas de los
// registros importados y sus equivalentes en inglés.
var (
	marketplaceKeywords = []string{"shopee", "lazada", "tiktok", "tiki", "sendo", "tmdt", "san tmdt", "marketplace"}
	wholesaleKeywords   = []string{"ban si", "bo si", "gia si", "ban buon", "wholesale"}
)

// Classifier asigna cada pedido a un canal de venta mediante una cascada
// ordenada de señales. Determinista y puro: solo lee campos del pedido.
type Classifier struct {
	wholesaleQty      decimal.Decimal
	largeWholesaleQty decimal.Decimal
}

// NewClassifier construye el clasificador con los umbrales de mayoreo dados;
// valores <= 0 caen a los defaults (20 y 100).
func NewClassifier(wholesaleQty, largeWholesaleQty int) *Classifier {
	if wholesaleQty <= 0 {
		wholesaleQty = DefaultWholesaleQty
	}
	if largeWholesaleQty <= 0 {
		largeWholesaleQty = DefaultLargeWholesaleQty
	}
	return &Classifier{
		wholesaleQty:      decimal.NewFromInt(int64(wholesaleQty)),
		largeWholesaleQty: decimal.NewFromInt(int64(largeWholesaleQty)),
	}
}

// Classify devuelve el canal del pedido. Gana la primera regla que aplique,
// en este orden exacto:
//
//  1. Etiqueta explícita de canal ("ecommerce"/"tmdt", "retail", "wholesale").
//     Siempre gana sobre cualquier otra señal, incluida la plataforma.
//  2. Plataforma no vacía → ecommerce (el nombre del marketplace es concluyente).
//  3. Origen sistema de gestión sin tipo explícito distinto → ecommerce.
//  4. Heurístico de texto y cantidad: palabras de marketplace → ecommerce;
//     palabras de mayoreo o cantidad >= umbral → wholesale; si no, retail.
func (c *Classifier) Classify(o entity.Order) entity.Channel {
	// 1) Etiqueta explícita.
	switch textnorm.Fold(o.ChannelTag) {
	case "ecommerce", "tmdt":
		return entity.ChannelEcommerce
	case "retail":
		return entity.ChannelRetail
	case "wholesale":
		return entity.ChannelWholesale
	}

	// 2) Marketplace presente.
	if entity.NormalizePlatform(o.Platform) != "" {
		return entity.ChannelEcommerce
	}

	// 3) Importado del sistema de gestión (la etiqueta explícita ya se evaluó
	// arriba; aquí solo llegan pedidos sin tipo no-ecommerce reconocido).
	if o.Source == entity.SourceManagement {
		return entity.ChannelEcommerce
	}

	// 4) Heurístico a nivel de transacción.
	freeText := textnorm.Fold(o.Notes + " " + o.Supplier + " " + o.CustomerName)
	for _, kw := range marketplaceKeywords {
		if contains(freeText, kw) {
			return entity.ChannelEcommerce
		}
	}
	for _, kw := range wholesaleKeywords {
		if contains(freeText, kw) {
			return entity.ChannelWholesale
		}
	}
	if o.TotalQuantity().GreaterThanOrEqual(c.wholesaleQty) {
		return entity.ChannelWholesale
	}
	return entity.ChannelRetail
}

// LargeWholesale informa si el pedido supera el umbral estricto de mayoreo
// grande (default 100 unidades). Se usa en los rollups del reporte, no cambia
// el canal.
func (c *Classifier) LargeWholesale(o entity.Order) bool {
	return o.TotalQuantity().GreaterThanOrEqual(c.largeWholesaleQty)
}

func contains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return textnorm.ContainsFold(haystack, needle)
}
