package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
)

// SaveFeeConfigRequest cuerpo de PUT /api/settings/fees/:platform.
// Las claves de Fees deben pertenecer al conjunto cerrado de FeeKey; los
// términos con nombre libre van en Custom. entity.FeeRule acepta en el JSON
// tanto {type, value} como un número suelto (forma heredada, normalizada a
// regla porcentual).
type SaveFeeConfigRequest struct {
	Global bool                      `json:"global"` // true = configuración global de la plataforma
	Fees   map[string]entity.FeeRule `json:"fees"`
	Custom []entity.CustomFee        `json:"custom"`
}

// SaveExternalCostsRequest cuerpo de PUT /api/settings/external-costs.
type SaveExternalCostsRequest struct {
	Costs  map[string]entity.FeeRule `json:"costs"`
	Custom []entity.CustomFee        `json:"custom"`
}

// PackagingTierDTO un escalón de la tabla de empaque.
type PackagingTierDTO struct {
	ProductType     string          `json:"product_type"`
	WeightThreshold decimal.Decimal `json:"weight_threshold"`
	Cost            decimal.Decimal `json:"cost"`
}

// SavePackagingTiersRequest cuerpo de PUT /api/settings/packaging-tiers.
// Reemplaza la tabla completa.
type SavePackagingTiersRequest struct {
	Tiers []PackagingTierDTO `json:"tiers"`
}
