package repository

import (
	"context"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
)

// FeeConfigRepository acceso a la configuración de comisiones, costos
// externos y escalones de empaque.
//
// Los Fetch* devuelven (nil, nil) cuando no hay configuración guardada: la
// ausencia no es un error, el resolutor la degrada a configuración vacía.
type FeeConfigRepository interface {
	// FetchPlatformFeeConfig configuración de comisiones de una tienda para
	// una plataforma exacta.
	FetchPlatformFeeConfig(ctx context.Context, storeID, platform string) (*entity.PlatformFeeConfig, error)

	// FetchGlobalPlatformFeeConfig configuración global (sin tienda) de una
	// plataforma; fallback cuando la tienda no tiene la suya.
	FetchGlobalPlatformFeeConfig(ctx context.Context, platform string) (*entity.PlatformFeeConfig, error)

	// FetchExternalCostConfig costos operativos de una tienda. Sin fallback
	// global: tienda o vacío.
	FetchExternalCostConfig(ctx context.Context, storeID string) (*entity.ExternalCostConfig, error)

	// FetchPackagingTiers tabla completa de escalones de empaque.
	FetchPackagingTiers(ctx context.Context) ([]entity.PackagingTier, error)

	// SavePlatformFeeConfig guarda (upsert) la configuración de comisiones.
	// storeID vacío guarda la configuración global de la plataforma.
	SavePlatformFeeConfig(ctx context.Context, cfg *entity.PlatformFeeConfig) error

	// SaveExternalCostConfig guarda (upsert) los costos externos de la tienda.
	SaveExternalCostConfig(ctx context.Context, cfg *entity.ExternalCostConfig) error

	// SavePackagingTiers reemplaza la tabla de escalones de empaque.
	SavePackagingTiers(ctx context.Context, tiers []entity.PackagingTier) error
}
