// Package settings contiene el caso de uso de configuración de comisiones,
// costos externos y escalones de empaque. Cada escritura invalida el caché
// del resolutor para que el siguiente reporte vea la configuración nueva.
package settings

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/ventapro-api/internal/application/dto"
	appprofit "github.com/jhoicas/ventapro-api/internal/application/profit"
	"github.com/jhoicas/ventapro-api/internal/domain"
	"github.com/jhoicas/ventapro-api/internal/domain/entity"
	"github.com/jhoicas/ventapro-api/internal/domain/repository"
	"github.com/jhoicas/ventapro-api/pkg/logger"
)

// validFeeKeys y validCostKeys: el significado de cada término viene de la
// enumeración cerrada; una clave fuera del conjunto es un error de entrada,
// nunca se interpreta por su texto.
var (
	validFeeKeys  = buildKeySet(entity.AllFeeKeys)
	validCostKeys = buildCostKeySet(entity.AllCostKeys)
)

func buildKeySet(keys []entity.FeeKey) map[entity.FeeKey]bool {
	set := make(map[entity.FeeKey]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func buildCostKeySet(keys []entity.CostKey) map[entity.CostKey]bool {
	set := make(map[entity.CostKey]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// UseCase administra la configuración del motor de rentabilidad.
type UseCase struct {
	repo     repository.FeeConfigRepository
	resolver *appprofit.ConfigResolver
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.FeeConfigRepository, resolver *appprofit.ConfigResolver, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, resolver: resolver, log: log}
}

// SavePlatformFees guarda la configuración de comisiones de una plataforma
// para la tienda (o la global si req.Global) e invalida el caché.
func (uc *UseCase) SavePlatformFees(ctx context.Context, storeID, platform string, req dto.SaveFeeConfigRequest) error {
	platform = entity.NormalizePlatform(platform)
	if platform == "" {
		return fmt.Errorf("%w: plataforma requerida", domain.ErrInvalidInput)
	}

	fees := make(map[entity.FeeKey]entity.FeeRule, len(req.Fees))
	for k, rule := range req.Fees {
		key := entity.FeeKey(k)
		if !validFeeKeys[key] {
			return fmt.Errorf("%w: clave de comisión desconocida %q", domain.ErrInvalidInput, k)
		}
		if err := validateRule(rule); err != nil {
			return fmt.Errorf("comisión %q: %w", k, err)
		}
		fees[key] = rule
	}

	custom, err := normalizeCustom(req.Custom)
	if err != nil {
		return err
	}

	cfg := &entity.PlatformFeeConfig{
		Platform: platform,
		Fees:     fees,
		Custom:   custom,
	}
	if !req.Global {
		cfg.StoreID = storeID
	}

	if err := uc.repo.SavePlatformFeeConfig(ctx, cfg); err != nil {
		return fmt.Errorf("guardar comisiones de %s: %w", platform, err)
	}
	uc.resolver.Invalidate()
	uc.log.Info().Str("platform", platform).Str("store_id", cfg.StoreID).
		Msg("comisiones actualizadas, caché invalidado")
	return nil
}

// SaveExternalCosts guarda los costos operativos de la tienda e invalida el caché.
func (uc *UseCase) SaveExternalCosts(ctx context.Context, storeID string, req dto.SaveExternalCostsRequest) error {
	if storeID == "" {
		return fmt.Errorf("%w: tienda requerida", domain.ErrInvalidInput)
	}

	costs := make(map[entity.CostKey]entity.FeeRule, len(req.Costs))
	for k, rule := range req.Costs {
		key := entity.CostKey(k)
		if !validCostKeys[key] {
			return fmt.Errorf("%w: categoría de costo desconocida %q", domain.ErrInvalidInput, k)
		}
		if err := validateRule(rule); err != nil {
			return fmt.Errorf("costo %q: %w", k, err)
		}
		costs[key] = rule
	}

	custom, err := normalizeCustom(req.Custom)
	if err != nil {
		return err
	}

	cfg := &entity.ExternalCostConfig{
		StoreID: storeID,
		Costs:   costs,
		Custom:  custom,
	}
	if err := uc.repo.SaveExternalCostConfig(ctx, cfg); err != nil {
		return fmt.Errorf("guardar costos externos de %s: %w", storeID, err)
	}
	uc.resolver.Invalidate()
	uc.log.Info().Str("store_id", storeID).Msg("costos externos actualizados, caché invalidado")
	return nil
}

// SavePackagingTiers reemplaza la tabla de escalones de empaque e invalida el caché.
func (uc *UseCase) SavePackagingTiers(ctx context.Context, req dto.SavePackagingTiersRequest) error {
	tiers := make([]entity.PackagingTier, 0, len(req.Tiers))
	for i, t := range req.Tiers {
		if !t.WeightThreshold.IsPositive() {
			return fmt.Errorf("%w: escalón %d sin límite de peso positivo", domain.ErrInvalidInput, i)
		}
		if t.Cost.IsNegative() {
			return fmt.Errorf("%w: escalón %d con costo negativo", domain.ErrInvalidInput, i)
		}
		tiers = append(tiers, entity.PackagingTier{
			ProductType:     entity.NormalizeProductType(t.ProductType),
			WeightThreshold: t.WeightThreshold,
			Cost:            t.Cost,
		})
	}
	if err := uc.repo.SavePackagingTiers(ctx, tiers); err != nil {
		return fmt.Errorf("guardar escalones de empaque: %w", err)
	}
	uc.resolver.Invalidate()
	uc.log.Info().Int("tiers", len(tiers)).Msg("escalones de empaque actualizados, caché invalidado")
	return nil
}

// GetPlatformFees devuelve la configuración efectiva (ya con fallback
// tienda → global → vacía) para que la UI muestre lo que realmente aplica.
func (uc *UseCase) GetPlatformFees(ctx context.Context, storeID, platform string) *entity.PlatformFeeConfig {
	return uc.resolver.ResolveFees(ctx, storeID, platform)
}

// GetExternalCosts devuelve los costos operativos efectivos de la tienda.
func (uc *UseCase) GetExternalCosts(ctx context.Context, storeID string) *entity.ExternalCostConfig {
	return uc.resolver.ResolveExternalCosts(ctx, storeID)
}

// GetPackagingTiers devuelve la tabla de escalones vigente.
func (uc *UseCase) GetPackagingTiers(ctx context.Context) []entity.PackagingTier {
	return uc.resolver.PackagingTiers(ctx)
}

// validateRule valida el tipo de la regla. Un valor <= 0 no es error: la
// regla queda deshabilitada.
func validateRule(r entity.FeeRule) error {
	if r.Type != entity.FeeTypePercent && r.Type != entity.FeeTypeFixed {
		return fmt.Errorf("%w: tipo de regla desconocido %q", domain.ErrInvalidInput, r.Type)
	}
	return nil
}

// normalizeCustom valida los términos con nombre libre y asigna ID a los nuevos.
func normalizeCustom(custom []entity.CustomFee) ([]entity.CustomFee, error) {
	out := make([]entity.CustomFee, 0, len(custom))
	for _, cf := range custom {
		if cf.Name == "" {
			return nil, fmt.Errorf("%w: término personalizado sin nombre", domain.ErrInvalidInput)
		}
		if err := validateRule(cf.Rule); err != nil {
			return nil, fmt.Errorf("término %q: %w", cf.Name, err)
		}
		if cf.ID == "" {
			cf.ID = uuid.NewString()
		}
		out = append(out, cf)
	}
	return out, nil
}
