// Package profit (aplicación) orquesta la resolución de configuración de
// comisiones y costos sobre el motor de rentabilidad del dominio.
package profit

import (
	"context"
	"sync"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
	"github.com/jhoicas/ventapro-api/internal/domain/repository"
	"github.com/jhoicas/ventapro-api/pkg/logger"
)

// ConfigResolver resuelve la configuración de comisiones por (tienda,
// plataforma) con precedencia tienda → global → vacía, y los costos externos
// por tienda (tienda → vacía, sin fallback global).
//
// Cachea los resultados (las entradas son inmutables una vez leídas) y expone
// Invalidate como hook para cuando el operador edita la configuración. Un
// fallo de lectura degrada a configuración vacía con un warning: nunca aborta
// el cálculo de ganancia que lo rodea.
type ConfigResolver struct {
	repo repository.FeeConfigRepository
	log  *logger.Logger

	mu       sync.RWMutex
	feeCache map[string]*entity.PlatformFeeConfig
	extCache map[string]*entity.ExternalCostConfig
	tiers    []entity.PackagingTier
	hasTiers bool
}

// NewConfigResolver construye el resolutor.
func NewConfigResolver(repo repository.FeeConfigRepository, log *logger.Logger) *ConfigResolver {
	return &ConfigResolver{
		repo:     repo,
		log:      log,
		feeCache: make(map[string]*entity.PlatformFeeConfig),
		extCache: make(map[string]*entity.ExternalCostConfig),
	}
}

// ResolveFees devuelve la configuración de comisiones aplicable.
// Orden de resolución: (1) configuración de la tienda para la plataforma
// exacta si existe y no está vacía; (2) configuración global de la
// plataforma; (3) configuración vacía (todas las comisiones en cero, no es
// un error).
func (r *ConfigResolver) ResolveFees(ctx context.Context, storeID, platform string) *entity.PlatformFeeConfig {
	platform = entity.NormalizePlatform(platform)
	key := storeID + "|" + platform

	r.mu.RLock()
	if cfg, ok := r.feeCache[key]; ok {
		r.mu.RUnlock()
		return cfg
	}
	r.mu.RUnlock()

	cfg := r.fetchFees(ctx, storeID, platform)

	r.mu.Lock()
	r.feeCache[key] = cfg
	r.mu.Unlock()
	return cfg
}

func (r *ConfigResolver) fetchFees(ctx context.Context, storeID, platform string) *entity.PlatformFeeConfig {
	if storeID != "" && storeID != repository.AllStores {
		cfg, err := r.repo.FetchPlatformFeeConfig(ctx, storeID, platform)
		if err != nil {
			r.log.Warn().Err(err).Str("store_id", storeID).Str("platform", platform).
				Msg("lectura de comisiones de tienda falló; se degrada al fallback")
		} else if !cfg.Empty() {
			return cfg
		}
	}

	global, err := r.repo.FetchGlobalPlatformFeeConfig(ctx, platform)
	if err != nil {
		r.log.Warn().Err(err).Str("platform", platform).
			Msg("lectura de comisiones globales falló; se degrada a configuración vacía")
	} else if !global.Empty() {
		return global
	}

	return &entity.PlatformFeeConfig{Platform: platform, Fees: map[entity.FeeKey]entity.FeeRule{}}
}

// ResolveExternalCosts devuelve los costos operativos de la tienda, o una
// configuración vacía si no hay (sin fallback global).
func (r *ConfigResolver) ResolveExternalCosts(ctx context.Context, storeID string) *entity.ExternalCostConfig {
	r.mu.RLock()
	if cfg, ok := r.extCache[storeID]; ok {
		r.mu.RUnlock()
		return cfg
	}
	r.mu.RUnlock()

	cfg, err := r.repo.FetchExternalCostConfig(ctx, storeID)
	if err != nil {
		r.log.Warn().Err(err).Str("store_id", storeID).
			Msg("lectura de costos externos falló; se degrada a configuración vacía")
		cfg = nil
	}
	if cfg.Empty() {
		cfg = &entity.ExternalCostConfig{StoreID: storeID, Costs: map[entity.CostKey]entity.FeeRule{}}
	}

	r.mu.Lock()
	r.extCache[storeID] = cfg
	r.mu.Unlock()
	return cfg
}

// PackagingTiers devuelve la tabla de escalones de empaque, cacheada. Un
// fallo de lectura degrada a tabla vacía (empaque cero) con warning.
func (r *ConfigResolver) PackagingTiers(ctx context.Context) []entity.PackagingTier {
	r.mu.RLock()
	if r.hasTiers {
		tiers := r.tiers
		r.mu.RUnlock()
		return tiers
	}
	r.mu.RUnlock()

	tiers, err := r.repo.FetchPackagingTiers(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("lectura de escalones de empaque falló; costo de empaque en cero")
		tiers = nil
	}

	r.mu.Lock()
	r.tiers = tiers
	r.hasTiers = true
	r.mu.Unlock()
	return tiers
}

// Invalidate descarta todo lo cacheado. Se invoca cuando el operador edita
// comisiones, costos externos o escalones de empaque.
func (r *ConfigResolver) Invalidate() {
	r.mu.Lock()
	r.feeCache = make(map[string]*entity.PlatformFeeConfig)
	r.extCache = make(map[string]*entity.ExternalCostConfig)
	r.tiers = nil
	r.hasTiers = false
	r.mu.Unlock()
}

// Snapshot crea una vista de configuración para una pasada de reporte:
// resuelve cada (tienda, plataforma) a lo sumo una vez y garantiza que todos
// los pedidos de la misma pasada vean el mismo snapshot aunque la
// configuración cambie (o el caché se invalide) a mitad de la generación.
//
// No es seguro compartir un Snapshot entre goroutines; cada pasada usa el suyo.
func (r *ConfigResolver) Snapshot() *Snapshot {
	return &Snapshot{
		resolver: r,
		fees:     make(map[string]*entity.PlatformFeeConfig),
		ext:      make(map[string]*entity.ExternalCostConfig),
	}
}

// Snapshot memoización local de una pasada de reporte sobre el resolutor.
type Snapshot struct {
	resolver *ConfigResolver
	fees     map[string]*entity.PlatformFeeConfig
	ext      map[string]*entity.ExternalCostConfig
	tiers    []entity.PackagingTier
	hasTiers bool
}

// Fees resuelve comisiones con memoización de pasada.
func (s *Snapshot) Fees(ctx context.Context, storeID, platform string) *entity.PlatformFeeConfig {
	key := storeID + "|" + entity.NormalizePlatform(platform)
	if cfg, ok := s.fees[key]; ok {
		return cfg
	}
	cfg := s.resolver.ResolveFees(ctx, storeID, platform)
	s.fees[key] = cfg
	return cfg
}

// ExternalCosts resuelve costos externos con memoización de pasada.
func (s *Snapshot) ExternalCosts(ctx context.Context, storeID string) *entity.ExternalCostConfig {
	if cfg, ok := s.ext[storeID]; ok {
		return cfg
	}
	cfg := s.resolver.ResolveExternalCosts(ctx, storeID)
	s.ext[storeID] = cfg
	return cfg
}

// PackagingTiers devuelve los escalones fijados para la pasada.
func (s *Snapshot) PackagingTiers(ctx context.Context) []entity.PackagingTier {
	if !s.hasTiers {
		s.tiers = s.resolver.PackagingTiers(ctx)
		s.hasTiers = true
	}
	return s.tiers
}
