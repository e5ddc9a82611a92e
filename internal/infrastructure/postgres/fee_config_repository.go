package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventapro-api/internal/domain"
	"github.com/jhoicas/ventapro-api/internal/domain/entity"
	"github.com/jhoicas/ventapro-api/internal/domain/repository"
)

var _ repository.FeeConfigRepository = (*FeeConfigRepo)(nil)

// FeeConfigRepo persistencia de configuración de comisiones, costos externos
// y escalones de empaque. Las configuraciones se guardan como documento JSONB
// por (tienda, plataforma); la fila con store_id vacío es la global de la
// plataforma.
type FeeConfigRepo struct {
	pool *pgxpool.Pool
}

// NewFeeConfigRepository construye el adaptador de configuración.
func NewFeeConfigRepository(pool *pgxpool.Pool) *FeeConfigRepo {
	return &FeeConfigRepo{pool: pool}
}

// FetchPlatformFeeConfig configuración de la tienda para la plataforma exacta.
// (nil, nil) si no hay fila: la ausencia no es error.
func (r *FeeConfigRepo) FetchPlatformFeeConfig(ctx context.Context, storeID, platform string) (*entity.PlatformFeeConfig, error) {
	return r.fetchFeeDoc(ctx, storeID, entity.NormalizePlatform(platform))
}

// FetchGlobalPlatformFeeConfig configuración global de la plataforma.
func (r *FeeConfigRepo) FetchGlobalPlatformFeeConfig(ctx context.Context, platform string) (*entity.PlatformFeeConfig, error) {
	return r.fetchFeeDoc(ctx, "", entity.NormalizePlatform(platform))
}

func (r *FeeConfigRepo) fetchFeeDoc(ctx context.Context, storeID, platform string) (*entity.PlatformFeeConfig, error) {
	const query = `
	SELECT doc FROM platform_fee_configs
	WHERE store_id = $1 AND platform = $2`

	var doc []byte
	err := r.pool.QueryRow(ctx, query, storeID, platform).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("feeconfig.Fetch(%s,%s): %w", storeID, platform, err)
	}

	var cfg entity.PlatformFeeConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("feeconfig.Fetch(%s,%s) doc: %w", storeID, platform, err)
	}
	cfg.StoreID = storeID
	cfg.Platform = platform
	return &cfg, nil
}

// SavePlatformFeeConfig upsert por (tienda, plataforma); store_id vacío
// guarda la configuración global de la plataforma.
func (r *FeeConfigRepo) SavePlatformFeeConfig(ctx context.Context, cfg *entity.PlatformFeeConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("feeconfig.Save marshal: %w", err)
	}
	const query = `
	INSERT INTO platform_fee_configs (store_id, platform, doc, updated_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (store_id, platform)
	DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, cfg.StoreID, cfg.Platform, doc); err != nil {
		return fmt.Errorf("feeconfig.Save(%s,%s): %w", cfg.StoreID, cfg.Platform, err)
	}
	return nil
}

// FetchExternalCostConfig costos operativos de la tienda; (nil, nil) si no hay.
func (r *FeeConfigRepo) FetchExternalCostConfig(ctx context.Context, storeID string) (*entity.ExternalCostConfig, error) {
	const query = `SELECT doc FROM external_cost_configs WHERE store_id = $1`

	var doc []byte
	err := r.pool.QueryRow(ctx, query, storeID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("extcosts.Fetch(%s): %w", storeID, err)
	}

	var cfg entity.ExternalCostConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("extcosts.Fetch(%s) doc: %w", storeID, err)
	}
	cfg.StoreID = storeID
	return &cfg, nil
}

// SaveExternalCostConfig upsert por tienda.
func (r *FeeConfigRepo) SaveExternalCostConfig(ctx context.Context, cfg *entity.ExternalCostConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("extcosts.Save marshal: %w", err)
	}
	const query = `
	INSERT INTO external_cost_configs (store_id, doc, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (store_id)
	DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, cfg.StoreID, doc); err != nil {
		return fmt.Errorf("extcosts.Save(%s): %w", cfg.StoreID, err)
	}
	return nil
}

// FetchPackagingTiers tabla completa de escalones, en orden de límite ascendente.
func (r *FeeConfigRepo) FetchPackagingTiers(ctx context.Context) ([]entity.PackagingTier, error) {
	const query = `
	SELECT product_type, weight_threshold, cost
	FROM packaging_tiers
	ORDER BY product_type, weight_threshold`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("packaging.FetchTiers: %w", err)
	}
	defer rows.Close()

	var tiers []entity.PackagingTier
	for rows.Next() {
		var t entity.PackagingTier
		var pt string
		if err := rows.Scan(&pt, &t.WeightThreshold, &t.Cost); err != nil {
			return nil, fmt.Errorf("packaging.FetchTiers scan: %w", err)
		}
		t.ProductType = entity.NormalizeProductType(pt)
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

// SavePackagingTiers reemplaza la tabla completa dentro de una transacción.
// Dos escalones con el mismo (categoría, límite) violan el constraint único
// y se reportan como duplicado.
func (r *FeeConfigRepo) SavePackagingTiers(ctx context.Context, tiers []entity.PackagingTier) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("packaging.SaveTiers begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM packaging_tiers`); err != nil {
		return fmt.Errorf("packaging.SaveTiers clear: %w", err)
	}
	const insert = `
	INSERT INTO packaging_tiers (product_type, weight_threshold, cost)
	VALUES ($1, $2, $3)`
	for _, t := range tiers {
		if _, err := tx.Exec(ctx, insert, string(t.ProductType), t.WeightThreshold, t.Cost); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: escalón (%s, %s)", domain.ErrDuplicate, t.ProductType, t.WeightThreshold)
			}
			return fmt.Errorf("packaging.SaveTiers insert: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("packaging.SaveTiers commit: %w", err)
	}
	return nil
}
