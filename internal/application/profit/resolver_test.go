package profit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appprofit "github.com/jhoicas/ventapro-api/internal/application/profit"
	"github.com/jhoicas/ventapro-api/internal/domain/entity"
	"github.com/jhoicas/ventapro-api/internal/domain/repository"
	"github.com/jhoicas/ventapro-api/pkg/logger"
)

// fakeFeeConfigRepo implementación en memoria del repositorio de configuración
// con contadores de llamadas para verificar el caché.
type fakeFeeConfigRepo struct {
	store   map[string]*entity.PlatformFeeConfig // clave storeID|platform
	global  map[string]*entity.PlatformFeeConfig // clave platform
	ext     map[string]*entity.ExternalCostConfig
	tiers   []entity.PackagingTier
	failAll bool

	storeCalls  int
	globalCalls int
	extCalls    int
	tierCalls   int
}

var _ repository.FeeConfigRepository = (*fakeFeeConfigRepo)(nil)

func newFakeRepo() *fakeFeeConfigRepo {
	return &fakeFeeConfigRepo{
		store:  make(map[string]*entity.PlatformFeeConfig),
		global: make(map[string]*entity.PlatformFeeConfig),
		ext:    make(map[string]*entity.ExternalCostConfig),
	}
}

func (f *fakeFeeConfigRepo) FetchPlatformFeeConfig(_ context.Context, storeID, platform string) (*entity.PlatformFeeConfig, error) {
	f.storeCalls++
	if f.failAll {
		return nil, errors.New("conexión perdida")
	}
	return f.store[storeID+"|"+platform], nil
}

func (f *fakeFeeConfigRepo) FetchGlobalPlatformFeeConfig(_ context.Context, platform string) (*entity.PlatformFeeConfig, error) {
	f.globalCalls++
	if f.failAll {
		return nil, errors.New("conexión perdida")
	}
	return f.global[platform], nil
}

func (f *fakeFeeConfigRepo) FetchExternalCostConfig(_ context.Context, storeID string) (*entity.ExternalCostConfig, error) {
	f.extCalls++
	if f.failAll {
		return nil, errors.New("conexión perdida")
	}
	return f.ext[storeID], nil
}

func (f *fakeFeeConfigRepo) FetchPackagingTiers(_ context.Context) ([]entity.PackagingTier, error) {
	f.tierCalls++
	if f.failAll {
		return nil, errors.New("conexión perdida")
	}
	return f.tiers, nil
}

func (f *fakeFeeConfigRepo) SavePlatformFeeConfig(_ context.Context, cfg *entity.PlatformFeeConfig) error {
	if cfg.StoreID == "" {
		f.global[cfg.Platform] = cfg
		return nil
	}
	f.store[cfg.StoreID+"|"+cfg.Platform] = cfg
	return nil
}

func (f *fakeFeeConfigRepo) SaveExternalCostConfig(_ context.Context, cfg *entity.ExternalCostConfig) error {
	f.ext[cfg.StoreID] = cfg
	return nil
}

func (f *fakeFeeConfigRepo) SavePackagingTiers(_ context.Context, tiers []entity.PackagingTier) error {
	f.tiers = tiers
	return nil
}

func storeConfig(storeID, platform string) *entity.PlatformFeeConfig {
	return &entity.PlatformFeeConfig{
		StoreID:  storeID,
		Platform: platform,
		Fees: map[entity.FeeKey]entity.FeeRule{
			entity.FeeCommission: {Type: entity.FeeTypePercent, Value: decimal.NewFromInt(8)},
		},
	}
}

func globalConfig(platform string) *entity.PlatformFeeConfig {
	return &entity.PlatformFeeConfig{
		Platform: platform,
		Fees: map[entity.FeeKey]entity.FeeRule{
			entity.FeeCommission: {Type: entity.FeeTypePercent, Value: decimal.NewFromInt(5)},
		},
	}
}

// ── ResolveFees ───────────────────────────────────────────────────────────────

// TestResolveFees_PrecedenciaTiendaGlobalVacia la cadena de resolución es
// tienda → global → vacía.
func TestResolveFees_PrecedenciaTiendaGlobalVacia(t *testing.T) {
	ctx := context.Background()

	t.Run("la configuración de la tienda gana sobre la global", func(t *testing.T) {
		repo := newFakeRepo()
		repo.store["tienda-1|shopee"] = storeConfig("tienda-1", "shopee")
		repo.global["shopee"] = globalConfig("shopee")
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		cfg := r.ResolveFees(ctx, "tienda-1", "shopee")

		require.NotNil(t, cfg)
		assert.Equal(t, "tienda-1", cfg.StoreID)
		assert.True(t, cfg.Fees[entity.FeeCommission].Value.Equal(decimal.NewFromInt(8)))
	})

	t.Run("sin configuración de tienda cae a la global", func(t *testing.T) {
		repo := newFakeRepo()
		repo.global["shopee"] = globalConfig("shopee")
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		cfg := r.ResolveFees(ctx, "tienda-1", "shopee")

		require.NotNil(t, cfg)
		assert.Empty(t, cfg.StoreID, "la configuración global no tiene tienda")
		assert.True(t, cfg.Fees[entity.FeeCommission].Value.Equal(decimal.NewFromInt(5)))
	})

	t.Run("sin ninguna configuración devuelve vacía, no nil ni error", func(t *testing.T) {
		repo := newFakeRepo()
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		cfg := r.ResolveFees(ctx, "tienda-1", "shopee")

		require.NotNil(t, cfg)
		assert.True(t, cfg.Empty())
	})

	t.Run("una configuración de tienda vacía también cae a la global", func(t *testing.T) {
		repo := newFakeRepo()
		repo.store["tienda-1|shopee"] = &entity.PlatformFeeConfig{StoreID: "tienda-1", Platform: "shopee"}
		repo.global["shopee"] = globalConfig("shopee")
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		cfg := r.ResolveFees(ctx, "tienda-1", "shopee")

		assert.True(t, cfg.Fees[entity.FeeCommission].Value.Equal(decimal.NewFromInt(5)))
	})
}

// TestResolveFees_DegradaAVaciaConError un fallo de lectura degrada a
// configuración vacía sin propagar el error: el reporte no se aborta por esto.
func TestResolveFees_DegradaAVaciaConError(t *testing.T) {
	repo := newFakeRepo()
	repo.failAll = true
	r := appprofit.NewConfigResolver(repo, logger.Nop())

	cfg := r.ResolveFees(context.Background(), "tienda-1", "shopee")

	require.NotNil(t, cfg)
	assert.True(t, cfg.Empty(), "fallo de lectura degrada a configuración vacía")
}

// TestResolveFees_CacheaResultados la segunda resolución del mismo par no
// vuelve al repositorio; la ausencia también se cachea.
func TestResolveFees_CacheaResultados(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.store["tienda-1|shopee"] = storeConfig("tienda-1", "shopee")
	r := appprofit.NewConfigResolver(repo, logger.Nop())

	r.ResolveFees(ctx, "tienda-1", "shopee")
	r.ResolveFees(ctx, "tienda-1", "shopee")
	r.ResolveFees(ctx, "tienda-1", "shopee")
	assert.Equal(t, 1, repo.storeCalls, "una sola lectura para el mismo par")

	// La configuración vacía (ausente) también se cachea.
	r.ResolveFees(ctx, "tienda-2", "lazada")
	r.ResolveFees(ctx, "tienda-2", "lazada")
	assert.Equal(t, 2, repo.storeCalls)
	assert.Equal(t, 1, repo.globalCalls, "el fallback global de tienda-2 se consultó una vez")
}

// TestResolveFees_NormalizaPlataforma "TikTok Shop" y "tiktok" comparten
// entrada de caché y configuración.
func TestResolveFees_NormalizaPlataforma(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.global["tiktok"] = globalConfig("tiktok")
	r := appprofit.NewConfigResolver(repo, logger.Nop())

	cfg1 := r.ResolveFees(ctx, "", "TikTok Shop")
	cfg2 := r.ResolveFees(ctx, "", "tiktok")

	assert.Same(t, cfg1, cfg2, "sinónimos de plataforma comparten caché")
	assert.False(t, cfg1.Empty())
}

// TestInvalidate tras invalidar, la siguiente resolución vuelve al repositorio
// y ve los datos nuevos.
func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.global["shopee"] = globalConfig("shopee")
	r := appprofit.NewConfigResolver(repo, logger.Nop())

	antes := r.ResolveFees(ctx, "", "shopee")
	assert.True(t, antes.Fees[entity.FeeCommission].Value.Equal(decimal.NewFromInt(5)))

	// El operador edita la configuración.
	repo.global["shopee"] = &entity.PlatformFeeConfig{
		Platform: "shopee",
		Fees: map[entity.FeeKey]entity.FeeRule{
			entity.FeeCommission: {Type: entity.FeeTypePercent, Value: decimal.NewFromInt(9)},
		},
	}
	r.Invalidate()

	despues := r.ResolveFees(ctx, "", "shopee")
	assert.True(t, despues.Fees[entity.FeeCommission].Value.Equal(decimal.NewFromInt(9)),
		"tras invalidar se leen los datos nuevos")
	assert.Equal(t, 2, repo.globalCalls)
}

// ── ResolveExternalCosts ──────────────────────────────────────────────────────

func TestResolveExternalCosts(t *testing.T) {
	ctx := context.Background()

	t.Run("devuelve los costos de la tienda", func(t *testing.T) {
		repo := newFakeRepo()
		repo.ext["tienda-1"] = &entity.ExternalCostConfig{
			StoreID: "tienda-1",
			Costs: map[entity.CostKey]entity.FeeRule{
				entity.CostRent: {Type: entity.FeeTypeFixed, Value: decimal.NewFromInt(1_000)},
			},
		}
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		cfg := r.ResolveExternalCosts(ctx, "tienda-1")

		require.NotNil(t, cfg)
		assert.False(t, cfg.Empty())
	})

	t.Run("sin configuración ni fallback global: vacía", func(t *testing.T) {
		repo := newFakeRepo()
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		cfg := r.ResolveExternalCosts(ctx, "tienda-sin-config")

		require.NotNil(t, cfg)
		assert.True(t, cfg.Empty())
	})

	t.Run("fallo de lectura degrada a vacía y cachea", func(t *testing.T) {
		repo := newFakeRepo()
		repo.failAll = true
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		cfg := r.ResolveExternalCosts(ctx, "tienda-1")
		r.ResolveExternalCosts(ctx, "tienda-1")

		assert.True(t, cfg.Empty())
		assert.Equal(t, 1, repo.extCalls, "la degradación también se cachea")
	})
}

// ── PackagingTiers ────────────────────────────────────────────────────────────

func TestPackagingTiers(t *testing.T) {
	ctx := context.Background()

	t.Run("cachea la tabla", func(t *testing.T) {
		repo := newFakeRepo()
		repo.tiers = []entity.PackagingTier{
			{ProductType: entity.ProductTypeDry, WeightThreshold: decimal.NewFromInt(1), Cost: decimal.NewFromInt(5_000)},
		}
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		tiers := r.PackagingTiers(ctx)
		r.PackagingTiers(ctx)

		assert.Len(t, tiers, 1)
		assert.Equal(t, 1, repo.tierCalls)
	})

	t.Run("fallo de lectura degrada a tabla vacía", func(t *testing.T) {
		repo := newFakeRepo()
		repo.failAll = true
		r := appprofit.NewConfigResolver(repo, logger.Nop())

		assert.Empty(t, r.PackagingTiers(ctx))
	})
}

// ── Snapshot ──────────────────────────────────────────────────────────────────

// TestSnapshot_VistaEstableDurantePasada un snapshot fija lo resuelto: la
// invalidación del caché a mitad de pasada no cambia lo que el snapshot ve.
func TestSnapshot_VistaEstableDurantePasada(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.global["shopee"] = globalConfig("shopee")
	r := appprofit.NewConfigResolver(repo, logger.Nop())

	snap := r.Snapshot()
	antes := snap.Fees(ctx, "tienda-1", "shopee")

	// Edición concurrente de configuración a mitad de la pasada.
	repo.global["shopee"] = &entity.PlatformFeeConfig{
		Platform: "shopee",
		Fees: map[entity.FeeKey]entity.FeeRule{
			entity.FeeCommission: {Type: entity.FeeTypePercent, Value: decimal.NewFromInt(50)},
		},
	}
	r.Invalidate()

	durante := snap.Fees(ctx, "tienda-1", "shopee")
	assert.Same(t, antes, durante, "la pasada sigue viendo su snapshot")

	// Una pasada nueva ya ve la edición.
	nueva := r.Snapshot().Fees(ctx, "tienda-1", "shopee")
	assert.True(t, nueva.Fees[entity.FeeCommission].Value.Equal(decimal.NewFromInt(50)))
}
