// Package report contiene el caso de uso de reportes de rentabilidad:
// filtrado, cálculo de ganancia por pedido, agregación y paginación.
package report

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventapro-api/internal/application/dto"
	appprofit "github.com/jhoicas/ventapro-api/internal/application/profit"
	"github.com/jhoicas/ventapro-api/internal/domain"
	"github.com/jhoicas/ventapro-api/internal/domain/entity"
	domprofit "github.com/jhoicas/ventapro-api/internal/domain/profit"
	"github.com/jhoicas/ventapro-api/internal/domain/repository"
	"github.com/jhoicas/ventapro-api/pkg/logger"
	"github.com/jhoicas/ventapro-api/pkg/textnorm"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// UseCase genera reportes de rentabilidad filtrados y paginados.
//
// Semántica última-solicitud-gana: cada pasada toma un número de secuencia
// creciente; si durante la generación llega una solicitud más nueva, la
// pasada vieja termina con ErrSuperseded y su resultado se descarta, de modo
// que un cálculo obsoleto nunca pisa uno más reciente.
type UseCase struct {
	orders     repository.OrderRepository
	resolver   *appprofit.ConfigResolver
	classifier *domprofit.Classifier
	log        *logger.Logger
	pageSize   int

	passSeq atomic.Uint64
}

// NewUseCase construye el caso de uso. pageSize <= 0 usa el default 10.
func NewUseCase(
	orders repository.OrderRepository,
	resolver *appprofit.ConfigResolver,
	classifier *domprofit.Classifier,
	pageSize int,
	log *logger.Logger,
) *UseCase {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &UseCase{
		orders:     orders,
		resolver:   resolver,
		classifier: classifier,
		log:        log,
		pageSize:   pageSize,
	}
}

// filters filtros validados, listos para aplicar.
type filters struct {
	channel  entity.Channel // vacío = todos
	platform string         // normalizado; vacío = todas
	storeID  string
	from, to time.Time // cero = sin límite; to ya incluye el fin del día
	search   string    // normalizado (fold); vacío = sin búsqueda
}

// parseFilters valida los filtros de la solicitud. Un rango de fechas
// no parseable o invertido se rechaza antes de agregar nada.
func parseFilters(req dto.ReportRequest) (filters, error) {
	f := filters{
		storeID: req.StoreID,
		search:  textnorm.Fold(req.Search),
	}

	switch req.Channel {
	case "":
	case string(entity.ChannelEcommerce), string(entity.ChannelRetail), string(entity.ChannelWholesale):
		f.channel = entity.Channel(req.Channel)
	default:
		return filters{}, fmt.Errorf("%w: canal desconocido %q", domain.ErrInvalidFilter, req.Channel)
	}

	if req.Platform != "" {
		f.platform = entity.NormalizePlatform(req.Platform)
	}

	if req.From != "" {
		from, err := time.ParseInLocation(dateLayout, req.From, time.Local)
		if err != nil {
			return filters{}, fmt.Errorf("%w: from inválido: %v", domain.ErrInvalidFilter, err)
		}
		f.from = from
	}
	if req.To != "" {
		to, err := time.ParseInLocation(dateLayout, req.To, time.Local)
		if err != nil {
			return filters{}, fmt.Errorf("%w: to inválido: %v", domain.ErrInvalidFilter, err)
		}
		f.to = to.Add(24*time.Hour - time.Nanosecond) // inclusive hasta fin de día
	}
	if !f.from.IsZero() && !f.to.IsZero() && f.from.After(f.to) {
		return filters{}, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidFilter)
	}

	return f, nil
}

// matches aplica los filtros, en orden: canal, plataforma, tienda, fechas,
// búsqueda libre. La búsqueda es substring OR sobre nombre de producto, SKU e
// ID del pedido, insensible a mayúsculas y diacríticos; basta con que un
// campo coincida.
func (f filters) matches(o entity.Order, channel entity.Channel) bool {
	if f.channel != "" && channel != f.channel {
		return false
	}
	if f.platform != "" && entity.NormalizePlatform(o.Platform) != f.platform {
		return false
	}
	if f.storeID != "" && f.storeID != repository.AllStores && o.StoreID != f.storeID {
		return false
	}
	if !f.from.IsZero() && o.CreatedAt.Before(f.from) {
		return false
	}
	if !f.to.IsZero() && o.CreatedAt.After(f.to) {
		return false
	}
	if f.search != "" {
		found := false
		for _, field := range o.SearchFields() {
			if textnorm.ContainsFold(field, f.search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// GenerateReport genera el reporte completo para los filtros dados.
//
// Garantías:
//   - La configuración se resuelve a lo sumo una vez por (tienda, plataforma)
//     por pasada (snapshot consistente para todos los pedidos).
//   - Un fallo leyendo pedidos hace fallar el reporte completo, nunca produce
//     un parcial engañoso; los fallos de configuración degradan a vacía.
//   - Si llega una solicitud más nueva durante la generación, esta pasada
//     retorna domain.ErrSuperseded.
func (uc *UseCase) GenerateReport(ctx context.Context, req dto.ReportRequest) (*dto.ReportDTO, error) {
	passID := uc.passSeq.Add(1)

	f, err := parseFilters(req)
	if err != nil {
		return nil, err
	}

	storeID := req.StoreID
	if storeID == "" {
		storeID = repository.AllStores
	}
	orders, err := uc.orders.FetchOrders(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOrdersUnavailable, err)
	}
	if err := uc.checkCurrent(ctx, passID); err != nil {
		return nil, err
	}

	snap := uc.resolver.Snapshot()
	packaging := domprofit.NewPackagingCalculator(snap.PackagingTiers(ctx))

	enriched := make([]dto.OrderProfitDTO, 0, len(orders))
	filteredOrders := make([]entity.Order, 0, len(orders))
	stats := dto.ReportStatsDTO{}
	for _, o := range orders {
		channel := uc.classifier.Classify(o)
		if !f.matches(o, channel) {
			continue
		}
		filteredOrders = append(filteredOrders, o)

		fees := snap.Fees(ctx, o.StoreID, o.Platform)
		ext := snap.ExternalCosts(ctx, o.StoreID)
		bd := domprofit.ComputeBreakdown(o, fees, ext, packaging)

		enriched = append(enriched, dto.OrderProfitDTO{
			OrderID:       o.ID,
			StoreID:       o.StoreID,
			Platform:      entity.NormalizePlatform(o.Platform),
			Channel:       string(channel),
			CreatedAt:     o.CreatedAt.Format(dateLayout),
			Quantity:      o.TotalQuantity(),
			TotalRevenue:  bd.TotalRevenue,
			TotalCost:     bd.TotalCost,
			BaseProfit:    bd.BaseProfit,
			TotalFees:     bd.TotalFees,
			PackagingCost: bd.PackagingCost,
			ExternalCosts: bd.ExternalCosts,
			FinalProfit:   bd.FinalProfit,
			PerFeeAmounts: bd.PerFeeAmounts,
		})

		stats.TotalQuantity = stats.TotalQuantity.Add(o.TotalQuantity())
		stats.TotalRevenue = stats.TotalRevenue.Add(bd.TotalRevenue)
		stats.TotalBaseProfit = stats.TotalBaseProfit.Add(bd.BaseProfit)
		stats.TotalFees = stats.TotalFees.Add(bd.TotalFees)
		stats.TotalPackaging = stats.TotalPackaging.Add(bd.PackagingCost)
		stats.TotalExternal = stats.TotalExternal.Add(bd.ExternalCosts)
		stats.TotalFinalProfit = stats.TotalFinalProfit.Add(bd.FinalProfit)
		if uc.classifier.LargeWholesale(o) {
			stats.LargeWholesale++
		}
		if o.Malformed {
			stats.MalformedOrders++
		}
	}
	stats.OrderCount = len(enriched)
	if stats.TotalRevenue.IsPositive() {
		stats.MarginPct = stats.TotalFinalProfit.Div(stats.TotalRevenue).Mul(hundred).Round(2)
	}

	// Rollups sobre el conjunto filtrado completo.
	stats.TopProducts = buildProductRollup(filteredOrders, enriched, stats)
	stats.ByStore = buildStoreRollup(enriched, stats.TotalRevenue)
	stats.ByDay = buildDayRollup(enriched, stats.TotalRevenue)

	if err := uc.checkCurrent(ctx, passID); err != nil {
		return nil, err
	}

	// Paginación: 1-indexada, página fuera de rango = página vacía, no error.
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = uc.pageSize
	}
	totalCount := len(enriched)
	totalPages := (totalCount + size - 1) / size

	start := (page - 1) * size
	end := start + size
	var pageItems []dto.OrderProfitDTO
	switch {
	case start >= totalCount:
		pageItems = []dto.OrderProfitDTO{}
	case end > totalCount:
		pageItems = enriched[start:totalCount]
	default:
		pageItems = enriched[start:end]
	}

	return &dto.ReportDTO{
		Page: dto.PageResponse{
			Page:       page,
			PageSize:   size,
			TotalCount: totalCount,
			TotalPages: totalPages,
		},
		PageItems: pageItems,
		Stats:     stats,
	}, nil
}

// ComputeOrderProfit clasifica y calcula el desglose de un solo pedido con la
// configuración vigente (vista previa para la UI, sin pasada de reporte).
func (uc *UseCase) ComputeOrderProfit(ctx context.Context, o entity.Order) dto.OrderProfitDTO {
	snap := uc.resolver.Snapshot()
	packaging := domprofit.NewPackagingCalculator(snap.PackagingTiers(ctx))
	fees := snap.Fees(ctx, o.StoreID, o.Platform)
	ext := snap.ExternalCosts(ctx, o.StoreID)
	bd := domprofit.ComputeBreakdown(o, fees, ext, packaging)

	return dto.OrderProfitDTO{
		OrderID:       o.ID,
		StoreID:       o.StoreID,
		Platform:      entity.NormalizePlatform(o.Platform),
		Channel:       string(uc.classifier.Classify(o)),
		CreatedAt:     o.CreatedAt.Format(dateLayout),
		Quantity:      o.TotalQuantity(),
		TotalRevenue:  bd.TotalRevenue,
		TotalCost:     bd.TotalCost,
		BaseProfit:    bd.BaseProfit,
		TotalFees:     bd.TotalFees,
		PackagingCost: bd.PackagingCost,
		ExternalCosts: bd.ExternalCosts,
		FinalProfit:   bd.FinalProfit,
		PerFeeAmounts: bd.PerFeeAmounts,
	}
}

// checkCurrent verifica cancelación de contexto y supersesión de la pasada.
func (uc *UseCase) checkCurrent(ctx context.Context, passID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if uc.passSeq.Load() != passID {
		return domain.ErrSuperseded
	}
	return nil
}

// productKey identidad de agrupación por producto.
type productKey struct {
	name string
	sku  string
}

// buildProductRollup agrega unidades, ingresos y ganancia por producto,
// recorriendo las líneas de los pedidos filtrados. El ranking se ordena por
// unidades descendente; los empates conservan el orden de inserción
// (ordenamiento estable).
func buildProductRollup(orders []entity.Order, enriched []dto.OrderProfitDTO, stats dto.ReportStatsDTO) []dto.ProductRollupDTO {
	type agg struct {
		qty     decimal.Decimal
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	byProduct := make(map[productKey]*agg)
	var keys []productKey

	addLine := func(name, sku string, qty, revenue, profit decimal.Decimal) {
		k := productKey{name: name, sku: sku}
		a, ok := byProduct[k]
		if !ok {
			a = &agg{}
			byProduct[k] = a
			keys = append(keys, k)
		}
		a.qty = a.qty.Add(qty)
		a.revenue = a.revenue.Add(revenue)
		a.profit = a.profit.Add(profit)
	}

	for i, o := range orders {
		finalProfit := enriched[i].FinalProfit
		revenue := enriched[i].TotalRevenue
		if !o.MultiItem() {
			if o.Quantity.IsPositive() {
				addLine(o.ProductName, o.SKU, o.Quantity, o.SellingPrice.Mul(o.Quantity), finalProfit)
			}
			continue
		}
		// En pedidos multi-línea la ganancia final se prorratea por la
		// participación de cada línea en los ingresos del pedido.
		for _, it := range o.Items {
			if !it.Valid() {
				continue
			}
			lineRevenue := it.SellingPrice.Mul(it.Quantity)
			lineProfit := decimal.Zero
			if revenue.IsPositive() {
				lineProfit = finalProfit.Mul(lineRevenue).Div(revenue)
			}
			addLine(it.ProductName, it.SKU, it.Quantity, lineRevenue, lineProfit)
		}
	}

	rollup := make([]dto.ProductRollupDTO, 0, len(keys))
	for _, k := range keys {
		a := byProduct[k]
		qtyPct := decimal.Zero
		if stats.TotalQuantity.IsPositive() {
			qtyPct = a.qty.Div(stats.TotalQuantity).Mul(hundred).Round(2)
		}
		revPct := decimal.Zero
		if stats.TotalRevenue.IsPositive() {
			revPct = a.revenue.Div(stats.TotalRevenue).Mul(hundred).Round(2)
		}
		rollup = append(rollup, dto.ProductRollupDTO{
			ProductName: k.name,
			SKU:         k.sku,
			Quantity:    a.qty,
			Revenue:     a.revenue,
			Profit:      a.profit.Round(2),
			QuantityPct: qtyPct,
			RevenuePct:  revPct,
		})
	}

	sort.SliceStable(rollup, func(i, j int) bool {
		return rollup[i].Quantity.GreaterThan(rollup[j].Quantity)
	})
	return rollup
}

// buildStoreRollup agrega ingresos y ganancia por tienda, ordenado por
// ingresos descendente.
func buildStoreRollup(enriched []dto.OrderProfitDTO, totalRevenue decimal.Decimal) []dto.StoreRollupDTO {
	type agg struct {
		count   int
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	byStore := make(map[string]*agg)
	var ids []string
	for _, e := range enriched {
		a, ok := byStore[e.StoreID]
		if !ok {
			a = &agg{}
			byStore[e.StoreID] = a
			ids = append(ids, e.StoreID)
		}
		a.count++
		a.revenue = a.revenue.Add(e.TotalRevenue)
		a.profit = a.profit.Add(e.FinalProfit)
	}

	rollup := make([]dto.StoreRollupDTO, 0, len(ids))
	for _, id := range ids {
		a := byStore[id]
		revPct := decimal.Zero
		if totalRevenue.IsPositive() {
			revPct = a.revenue.Div(totalRevenue).Mul(hundred).Round(2)
		}
		rollup = append(rollup, dto.StoreRollupDTO{
			StoreID:    id,
			OrderCount: a.count,
			Revenue:    a.revenue,
			Profit:     a.profit.Round(2),
			RevenuePct: revPct,
		})
	}
	sort.SliceStable(rollup, func(i, j int) bool {
		return rollup[i].Revenue.GreaterThan(rollup[j].Revenue)
	})
	return rollup
}

// buildDayRollup agrega ingresos y ganancia por día calendario, en orden
// cronológico.
func buildDayRollup(enriched []dto.OrderProfitDTO, totalRevenue decimal.Decimal) []dto.DayRollupDTO {
	type agg struct {
		count   int
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	byDay := make(map[string]*agg)
	for _, e := range enriched {
		a, ok := byDay[e.CreatedAt]
		if !ok {
			a = &agg{}
			byDay[e.CreatedAt] = a
		}
		a.count++
		a.revenue = a.revenue.Add(e.TotalRevenue)
		a.profit = a.profit.Add(e.FinalProfit)
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	rollup := make([]dto.DayRollupDTO, 0, len(days))
	for _, d := range days {
		a := byDay[d]
		revPct := decimal.Zero
		if totalRevenue.IsPositive() {
			revPct = a.revenue.Div(totalRevenue).Mul(hundred).Round(2)
		}
		rollup = append(rollup, dto.DayRollupDTO{
			Date:       d,
			OrderCount: a.count,
			Revenue:    a.revenue,
			Profit:     a.profit.Round(2),
			RevenuePct: revPct,
		})
	}
	return rollup
}
