package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventapro-api/internal/application/dto"
	"github.com/jhoicas/ventapro-api/internal/domain/entity"
	"github.com/jhoicas/ventapro-api/internal/domain/repository"
	"github.com/jhoicas/ventapro-api/pkg/logger"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo lectura de pedidos. Los pedidos se guardan como documento JSONB
// (vienen de un almacén de documentos sin esquema); la normalización a
// entidad ocurre aquí, en la frontera de ingestión: números ausentes o
// malformados se coercionan a cero y se dejan registrados.
type OrderRepo struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(pool *pgxpool.Pool, log *logger.Logger) *OrderRepo {
	return &OrderRepo{pool: pool, log: log}
}

// FetchOrders devuelve los pedidos de una tienda, o de todas si
// storeID == repository.AllStores. El orden es estable (fecha de creación,
// luego ID) para que la paginación del reporte sea reproducible.
func (r *OrderRepo) FetchOrders(ctx context.Context, storeID string) ([]entity.Order, error) {
	const base = `
	SELECT o.id, o.store_id, o.created_at, o.doc
	FROM orders o`

	var (
		query string
		args  []any
	)
	if storeID == repository.AllStores || storeID == "" {
		query = base + ` ORDER BY o.created_at, o.id`
	} else {
		query = base + ` WHERE o.store_id = $1 ORDER BY o.created_at, o.id`
		args = append(args, storeID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders.FetchOrders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	totalCoerced := 0
	for rows.Next() {
		var raw dto.RawOrder
		var doc []byte
		if err := rows.Scan(&raw.ID, &raw.StoreID, &raw.CreatedAt, &doc); err != nil {
			return nil, fmt.Errorf("orders.FetchOrders scan: %w", err)
		}
		// El documento manda sobre las columnas, salvo las claves de la fila.
		id, store, created := raw.ID, raw.StoreID, raw.CreatedAt
		if err := json.Unmarshal(doc, &raw); err != nil {
			return nil, fmt.Errorf("orders.FetchOrders doc %s: %w", id, err)
		}
		raw.ID, raw.StoreID, raw.CreatedAt = id, store, created

		order, coerced := raw.Normalize()
		if coerced > 0 {
			totalCoerced += coerced
			r.log.Debug().Str("order_id", order.ID).Int("coerced_fields", coerced).
				Msg("pedido con campos numéricos malformados, coercionados a cero")
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders.FetchOrders rows: %w", err)
	}
	if totalCoerced > 0 {
		r.log.Warn().Int("coerced_fields", totalCoerced).Int("orders", len(orders)).
			Msg("lectura de pedidos con coerciones de calidad de datos")
	}
	return orders, nil
}
