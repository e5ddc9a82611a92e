package repository

import (
	"context"

	"github.com/jhoicas/ventapro-api/internal/domain/entity"
)

// AllStores valor especial de storeID para leer los pedidos de todas las tiendas.
const AllStores = "all"

// OrderRepository lectura de pedidos crudos desde el almacén externo.
// Los registros llegan ya normalizados a entidades (números ausentes o
// malformados coercionados a cero en la frontera de ingestión).
type OrderRepository interface {
	// FetchOrders devuelve los pedidos de una tienda, o de todas si
	// storeID == AllStores. Un fallo aquí hace fallar el reporte completo:
	// nunca se produce un reporte parcial silencioso.
	FetchOrders(ctx context.Context, storeID string) ([]entity.Order, error)
}
