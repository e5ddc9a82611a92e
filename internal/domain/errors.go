package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidFilter     = errors.New("filtro de reporte inválido")
	ErrOrdersUnavailable = errors.New("no se pudieron leer los pedidos")
	ErrSuperseded        = errors.New("reporte reemplazado por una solicitud más reciente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrDuplicate         = errors.New("recurso duplicado")
)
