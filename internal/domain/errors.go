package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrCompanyNotFound  = errors.New("empresa no encontrada")
	ErrMemberNotFound   = errors.New("miembro no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConcurrentUpdate = errors.New("actualización concurrente, reintente la operación")
)
