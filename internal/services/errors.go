package services

import "errors"

// Common service errors. Handlers map these to HTTP status codes with
// errors.Is, so services wrap them with context instead of returning
// bare strings.
var (
	ErrNotFound              = errors.New("registro no encontrado")
	ErrValidation            = errors.New("datos inválidos")
	ErrInvalidState          = errors.New("transición de estado inválida")
	ErrHasRecords            = errors.New("existen registros asociados")
	ErrQuoteAlreadyConverted = errors.New("la cotización ya fue convertida en contrato")
)
