package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrValidation         = errors.New("validación de documento")
)

// ValidationError es un error de negocio con mensaje para el usuario final.
// Aborta el guardado o la confirmación del documento (la transacción hace rollback).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Throw construye un ValidationError con formato.
func Throw(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StockError indica que una salida deja negativo el stock de un artículo en una bodega.
type StockError struct {
	ItemCode  string
	Warehouse string
	Available string
	Required  string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s en %s: disponible %s, requerido %s",
		e.ItemCode, e.Warehouse, e.Available, e.Required)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

// UserMessage extrae el mensaje visible para el usuario si el error es de negocio.
func UserMessage(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	var se *StockError
	if errors.As(err, &se) {
		return se.Error(), true
	}
	return "", false
}
