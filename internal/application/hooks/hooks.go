// Package hooks despacha los eventos del ciclo de vida de un documento
// (validate, before_save, before_submit, on_submit) a funciones registradas por doctype.
package hooks

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

// Event nombre del método del ciclo de vida.
type Event string

const (
	Validate     Event = "validate"
	BeforeSave   Event = "before_save"
	BeforeSubmit Event = "before_submit"
	OnSubmit     Event = "on_submit"
)

// EntrySubmitter inserta y confirma un Stock Entry dentro de la transacción en curso.
// Lo implementa el caso de uso de Stock Entry; los hooks lo usan para generar documentos dependientes.
type EntrySubmitter interface {
	InsertAndSubmit(ctx context.Context, scope *Scope, entry *entity.StockEntry) error
}

// Scope estado de la petición que recibe cada hook.
type Scope struct {
	Repos     repository.TxRepos
	Entries   EntrySubmitter
	CompanyID string
	UserID    string
	Now       time.Time
	Log       zerolog.Logger

	messages    []string
	afterCommit []func()
}

// Msgprint registra un mensaje para el usuario; se devuelve junto con el documento.
func (s *Scope) Msgprint(msg string) {
	s.messages = append(s.messages, msg)
}

// Messages mensajes acumulados durante la petición.
func (s *Scope) Messages() []string {
	return s.messages
}

// AfterCommit difiere fn hasta que la transacción confirme. Si hay rollback no se ejecuta.
func (s *Scope) AfterCommit(fn func()) {
	s.afterCommit = append(s.afterCommit, fn)
}

// Committed ejecuta, en orden, las funciones diferidas con AfterCommit.
func (s *Scope) Committed() {
	for _, fn := range s.afterCommit {
		fn()
	}
	s.afterCommit = nil
}

// Func firma de un hook para documentos de tipo T.
type Func[T any] func(ctx context.Context, scope *Scope, doc T) error

type hook[T any] struct {
	name string
	fn   Func[T]
}

// Registry hooks de un doctype, en orden de registro por evento.
type Registry[T any] struct {
	doctype string
	hooks   map[Event][]hook[T]
}

// NewRegistry crea un registro vacío para el doctype.
func NewRegistry[T any](doctype string) *Registry[T] {
	return &Registry[T]{doctype: doctype, hooks: make(map[Event][]hook[T])}
}

// On registra fn para el evento. Devuelve el registro para encadenar.
func (r *Registry[T]) On(ev Event, name string, fn Func[T]) *Registry[T] {
	r.hooks[ev] = append(r.hooks[ev], hook[T]{name: name, fn: fn})
	return r
}

// Names nombres registrados para un evento, en orden.
func (r *Registry[T]) Names(ev Event) []string {
	names := make([]string, 0, len(r.hooks[ev]))
	for _, h := range r.hooks[ev] {
		names = append(names, h.name)
	}
	return names
}

// Run ejecuta los hooks del evento en orden y se detiene en el primer error, que se devuelve sin envolver.
func (r *Registry[T]) Run(ctx context.Context, ev Event, scope *Scope, doc T) error {
	for _, h := range r.hooks[ev] {
		scope.Log.Debug().
			Str("doctype", r.doctype).
			Str("event", string(ev)).
			Str("hook", h.name).
			Msg("ejecutando hook")
		if err := h.fn(ctx, scope, doc); err != nil {
			return err
		}
	}
	return nil
}
