package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/manufactura-api/internal/application/hooks"
	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

// Prefijos de las series de numeración.
const (
	SeriesStockEntry          = "MAT-STE-"
	SeriesStockReconciliation = "MAT-RECO-"
)

var _ hooks.EntrySubmitter = (*StockEntryUseCase)(nil)

// StockEntryResult documento guardado más los mensajes emitidos por los hooks.
type StockEntryResult struct {
	Entry    *entity.StockEntry
	Messages []string
}

// StockEntryUseCase ciclo de vida de Stock Entry: guardar borrador y confirmar,
// despachando los hooks registrados dentro de una sola transacción.
type StockEntryUseCase struct {
	txRunner TxRunner
	entries  repository.StockEntryRepository
	hooks    *hooks.Registry[*entity.StockEntry]
	poster   *LedgerPoster
	recorder Recorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockEntryUseCase construye el caso de uso. entries se usa para lecturas fuera de transacción.
func NewStockEntryUseCase(
	txRunner TxRunner,
	entries repository.StockEntryRepository,
	registry *hooks.Registry[*entity.StockEntry],
	poster *LedgerPoster,
	recorder Recorder,
	log zerolog.Logger,
) *StockEntryUseCase {
	return &StockEntryUseCase{
		txRunner: txRunner,
		entries:  entries,
		hooks:    registry,
		poster:   poster,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

func (uc *StockEntryUseCase) newScope(repos repository.TxRepos, companyID, userID string) *hooks.Scope {
	return &hooks.Scope{
		Repos:     repos,
		Entries:   uc,
		CompanyID: companyID,
		UserID:    userID,
		Now:       uc.now(),
		Log:       uc.log,
	}
}

// Save crea (si entry.ID está vacío) o actualiza un borrador. Ejecuta validate y before_save.
func (uc *StockEntryUseCase) Save(ctx context.Context, companyID, userID string, entry *entity.StockEntry) (*StockEntryResult, error) {
	var (
		scope    *hooks.Scope
		messages []string
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		scope = uc.newScope(repos, companyID, userID)
		if entry.ID != "" {
			current, err := loadEntry(ctx, repos.StockEntries, companyID, entry.ID)
			if err != nil {
				return err
			}
			if current.DocStatus != entity.DocStatusDraft {
				return domain.ErrConflict
			}
			entry.Name = current.Name
			entry.CreatedAt = current.CreatedAt
			entry.CreatedBy = current.CreatedBy
			entry.DocStatus = entity.DocStatusDraft
		}
		if err := uc.save(ctx, scope, entry); err != nil {
			return err
		}
		messages = scope.Messages()
		return nil
	})
	if err != nil {
		return nil, err
	}
	scope.Committed()
	return &StockEntryResult{Entry: entry, Messages: messages}, nil
}

// Submit confirma un borrador: validate, before_submit, contabilización en el libro y on_submit.
// Si cualquier hook o documento generado falla, nada queda confirmado.
func (uc *StockEntryUseCase) Submit(ctx context.Context, companyID, userID, id string) (*StockEntryResult, error) {
	var (
		scope    *hooks.Scope
		entry    *entity.StockEntry
		messages []string
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		scope = uc.newScope(repos, companyID, userID)
		var err error
		entry, err = loadEntry(ctx, repos.StockEntries, companyID, id)
		if err != nil {
			return err
		}
		if entry.DocStatus != entity.DocStatusDraft {
			return domain.ErrConflict
		}
		if err := uc.submit(ctx, scope, entry); err != nil {
			return err
		}
		messages = scope.Messages()
		return nil
	})
	if err != nil {
		return nil, err
	}
	scope.Committed()
	uc.log.Info().
		Str("stock_entry", entry.Name).
		Str("type", entry.StockEntryType).
		Str("company_id", companyID).
		Msg("stock entry confirmado")
	return &StockEntryResult{Entry: entry, Messages: messages}, nil
}

// InsertAndSubmit crea y confirma un Stock Entry en la transacción del scope (documentos generados por hooks).
func (uc *StockEntryUseCase) InsertAndSubmit(ctx context.Context, scope *hooks.Scope, entry *entity.StockEntry) error {
	entry.ID = ""
	entry.DocStatus = entity.DocStatusDraft
	if err := uc.save(ctx, scope, entry); err != nil {
		return err
	}
	return uc.submit(ctx, scope, entry)
}

func (uc *StockEntryUseCase) save(ctx context.Context, scope *hooks.Scope, entry *entity.StockEntry) error {
	entry.CompanyID = scope.CompanyID
	normalizeStockEntry(entry, scope.Now)
	if err := validateStockEntry(ctx, scope.Repos, entry); err != nil {
		return err
	}
	if err := uc.hooks.Run(ctx, hooks.Validate, scope, entry); err != nil {
		return err
	}
	if err := uc.hooks.Run(ctx, hooks.BeforeSave, scope, entry); err != nil {
		return err
	}
	normalizeStockEntry(entry, scope.Now)
	assignRowIDs(entry)

	entry.UpdatedAt = scope.Now
	if entry.ID == "" {
		name, err := nextName(ctx, scope.Repos.Naming, SeriesStockEntry, entry.PostingDate)
		if err != nil {
			return err
		}
		entry.ID = uuid.New().String()
		entry.Name = name
		entry.CreatedAt = scope.Now
		entry.CreatedBy = scope.UserID
		return scope.Repos.StockEntries.Create(ctx, entry)
	}
	return scope.Repos.StockEntries.Update(ctx, entry)
}

func (uc *StockEntryUseCase) submit(ctx context.Context, scope *hooks.Scope, entry *entity.StockEntry) error {
	if err := validateStockEntry(ctx, scope.Repos, entry); err != nil {
		return err
	}
	if err := uc.hooks.Run(ctx, hooks.Validate, scope, entry); err != nil {
		return err
	}
	if err := uc.hooks.Run(ctx, hooks.BeforeSubmit, scope, entry); err != nil {
		return err
	}
	entry.DocStatus = entity.DocStatusSubmitted
	entry.UpdatedAt = scope.Now
	if err := scope.Repos.StockEntries.Update(ctx, entry); err != nil {
		return err
	}
	if err := uc.poster.PostStockEntry(ctx, scope.Repos, entry); err != nil {
		return err
	}
	if err := uc.hooks.Run(ctx, hooks.OnSubmit, scope, entry); err != nil {
		return err
	}
	if uc.recorder != nil {
		doctype, typ := entity.DoctypeStockEntry, entry.StockEntryType
		scope.AfterCommit(func() { uc.recorder.DocumentSubmitted(doctype, typ) })
	}
	return nil
}

// Get devuelve un Stock Entry de la empresa con sus tablas hijas.
func (uc *StockEntryUseCase) Get(ctx context.Context, companyID, id string) (*entity.StockEntry, error) {
	return loadEntry(ctx, uc.entries, companyID, id)
}

// List lista cabeceras de Stock Entry de la empresa.
func (uc *StockEntryUseCase) List(ctx context.Context, f repository.StockEntryFilter) ([]*entity.StockEntry, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.entries.List(ctx, f)
}

// ListLinked devuelve los Material Issue/Receipt generados al confirmar el Manufacture id.
func (uc *StockEntryUseCase) ListLinked(ctx context.Context, companyID, id string) ([]*entity.StockEntry, error) {
	e, err := loadEntry(ctx, uc.entries, companyID, id)
	if err != nil {
		return nil, err
	}
	return uc.entries.ListLinked(ctx, companyID, e.Name)
}

func loadEntry(ctx context.Context, repo repository.StockEntryRepository, companyID, id string) (*entity.StockEntry, error) {
	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func assignRowIDs(e *entity.StockEntry) {
	for _, d := range e.Items {
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
	}
	for _, t := range e.TintingItems {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
	}
	for _, f := range e.FillingDetails {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
	}
}

// nextName arma el nombre de serie PREFIJO-YYYY-##### a partir de la fecha de contabilización.
func nextName(ctx context.Context, naming repository.NamingSeriesRepository, series string, postingDate time.Time) (string, error) {
	prefix := fmt.Sprintf("%s%d-", series, postingDate.Year())
	n, err := naming.Next(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, n), nil
}
