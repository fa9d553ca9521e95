package stock

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/manufactura-api/internal/application/hooks"
	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

// ReconciliationResult documento guardado más los mensajes de los hooks.
type ReconciliationResult struct {
	Reconciliation *entity.StockReconciliation
	Messages       []string
}

// ReconciliationUseCase ciclo de vida de Stock Reconciliation (conteo físico).
type ReconciliationUseCase struct {
	txRunner TxRunner
	recos    repository.StockReconciliationRepository
	hooks    *hooks.Registry[*entity.StockReconciliation]
	poster   *LedgerPoster
	parser   ReconciliationSheetParser
	recorder Recorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewReconciliationUseCase construye el caso de uso. parser puede ser nil si no se habilita la importación.
func NewReconciliationUseCase(
	txRunner TxRunner,
	recos repository.StockReconciliationRepository,
	registry *hooks.Registry[*entity.StockReconciliation],
	poster *LedgerPoster,
	parser ReconciliationSheetParser,
	recorder Recorder,
	log zerolog.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txRunner: txRunner,
		recos:    recos,
		hooks:    registry,
		poster:   poster,
		parser:   parser,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

func (uc *ReconciliationUseCase) newScope(repos repository.TxRepos, companyID, userID string) *hooks.Scope {
	return &hooks.Scope{
		Repos:     repos,
		CompanyID: companyID,
		UserID:    userID,
		Now:       uc.now(),
		Log:       uc.log,
	}
}

// Save crea o actualiza un borrador. Ejecuta validate y before_save (completa lotes faltantes).
func (uc *ReconciliationUseCase) Save(ctx context.Context, companyID, userID string, reco *entity.StockReconciliation) (*ReconciliationResult, error) {
	var (
		scope    *hooks.Scope
		messages []string
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		scope = uc.newScope(repos, companyID, userID)
		if reco.ID != "" {
			current, err := loadReconciliation(ctx, repos.Reconciliations, companyID, reco.ID)
			if err != nil {
				return err
			}
			if current.DocStatus != entity.DocStatusDraft {
				return domain.ErrConflict
			}
			reco.Name = current.Name
			reco.CreatedAt = current.CreatedAt
			reco.CreatedBy = current.CreatedBy
			reco.DocStatus = entity.DocStatusDraft
		}
		if err := uc.save(ctx, scope, reco); err != nil {
			return err
		}
		messages = scope.Messages()
		return nil
	})
	if err != nil {
		return nil, err
	}
	scope.Committed()
	return &ReconciliationResult{Reconciliation: reco, Messages: messages}, nil
}

// Submit confirma el conteo y contabiliza las diferencias en el libro de stock.
func (uc *ReconciliationUseCase) Submit(ctx context.Context, companyID, userID, id string) (*ReconciliationResult, error) {
	var (
		scope    *hooks.Scope
		reco     *entity.StockReconciliation
		messages []string
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		scope = uc.newScope(repos, companyID, userID)
		var err error
		reco, err = loadReconciliation(ctx, repos.Reconciliations, companyID, id)
		if err != nil {
			return err
		}
		if reco.DocStatus != entity.DocStatusDraft {
			return domain.ErrConflict
		}
		if err := validateReconciliation(ctx, repos, reco); err != nil {
			return err
		}
		if err := uc.hooks.Run(ctx, hooks.Validate, scope, reco); err != nil {
			return err
		}
		if err := uc.hooks.Run(ctx, hooks.BeforeSubmit, scope, reco); err != nil {
			return err
		}
		reco.DocStatus = entity.DocStatusSubmitted
		reco.UpdatedAt = scope.Now
		if err := repos.Reconciliations.Update(ctx, reco); err != nil {
			return err
		}
		if err := uc.poster.PostReconciliation(ctx, repos, reco); err != nil {
			return err
		}
		if err := uc.hooks.Run(ctx, hooks.OnSubmit, scope, reco); err != nil {
			return err
		}
		messages = scope.Messages()
		return nil
	})
	if err != nil {
		return nil, err
	}
	scope.Committed()
	if uc.recorder != nil {
		uc.recorder.DocumentSubmitted(entity.DoctypeStockReconciliation, "")
	}
	uc.log.Info().
		Str("stock_reconciliation", reco.Name).
		Int("rows", len(reco.Items)).
		Str("company_id", companyID).
		Msg("stock reconciliation confirmado")
	return &ReconciliationResult{Reconciliation: reco, Messages: messages}, nil
}

// Import crea un borrador a partir de una hoja de cálculo y lo guarda con los mismos hooks que Save.
func (uc *ReconciliationUseCase) Import(ctx context.Context, companyID, userID string, postingDate time.Time, postingTime string, sheet io.Reader) (*ReconciliationResult, error) {
	if uc.parser == nil {
		return nil, fmt.Errorf("importación no habilitada: %w", domain.ErrInvalidInput)
	}
	rows, err := uc.parser.ParseReconciliation(sheet)
	if err != nil {
		return nil, err
	}
	reco := &entity.StockReconciliation{
		CompanyID:   companyID,
		PostingDate: postingDate,
		PostingTime: postingTime,
	}
	for _, r := range rows {
		reco.AppendItem(r)
	}
	return uc.Save(ctx, companyID, userID, reco)
}

// Get devuelve un Stock Reconciliation de la empresa.
func (uc *ReconciliationUseCase) Get(ctx context.Context, companyID, id string) (*entity.StockReconciliation, error) {
	return loadReconciliation(ctx, uc.recos, companyID, id)
}

func (uc *ReconciliationUseCase) save(ctx context.Context, scope *hooks.Scope, reco *entity.StockReconciliation) error {
	reco.CompanyID = scope.CompanyID
	normalizeReconciliation(reco, scope.Now)
	if err := validateReconciliation(ctx, scope.Repos, reco); err != nil {
		return err
	}
	if err := uc.hooks.Run(ctx, hooks.Validate, scope, reco); err != nil {
		return err
	}
	if err := uc.hooks.Run(ctx, hooks.BeforeSave, scope, reco); err != nil {
		return err
	}
	for i, it := range reco.Items {
		it.Idx = i + 1
		it.Amount = it.Qty.Mul(it.ValuationRate)
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
	}

	reco.UpdatedAt = scope.Now
	if reco.ID == "" {
		name, err := nextName(ctx, scope.Repos.Naming, SeriesStockReconciliation, reco.PostingDate)
		if err != nil {
			return err
		}
		reco.ID = uuid.New().String()
		reco.Name = name
		reco.CreatedAt = scope.Now
		reco.CreatedBy = scope.UserID
		return scope.Repos.Reconciliations.Create(ctx, reco)
	}
	return scope.Repos.Reconciliations.Update(ctx, reco)
}

func loadReconciliation(ctx context.Context, repo repository.StockReconciliationRepository, companyID, id string) (*entity.StockReconciliation, error) {
	r, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || r.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return r, nil
}
