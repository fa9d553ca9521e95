package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/manufactura-api/internal/application/dto"
	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

// ItemUseCase casos de uso de artículos.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un artículo. Devuelve ErrDuplicate si el código ya existe en la empresa.
func (uc *ItemUseCase) Create(ctx context.Context, companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.ItemCode)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.Get(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		name = code
	}
	item := &entity.Item{
		ItemCode:   code,
		CompanyID:  companyID,
		ItemName:   name,
		StockUOM:   strings.TrimSpace(in.StockUOM),
		HasBatchNo: in.HasBatchNo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Get obtiene un artículo por código. Devuelve ErrNotFound si no existe.
func (uc *ItemUseCase) Get(ctx context.Context, companyID, code string) (*dto.ItemResponse, error) {
	item, err := uc.repo.Get(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista artículos de la empresa con paginación.
func (uc *ItemUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ItemCode:   it.ItemCode,
		CompanyID:  it.CompanyID,
		ItemName:   it.ItemName,
		StockUOM:   it.StockUOM,
		HasBatchNo: it.HasBatchNo,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
}
