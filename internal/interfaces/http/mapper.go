package http

import (
	"fmt"
	"time"

	"github.com/jhoicas/manufactura-api/internal/application/dto"
	"github.com/jhoicas/manufactura-api/internal/application/stock"
	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// parseDate "" = fecha cero (el caso de uso asigna hoy).
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("posting_date %q: %w", s, domain.ErrInvalidInput)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func toStockEntry(in dto.StockEntryRequest) (*entity.StockEntry, error) {
	date, err := parseDate(in.PostingDate)
	if err != nil {
		return nil, err
	}
	e := &entity.StockEntry{
		StockEntryType: in.StockEntryType,
		PostingDate:    date,
		PostingTime:    in.PostingTime,
		SetPostingTime: in.SetPostingTime,
		FromBOM:        in.FromBOM,
		IsTinted:       in.IsTinted,
	}
	for _, d := range in.Items {
		e.AppendItem(&entity.StockEntryDetail{
			ItemCode:         d.ItemCode,
			Qty:              d.Qty,
			UOM:              d.UOM,
			ConversionFactor: d.ConversionFactor,
			SWarehouse:       d.SWarehouse,
			TWarehouse:       d.TWarehouse,
			BatchNo:          d.BatchNo,
			BasicRate:        d.BasicRate,
			IsFinishedItem:   d.IsFinishedItem,
		})
	}
	for i, t := range in.TintingItems {
		e.TintingItems = append(e.TintingItems, &entity.TintingItem{
			Idx:             i + 1,
			TintItem:        t.TintItem,
			TintQty:         t.TintQty,
			FinalProduct:    t.FinalProduct,
			FinalQty:        t.FinalQty,
			ProducedQty:     t.ProducedQty,
			SourceWarehouse: t.SourceWarehouse,
			TargetWarehouse: t.TargetWarehouse,
		})
	}
	for _, f := range in.FillingDetails {
		e.AppendFilling(&entity.FillingDetail{
			BulkItem:        f.BulkItem,
			FilledItem:      f.FilledItem,
			Filled:          f.Filled,
			TotalQty:        f.TotalQty,
			TargetWarehouse: f.TargetWarehouse,
		})
	}
	return e, nil
}

func toStockEntryResponse(e *entity.StockEntry, messages []string) dto.StockEntryResponse {
	out := dto.StockEntryResponse{
		ID:                    e.ID,
		Name:                  e.Name,
		CompanyID:             e.CompanyID,
		StockEntryType:        e.StockEntryType,
		PostingDate:           formatDate(e.PostingDate),
		PostingTime:           e.PostingTime,
		SetPostingTime:        e.SetPostingTime,
		FromBOM:               e.FromBOM,
		DocStatus:             e.DocStatus,
		IsTinted:              e.IsTinted,
		LinkedProductionEntry: e.LinkedProductionEntry,
		Items:                 make([]dto.StockEntryDetailDTO, 0, len(e.Items)),
		TintingItems:          make([]dto.TintingItemDTO, 0, len(e.TintingItems)),
		FillingDetails:        make([]dto.FillingDetailDTO, 0, len(e.FillingDetails)),
		CreatedBy:             e.CreatedBy,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
		Messages:              messages,
	}
	for _, d := range e.Items {
		out.Items = append(out.Items, dto.StockEntryDetailDTO{Idx: d.Idx, StockEntryDetailRequest: dto.StockEntryDetailRequest{
			ItemCode:         d.ItemCode,
			Qty:              d.Qty,
			UOM:              d.UOM,
			ConversionFactor: d.ConversionFactor,
			SWarehouse:       d.SWarehouse,
			TWarehouse:       d.TWarehouse,
			BatchNo:          d.BatchNo,
			BasicRate:        d.BasicRate,
			IsFinishedItem:   d.IsFinishedItem,
		}})
	}
	for _, t := range e.TintingItems {
		out.TintingItems = append(out.TintingItems, dto.TintingItemDTO{Idx: t.Idx, TintingItemRequest: dto.TintingItemRequest{
			TintItem:        t.TintItem,
			TintQty:         t.TintQty,
			FinalProduct:    t.FinalProduct,
			FinalQty:        t.FinalQty,
			ProducedQty:     t.ProducedQty,
			SourceWarehouse: t.SourceWarehouse,
			TargetWarehouse: t.TargetWarehouse,
		}})
	}
	for _, f := range e.FillingDetails {
		out.FillingDetails = append(out.FillingDetails, dto.FillingDetailDTO{Idx: f.Idx, FillingDetailRequest: dto.FillingDetailRequest{
			BulkItem:        f.BulkItem,
			FilledItem:      f.FilledItem,
			Filled:          f.Filled,
			TotalQty:        f.TotalQty,
			TargetWarehouse: f.TargetWarehouse,
		}})
	}
	return out
}

func toReconciliation(in dto.StockReconciliationRequest) (*entity.StockReconciliation, error) {
	date, err := parseDate(in.PostingDate)
	if err != nil {
		return nil, err
	}
	r := &entity.StockReconciliation{PostingDate: date, PostingTime: in.PostingTime}
	for _, it := range in.Items {
		r.AppendItem(&entity.StockReconciliationItem{
			ItemCode:      it.ItemCode,
			Warehouse:     it.Warehouse,
			BatchNo:       it.BatchNo,
			Qty:           it.Qty,
			ValuationRate: it.ValuationRate,
		})
	}
	return r, nil
}

func toReconciliationResponse(r *entity.StockReconciliation, messages []string) dto.StockReconciliationResponse {
	out := dto.StockReconciliationResponse{
		ID:          r.ID,
		Name:        r.Name,
		CompanyID:   r.CompanyID,
		PostingDate: formatDate(r.PostingDate),
		PostingTime: r.PostingTime,
		DocStatus:   r.DocStatus,
		Items:       make([]dto.StockReconciliationItemDTO, 0, len(r.Items)),
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Messages:    messages,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, dto.StockReconciliationItemDTO{
			Idx: it.Idx,
			StockReconciliationItemRequest: dto.StockReconciliationItemRequest{
				ItemCode:      it.ItemCode,
				Warehouse:     it.Warehouse,
				BatchNo:       it.BatchNo,
				Qty:           it.Qty,
				ValuationRate: it.ValuationRate,
			},
			Amount: it.Amount,
		})
	}
	return out
}

func toBatchList(warehouse string, date time.Time, list []stock.BatchBalance) dto.BatchBalanceListResponse {
	out := dto.BatchBalanceListResponse{
		Warehouse:   warehouse,
		PostingDate: formatDate(date),
		Items:       make([]dto.BatchBalanceDTO, 0, len(list)),
	}
	for _, b := range list {
		out.Items = append(out.Items, dto.BatchBalanceDTO{ItemCode: b.ItemCode, Warehouse: b.Warehouse, BatchNo: b.BatchNo, Qty: b.Qty})
	}
	return out
}
