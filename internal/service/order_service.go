package service

import (
	"context"
	"fmt"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/repository"
	"github.com/xuri/excelize/v2"
)

// OrderService manages production orders.
type OrderService struct {
	orderRepo *repository.OrderRepository
}

func NewOrderService(orderRepo *repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// CreateOrderRequest is the POST /orders body. Dates are optional; when
// both are present start must not be after end.
type CreateOrderRequest struct {
	OrderNumber    int64        `json:"order_number"`
	MaterialNumber int64        `json:"material_number"`
	StartDate      *entity.Date `json:"start_date"`
	EndDate        *entity.Date `json:"end_date"`
	NumPieces      int64        `json:"num_pieces"`
}

// UpdateOrderRequest is the PATCH body; absent fields are untouched,
// explicit nulls clear the nullable date columns.
type UpdateOrderRequest struct {
	OrderNumber    Nullable[int64]       `json:"order_number"`
	MaterialNumber Nullable[int64]       `json:"material_number"`
	StartDate      Nullable[entity.Date] `json:"start_date"`
	EndDate        Nullable[entity.Date] `json:"end_date"`
	NumPieces      Nullable[int64]       `json:"num_pieces"`
}

// List returns all orders.
func (s *OrderService) List(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.List(ctx)
}

// Get resolves an order by internal id or order number.
func (s *OrderService) Get(ctx context.Context, ref int64) (*entity.Order, error) {
	return s.orderRepo.Resolve(ctx, ref)
}

// Create validates and inserts a new order.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*entity.Order, error) {
	if req.OrderNumber <= 0 {
		return nil, validationf("Invalid order number")
	}
	if req.MaterialNumber <= 0 {
		return nil, validationf("Invalid material number")
	}
	if req.NumPieces <= 0 {
		return nil, validationf("Invalid number of pieces")
	}
	if err := checkDateOrder(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	taken, err := s.orderRepo.ExistsByOrderNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("check order number: %w", err)
	}
	if taken {
		return nil, validationf("Order number %d already exists", req.OrderNumber)
	}

	order := &entity.Order{
		OrderNumber:    req.OrderNumber,
		MaterialNumber: req.MaterialNumber,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		NumPieces:      req.NumPieces,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return s.orderRepo.FindByID(ctx, order.ID)
}

// Update applies a field-level patch to an order resolved by id or order
// number and returns the updated row.
func (s *OrderService) Update(ctx context.Context, ref int64, req *UpdateOrderRequest) (*entity.Order, error) {
	order, err := s.orderRepo.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	values := map[string]interface{}{}

	if req.OrderNumber.Set {
		if !req.OrderNumber.Valid || req.OrderNumber.Value <= 0 {
			return nil, validationf("Invalid order number")
		}
		if req.OrderNumber.Value != order.OrderNumber {
			taken, err := s.orderRepo.ExistsByOrderNumber(ctx, req.OrderNumber.Value)
			if err != nil {
				return nil, fmt.Errorf("check order number: %w", err)
			}
			if taken {
				return nil, validationf("Order number %d already exists", req.OrderNumber.Value)
			}
		}
		values["order_number"] = req.OrderNumber.Value
	}
	if req.MaterialNumber.Set {
		if !req.MaterialNumber.Valid || req.MaterialNumber.Value <= 0 {
			return nil, validationf("Invalid material number")
		}
		values["material_number"] = req.MaterialNumber.Value
	}
	if req.NumPieces.Set {
		if !req.NumPieces.Valid || req.NumPieces.Value <= 0 {
			return nil, validationf("Invalid number of pieces")
		}
		values["num_pieces"] = req.NumPieces.Value
	}

	// Date ordering is checked against the state the patch would produce.
	start, end := order.StartDate, order.EndDate
	if req.StartDate.Set {
		start = req.StartDate.Ptr()
		values["start_date"] = start
	}
	if req.EndDate.Set {
		end = req.EndDate.Ptr()
		values["end_date"] = end
	}
	if err := checkDateOrder(start, end); err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return order, nil
	}

	if err := s.orderRepo.Updates(ctx, order.ID, values); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return s.orderRepo.FindByID(ctx, order.ID)
}

func checkDateOrder(start, end *entity.Date) error {
	if start != nil && end != nil && start.After(*end) {
		return validationf("Start date cannot be after end date")
	}
	return nil
}

var orderExportHeaders = []string{
	"Order Number", "Material Number", "Start Date", "End Date", "Pieces", "Operations",
}

// Export renders every order as an xlsx sheet for the admin area.
func (s *OrderService) Export(ctx context.Context) (*excelize.File, string, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list orders: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range orderExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, order := range orders {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), order.OrderNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), order.MaterialNumber)
		if order.StartDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), order.StartDate.String())
		}
		if order.EndDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), order.EndDate.String())
		}
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), order.NumPieces)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), len(order.Operations))
	}

	filename := "orders_export.xlsx"
	return f, filename, nil
}
