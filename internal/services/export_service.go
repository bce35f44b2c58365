package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/notification"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/tealeg/xlsx"
)

var orderExportHeaders = []string{
	"Order ID", "Created At", "Status", "Customer", "Phone", "Address",
	"Items", "Total", "Payment ID", "Driver ID",
}

type ExportService interface {
	WriteOrders(ctx context.Context, w io.Writer) error
}

type exportService struct {
	orderRepo repository.OrderRepository
}

func NewExportService(orderRepo repository.OrderRepository) ExportService {
	return &exportService{orderRepo: orderRepo}
}

// WriteOrders writes every order, newest first, as an xlsx workbook.
func (s *exportService) WriteOrders(ctx context.Context, w io.Writer) error {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range orderExportHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, o := range orders {
		addr := o.DeliveryAddress
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(notification.FormatKitchenTime(o.CreatedAt))
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(addr.FullName)
		row.AddCell().SetString(addr.Phone)
		row.AddCell().SetString(strings.TrimSpace(addr.Street + ", " + addr.City))
		row.AddCell().SetString(itemsSummary(o.Items))
		row.AddCell().SetFloat(o.TotalAmount.InexactFloat64())
		row.AddCell().SetString(addr.PaymentID)
		driver := ""
		if o.DriverID != nil {
			driver = *o.DriverID
		}
		row.AddCell().SetString(driver)
	}

	return file.Write(w)
}

func itemsSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		name := fmt.Sprintf("#%d", it.MenuItemID)
		if it.MenuItem != nil {
			name = it.MenuItem.Name
		}
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, name))
	}
	return strings.Join(parts, "; ")
}
