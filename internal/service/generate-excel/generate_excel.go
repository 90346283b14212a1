package generate_excel

import (
	"broker-app/internal/storage"
	"context"
	"fmt"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Freight & Labour"

var headers = []string{
	"Supplier Quotation", "Supplier", "Date", "Freight", "Total Qty",
	"Freight / Unit", "Total Freight", "Labour / Unit", "Total Labour",
	"Loading Charges", "Grand Total",
}

type GenerateExcelStorage interface {
	GetQuotationCharges(ctx context.Context, filter storage.ReportFilter) ([]storage.QuotationChargesRow, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

// GenerateExcel строит отчёт по фрахту и работам заявок поставщиков.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter storage.ReportFilter) ([]byte, error) {
	rows, err := g.storage.GetQuotationCharges(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}

	for i, name := range headers {
		f.SetCellValue(sheetName, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheetName, "A1", cellName(len(headers), 1), headerStyle)

	var totalQty, totalFreight, totalLabour, totalLoading, grandTotal float64

	for i, r := range rows {
		row := i + 2

		f.SetCellValue(sheetName, cellName(1, row), r.Name)
		f.SetCellValue(sheetName, cellName(2, row), r.Supplier)
		f.SetCellValue(sheetName, cellName(3, row), r.TransactionDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, cellName(4, row), r.Freight)
		f.SetCellValue(sheetName, cellName(5, row), r.TotalQty)
		f.SetCellValue(sheetName, cellName(6, row), r.FreightPerUnit)
		f.SetCellValue(sheetName, cellName(7, row), r.TotalFreightCost)
		f.SetCellValue(sheetName, cellName(8, row), r.LabourPerUnit)
		f.SetCellValue(sheetName, cellName(9, row), r.LabourTotalCost)
		f.SetCellValue(sheetName, cellName(10, row), r.LoadingCharges)
		f.SetCellValue(sheetName, cellName(11, row), r.GrandTotal)

		totalQty += r.TotalQty
		totalFreight += r.TotalFreightCost
		totalLabour += r.LabourTotalCost
		totalLoading += r.LoadingCharges
		grandTotal += r.GrandTotal
	}

	// Итоговая строка
	totalRow := len(rows) + 2
	f.SetCellValue(sheetName, cellName(1, totalRow), "Total")
	f.SetCellValue(sheetName, cellName(5, totalRow), totalQty)
	f.SetCellValue(sheetName, cellName(7, totalRow), totalFreight)
	f.SetCellValue(sheetName, cellName(9, totalRow), totalLabour)
	f.SetCellValue(sheetName, cellName(10, totalRow), totalLoading)
	f.SetCellValue(sheetName, cellName(11, totalRow), grandTotal)
	f.SetCellStyle(sheetName, cellName(1, totalRow), cellName(len(headers), totalRow), headerStyle)

	if len(rows) > 0 {
		f.SetCellStyle(sheetName, cellName(6, 2), cellName(11, totalRow-1), moneyStyle)
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})

	f.SetColWidth(sheetName, "A", "B", 22)
	f.SetColWidth(sheetName, "C", "K", 15)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
