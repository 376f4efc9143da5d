package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	ledgerSvc *LedgerService
}

func NewExportService(ledgerSvc *LedgerService) *ExportService {
	return &ExportService{ledgerSvc: ledgerSvc}
}

// ExportCSV renders the global financial summary as CSV
func (s *ExportService) ExportCSV(ctx context.Context, global *models.GlobalFinancials) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Resumen Financiero Global", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Métrica", "Valor"})
	_ = writer.Write([]string{"Contratos", fmt.Sprintf("%d", global.Contracts)})
	_ = writer.Write([]string{"Total Recibido", fmt.Sprintf("%.2f", global.TotalReceived)})
	_ = writer.Write([]string{"Gasto en Efectivo", fmt.Sprintf("%.2f", global.TotalCashSpent)})
	_ = writer.Write([]string{"Deuda Pendiente", fmt.Sprintf("%.2f", global.TotalDebt)})

	writer.Flush()

	filename := fmt.Sprintf("ledger_summary_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportXLSX renders the global financial summary as a spreadsheet
func (s *ExportService) ExportXLSX(ctx context.Context, global *models.GlobalFinancials) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Resumen"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Resumen Financiero Global")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Métrica")
	_ = f.SetCellValue(sheet, "B3", "Valor")

	_ = f.SetCellValue(sheet, "A4", "Contratos")
	_ = f.SetCellValue(sheet, "B4", global.Contracts)
	_ = f.SetCellValue(sheet, "A5", "Total Recibido")
	_ = f.SetCellValue(sheet, "B5", global.TotalReceived)
	_ = f.SetCellValue(sheet, "A6", "Gasto en Efectivo")
	_ = f.SetCellValue(sheet, "B6", global.TotalCashSpent)
	_ = f.SetCellValue(sheet, "A7", "Deuda Pendiente")
	_ = f.SetCellValue(sheet, "B7", global.TotalDebt)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ledger_summary_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportPDF renders the global financial summary as a one-page PDF
func (s *ExportService) ExportPDF(ctx context.Context, global *models.GlobalFinancials) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Resumen Financiero Global")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Contratos:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", global.Contracts))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Total Recibido:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f HNL", global.TotalReceived))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Gasto en Efectivo:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f HNL", global.TotalCashSpent))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Deuda Pendiente:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f HNL", global.TotalDebt))
	pdf.Ln(6)

	buf := new(bytes.Buffer)
	err := pdf.Output(buf)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ledger_summary_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
