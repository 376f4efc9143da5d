package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/dcastellanos/obrax-api/internal/repository"
)

// ReportService renders read-only documents from frozen contract data.
// It never mutates anything it reads.
type ReportService struct {
	contractRepo repository.ContractRepository
	expenseRepo  repository.ExpenseRepository
	ledgerSvc    *LedgerService
	scheduleSvc  *ScheduleService
}

func NewReportService(
	contractRepo repository.ContractRepository,
	expenseRepo repository.ExpenseRepository,
	ledgerSvc *LedgerService,
	scheduleSvc *ScheduleService,
) *ReportService {
	return &ReportService{
		contractRepo: contractRepo,
		expenseRepo:  expenseRepo,
		ledgerSvc:    ledgerSvc,
		scheduleSvc:  scheduleSvc,
	}
}

// Helper to generate PDF from HTML template
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Try path relative to project root (Prod)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		// Try path relative to package (Test)
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

// GenerateContractStatementPDF renders the full statement of account of one
// contract: stage projections, received payments and expenses.
func (s *ReportService) GenerateContractStatementPDF(ctx context.Context, contractID uint) (*bytes.Buffer, error) {
	contract, err := s.contractRepo.FindByIDWithDetails(ctx, contractID)
	if err != nil {
		return nil, err
	}

	financials, err := s.ledgerSvc.ContractFinancials(ctx, contractID)
	if err != nil {
		return nil, err
	}

	projections := s.scheduleSvc.Projections(contract, contract.Stages, contract.Payments)

	type StageRow struct {
		Name       string
		Percentage string
		Expected   string
		Received   string
		Remaining  string
		FullyPaid  bool
	}
	type PaymentRow struct {
		Date   string
		Stage  string
		Amount string
		Extra  bool
	}
	type ExpenseRow struct {
		Date        string
		Description string
		Category    string
		Method      string
		Amount      string
		Paid        string
		Outstanding string
	}
	type ReportData struct {
		ContractNumber string
		ClientName     string
		Status         string
		Date           string
		TotalValue     string
		TotalReceived  string
		TotalSpent     string
		Profit         string
		Progress       string
		Stages         []StageRow
		Payments       []PaymentRow
		Expenses       []ExpenseRow
	}

	data := ReportData{
		ContractNumber: contract.ContractNumber,
		ClientName:     contract.Quote.ClientName,
		Status:         contract.Status,
		Date:           time.Now().Format("02/01/2006"),
		TotalValue:     fmt.Sprintf("%.2f", contract.TotalValue),
		TotalReceived:  fmt.Sprintf("%.2f", financials.TotalReceived),
		TotalSpent:     fmt.Sprintf("%.2f", financials.TotalSpent),
		Profit:         fmt.Sprintf("%.2f", financials.Profit),
		Progress:       fmt.Sprintf("%.2f%%", financials.Progress),
	}

	for _, p := range projections {
		data.Stages = append(data.Stages, StageRow{
			Name:       p.Name,
			Percentage: fmt.Sprintf("%.2f%%", p.Percentage),
			Expected:   fmt.Sprintf("%.2f", p.Expected),
			Received:   fmt.Sprintf("%.2f", p.Received),
			Remaining:  fmt.Sprintf("%.2f", p.Remaining),
			FullyPaid:  p.FullyPaid,
		})
	}

	stageNames := make(map[uint]string, len(contract.Stages))
	for _, st := range contract.Stages {
		stageNames[st.ID] = st.Name
	}
	for _, p := range contract.Payments {
		row := PaymentRow{
			Date:   p.PaymentDate.Format("02/01/2006"),
			Stage:  "Extra",
			Amount: fmt.Sprintf("%.2f", p.Amount),
			Extra:  p.IsExtra,
		}
		if p.StageID != nil {
			row.Stage = stageNames[*p.StageID]
		}
		data.Payments = append(data.Payments, row)
	}

	for _, e := range contract.Expenses {
		data.Expenses = append(data.Expenses, ExpenseRow{
			Date:        e.ExpenseDate.Format("02/01/2006"),
			Description: e.Description,
			Category:    e.Category,
			Method:      e.PaymentMethod,
			Amount:      fmt.Sprintf("%.2f", e.Amount),
			Paid:        fmt.Sprintf("%.2f", e.EffectivePaid()),
			Outstanding: fmt.Sprintf("%.2f", e.Outstanding()),
		})
	}

	return s.generatePDF("contract_statement.html", data)
}

// GenerateContractExpensesCSV exports the expense ledger of one contract
func (s *ReportService) GenerateContractExpensesCSV(ctx context.Context, contractID uint) (*bytes.Buffer, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.FindByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Gastos del Contrato", contract.ContractNumber, time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Fecha", "Descripción", "Categoría", "Método", "Monto", "Pagado", "Pendiente"})

	var totalAmount, totalPaid float64
	for _, e := range expenses {
		_ = writer.Write([]string{
			e.ExpenseDate.Format("2006-01-02"),
			e.Description,
			e.Category,
			e.PaymentMethod,
			fmt.Sprintf("%.2f", e.Amount),
			fmt.Sprintf("%.2f", e.EffectivePaid()),
			fmt.Sprintf("%.2f", e.Outstanding()),
		})
		totalAmount += e.Amount
		totalPaid += e.EffectivePaid()
	}

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Total", "", "", "", fmt.Sprintf("%.2f", totalAmount), fmt.Sprintf("%.2f", totalPaid), fmt.Sprintf("%.2f", totalAmount-totalPaid)})

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}
