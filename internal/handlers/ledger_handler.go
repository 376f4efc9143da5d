package handlers

import (
	"net/http"

	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService *services.LedgerService
	exportService *services.ExportService
}

func NewLedgerHandler(ledgerService *services.LedgerService, exportService *services.ExportService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, exportService: exportService}
}

// @Summary Global Ledger Summary
// @Description Totals across every contract: received, cash spent and open debt
// @Tags Ledger
// @Produce json
// @Success 200 {object} models.GlobalFinancials
// @Router /ledger/summary [get]
func (h *LedgerHandler) Summary(c *gin.Context) {
	global, err := h.ledgerService.GlobalFinancials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": global})
}

// @Summary Export Ledger Summary CSV
// @Tags Ledger
// @Produce text/csv
// @Success 200 {file} binary
// @Router /ledger/summary.csv [get]
func (h *LedgerHandler) ExportCSV(c *gin.Context) {
	global, err := h.ledgerService.GlobalFinancials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	data, filename, err := h.exportService.ExportCSV(c.Request.Context(), global)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Export Ledger Summary XLSX
// @Tags Ledger
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /ledger/summary.xlsx [get]
func (h *LedgerHandler) ExportXLSX(c *gin.Context) {
	global, err := h.ledgerService.GlobalFinancials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	data, filename, err := h.exportService.ExportXLSX(c.Request.Context(), global)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Export Ledger Summary PDF
// @Tags Ledger
// @Produce application/pdf
// @Success 200 {file} binary
// @Router /ledger/summary.pdf [get]
func (h *LedgerHandler) ExportPDF(c *gin.Context) {
	global, err := h.ledgerService.GlobalFinancials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	data, filename, err := h.exportService.ExportPDF(c.Request.Context(), global)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
