package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	contractService *services.ContractService
	ledgerService   *services.LedgerService
	scheduleService *services.ScheduleService
	reportService   *services.ReportService
}

func NewContractHandler(
	contractService *services.ContractService,
	ledgerService *services.LedgerService,
	scheduleService *services.ScheduleService,
	reportService *services.ReportService,
) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		ledgerService:   ledgerService,
		scheduleService: scheduleService,
		reportService:   reportService,
	}
}

// @Summary List Contracts
// @Description Get a paginated list of contracts
// @Tags Contracts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Router /contracts [get]
func (h *ContractHandler) Index(c *gin.Context) {
	query := &repository.ContractQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	query.Year, _ = strconv.Atoi(c.Query("year"))

	contracts, total, err := h.contractService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, contract := range contracts {
		responses = append(responses, contract.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Contract
// @Description Get a contract with financials and stage projections
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Failure 404 {object} map[string]string
// @Router /contracts/{contract_id} [get]
func (h *ContractHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	contract, err := h.contractService.FindByIDWithDetails(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	financials, err := h.ledgerService.ContractFinancials(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := contract.ToResponse()
	resp.Financials = financials
	resp.Schedule = h.scheduleService.Projections(contract, contract.Stages, contract.Payments)

	c.JSON(http.StatusOK, gin.H{"contract": resp})
}

type updateContractRequest struct {
	TotalValue    *float64 `json:"total_value"`
	DurationDays  *int     `json:"duration_days"`
	DocumentPaths *string  `json:"document_paths"`
}

// @Summary Update Contract Details
// @Description Edit total value and duration. This is the only way to change a frozen total.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Router /contracts/{contract_id} [patch]
func (h *ContractHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)

	var req updateContractRequest
	if err := BindNestedOrFlat(c, "contract", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de contrato inválidos: " + err.Error()})
		return
	}

	contract, err := h.contractService.UpdateDetails(c.Request.Context(), uint(id), req.TotalValue, req.DurationDays, req.DocumentPaths, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

type replaceScheduleRequest struct {
	Stages []struct {
		Name       string  `json:"name"`
		Percentage float64 `json:"percentage"`
	} `json:"stages"`
}

// @Summary Replace Payment Schedule
// @Description Swap the contract's stage set. Rejected once payments reference a stage.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /contracts/{contract_id}/schedule [put]
func (h *ContractHandler) ReplaceSchedule(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)

	var req replaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cronograma inválidos: " + err.Error()})
		return
	}

	stages := make([]models.PaymentStage, 0, len(req.Stages))
	for _, st := range req.Stages {
		stages = append(stages, models.PaymentStage{Name: st.Name, Percentage: st.Percentage})
	}

	saved, err := h.contractService.ReplaceSchedule(c.Request.Context(), uint(id), stages, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []models.PaymentStageResponse
	for _, stage := range saved {
		responses = append(responses, stage.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"stages": responses})
}

// @Summary Delete Contract
// @Description Delete a contract without financial records
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /contracts/{contract_id} [delete]
func (h *ContractHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	if err := h.contractService.Delete(c.Request.Context(), uint(id), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contrato eliminado"})
}

// @Summary Hold Contract
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Router /contracts/{contract_id}/hold [post]
func (h *ContractHandler) Hold(c *gin.Context) {
	h.statusAction(c, h.contractService.Hold)
}

// @Summary Complete Contract
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Router /contracts/{contract_id}/complete [post]
func (h *ContractHandler) Complete(c *gin.Context) {
	h.statusAction(c, h.contractService.Complete)
}

// @Summary Cancel Contract
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Router /contracts/{contract_id}/cancel [post]
func (h *ContractHandler) Cancel(c *gin.Context) {
	h.statusAction(c, h.contractService.Cancel)
}

// @Summary Reactivate Contract
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Router /contracts/{contract_id}/reactivate [post]
func (h *ContractHandler) Reactivate(c *gin.Context) {
	h.statusAction(c, h.contractService.Reactivate)
}

func (h *ContractHandler) statusAction(c *gin.Context, action func(ctx context.Context, id uint, actor string) (*models.Contract, error)) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	contract, err := action(c.Request.Context(), uint(id), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Contract Statement PDF
// @Description Statement of account with stages, payments and expenses
// @Tags Contracts
// @Produce application/pdf
// @Param contract_id path int true "Contract ID"
// @Success 200 {file} binary
// @Router /contracts/{contract_id}/statement.pdf [get]
func (h *ContractHandler) StatementPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	buf, err := h.reportService.GenerateContractStatementPDF(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=estado_de_cuenta.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Contract Expenses CSV
// @Tags Contracts
// @Produce text/csv
// @Param contract_id path int true "Contract ID"
// @Success 200 {file} binary
// @Router /contracts/{contract_id}/expenses.csv [get]
func (h *ContractHandler) ExpensesCSV(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	buf, err := h.reportService.GenerateContractExpensesCSV(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=gastos.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
