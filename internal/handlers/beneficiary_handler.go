package handlers

import (
	"net/http"
	"strconv"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/gin-gonic/gin"
)

// BeneficiaryHandler serves the three beneficiary kinds. The routes differ
// only in the entity behind them, so each kind gets a thin set of methods
// over the shared service.
type BeneficiaryHandler struct {
	beneficiaryService *services.BeneficiaryService
	ledgerService      *services.LedgerService
}

func NewBeneficiaryHandler(beneficiaryService *services.BeneficiaryService, ledgerService *services.LedgerService) *BeneficiaryHandler {
	return &BeneficiaryHandler{beneficiaryService: beneficiaryService, ledgerService: ledgerService}
}

func listQueryFrom(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	return query
}

func paginated(c *gin.Context, key string, items interface{}, query *repository.ListQuery, total int64) {
	c.JSON(http.StatusOK, gin.H{
		key: items,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// contractIDParam reads the optional contract_id query used to scope balances
func contractIDParam(c *gin.Context) *uint {
	if v := c.Query("contract_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			cid := uint(id)
			return &cid
		}
	}
	return nil
}

// ----- Suppliers -----

// @Summary List Suppliers
// @Tags Beneficiaries
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /suppliers [get]
func (h *BeneficiaryHandler) IndexSuppliers(c *gin.Context) {
	query := listQueryFrom(c)
	suppliers, total, err := h.beneficiaryService.ListSuppliers(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	var responses []models.BeneficiaryResponse
	for _, s := range suppliers {
		responses = append(responses, s.ToResponse())
	}
	paginated(c, "suppliers", responses, query, total)
}

// @Summary Get Supplier
// @Tags Beneficiaries
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Success 200 {object} models.Supplier
// @Router /suppliers/{supplier_id} [get]
func (h *BeneficiaryHandler) ShowSupplier(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	supplier, err := h.beneficiaryService.FindSupplier(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// @Summary Create Supplier
// @Tags Beneficiaries
// @Accept json
// @Produce json
// @Success 201 {object} models.Supplier
// @Router /suppliers [post]
func (h *BeneficiaryHandler) CreateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := BindNestedOrFlat(c, "supplier", &supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de proveedor inválidos: " + err.Error()})
		return
	}
	if err := h.beneficiaryService.CreateSupplier(c.Request.Context(), &supplier, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"supplier": supplier})
}

// @Summary Update Supplier
// @Tags Beneficiaries
// @Accept json
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Success 200 {object} models.Supplier
// @Router /suppliers/{supplier_id} [put]
func (h *BeneficiaryHandler) UpdateSupplier(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	supplier, err := h.beneficiaryService.FindSupplier(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := BindNestedOrFlat(c, "supplier", supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de proveedor inválidos: " + err.Error()})
		return
	}
	supplier.ID = uint(id)
	if err := h.beneficiaryService.UpdateSupplier(c.Request.Context(), supplier, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// @Summary Delete Supplier
// @Description Rejected while expenses still reference the supplier
// @Tags Beneficiaries
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /suppliers/{supplier_id} [delete]
func (h *BeneficiaryHandler) DeleteSupplier(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	if err := h.beneficiaryService.DeleteSupplier(c.Request.Context(), uint(id), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proveedor eliminado"})
}

// @Summary Supplier Balance
// @Description Outstanding debt owed to the supplier, optionally scoped to a contract
// @Tags Beneficiaries
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Param contract_id query int false "Scope to contract"
// @Success 200 {object} map[string]interface{}
// @Router /suppliers/{supplier_id}/balance [get]
func (h *BeneficiaryHandler) SupplierBalance(c *gin.Context) {
	h.balance(c, models.BeneficiaryKindSupplier, c.Param("supplier_id"))
}

// ----- Workers -----

// @Summary List Workers
// @Tags Beneficiaries
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /workers [get]
func (h *BeneficiaryHandler) IndexWorkers(c *gin.Context) {
	query := listQueryFrom(c)
	workers, total, err := h.beneficiaryService.ListWorkers(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	var responses []models.BeneficiaryResponse
	for _, w := range workers {
		responses = append(responses, w.ToResponse())
	}
	paginated(c, "workers", responses, query, total)
}

// @Summary Get Worker
// @Tags Beneficiaries
// @Produce json
// @Param worker_id path int true "Worker ID"
// @Success 200 {object} models.Worker
// @Router /workers/{worker_id} [get]
func (h *BeneficiaryHandler) ShowWorker(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("worker_id"), 10, 32)
	worker, err := h.beneficiaryService.FindWorker(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": worker})
}

// @Summary Create Worker
// @Tags Beneficiaries
// @Accept json
// @Produce json
// @Success 201 {object} models.Worker
// @Router /workers [post]
func (h *BeneficiaryHandler) CreateWorker(c *gin.Context) {
	var worker models.Worker
	if err := BindNestedOrFlat(c, "worker", &worker); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de trabajador inválidos: " + err.Error()})
		return
	}
	if err := h.beneficiaryService.CreateWorker(c.Request.Context(), &worker, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"worker": worker})
}

// @Summary Update Worker
// @Tags Beneficiaries
// @Accept json
// @Produce json
// @Param worker_id path int true "Worker ID"
// @Success 200 {object} models.Worker
// @Router /workers/{worker_id} [put]
func (h *BeneficiaryHandler) UpdateWorker(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("worker_id"), 10, 32)
	worker, err := h.beneficiaryService.FindWorker(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := BindNestedOrFlat(c, "worker", worker); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de trabajador inválidos: " + err.Error()})
		return
	}
	worker.ID = uint(id)
	if err := h.beneficiaryService.UpdateWorker(c.Request.Context(), worker, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": worker})
}

// @Summary Delete Worker
// @Tags Beneficiaries
// @Produce json
// @Param worker_id path int true "Worker ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /workers/{worker_id} [delete]
func (h *BeneficiaryHandler) DeleteWorker(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("worker_id"), 10, 32)
	if err := h.beneficiaryService.DeleteWorker(c.Request.Context(), uint(id), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trabajador eliminado"})
}

// @Summary Worker Balance
// @Tags Beneficiaries
// @Produce json
// @Param worker_id path int true "Worker ID"
// @Param contract_id query int false "Scope to contract"
// @Success 200 {object} map[string]interface{}
// @Router /workers/{worker_id}/balance [get]
func (h *BeneficiaryHandler) WorkerBalance(c *gin.Context) {
	h.balance(c, models.BeneficiaryKindWorker, c.Param("worker_id"))
}

// ----- Subcontractors -----

// @Summary List Subcontractors
// @Tags Beneficiaries
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /subcontractors [get]
func (h *BeneficiaryHandler) IndexSubcontractors(c *gin.Context) {
	query := listQueryFrom(c)
	subs, total, err := h.beneficiaryService.ListSubcontractors(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	var responses []models.BeneficiaryResponse
	for _, s := range subs {
		responses = append(responses, s.ToResponse())
	}
	paginated(c, "subcontractors", responses, query, total)
}

// @Summary Get Subcontractor
// @Tags Beneficiaries
// @Produce json
// @Param subcontractor_id path int true "Subcontractor ID"
// @Success 200 {object} models.Subcontractor
// @Router /subcontractors/{subcontractor_id} [get]
func (h *BeneficiaryHandler) ShowSubcontractor(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("subcontractor_id"), 10, 32)
	sub, err := h.beneficiaryService.FindSubcontractor(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcontractor": sub})
}

// @Summary Create Subcontractor
// @Tags Beneficiaries
// @Accept json
// @Produce json
// @Success 201 {object} models.Subcontractor
// @Router /subcontractors [post]
func (h *BeneficiaryHandler) CreateSubcontractor(c *gin.Context) {
	var sub models.Subcontractor
	if err := BindNestedOrFlat(c, "subcontractor", &sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de subcontratista inválidos: " + err.Error()})
		return
	}
	if err := h.beneficiaryService.CreateSubcontractor(c.Request.Context(), &sub, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subcontractor": sub})
}

// @Summary Update Subcontractor
// @Tags Beneficiaries
// @Accept json
// @Produce json
// @Param subcontractor_id path int true "Subcontractor ID"
// @Success 200 {object} models.Subcontractor
// @Router /subcontractors/{subcontractor_id} [put]
func (h *BeneficiaryHandler) UpdateSubcontractor(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("subcontractor_id"), 10, 32)
	sub, err := h.beneficiaryService.FindSubcontractor(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := BindNestedOrFlat(c, "subcontractor", sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de subcontratista inválidos: " + err.Error()})
		return
	}
	sub.ID = uint(id)
	if err := h.beneficiaryService.UpdateSubcontractor(c.Request.Context(), sub, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcontractor": sub})
}

// @Summary Delete Subcontractor
// @Description Rejected while expenses or agreements still reference the subcontractor
// @Tags Beneficiaries
// @Produce json
// @Param subcontractor_id path int true "Subcontractor ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /subcontractors/{subcontractor_id} [delete]
func (h *BeneficiaryHandler) DeleteSubcontractor(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("subcontractor_id"), 10, 32)
	if err := h.beneficiaryService.DeleteSubcontractor(c.Request.Context(), uint(id), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subcontratista eliminado"})
}

// @Summary Subcontractor Balance
// @Tags Beneficiaries
// @Produce json
// @Param subcontractor_id path int true "Subcontractor ID"
// @Param contract_id query int false "Scope to contract"
// @Success 200 {object} map[string]interface{}
// @Router /subcontractors/{subcontractor_id}/balance [get]
func (h *BeneficiaryHandler) SubcontractorBalance(c *gin.Context) {
	h.balance(c, models.BeneficiaryKindSubcontractor, c.Param("subcontractor_id"))
}

func (h *BeneficiaryHandler) balance(c *gin.Context, kind, rawID string) {
	id, _ := strconv.ParseUint(rawID, 10, 32)
	contractID := contractIDParam(c)

	balance, err := h.ledgerService.BalanceOf(c.Request.Context(), kind, uint(id), contractID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"kind": kind, "beneficiary_id": uint(id), "balance": balance}
	if contractID != nil {
		resp["contract_id"] = *contractID
	}
	c.JSON(http.StatusOK, resp)
}
