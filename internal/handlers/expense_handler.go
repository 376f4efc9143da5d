package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/dcastellanos/obrax-api/internal/storage"
	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// @Summary List Expenses
// @Description Get a paginated list of expenses
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param contract_id query int false "Filter by contract"
// @Param category query string false "Filter by category"
// @Param payment_method query string false "cash or credit"
// @Param pending query bool false "Only expenses with outstanding debt"
// @Success 200 {object} map[string]interface{}
// @Router /expenses [get]
func (h *ExpenseHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	for _, key := range []string{"contract_id", "category", "payment_method", "beneficiary_kind", "beneficiary_id", "start_date", "end_date", "pending"} {
		if v := c.Query(key); v != "" {
			query.Filters[key] = v
		}
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []models.ExpenseResponse
	for _, expense := range expenses {
		responses = append(responses, expense.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"expenses": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Expense
// @Description Get an expense with its settlement history
// @Tags Expenses
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Success 200 {object} models.ExpenseResponse
// @Failure 404 {object} map[string]string
// @Router /expenses/{expense_id} [get]
func (h *ExpenseHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)
	expense, err := h.expenseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense.ToResponse()})
}

// @Summary Create Expense
// @Description Record a contract expense. Cash settles immediately; credit opens a debt.
// @Tags Expenses
// @Accept json
// @Produce json
// @Success 201 {object} models.ExpenseResponse
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var expense models.Expense
	if err := BindNestedOrFlat(c, "expense", &expense); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de gasto inválidos: " + err.Error()})
		return
	}

	if err := h.expenseService.Create(c.Request.Context(), &expense, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense.ToResponse()})
}

// @Summary Update Expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Success 200 {object} models.ExpenseResponse
// @Router /expenses/{expense_id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)
	expense, err := h.expenseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := BindNestedOrFlat(c, "expense", expense); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de gasto inválidos: " + err.Error()})
		return
	}
	expense.ID = uint(id)

	if err := h.expenseService.Update(c.Request.Context(), expense, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense.ToResponse()})
}

// @Summary Delete Expense
// @Description Delete an expense and its settlement history
// @Tags Expenses
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Success 200 {object} map[string]string
// @Router /expenses/{expense_id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)
	if err := h.expenseService.Delete(c.Request.Context(), uint(id), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gasto eliminado"})
}

type settlementRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	PaymentDate string  `json:"payment_date"`
	Note        string  `json:"note"`
}

// @Summary Pay Partial Debt
// @Description Settle part of a credit expense. Overpayment is rejected.
// @Tags Expenses
// @Accept json
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Success 201 {object} models.ExpenseResponse
// @Failure 422 {object} map[string]string
// @Router /expenses/{expense_id}/payments [post]
func (h *ExpenseHandler) PayDebt(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)

	var req settlementRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de abono inválidos: " + err.Error()})
		return
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de abono inválida, use YYYY-MM-DD"})
			return
		}
		paymentDate = parsed
	}

	expense, err := h.expenseService.PayPartialDebt(c.Request.Context(), uint(id), req.Amount, paymentDate, nil, req.Note, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense.ToResponse()})
}

// @Summary Upload Expense Receipt
// @Description Upload expense receipt image/pdf
// @Tags Expenses
// @Accept multipart/form-data
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Param receipt formData file true "Receipt File"
// @Success 200 {object} map[string]string
// @Router /expenses/{expense_id}/receipt [post]
func (h *ExpenseHandler) UploadReceipt(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)

	header, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo requerido"})
		return
	}
	if header.Size > storage.MaxFileSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo demasiado grande"})
		return
	}
	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de archivo inválido"})
		return
	}

	if _, err := h.expenseService.AttachReceipt(c.Request.Context(), uint(id), header); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comprobante subido exitosamente"})
}

// @Summary Download Expense Receipt
// @Tags Expenses
// @Produce application/octet-stream
// @Param expense_id path int true "Expense ID"
// @Success 200 {file} file "receipt"
// @Router /expenses/{expense_id}/receipt [get]
func (h *ExpenseHandler) DownloadReceipt(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)
	fullPath, err := h.expenseService.ReceiptPath(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(fullPath)
}
