package handlers

import (
	"net/http"
	"strconv"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/dcastellanos/obrax-api/internal/storage"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary List Payments
// @Description Get a paginated list of received payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param contract_id query int false "Filter by contract"
// @Param start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param end_date query string false "Filter until date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	for _, key := range []string{"contract_id", "start_date", "end_date", "extra"} {
		if v := c.Query(key); v != "" {
			query.Filters[key] = v
		}
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []models.ReceivedPaymentResponse
	for _, payment := range payments {
		responses = append(responses, payment.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Payment
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.ReceivedPaymentResponse
// @Failure 404 {object} map[string]string
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Create Payment
// @Description Record money received on a contract, against a stage or as an extra
// @Tags Payments
// @Accept json
// @Produce json
// @Success 201 {object} models.ReceivedPaymentResponse
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var payment models.ReceivedPayment
	if err := BindNestedOrFlat(c, "payment", &payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de pago inválidos: " + err.Error()})
		return
	}

	if err := h.paymentService.Create(c.Request.Context(), &payment, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

// @Summary Update Payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.ReceivedPaymentResponse
// @Router /payments/{payment_id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := BindNestedOrFlat(c, "payment", payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de pago inválidos: " + err.Error()})
		return
	}
	payment.ID = uint(id)

	if err := h.paymentService.Update(c.Request.Context(), payment, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Delete Payment
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} map[string]string
// @Router /payments/{payment_id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	if err := h.paymentService.Delete(c.Request.Context(), uint(id), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pago eliminado"})
}

// @Summary Upload Payment Receipt
// @Description Upload payment receipt image/pdf
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param receipt formData file true "Receipt File"
// @Success 200 {object} map[string]string
// @Router /payments/{payment_id}/receipt [post]
func (h *PaymentHandler) UploadReceipt(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)

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

	if _, err := h.paymentService.AttachReceipt(c.Request.Context(), uint(id), header); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comprobante subido exitosamente"})
}

// @Summary Download Payment Receipt
// @Tags Payments
// @Produce application/octet-stream
// @Param payment_id path int true "Payment ID"
// @Success 200 {file} file "receipt"
// @Router /payments/{payment_id}/receipt [get]
func (h *PaymentHandler) DownloadReceipt(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	fullPath, err := h.paymentService.ReceiptPath(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(fullPath)
}
