package handlers

import (
	"net/http"
	"strconv"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService    *services.QuoteService
	contractService *services.ContractService
}

func NewQuoteHandler(quoteService *services.QuoteService, contractService *services.ContractService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService, contractService: contractService}
}

// @Summary List Quotes
// @Description Get a paginated list of quotes
// @Tags Quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Router /quotes [get]
func (h *QuoteHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	if quoteType := c.Query("quote_type"); quoteType != "" {
		query.Filters["quote_type"] = quoteType
	}

	quotes, total, err := h.quoteService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes": quotes,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Quote
// @Tags Quotes
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Success 200 {object} models.Quote
// @Failure 404 {object} map[string]string
// @Router /quotes/{quote_id} [get]
func (h *QuoteHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	quote, err := h.quoteService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// @Summary Create Quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Success 201 {object} models.Quote
// @Router /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var quote models.Quote
	if err := BindNestedOrFlat(c, "quote", &quote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cotización inválidos: " + err.Error()})
		return
	}

	if err := h.quoteService.Create(c.Request.Context(), &quote, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"quote": quote})
}

// @Summary Update Quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Success 200 {object} models.Quote
// @Router /quotes/{quote_id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	quote, err := h.quoteService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := BindNestedOrFlat(c, "quote", quote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de cotización inválidos: " + err.Error()})
		return
	}
	quote.ID = uint(id)

	if err := h.quoteService.Update(c.Request.Context(), quote, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// @Summary Delete Quote
// @Tags Quotes
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Success 200 {object} map[string]string
// @Router /quotes/{quote_id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	if err := h.quoteService.Delete(c.Request.Context(), uint(id), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cotización eliminada"})
}

type convertQuoteRequest struct {
	Stages []struct {
		Name       string  `json:"name"`
		Percentage float64 `json:"percentage"`
	} `json:"stages"`
	DurationDays *int `json:"duration_days"`
}

// @Summary Convert Quote
// @Description Create a contract from a quote, freezing its total value. Converting twice returns the existing contract with 409.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Success 201 {object} models.ContractResponse
// @Failure 409 {object} map[string]interface{}
// @Router /quotes/{quote_id}/convert [post]
func (h *QuoteHandler) Convert(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)

	var req convertQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de conversión inválidos: " + err.Error()})
			return
		}
	}

	stages := make([]models.PaymentStage, 0, len(req.Stages))
	for _, st := range req.Stages {
		stages = append(stages, models.PaymentStage{Name: st.Name, Percentage: st.Percentage})
	}

	contract, err := h.contractService.ConvertQuote(c.Request.Context(), uint(id), stages, req.DurationDays, actor(c))
	if err != nil {
		// The replay case still carries the existing contract
		if contract != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "contract": contract.ToResponse()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": contract.ToResponse()})
}
