package handlers

import (
	"net/http"
	"strconv"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AgreementHandler struct {
	agreementService *services.AgreementService
}

func NewAgreementHandler(agreementService *services.AgreementService) *AgreementHandler {
	return &AgreementHandler{agreementService: agreementService}
}

// @Summary List Agreements
// @Description Agreements filtered by contract or subcontractor
// @Tags Agreements
// @Produce json
// @Param contract_id query int false "Filter by contract"
// @Param subcontractor_id query int false "Filter by subcontractor"
// @Success 200 {object} map[string]interface{}
// @Router /agreements [get]
func (h *AgreementHandler) Index(c *gin.Context) {
	var (
		agreements []models.SubcontractorAgreement
		err        error
	)
	switch {
	case c.Query("contract_id") != "":
		id, _ := strconv.ParseUint(c.Query("contract_id"), 10, 32)
		agreements, err = h.agreementService.FindByContract(c.Request.Context(), uint(id))
	case c.Query("subcontractor_id") != "":
		id, _ := strconv.ParseUint(c.Query("subcontractor_id"), 10, 32)
		agreements, err = h.agreementService.FindBySubcontractor(c.Request.Context(), uint(id))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requiere contract_id o subcontractor_id"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreements": agreements})
}

// @Summary Get Agreement
// @Tags Agreements
// @Produce json
// @Param agreement_id path int true "Agreement ID"
// @Success 200 {object} models.SubcontractorAgreement
// @Failure 404 {object} map[string]string
// @Router /agreements/{agreement_id} [get]
func (h *AgreementHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("agreement_id"), 10, 32)
	agreement, err := h.agreementService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreement": agreement})
}

// @Summary Create Agreement
// @Description Register a subcontractor's agreed scope on a contract
// @Tags Agreements
// @Accept json
// @Produce json
// @Success 201 {object} models.SubcontractorAgreement
// @Failure 409 {object} map[string]string
// @Router /agreements [post]
func (h *AgreementHandler) Create(c *gin.Context) {
	var agreement models.SubcontractorAgreement
	if err := BindNestedOrFlat(c, "agreement", &agreement); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de acuerdo inválidos: " + err.Error()})
		return
	}
	if err := h.agreementService.Create(c.Request.Context(), &agreement, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"agreement": agreement})
}

// @Summary Update Agreement
// @Tags Agreements
// @Accept json
// @Produce json
// @Param agreement_id path int true "Agreement ID"
// @Success 200 {object} models.SubcontractorAgreement
// @Router /agreements/{agreement_id} [put]
func (h *AgreementHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("agreement_id"), 10, 32)
	agreement, err := h.agreementService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := BindNestedOrFlat(c, "agreement", agreement); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de acuerdo inválidos: " + err.Error()})
		return
	}
	agreement.ID = uint(id)
	if err := h.agreementService.Update(c.Request.Context(), agreement, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreement": agreement})
}

// @Summary Delete Agreement
// @Tags Agreements
// @Produce json
// @Param agreement_id path int true "Agreement ID"
// @Success 200 {object} map[string]string
// @Router /agreements/{agreement_id} [delete]
func (h *AgreementHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("agreement_id"), 10, 32)
	if err := h.agreementService.Delete(c.Request.Context(), uint(id), actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Acuerdo eliminado"})
}

// @Summary Agreement Progress
// @Description Paid versus agreed, derived from expenses tagged to the subcontractor
// @Tags Agreements
// @Produce json
// @Param agreement_id path int true "Agreement ID"
// @Success 200 {object} services.AgreementProgress
// @Router /agreements/{agreement_id}/progress [get]
func (h *AgreementHandler) Progress(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("agreement_id"), 10, 32)
	progress, err := h.agreementService.Progress(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
