package handlers

import (
	"net/http"

	"github.com/dcastellanos/obrax-api/internal/services"
	"github.com/gin-gonic/gin"
)

type SnapshotHandler struct {
	snapshotService *services.SnapshotService
}

func NewSnapshotHandler(snapshotService *services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// @Summary Export Snapshot
// @Description Full JSON dump of every collection, for backup or migration
// @Tags Snapshots
// @Produce json
// @Success 200 {object} services.Snapshot
// @Router /snapshots/export [get]
func (h *SnapshotHandler) Export(c *gin.Context) {
	snap, err := h.snapshotService.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=snapshot.json")
	c.JSON(http.StatusOK, snap)
}

// @Summary Import Snapshot
// @Description Replace the entire dataset with the uploaded snapshot
// @Tags Snapshots
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /snapshots/import [post]
func (h *SnapshotHandler) Import(c *gin.Context) {
	var snap services.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Respaldo inválido: " + err.Error()})
		return
	}

	if err := h.snapshotService.Import(c.Request.Context(), &snap); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Respaldo importado"})
}
