// controllers/archive_controller.go
package controllers

import (
	"net/http"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type ArchiveController struct {
	ArchiveSvc *services.ArchiveService
}

func NewArchiveController(svc *services.ArchiveService) *ArchiveController {
	return &ArchiveController{ArchiveSvc: svc}
}

// RunArchive: POST /api/archive/run — manual trigger for the batch job.
// Admin/manager only (enforced in routes).
func (ctrl *ArchiveController) RunArchive(c *gin.Context) {
	summary, err := ctrl.ArchiveSvc.Run()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}
