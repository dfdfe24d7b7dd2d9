// controllers/guest_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"frontdesk-backend/models"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GuestController struct {
	DB       *gorm.DB
	Ledger   *services.LedgerService
	AssetSvc *services.AssetService
}

func NewGuestController(db *gorm.DB, ledger *services.LedgerService, assets *services.AssetService) *GuestController {
	return &GuestController{DB: db, Ledger: ledger, AssetSvc: assets}
}

type UploadDocumentPayload struct {
	Image string `json:"image" binding:"required"` // base64, data-URL accepted
}

// GetGuests: GET /api/guests — paged guest list with optional search.
func (ctrl *GuestController) GetGuests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := ctrl.DB.Model(&models.Guest{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR mobile LIKE ? OR id_number LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	var guests []models.Guest
	if err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&guests).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if guests == nil {
		guests = []models.Guest{}
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"items":      guests,
		"page":       page,
		"totalCount": total,
	})
}

// GetGuestByID: GET /api/guests/:id — the guest row plus lifetime totals
// (live + historic).
func (ctrl *GuestController) GetGuestByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var guest models.Guest
	if err := ctrl.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, services.ErrNotFound)
			return
		}
		respondServiceError(c, err)
		return
	}

	totals, err := ctrl.Ledger.FullTotalsByMobile(guest.Mobile)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"guest":          guest,
		"lifetimeTotals": totals,
	})
}

// UploadDocument: POST /api/guests/:id/document — stores the identity
// document and attaches its public ID to the guest. A previous document is
// deleted best-effort.
func (ctrl *GuestController) UploadDocument(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var payload UploadDocumentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: image required")
		return
	}

	var guest models.Guest
	if err := ctrl.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, services.ErrNotFound)
			return
		}
		respondServiceError(c, err)
		return
	}

	assetID, err := ctrl.AssetSvc.SaveBase64Document(payload.Image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	previous := guest.DocumentImageID
	if err := ctrl.DB.Model(&guest).Update("document_image_id", assetID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	var warnings []string
	if previous != "" {
		if err := ctrl.AssetSvc.Delete(previous); err != nil {
			warnings = append(warnings, "previous document: "+err.Error())
		}
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"documentImageId": assetID,
		"documentUrl":     ctrl.AssetSvc.PublicPath(assetID),
		"assetWarnings":   warnings,
	})
}
