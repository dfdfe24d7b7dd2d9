// controllers/stats_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/now"
)

type StatsController struct {
	StatsSvc *services.StatsService
}

func NewStatsController(svc *services.StatsService) *StatsController {
	return &StatsController{StatsSvc: svc}
}

// GetDashboard: GET /api/stats/dashboard
func (ctrl *StatsController) GetDashboard(c *gin.Context) {
	d, err := ctrl.StatsSvc.Dashboard()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, d)
}

// GetRevenue: GET /api/stats/revenue?bucket=day|month|year&from=&to=
// Default window is the current month.
func (ctrl *StatsController) GetRevenue(c *gin.Context) {
	bucket := c.DefaultQuery("bucket", "day")

	from := now.BeginningOfMonth()
	to := now.EndOfMonth()
	if raw := c.Query("from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid from date")
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid to date")
			return
		}
		to = now.New(t).EndOfDay()
	}

	buckets, err := ctrl.StatsSvc.RevenueByPeriod(from, to, bucket)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, buckets)
}

// GetOccupancy: GET /api/stats/occupancy?days=7
func (ctrl *StatsController) GetOccupancy(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	occ, err := ctrl.StatsSvc.Occupancy(days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, occ)
}

// GetGuestStats: GET /api/stats/guests?limit=10&from=&to=
// Top guests by revenue, average stay length and new-vs-returning in one
// response.
func (ctrl *StatsController) GetGuestStats(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	from := now.BeginningOfMonth()
	to := time.Now()
	if raw := c.Query("from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid from date")
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid to date")
			return
		}
		to = now.New(t).EndOfDay()
	}

	top, err := ctrl.StatsSvc.TopGuestsByRevenue(limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	avgStay, err := ctrl.StatsSvc.AverageStayLength()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	nvr, err := ctrl.StatsSvc.NewVsReturning(from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"topGuests":      top,
		"avgStayDays":    avgStay,
		"newVsReturning": nvr,
	})
}

// ExportGuests: GET /api/stats/export/guests — CSV download, admin/manager
// only (enforced in routes).
func (ctrl *StatsController) ExportGuests(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="guests.csv"`)
	if err := ctrl.StatsSvc.ExportGuestsCSV(c.Writer); err != nil {
		respondServiceError(c, err)
		return
	}
}
