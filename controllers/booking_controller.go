// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"frontdesk-backend/models"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type AdditionalGuestPayload struct {
	FullName        string `json:"fullName" binding:"required"`
	IDNumber        string `json:"idNumber"`
	DocumentImageID string `json:"documentImageId"`
}

type CreateBookingPayload struct {
	GuestName     string  `json:"guestName" binding:"required"`
	GuestMobile   string  `json:"guestMobile" binding:"required"`
	GuestIDNumber string  `json:"guestIdNumber"`
	Room          string  `json:"room"`
	Rent          float64 `json:"rent"`
	CheckIn       string  `json:"checkIn" binding:"required"`
	CheckOut      string  `json:"checkOut"`
	Status        string  `json:"status"`
	Notes         string  `json:"notes"`
	EntryNo       string  `json:"entryNo"`

	AdditionalGuests []AdditionalGuestPayload `json:"additionalGuests"`
}

type UpdateBookingPayload struct {
	GuestName     *string  `json:"guestName"`
	GuestMobile   *string  `json:"guestMobile"`
	GuestIDNumber *string  `json:"guestIdNumber"`
	Room          *string  `json:"room"`
	Rent          *float64 `json:"rent"`
	CheckIn       *string  `json:"checkIn"`
	CheckOut      *string  `json:"checkOut"`
	Notes         *string  `json:"notes"`

	AdditionalGuests *[]AdditionalGuestPayload `json:"additionalGuests"`
}

type TransitionStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

func toModelExtras(in []AdditionalGuestPayload) []models.AdditionalGuest {
	out := make([]models.AdditionalGuest, 0, len(in))
	for _, g := range in {
		if strings.TrimSpace(g.FullName) == "" {
			continue
		}
		out = append(out, models.AdditionalGuest{
			FullName:        strings.TrimSpace(g.FullName),
			IDNumber:        strings.TrimSpace(g.IDNumber),
			DocumentImageID: strings.TrimSpace(g.DocumentImageID),
		})
	}
	return out
}

// CreateBooking: POST /api/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload CreateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	checkIn, err := parseDate(payload.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid checkIn format")
		return
	}

	in := services.CreateBookingInput{
		GuestName:        strings.TrimSpace(payload.GuestName),
		GuestMobile:      strings.TrimSpace(payload.GuestMobile),
		GuestIDNumber:    strings.TrimSpace(payload.GuestIDNumber),
		Room:             strings.TrimSpace(payload.Room),
		Rent:             payload.Rent,
		CheckIn:          checkIn,
		Status:           payload.Status,
		Notes:            payload.Notes,
		EntryNo:          payload.EntryNo,
		AdditionalGuests: toModelExtras(payload.AdditionalGuests),
	}
	if strings.TrimSpace(payload.CheckOut) != "" {
		checkOut, err := parseDate(payload.CheckOut)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid checkOut format")
			return
		}
		in.CheckOut = &checkOut
	}

	booking, err := ctrl.BookingSvc.CreateBooking(in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GetBookings: GET /api/bookings with paging/filter/search query params.
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	params := services.ListParams{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Status: c.Query("status"),
		SortBy: c.DefaultQuery("sortBy", "createdAt"),
		Desc:   c.DefaultQuery("sortDir", "desc") == "desc",
	}

	if raw := c.Query("from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid from date")
			return
		}
		params.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid to date")
			return
		}
		params.To = &t
	}

	result, err := ctrl.BookingSvc.ListBookings(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// GetBookingDetails: GET /api/bookings/:id
func (ctrl *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.GetBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// UpdateBooking: PATCH /api/bookings/:id
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var payload UpdateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	in := services.UpdateBookingInput{
		GuestName:     payload.GuestName,
		GuestMobile:   payload.GuestMobile,
		GuestIDNumber: payload.GuestIDNumber,
		Room:          payload.Room,
		Rent:          payload.Rent,
		Notes:         payload.Notes,
	}
	if payload.CheckIn != nil {
		t, err := parseDate(*payload.CheckIn)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid checkIn format")
			return
		}
		in.CheckIn = &t
	}
	if payload.CheckOut != nil {
		t, err := parseDate(*payload.CheckOut)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid checkOut format")
			return
		}
		in.CheckOut = &t
	}
	if payload.AdditionalGuests != nil {
		extras := toModelExtras(*payload.AdditionalGuests)
		in.AdditionalGuests = &extras
	}

	booking, err := ctrl.BookingSvc.UpdateBooking(id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// DeleteBooking: DELETE /api/bookings/:id
// Asset cleanup failures come back in the response, not as an error.
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	warnings, err := ctrl.BookingSvc.DeleteBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"deleted":       true,
		"assetWarnings": warnings,
	})
}

// TransitionStatus: PATCH /api/bookings/:id/status
func (ctrl *BookingController) TransitionStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var payload TransitionStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: status required")
		return
	}

	booking, err := ctrl.BookingSvc.TransitionStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
