// services/booking_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns the booking lifecycle: create/update/delete/status
// plus list/search. Every mutation keeps the owning guest's ledger in step
// inside the same transaction.
type BookingService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Assets *AssetService
}

func NewBookingService(db *gorm.DB, ledger *LedgerService, assets *AssetService) *BookingService {
	return &BookingService{DB: db, Ledger: ledger, Assets: assets}
}

// CreateBookingInput holds the validated fields for a new booking. EntryNo
// may be caller-supplied (same shape as generated ones); empty means
// generate one.
type CreateBookingInput struct {
	GuestName     string
	GuestMobile   string
	GuestIDNumber string
	Room          string
	Rent          float64
	CheckIn       time.Time
	CheckOut      *time.Time
	Status        string
	Notes         string
	EntryNo       string

	AdditionalGuests []models.AdditionalGuest
}

// UpdateBookingInput merges only the fields that are non-nil.
type UpdateBookingInput struct {
	GuestName     *string
	GuestMobile   *string
	GuestIDNumber *string
	Room          *string
	Rent          *float64
	CheckIn       *time.Time
	CheckOut      *time.Time
	Notes         *string

	AdditionalGuests *[]models.AdditionalGuest
}

// lockForUpdate takes a row lock where the dialect supports it; the sqlite
// test driver serializes writes on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func totalAmount(rent float64, b *models.Booking) float64 {
	return float64(b.BillableDays()) * rent
}

func validateDates(checkIn time.Time, checkOut *time.Time) error {
	if checkIn.IsZero() {
		return validationErr("checkIn", "check-in is required")
	}
	if checkOut != nil && checkOut.Before(checkIn) {
		return validationErr("checkOut", "check-out cannot precede check-in")
	}
	return nil
}

func (s *BookingService) validateCreate(in *CreateBookingInput) error {
	if strings.TrimSpace(in.GuestName) == "" {
		return validationErr("guestName", "guest name is required")
	}
	if !utils.IsValidMobile(in.GuestMobile) {
		return validationErr("guestMobile", "mobile must be 10 digits")
	}
	if raw := strings.TrimSpace(in.GuestIDNumber); raw != "" {
		if !utils.IsValidIDNumber(raw) {
			raw = utils.NormalizeIDNumber(raw)
			if raw == "" {
				return validationErr("guestIdNumber", "identity number must be NNNN-NNNN-NNNN")
			}
		}
		in.GuestIDNumber = raw
	}
	if entry := strings.TrimSpace(in.EntryNo); entry != "" {
		if !utils.IsValidCodeFormat(entry) {
			return validationErr("entryNo", "entry number must be one letter followed by 9 digits")
		}
		in.EntryNo = strings.ToUpper(entry)
	}
	if in.Rent < 0 {
		return validationErr("rent", "rent cannot be negative")
	}
	if err := validateDates(in.CheckIn, in.CheckOut); err != nil {
		return err
	}
	if in.Status != "" && !models.IsValidStatus(in.Status) {
		return validationErr("status", "unknown status")
	}
	return nil
}

// CreateBooking allocates serial/entry numbers, derives totals, ensures the
// guest identity exists and records the visit on its ledger. All in one
// transaction; generated-number collisions retry, caller-supplied entry
// collisions fail with ErrDuplicateEntry.
func (s *BookingService) CreateBooking(in CreateBookingInput) (*models.Booking, error) {
	if err := s.validateCreate(&in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusCheckedIn
	}

	extrasJSON, err := json.Marshal(in.AdditionalGuests)
	if err != nil {
		return nil, fmt.Errorf("marshal additional guests: %w", err)
	}

	callerEntry := strings.TrimSpace(in.EntryNo)

	var created models.Booking
	maxRetries := 5
	for attempt := 0; attempt < maxRetries; attempt++ {
		serialNo, gErr := utils.GenerateSerialNo()
		if gErr != nil {
			return nil, fmt.Errorf("generate serial no: %w", gErr)
		}
		entryNo := callerEntry
		if entryNo == "" {
			if entryNo, gErr = utils.GenerateEntryNo(); gErr != nil {
				return nil, fmt.Errorf("generate entry no: %w", gErr)
			}
		}

		txErr := s.DB.Transaction(func(tx *gorm.DB) error {
			guest, err := s.Ledger.FindOrCreateGuest(tx, in.GuestName, in.GuestMobile, in.GuestIDNumber)
			if err != nil {
				return err
			}

			booking := models.Booking{
				SerialNo:      serialNo,
				EntryNo:       entryNo,
				GuestID:       &guest.ID,
				GuestName:     in.GuestName,
				GuestMobile:   in.GuestMobile,
				GuestIDNumber: in.GuestIDNumber,
				Room:          in.Room,
				Rent:          in.Rent,
				CheckIn:       in.CheckIn,
				CheckOut:      in.CheckOut,
				Status:        status,
				Notes:         in.Notes,
				GroupSize:     1 + len(in.AdditionalGuests),
				AdditionalGuests: datatypes.JSON(extrasJSON),
			}
			booking.TotalAmount = totalAmount(in.Rent, &booking)

			if err := tx.Create(&booking).Error; err != nil {
				return err
			}

			// ledger counts a visit at nightly rate, not stay total
			if err := s.Ledger.RecordVisit(tx, guest.ID, in.Rent); err != nil {
				return err
			}

			created = booking
			return nil
		})

		if txErr == nil {
			return &created, nil
		}
		if isDuplicateErr(txErr) {
			if callerEntry != "" {
				// caller picked the entry number; not ours to regenerate
				return nil, ErrDuplicateEntry
			}
			log.Printf("booking number collision (attempt %d) - retrying", attempt+1)
			continue
		}
		return nil, txErr
	}
	return nil, fmt.Errorf("%w: %d attempts", ErrCodeAllocation, maxRetries)
}

// GetBooking returns one booking by id.
func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

// UpdateBooking merges the provided fields, re-derives totalAmount/groupSize
// when dates, rent or the guest list changed and propagates identity edits
// to the guest row.
func (s *BookingService) UpdateBooking(id uint, in UpdateBookingInput) (*models.Booking, error) {
	var updated models.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := lockForUpdate(tx).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if in.GuestName != nil {
			if strings.TrimSpace(*in.GuestName) == "" {
				return validationErr("guestName", "guest name cannot be empty")
			}
			booking.GuestName = *in.GuestName
		}
		if in.GuestMobile != nil {
			if !utils.IsValidMobile(*in.GuestMobile) {
				return validationErr("guestMobile", "mobile must be 10 digits")
			}
			booking.GuestMobile = *in.GuestMobile
		}
		if in.GuestIDNumber != nil {
			idNum := strings.TrimSpace(*in.GuestIDNumber)
			if idNum != "" && !utils.IsValidIDNumber(idNum) {
				idNum = utils.NormalizeIDNumber(idNum)
				if idNum == "" {
					return validationErr("guestIdNumber", "identity number must be NNNN-NNNN-NNNN")
				}
			}
			booking.GuestIDNumber = idNum
		}
		if in.Room != nil {
			booking.Room = *in.Room
		}
		if in.Rent != nil {
			if *in.Rent < 0 {
				return validationErr("rent", "rent cannot be negative")
			}
			booking.Rent = *in.Rent
		}
		if in.CheckIn != nil {
			booking.CheckIn = *in.CheckIn
		}
		if in.CheckOut != nil {
			booking.CheckOut = in.CheckOut
		}
		if in.Notes != nil {
			booking.Notes = *in.Notes
		}
		if in.AdditionalGuests != nil {
			extrasJSON, err := json.Marshal(*in.AdditionalGuests)
			if err != nil {
				return fmt.Errorf("marshal additional guests: %w", err)
			}
			booking.AdditionalGuests = datatypes.JSON(extrasJSON)
			booking.GroupSize = 1 + len(*in.AdditionalGuests)
		}

		if err := validateDates(booking.CheckIn, booking.CheckOut); err != nil {
			return err
		}
		booking.TotalAmount = totalAmount(booking.Rent, &booking)

		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		// identity edits flow through to the guest record; the denormalized
		// copies on other bookings stay as captured at their creation
		if booking.GuestID != nil && (in.GuestName != nil || in.GuestMobile != nil || in.GuestIDNumber != nil) {
			name, mobile, idNumber := "", "", ""
			if in.GuestName != nil {
				name = booking.GuestName
			}
			if in.GuestMobile != nil {
				mobile = booking.GuestMobile
			}
			if in.GuestIDNumber != nil {
				idNumber = booking.GuestIDNumber
			}
			if err := s.Ledger.PropagateGuestFields(tx, *booking.GuestID, name, mobile, idNumber); err != nil {
				return err
			}
		}

		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBooking reverses the booking's ledger contribution, removes the
// guest once its visits hit zero and deletes the row. Document assets are
// cleaned up best-effort afterwards; failures come back as warnings, never
// blocking the delete.
func (s *BookingService) DeleteBooking(id uint) ([]string, error) {
	var assetIDs []string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := lockForUpdate(tx).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if booking.GuestID != nil {
			if err := s.Ledger.ReverseVisit(tx, *booking.GuestID, booking.Rent); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}

			var guest models.Guest
			if err := tx.First(&guest, *booking.GuestID).Error; err == nil && guest.TotalVisits == 0 {
				if strings.TrimSpace(guest.DocumentImageID) != "" {
					assetIDs = append(assetIDs, guest.DocumentImageID)
				}
				// no orphan zero-value identities
				if err := tx.Delete(&guest).Error; err != nil {
					return err
				}
			}
		}

		var extras []models.AdditionalGuest
		if len(booking.AdditionalGuests) > 0 {
			if err := json.Unmarshal(booking.AdditionalGuests, &extras); err == nil {
				for _, g := range extras {
					if strings.TrimSpace(g.DocumentImageID) != "" {
						assetIDs = append(assetIDs, g.DocumentImageID)
					}
				}
			}
		}

		return tx.Delete(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	var warnings []string
	if s.Assets != nil {
		for _, assetID := range assetIDs {
			if err := s.Assets.Delete(assetID); err != nil {
				log.Printf("warning: failed to delete document asset %s: %v", assetID, err)
				warnings = append(warnings, fmt.Sprintf("asset %s: %v", assetID, err))
			}
		}
	}
	return warnings, nil
}

// TransitionStatus sets the booking status. The statuses are a flat set;
// any known value is accepted from any other.
func (s *BookingService) TransitionStatus(id uint, newStatus string) (*models.Booking, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var booking models.Booking
	if err := s.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.DB.Model(&booking).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	booking.Status = newStatus
	return &booking, nil
}

// ListParams are the supported list/search filters.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
	SortBy string
	Desc   bool
	From   *time.Time
	To     *time.Time
}

// ListResult is one page of bookings plus paging flags.
type ListResult struct {
	Items       []models.Booking `json:"items"`
	Page        int              `json:"page"`
	TotalPages  int              `json:"totalPages"`
	TotalCount  int64            `json:"totalCount"`
	HasNextPage bool             `json:"hasNextPage"`
	HasPrevPage bool             `json:"hasPrevPage"`
}

var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"checkIn":     "check_in",
	"rent":        "rent",
	"totalAmount": "total_amount",
	"guestName":   "guest_name",
	"serialNo":    "serial_no",
}

// ListBookings pages through the live set. Searches of 3+ characters match
// anywhere in name/mobile/room/serial; shorter ones fall back to prefix
// matching on mobile/serial.
func (s *BookingService) ListBookings(p ListParams) (*ListResult, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}

	q := s.DB.Model(&models.Booking{})

	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}
	if p.From != nil {
		q = q.Where("check_in >= ?", *p.From)
	}
	if p.To != nil {
		q = q.Where("check_in <= ?", *p.To)
	}

	search := strings.TrimSpace(p.Search)
	if search != "" {
		if len(search) >= 3 {
			like := "%" + search + "%"
			q = q.Where(
				"guest_name LIKE ? OR guest_mobile LIKE ? OR room LIKE ? OR serial_no LIKE ?",
				like, like, like, like,
			)
		} else {
			prefix := search + "%"
			q = q.Where("guest_mobile LIKE ? OR serial_no LIKE ?", prefix, prefix)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = "created_at"
		p.Desc = true
	}
	direction := "ASC"
	if p.Desc {
		direction = "DESC"
	}

	var items []models.Booking
	if err := q.Order(column + " " + direction).
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if items == nil {
		items = []models.Booking{}
	}

	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return &ListResult{
		Items:       items,
		Page:        p.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1 && total > 0,
	}, nil
}
