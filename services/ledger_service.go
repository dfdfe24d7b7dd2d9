// services/ledger_service.go
package services

import (
	"errors"
	"log"
	"strings"

	"frontdesk-backend/models"

	"gorm.io/gorm"
)

// LedgerService keeps each guest's two-part total (live + historic)
// consistent. Counter updates are single atomic SQL statements, never
// read-modify-write, so concurrent bookings for the same guest cannot lose
// updates.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// Totals is a guest's combined lifetime numbers.
type Totals struct {
	Visits  int     `json:"visits"`
	Revenue float64 `json:"revenue"`
}

// FindOrCreateGuest looks a guest up by mobile (or ID number) and creates
// the identity row on first booking. Runs on the caller's tx.
func (s *LedgerService) FindOrCreateGuest(tx *gorm.DB, name, mobile, idNumber string) (*models.Guest, error) {
	var guest models.Guest

	q := tx.Where("mobile = ?", mobile)
	if strings.TrimSpace(idNumber) != "" {
		q = tx.Where("mobile = ? OR id_number = ?", mobile, idNumber)
	}
	err := q.First(&guest).Error
	if err == nil {
		return &guest, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	guest = models.Guest{
		Name:     name,
		Mobile:   mobile,
		IDNumber: idNumber,
		Active:   true,
	}
	if err := tx.Create(&guest).Error; err != nil {
		if isDuplicateErr(err) {
			// lost a create race; fetch the winner
			if err2 := tx.Where("mobile = ?", mobile).First(&guest).Error; err2 == nil {
				return &guest, nil
			}
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return &guest, nil
}

// RecordVisit adds one visit and the revenue delta to a guest's live totals.
func (s *LedgerService) RecordVisit(tx *gorm.DB, guestID uint, revenue float64) error {
	res := tx.Model(&models.Guest{}).
		Where("id = ?", guestID).
		Updates(map[string]interface{}{
			"total_visits":  gorm.Expr("total_visits + 1"),
			"total_revenue": gorm.Expr("total_revenue + ?", revenue),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReverseVisit removes one visit and the revenue delta, floored at zero.
// A floor hit means the ledger and the booking set disagree; it is logged
// and the counters clamp rather than going negative.
func (s *LedgerService) ReverseVisit(tx *gorm.DB, guestID uint, revenue float64) error {
	return s.reverse(tx, guestID, 1, revenue)
}

func (s *LedgerService) reverse(tx *gorm.DB, guestID uint, visits int, revenue float64) error {
	var guest models.Guest
	if err := tx.First(&guest, guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if guest.TotalVisits < visits || guest.TotalRevenue < revenue {
		log.Printf("⚠️  aggregate anomaly: guest %d totals (%d, %.2f) below reversal (%d, %.2f); flooring at 0",
			guestID, guest.TotalVisits, guest.TotalRevenue, visits, revenue)
	}

	res := tx.Model(&models.Guest{}).
		Where("id = ?", guestID).
		Updates(map[string]interface{}{
			"total_visits":  gorm.Expr("CASE WHEN total_visits >= ? THEN total_visits - ? ELSE 0 END", visits, visits),
			"total_revenue": gorm.Expr("CASE WHEN total_revenue >= ? THEN total_revenue - ? ELSE 0 END", revenue, revenue),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FullTotals answers "what are this guest's lifetime totals" by summing the
// live counters with the historic summary.
func (s *LedgerService) FullTotals(guestID uint) (Totals, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Totals{}, ErrNotFound
		}
		return Totals{}, err
	}
	return s.FullTotalsByMobile(guest.Mobile)
}

// FullTotalsByMobile works even after the live guest row has been swept
// away; the historic summary alone then carries the totals.
func (s *LedgerService) FullTotalsByMobile(mobile string) (Totals, error) {
	t := Totals{}

	var guest models.Guest
	err := s.DB.Where("mobile = ?", mobile).First(&guest).Error
	if err == nil {
		t.Visits += guest.TotalVisits
		t.Revenue += guest.TotalRevenue
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return t, err
	}

	var arch models.GuestArchive
	err = s.DB.Where("mobile = ?", mobile).First(&arch).Error
	if err == nil {
		t.Visits += arch.TotalVisits
		t.Revenue += arch.TotalRevenue
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return t, err
	}

	return t, nil
}

// PropagateGuestFields pushes edited identity fields from a booking update
// onto the guest row.
func (s *LedgerService) PropagateGuestFields(tx *gorm.DB, guestID uint, name, mobile, idNumber string) error {
	updates := map[string]interface{}{}
	if strings.TrimSpace(name) != "" {
		updates["name"] = name
	}
	if strings.TrimSpace(mobile) != "" {
		updates["mobile"] = mobile
	}
	if strings.TrimSpace(idNumber) != "" {
		updates["id_number"] = idNumber
	}
	if len(updates) == 0 {
		return nil
	}
	err := tx.Model(&models.Guest{}).Where("id = ?", guestID).Updates(updates).Error
	if isDuplicateErr(err) {
		return ErrDuplicateEntry
	}
	return err
}
