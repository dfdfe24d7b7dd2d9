// services/archive_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"frontdesk-backend/models"

	"gorm.io/gorm"
)

// ArchiveService folds bookings older than the retention horizon into each
// guest's historic summary and removes them from the live set. Merge and
// delete happen in one transaction per guest group, so a crash cannot
// double-count a group on re-run.
type ArchiveService struct {
	DB        *gorm.DB
	Retention time.Duration
}

// DefaultRetention keeps two years of bookings live.
const DefaultRetention = 2 * 365 * 24 * time.Hour

func NewArchiveService(db *gorm.DB, retention time.Duration) *ArchiveService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &ArchiveService{DB: db, Retention: retention}
}

// ArchiveSummary reports what one run did.
type ArchiveSummary struct {
	BookingsArchived int `json:"bookingsArchived"`
	GuestsAffected   int `json:"guestsAffected"`
	GuestsDeleted    int `json:"guestsDeleted"`
}

type archiveGroup struct {
	guestID  *uint
	name     string
	mobile   string
	idNumber string

	bookingIDs []uint
	visits     int
	revenue    float64
	earliest   time.Time
	latest     time.Time
}

// Run archives everything older than the configured retention horizon.
func (s *ArchiveService) Run() (*ArchiveSummary, error) {
	return s.RunBefore(time.Now().UTC().Add(-s.Retention))
}

// RunBefore archives bookings created before the cutoff. A failure in one
// guest group is logged and the rest of the run continues; running again
// with no new bookings is a no-op.
func (s *ArchiveService) RunBefore(cutoff time.Time) (*ArchiveSummary, error) {
	var old []models.Booking
	if err := s.DB.Where("created_at < ?", cutoff).Order("created_at ASC").Find(&old).Error; err != nil {
		return nil, err
	}

	summary := &ArchiveSummary{}
	if len(old) == 0 {
		return summary, nil
	}

	// group by the guest reference; mobile is the fallback key for bookings
	// whose guest is gone. Bookings keep the mobile they were created with,
	// so a later mobile edit must not split a guest across groups.
	groups := map[string]*archiveGroup{}
	order := []string{}
	for i := range old {
		b := &old[i]
		key := "mobile:" + b.GuestMobile
		if b.GuestID != nil {
			key = fmt.Sprintf("guest:%d", *b.GuestID)
		}
		g, ok := groups[key]
		if !ok {
			g = &archiveGroup{
				guestID:  b.GuestID,
				name:     b.GuestName,
				mobile:   b.GuestMobile,
				idNumber: b.GuestIDNumber,
				earliest: b.CreatedAt,
				latest:   b.CreatedAt,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.bookingIDs = append(g.bookingIDs, b.ID)
		g.visits++
		g.revenue += b.Rent
		if b.CreatedAt.Before(g.earliest) {
			g.earliest = b.CreatedAt
		}
		if b.CreatedAt.After(g.latest) {
			g.latest = b.CreatedAt
		}
	}

	for _, key := range order {
		g := groups[key]
		deletedGuest, err := s.archiveGroup(g)
		if err != nil {
			log.Printf("archive: group %s failed: %v", g.mobile, err)
			continue
		}
		summary.BookingsArchived += len(g.bookingIDs)
		summary.GuestsAffected++
		if deletedGuest {
			summary.GuestsDeleted++
		}
	}

	return summary, nil
}

// archiveGroup merges one guest's old bookings into the historic summary,
// subtracts them from the live counters and deletes the rows, atomically.
func (s *ArchiveService) archiveGroup(g *archiveGroup) (deletedGuest bool, err error) {
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		// resolve the live guest through the weak reference first; the
		// denormalized mobile on old bookings may be stale after an edit
		var guest models.Guest
		var gerr error
		if g.guestID != nil {
			gerr = tx.First(&guest, *g.guestID).Error
		} else {
			gerr = tx.Where("mobile = ?", g.mobile).First(&guest).Error
		}
		if gerr != nil && !errors.Is(gerr, gorm.ErrRecordNotFound) {
			return gerr
		}

		mobile := g.mobile
		if gerr == nil {
			mobile = guest.Mobile
		}

		var arch models.GuestArchive
		ferr := gorm.ErrRecordNotFound
		if g.guestID != nil {
			ferr = tx.Where("guest_id = ?", *g.guestID).First(&arch).Error
		}
		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			ferr = tx.Where("mobile = ?", mobile).First(&arch).Error
		}
		switch {
		case ferr == nil:
			arch.TotalVisits += g.visits
			arch.TotalRevenue += g.revenue
			if g.earliest.Before(arch.FirstVisitAt) {
				arch.FirstVisitAt = g.earliest
			}
			if g.latest.After(arch.LastVisitAt) {
				arch.LastVisitAt = g.latest
			}
			arch.Mobile = mobile
			if arch.GuestID == nil {
				arch.GuestID = g.guestID
			}
			arch.ArchivedAt = now
			if err := tx.Save(&arch).Error; err != nil {
				return err
			}
		case errors.Is(ferr, gorm.ErrRecordNotFound):
			arch = models.GuestArchive{
				GuestID:      g.guestID,
				Name:         g.name,
				Mobile:       mobile,
				IDNumber:     g.idNumber,
				TotalVisits:  g.visits,
				TotalRevenue: g.revenue,
				FirstVisitAt: g.earliest,
				LastVisitAt:  g.latest,
				ArchivedAt:   now,
			}
			if err := tx.Create(&arch).Error; err != nil {
				return err
			}
		default:
			return ferr
		}

		if gerr == nil {
			if guest.TotalVisits < g.visits || guest.TotalRevenue < g.revenue {
				log.Printf("⚠️  aggregate anomaly: guest %s live totals (%d, %.2f) below archived group (%d, %.2f); flooring at 0",
					guest.Mobile, guest.TotalVisits, guest.TotalRevenue, g.visits, g.revenue)
			}
			if err := tx.Model(&models.Guest{}).
				Where("id = ?", guest.ID).
				Updates(map[string]interface{}{
					"total_visits":  gorm.Expr("CASE WHEN total_visits >= ? THEN total_visits - ? ELSE 0 END", g.visits, g.visits),
					"total_revenue": gorm.Expr("CASE WHEN total_revenue >= ? THEN total_revenue - ? ELSE 0 END", g.revenue, g.revenue),
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("id IN ?", g.bookingIDs).Delete(&models.Booking{}).Error; err != nil {
			return err
		}

		// sweep: a guest with nothing live left goes away entirely
		if gerr == nil {
			var fresh models.Guest
			if err := tx.First(&fresh, guest.ID).Error; err != nil {
				return err
			}
			var remaining int64
			if err := tx.Model(&models.Booking{}).
				Where("guest_id = ? OR guest_mobile = ?", guest.ID, guest.Mobile).
				Count(&remaining).Error; err != nil {
				return err
			}
			if fresh.TotalVisits == 0 && remaining == 0 {
				if err := tx.Delete(&models.Guest{}, guest.ID).Error; err != nil {
					return err
				}
				deletedGuest = true
			}
		}

		return nil
	})
	return deletedGuest, err
}
