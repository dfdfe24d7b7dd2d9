package models

import (
	"time"
)

// GuestArchive holds the historic totals for a guest whose old bookings have
// been moved out of the live set. Merge-only: totals are added to and the
// visit bounds widened on every archive run, never reduced.
type GuestArchive struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GuestID  *uint  `gorm:"column:guest_id;index" json:"guestId,omitempty"`
	Name     string `gorm:"column:name;size:255" json:"name"`
	Mobile   string `gorm:"column:mobile;size:20;uniqueIndex" json:"mobile"`
	IDNumber string `gorm:"column:id_number;size:32" json:"idNumber"`

	TotalVisits  int     `gorm:"column:total_visits;default:0" json:"totalVisits"`
	TotalRevenue float64 `gorm:"column:total_revenue;default:0" json:"totalRevenue"`

	FirstVisitAt time.Time `gorm:"column:first_visit_at" json:"firstVisitAt"`
	LastVisitAt  time.Time `gorm:"column:last_visit_at" json:"lastVisitAt"`
	ArchivedAt   time.Time `gorm:"column:archived_at" json:"archivedAt"`
}
