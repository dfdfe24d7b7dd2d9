package models

import (
	"time"

	"gorm.io/datatypes"
)

// Booking statuses form a flat set; no transition ordering is enforced.
const (
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
	StatusCancelled  = "cancelled"
)

// IsValidStatus reports whether s is one of the known booking statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// AdditionalGuest is one accompanying guest on a booking. Stored as JSON on
// the booking row, not as its own table.
type AdditionalGuest struct {
	FullName        string `json:"fullName"`
	IDNumber        string `json:"idNumber,omitempty"`
	DocumentImageID string `json:"documentImageId,omitempty"`
}

// Booking is one guest stay. Guest name/mobile/ID are denormalized onto the
// row so booking history survives later edits to the Guest record; GuestID is
// a weak reference only (no FK constraint).
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	SerialNo string `gorm:"column:serial_no;size:32;uniqueIndex" json:"serialNo"`
	EntryNo  string `gorm:"column:entry_no;size:32;uniqueIndex" json:"entryNo"`

	GuestID       *uint  `gorm:"column:guest_id;index" json:"guestId,omitempty"`
	GuestName     string `gorm:"column:guest_name;size:255" json:"guestName"`
	GuestMobile   string `gorm:"column:guest_mobile;size:20;index" json:"guestMobile"`
	GuestIDNumber string `gorm:"column:guest_id_number;size:32" json:"guestIdNumber"`

	Room string  `gorm:"column:room;size:32;index" json:"room"`
	Rent float64 `gorm:"column:rent" json:"rent"`

	CheckIn  time.Time  `gorm:"column:check_in;index" json:"checkIn"`
	CheckOut *time.Time `gorm:"column:check_out" json:"checkOut,omitempty"`

	Status string `gorm:"column:status;size:32;index" json:"status"`

	TotalAmount float64 `gorm:"column:total_amount" json:"totalAmount"`
	GroupSize   int     `gorm:"column:group_size;default:1" json:"groupSize"`

	Notes string `gorm:"column:notes;size:1024" json:"notes,omitempty"`

	AdditionalGuests datatypes.JSON `gorm:"column:additional_guests" json:"additionalGuests,omitempty"`
}

// BillableDays returns the number of days the stay is billed for, with a
// floor of one day. A nil checkOut means still in-house and bills one day.
func (b *Booking) BillableDays() int {
	if b.CheckOut == nil {
		return 1
	}
	d := b.CheckOut.Sub(b.CheckIn)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}
