package models

import (
	"time"
)

// Guest is the identity record for a person who stays at the property.
// TotalVisits/TotalRevenue cover live bookings only; archived history lives
// in GuestArchive.
type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `gorm:"column:name;size:255" json:"name"`
	Mobile   string `gorm:"column:mobile;size:20;uniqueIndex" json:"mobile"`
	IDNumber string `gorm:"column:id_number;size:32;index" json:"idNumber"`

	// Public identifier of the uploaded identity document, empty if none.
	DocumentImageID string `gorm:"column:document_image_id;size:64" json:"documentImageId,omitempty"`

	TotalVisits  int     `gorm:"column:total_visits;default:0" json:"totalVisits"`
	TotalRevenue float64 `gorm:"column:total_revenue;default:0" json:"totalRevenue"`

	Active bool `gorm:"column:active;default:true" json:"active"`
}
