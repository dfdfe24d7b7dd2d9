package models

import (
	"gorm.io/gorm"
)

// Staff roles. Reporting and export endpoints are limited to admin/manager.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// StaffUser is a front-desk operator account. Password is a bcrypt hash.
type StaffUser struct {
	gorm.Model

	FullName string `json:"fullName"`
	Username string `gorm:"size:255;uniqueIndex" json:"username"`
	Password string `json:"-"`
	Role     string `gorm:"size:32;default:staff" json:"role"`
}
