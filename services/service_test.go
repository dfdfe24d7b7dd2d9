package services

import (
	"fmt"
	"testing"
	"time"

	"frontdesk-backend/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.StaffUser{},
		&models.Guest{},
		&models.Booking{},
		&models.GuestArchive{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newBookingService(t *testing.T) (*BookingService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	ledger := NewLedgerService(db)
	return NewBookingService(db, ledger, nil), db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}
