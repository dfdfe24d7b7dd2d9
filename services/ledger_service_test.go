package services

import (
	"testing"
	"time"

	"frontdesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGuest(t *testing.T, svc *LedgerService, mobile string) *models.Guest {
	t.Helper()
	guest, err := svc.FindOrCreateGuest(svc.DB, "A", mobile, "")
	require.NoError(t, err)
	return guest
}

func TestFindOrCreateGuest_ReusesExisting(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)

	first, err := svc.FindOrCreateGuest(db, "A", "9876543210", "1234-5678-9012")
	require.NoError(t, err)

	second, err := svc.FindOrCreateGuest(db, "A again", "9876543210", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Guest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreateGuest_MatchesByIDNumber(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)

	first, err := svc.FindOrCreateGuest(db, "A", "9876543210", "1234-5678-9012")
	require.NoError(t, err)

	// same person with a new SIM still resolves by identity number
	second, err := svc.FindOrCreateGuest(db, "A", "9999999999", "1234-5678-9012")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestRecordVisit_Accumulates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	guest := seedGuest(t, svc, "9876543210")

	require.NoError(t, svc.RecordVisit(db, guest.ID, 2500))
	require.NoError(t, svc.RecordVisit(db, guest.ID, 1800))

	var fresh models.Guest
	require.NoError(t, db.First(&fresh, guest.ID).Error)
	assert.Equal(t, 2, fresh.TotalVisits)
	assert.Equal(t, float64(4300), fresh.TotalRevenue)
}

func TestRecordVisit_UnknownGuest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)

	require.ErrorIs(t, svc.RecordVisit(db, 777, 100), ErrNotFound)
}

func TestReverseVisit_FloorsAtZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	guest := seedGuest(t, svc, "9876543210")

	require.NoError(t, svc.RecordVisit(db, guest.ID, 2500))

	// pathological over-deletion: reverse more than was ever recorded
	require.NoError(t, svc.ReverseVisit(db, guest.ID, 2500))
	require.NoError(t, svc.ReverseVisit(db, guest.ID, 9000))

	var fresh models.Guest
	require.NoError(t, db.First(&fresh, guest.ID).Error)
	assert.Equal(t, 0, fresh.TotalVisits)
	assert.Equal(t, float64(0), fresh.TotalRevenue)
}

func TestFullTotals_CombinesLiveAndHistoric(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)
	guest := seedGuest(t, svc, "9876543210")

	require.NoError(t, svc.RecordVisit(db, guest.ID, 2500))
	require.NoError(t, svc.RecordVisit(db, guest.ID, 2500))

	arch := models.GuestArchive{
		GuestID:      &guest.ID,
		Name:         "A",
		Mobile:       "9876543210",
		TotalVisits:  3,
		TotalRevenue: 6000,
		FirstVisitAt: time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
		LastVisitAt:  time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
		ArchivedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.Create(&arch).Error)

	totals, err := svc.FullTotals(guest.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, totals.Visits)
	assert.Equal(t, float64(11000), totals.Revenue)
}

func TestFullTotalsByMobile_SurvivesGuestSweep(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)

	arch := models.GuestArchive{
		Name:         "Gone",
		Mobile:       "9999999999",
		TotalVisits:  4,
		TotalRevenue: 8000,
		FirstVisitAt: time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
		LastVisitAt:  time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC),
		ArchivedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.Create(&arch).Error)

	totals, err := svc.FullTotalsByMobile("9999999999")
	require.NoError(t, err)
	assert.Equal(t, 4, totals.Visits)
	assert.Equal(t, float64(8000), totals.Revenue)
}
