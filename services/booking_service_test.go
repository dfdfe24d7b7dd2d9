package services

import (
	"strings"
	"testing"
	"time"

	"frontdesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseCreateInput() CreateBookingInput {
	return CreateBookingInput{
		GuestName:   "A",
		GuestMobile: "9876543210",
		Room:        "201",
		Rent:        2500,
		CheckIn:     date(2024, time.August, 15),
		CheckOut:    datePtr(2024, time.August, 20),
	}
}

func TestCreateBooking_DerivesTotalAmount(t *testing.T) {
	svc, _ := newBookingService(t)

	booking, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	// 5 nights at 2500
	assert.Equal(t, float64(12500), booking.TotalAmount)
	assert.Equal(t, 1, booking.GroupSize)
	assert.Equal(t, models.StatusCheckedIn, booking.Status)
	assert.True(t, strings.HasPrefix(booking.SerialNo, "S"))
	assert.True(t, strings.HasPrefix(booking.EntryNo, "E"))
	assert.Len(t, booking.SerialNo, 10)
}

func TestCreateBooking_SameDayBillsOneDay(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.CheckOut = datePtr(2024, time.August, 15)

	booking, err := svc.CreateBooking(in)
	require.NoError(t, err)
	assert.Equal(t, float64(2500), booking.TotalAmount)
}

func TestCreateBooking_OpenStayBillsOneDay(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.CheckOut = nil

	booking, err := svc.CreateBooking(in)
	require.NoError(t, err)
	assert.Equal(t, float64(2500), booking.TotalAmount)
}

func TestCreateBooking_PartialDayRoundsUp(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	co := date(2024, time.August, 16).Add(6 * time.Hour)
	in.CheckOut = &co

	booking, err := svc.CreateBooking(in)
	require.NoError(t, err)
	// 1 day 6 hours rounds up to 2 billable days
	assert.Equal(t, float64(5000), booking.TotalAmount)
}

func TestCreateBooking_CheckOutBeforeCheckInRejected(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.CheckOut = datePtr(2024, time.August, 10)

	_, err := svc.CreateBooking(in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "checkOut", ve.Field)
}

func TestCreateBooking_NegativeRentRejected(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.Rent = -1

	_, err := svc.CreateBooking(in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rent", ve.Field)
}

func TestCreateBooking_BadMobileRejected(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.GuestMobile = "12345"

	_, err := svc.CreateBooking(in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "guestMobile", ve.Field)
}

func TestCreateBooking_NormalizesIDNumber(t *testing.T) {
	svc, db := newBookingService(t)

	in := baseCreateInput()
	in.GuestIDNumber = "123456789012"
	booking, err := svc.CreateBooking(in)
	require.NoError(t, err)
	assert.Equal(t, "1234-5678-9012", booking.GuestIDNumber)

	var guest models.Guest
	require.NoError(t, db.Where("mobile = ?", "9876543210").First(&guest).Error)
	assert.Equal(t, "1234-5678-9012", guest.IDNumber)
}

func TestCreateBooking_BadIDNumberRejected(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.GuestIDNumber = "12-34"

	_, err := svc.CreateBooking(in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "guestIdNumber", ve.Field)
}

func TestCreateBooking_EntryNoFormat(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.EntryNo = "e123456789"
	booking, err := svc.CreateBooking(in)
	require.NoError(t, err)
	assert.Equal(t, "E123456789", booking.EntryNo)

	in2 := baseCreateInput()
	in2.GuestMobile = "9876543211"
	in2.EntryNo = "12345"
	_, err = svc.CreateBooking(in2)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "entryNo", ve.Field)
}

func TestUpdateBooking_NormalizesIDNumber(t *testing.T) {
	svc, db := newBookingService(t)

	booking, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	idNum := "9876 5432 1098"
	updated, err := svc.UpdateBooking(booking.ID, UpdateBookingInput{GuestIDNumber: &idNum})
	require.NoError(t, err)
	assert.Equal(t, "9876-5432-1098", updated.GuestIDNumber)

	var guest models.Guest
	require.NoError(t, db.First(&guest, *booking.GuestID).Error)
	assert.Equal(t, "9876-5432-1098", guest.IDNumber)
}

func TestCreateBooking_DuplicateEntryNo(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.EntryNo = "E111222333"
	first, err := svc.CreateBooking(in)
	require.NoError(t, err)

	in2 := baseCreateInput()
	in2.GuestMobile = "9876543211"
	in2.EntryNo = "E111222333"
	_, err = svc.CreateBooking(in2)
	require.ErrorIs(t, err, ErrDuplicateEntry)

	// first booking unaffected
	got, err := svc.GetBooking(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "E111222333", got.EntryNo)

	// failed create must not have touched any ledger
	var guests []models.Guest
	require.NoError(t, svc.DB.Where("mobile = ?", "9876543211").Find(&guests).Error)
	for _, g := range guests {
		assert.Equal(t, 0, g.TotalVisits)
	}
}

func TestCreateBooking_GroupSizeCountsExtras(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	in.AdditionalGuests = []models.AdditionalGuest{
		{FullName: "B"},
		{FullName: "C", IDNumber: "1111-2222-3333"},
	}

	booking, err := svc.CreateBooking(in)
	require.NoError(t, err)
	assert.Equal(t, 3, booking.GroupSize)
}

func TestCreateBooking_RecordsVisitAtNightlyRate(t *testing.T) {
	svc, db := newBookingService(t)

	_, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	var guest models.Guest
	require.NoError(t, db.Where("mobile = ?", "9876543210").First(&guest).Error)
	assert.Equal(t, 1, guest.TotalVisits)
	// ledger records rent, not stay total
	assert.Equal(t, float64(2500), guest.TotalRevenue)
}

func TestUpdateBooking_RecomputesTotalAmount(t *testing.T) {
	svc, _ := newBookingService(t)

	booking, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)
	require.Equal(t, float64(12500), booking.TotalAmount)

	updated, err := svc.UpdateBooking(booking.ID, UpdateBookingInput{
		CheckOut: datePtr(2024, time.August, 16),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(2500), updated.TotalAmount)
}

func TestUpdateBooking_RentChangeRecomputes(t *testing.T) {
	svc, _ := newBookingService(t)

	booking, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	rent := float64(3000)
	updated, err := svc.UpdateBooking(booking.ID, UpdateBookingInput{Rent: &rent})
	require.NoError(t, err)
	assert.Equal(t, float64(15000), updated.TotalAmount)
}

func TestUpdateBooking_InvalidDatesRejected(t *testing.T) {
	svc, _ := newBookingService(t)

	booking, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	_, err = svc.UpdateBooking(booking.ID, UpdateBookingInput{
		CheckOut: datePtr(2024, time.August, 1),
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUpdateBooking_NotFound(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.UpdateBooking(9999, UpdateBookingInput{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBooking_PropagatesGuestFields(t *testing.T) {
	svc, db := newBookingService(t)

	booking, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	name := "Anna"
	updated, err := svc.UpdateBooking(booking.ID, UpdateBookingInput{GuestName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.GuestName)

	var guest models.Guest
	require.NoError(t, db.First(&guest, *booking.GuestID).Error)
	assert.Equal(t, "Anna", guest.Name)
}

func TestDeleteBooking_ReversesLedgerTotals(t *testing.T) {
	svc, db := newBookingService(t)

	// N=3 bookings for the same guest at different rents
	rents := []float64{2500, 1800, 3200}
	var ids []uint
	for _, rent := range rents {
		in := baseCreateInput()
		in.Rent = rent
		b, err := svc.CreateBooking(in)
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	// delete M=1
	warnings, err := svc.DeleteBooking(ids[1])
	require.NoError(t, err)
	assert.Empty(t, warnings)

	var guest models.Guest
	require.NoError(t, db.Where("mobile = ?", "9876543210").First(&guest).Error)
	assert.Equal(t, 2, guest.TotalVisits)
	assert.Equal(t, float64(2500+3200), guest.TotalRevenue)
}

func TestDeleteBooking_RemovesGuestAtZeroVisits(t *testing.T) {
	svc, db := newBookingService(t)

	booking, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	_, err = svc.DeleteBooking(booking.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Guest{}).Where("mobile = ?", "9876543210").Count(&count).Error)
	assert.Equal(t, int64(0), count, "no orphan zero-value identity")
}

func TestDeleteBooking_NotFound(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.DeleteBooking(12345)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionStatus_FlatSet(t *testing.T) {
	svc, _ := newBookingService(t)

	booking, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	b, err := svc.TransitionStatus(booking.ID, models.StatusCheckedOut)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, b.Status)

	// no ordering graph: checked-out back to checked-in is accepted
	b, err = svc.TransitionStatus(booking.ID, models.StatusCheckedIn)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedIn, b.Status)

	_, err = svc.TransitionStatus(booking.ID, "no-show")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListBookings_SearchModes(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	// 5 chars: substring relevance over name/mobile/room/serial
	res, err := svc.ListBookings(ListParams{Search: "98765"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "9876543210", res.Items[0].GuestMobile)

	// 2 chars: prefix match on mobile/serial
	res, err = svc.ListBookings(ListParams{Search: "98"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "9876543210", res.Items[0].GuestMobile)

	// prefix mode does not match mid-string
	res, err = svc.ListBookings(ListParams{Search: "76"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestListBookings_Pagination(t *testing.T) {
	svc, _ := newBookingService(t)

	for i := 0; i < 5; i++ {
		_, err := svc.CreateBooking(baseCreateInput())
		require.NoError(t, err)
	}

	res, err := svc.ListBookings(ListParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Items, 2)
	assert.True(t, res.HasNextPage)
	assert.False(t, res.HasPrevPage)

	res, err = svc.ListBookings(ListParams{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.False(t, res.HasNextPage)
	assert.True(t, res.HasPrevPage)
}

func TestListBookings_StatusAndDateFilters(t *testing.T) {
	svc, _ := newBookingService(t)

	in := baseCreateInput()
	_, err := svc.CreateBooking(in)
	require.NoError(t, err)

	in2 := baseCreateInput()
	in2.GuestMobile = "9876543211"
	in2.CheckIn = date(2024, time.September, 1)
	in2.CheckOut = datePtr(2024, time.September, 3)
	in2.Status = models.StatusCancelled
	_, err = svc.CreateBooking(in2)
	require.NoError(t, err)

	res, err := svc.ListBookings(ListParams{Status: models.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "9876543211", res.Items[0].GuestMobile)

	from := date(2024, time.August, 1)
	to := date(2024, time.August, 31)
	res, err = svc.ListBookings(ListParams{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "9876543210", res.Items[0].GuestMobile)
}

func TestListBookings_LimitClamped(t *testing.T) {
	svc, _ := newBookingService(t)

	res, err := svc.ListBookings(ListParams{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Empty(t, res.Items)
}
