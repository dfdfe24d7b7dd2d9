package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"frontdesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsFixture(t *testing.T) (*StatsService, *BookingService) {
	t.Helper()
	bookingSvc, db := newBookingService(t)
	return NewStatsService(db), bookingSvc
}

func TestDashboard_Counts(t *testing.T) {
	stats, bookingSvc := newStatsFixture(t)

	_, err := bookingSvc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	in := baseCreateInput()
	in.GuestMobile = "9876543211"
	in.Status = models.StatusCancelled
	_, err = bookingSvc.CreateBooking(in)
	require.NoError(t, err)

	d, err := stats.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.TotalBookings)
	assert.Equal(t, int64(1), d.CheckedIn)
	assert.Equal(t, int64(1), d.Cancelled)
	assert.Equal(t, int64(2), d.TotalGuests)
	assert.Equal(t, float64(25000), d.LiveRevenue)
}

func TestRevenueByPeriod_DayBuckets(t *testing.T) {
	stats, bookingSvc := newStatsFixture(t)

	_, err := bookingSvc.CreateBooking(baseCreateInput()) // Aug 15, 12500
	require.NoError(t, err)

	in := baseCreateInput()
	in.GuestMobile = "9876543211"
	in.CheckIn = date(2024, time.August, 16)
	in.CheckOut = datePtr(2024, time.August, 17) // 1 night, 2500
	_, err = bookingSvc.CreateBooking(in)
	require.NoError(t, err)

	buckets, err := stats.RevenueByPeriod(date(2024, time.August, 1), date(2024, time.August, 31), "day")
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-08-15", buckets[0].Period)
	assert.Equal(t, float64(12500), buckets[0].Revenue)
	assert.Equal(t, "2024-08-16", buckets[1].Period)
	assert.Equal(t, float64(2500), buckets[1].Revenue)
}

func TestRevenueByPeriod_MonthBuckets(t *testing.T) {
	stats, bookingSvc := newStatsFixture(t)

	_, err := bookingSvc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	in := baseCreateInput()
	in.GuestMobile = "9876543211"
	in.CheckIn = date(2024, time.September, 2)
	in.CheckOut = datePtr(2024, time.September, 4)
	_, err = bookingSvc.CreateBooking(in)
	require.NoError(t, err)

	buckets, err := stats.RevenueByPeriod(date(2024, time.August, 1), date(2024, time.December, 31), "month")
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-08", buckets[0].Period)
	assert.Equal(t, "2024-09", buckets[1].Period)
}

func TestRevenueByPeriod_BadBucket(t *testing.T) {
	stats, _ := newStatsFixture(t)

	_, err := stats.RevenueByPeriod(date(2024, time.August, 1), date(2024, time.August, 31), "week")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestTopGuestsByRevenue_Orders(t *testing.T) {
	stats, bookingSvc := newStatsFixture(t)

	big := baseCreateInput()
	big.Rent = 9000
	_, err := bookingSvc.CreateBooking(big)
	require.NoError(t, err)

	small := baseCreateInput()
	small.GuestMobile = "9876543211"
	small.GuestName = "B"
	small.Rent = 100
	_, err = bookingSvc.CreateBooking(small)
	require.NoError(t, err)

	top, err := stats.TopGuestsByRevenue(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "9876543210", top[0].GuestMobile)
	assert.Equal(t, 1, top[0].Visits)
	assert.Greater(t, top[0].Revenue, top[1].Revenue)
}

func TestAverageStayLength(t *testing.T) {
	stats, bookingSvc := newStatsFixture(t)

	_, err := bookingSvc.CreateBooking(baseCreateInput()) // 5 days
	require.NoError(t, err)

	in := baseCreateInput()
	in.GuestMobile = "9876543211"
	in.CheckOut = datePtr(2024, time.August, 16) // 1 day
	_, err = bookingSvc.CreateBooking(in)
	require.NoError(t, err)

	avg, err := stats.AverageStayLength()
	require.NoError(t, err)
	assert.InDelta(t, 3.0, avg, 0.001)
}

func TestNewVsReturning(t *testing.T) {
	stats, bookingSvc := newStatsFixture(t)

	for i := 0; i < 3; i++ {
		_, err := bookingSvc.CreateBooking(baseCreateInput())
		require.NoError(t, err)
	}
	in := baseCreateInput()
	in.GuestMobile = "9876543211"
	_, err := bookingSvc.CreateBooking(in)
	require.NoError(t, err)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	res, err := stats.NewVsReturning(from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, res.New)
	assert.Equal(t, 2, res.Returning)
}

func TestOccupancy_CountsDistinctRooms(t *testing.T) {
	stats, bookingSvc := newStatsFixture(t)

	// open stay starting today occupies room 201 today
	in := baseCreateInput()
	in.CheckIn = time.Now()
	in.CheckOut = nil
	_, err := bookingSvc.CreateBooking(in)
	require.NoError(t, err)

	in2 := baseCreateInput()
	in2.GuestMobile = "9876543211"
	in2.Room = "305"
	in2.CheckIn = time.Now()
	in2.CheckOut = nil
	_, err = bookingSvc.CreateBooking(in2)
	require.NoError(t, err)

	occ, err := stats.Occupancy(7)
	require.NoError(t, err)
	require.Len(t, occ, 7)
	today := occ[len(occ)-1]
	assert.Equal(t, time.Now().Format("2006-01-02"), today.Date)
	assert.Equal(t, 2, today.RoomsOccupied)
}

func TestExportGuestsCSV(t *testing.T) {
	stats, bookingSvc := newStatsFixture(t)

	_, err := bookingSvc.CreateBooking(baseCreateInput())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, stats.ExportGuestsCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "mobile")
	assert.Contains(t, lines[1], "9876543210")
}
