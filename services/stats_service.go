// services/stats_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"frontdesk-backend/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// StatsService is the read-only reporting layer over the live booking set.
// No mutation, no invariant beyond reflecting current state at query time.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// Dashboard is the front page summary.
type Dashboard struct {
	TotalBookings int64   `json:"totalBookings"`
	CheckedIn     int64   `json:"checkedIn"`
	CheckedOut    int64   `json:"checkedOut"`
	Cancelled     int64   `json:"cancelled"`
	InHouse       int64   `json:"inHouse"`
	TodayCheckIns int64   `json:"todayCheckIns"`
	TotalGuests   int64   `json:"totalGuests"`
	LiveRevenue   float64 `json:"liveRevenue"`
}

func (s *StatsService) Dashboard() (*Dashboard, error) {
	d := &Dashboard{}

	if err := s.DB.Model(&models.Booking{}).Count(&d.TotalBookings).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Booking{}).Where("status = ?", models.StatusCheckedIn).Count(&d.CheckedIn).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Booking{}).Where("status = ?", models.StatusCheckedOut).Count(&d.CheckedOut).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Booking{}).Where("status = ?", models.StatusCancelled).Count(&d.Cancelled).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Booking{}).
		Where("status = ? AND check_out IS NULL", models.StatusCheckedIn).
		Count(&d.InHouse).Error; err != nil {
		return nil, err
	}

	dayStart := now.BeginningOfDay()
	dayEnd := now.EndOfDay()
	if err := s.DB.Model(&models.Booking{}).
		Where("check_in BETWEEN ? AND ?", dayStart, dayEnd).
		Count(&d.TodayCheckIns).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Guest{}).Count(&d.TotalGuests).Error; err != nil {
		return nil, err
	}

	var revenue struct{ Total float64 }
	if err := s.DB.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	d.LiveRevenue = revenue.Total

	return d, nil
}

// RevenueBucket is one period's revenue over the live set.
type RevenueBucket struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

func bucketLabel(t time.Time, bucket string) string {
	switch bucket {
	case "year":
		return t.Format("2006")
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// RevenueByPeriod groups booking revenue by day, month or year over the
// check-in date. Bucketing happens in Go so the query stays portable across
// drivers.
func (s *StatsService) RevenueByPeriod(from, to time.Time, bucket string) ([]RevenueBucket, error) {
	switch bucket {
	case "day", "month", "year":
	default:
		return nil, validationErr("bucket", "bucket must be day, month or year")
	}

	var rows []models.Booking
	if err := s.DB.
		Select("check_in", "total_amount").
		Where("check_in BETWEEN ? AND ?", from, to).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byPeriod := map[string]*RevenueBucket{}
	for i := range rows {
		label := bucketLabel(rows[i].CheckIn, bucket)
		rb, ok := byPeriod[label]
		if !ok {
			rb = &RevenueBucket{Period: label}
			byPeriod[label] = rb
		}
		rb.Revenue += rows[i].TotalAmount
		rb.Count++
	}

	out := make([]RevenueBucket, 0, len(byPeriod))
	for _, rb := range byPeriod {
		out = append(out, *rb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

// OccupancyDay is the distinct rooms occupied on one calendar day.
type OccupancyDay struct {
	Date          string `json:"date"`
	RoomsOccupied int    `json:"roomsOccupied"`
}

// Occupancy expands each booking's stay range into per-day room sets over a
// trailing window ending today. Open stays (nil check-out) count through
// today.
func (s *StatsService) Occupancy(days int) ([]OccupancyDay, error) {
	if days < 1 {
		days = 7
	}
	today := now.BeginningOfDay()
	windowStart := today.AddDate(0, 0, -(days - 1))

	var rows []models.Booking
	if err := s.DB.
		Select("room", "check_in", "check_out", "status").
		Where("status <> ?", models.StatusCancelled).
		Where("check_in <= ? AND (check_out IS NULL OR check_out >= ?)", now.EndOfDay(), windowStart).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	rooms := map[string]map[string]bool{}
	for i := range rows {
		b := &rows[i]
		if b.Room == "" {
			continue
		}
		start := now.New(b.CheckIn).BeginningOfDay()
		end := today
		if b.CheckOut != nil {
			end = now.New(*b.CheckOut).BeginningOfDay()
		}
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(today) {
			end = today
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			key := d.Format("2006-01-02")
			if rooms[key] == nil {
				rooms[key] = map[string]bool{}
			}
			rooms[key][b.Room] = true
		}
	}

	out := make([]OccupancyDay, 0, days)
	for d := windowStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		out = append(out, OccupancyDay{Date: key, RoomsOccupied: len(rooms[key])})
	}
	return out, nil
}

// AverageStayLength is the mean billable days over completed stays.
func (s *StatsService) AverageStayLength() (float64, error) {
	var rows []models.Booking
	if err := s.DB.
		Select("check_in", "check_out").
		Where("check_out IS NOT NULL").
		Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	total := 0
	for i := range rows {
		total += rows[i].BillableDays()
	}
	return float64(total) / float64(len(rows)), nil
}

// TopGuest is one row of the revenue leaderboard.
type TopGuest struct {
	GuestMobile string  `json:"guestMobile"`
	GuestName   string  `json:"guestName"`
	Visits      int     `json:"visits"`
	Revenue     float64 `json:"revenue"`
}

// TopGuestsByRevenue groups the live set by guest mobile, server-side.
func (s *StatsService) TopGuestsByRevenue(limit int) ([]TopGuest, error) {
	if limit < 1 {
		limit = 10
	}
	var out []TopGuest
	if err := s.DB.Model(&models.Booking{}).
		Select("guest_mobile, MAX(guest_name) AS guest_name, COUNT(*) AS visits, SUM(total_amount) AS revenue").
		Group("guest_mobile").
		Order("revenue DESC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []TopGuest{}
	}
	return out, nil
}

// NewVsReturning classifies bookings in the window: the chronologically
// first booking for a guest within the window is "new", the rest are
// "returning".
type NewVsReturning struct {
	New       int `json:"new"`
	Returning int `json:"returning"`
}

func (s *StatsService) NewVsReturning(from, to time.Time) (*NewVsReturning, error) {
	var rows []models.Booking
	if err := s.DB.
		Select("guest_mobile", "created_at").
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	res := &NewVsReturning{}
	for i := range rows {
		if seen[rows[i].GuestMobile] {
			res.Returning++
		} else {
			seen[rows[i].GuestMobile] = true
			res.New++
		}
	}
	return res, nil
}

// ExportGuestsCSV writes the guest list with live totals. Gated to
// admin/manager at the route layer.
func (s *StatsService) ExportGuestsCSV(w io.Writer) error {
	var guests []models.Guest
	if err := s.DB.Order("name ASC").Find(&guests).Error; err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "mobile", "id_number", "total_visits", "total_revenue", "active"}); err != nil {
		return err
	}
	for i := range guests {
		g := &guests[i]
		rec := []string{
			g.Name,
			g.Mobile,
			g.IDNumber,
			strconv.Itoa(g.TotalVisits),
			fmt.Sprintf("%.2f", g.TotalRevenue),
			strconv.FormatBool(g.Active),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
