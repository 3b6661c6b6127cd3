package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusOnLeave Status = "on_leave"
)

func AllStatuses() []Status {
	return []Status{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusOnLeave}
}

func (s Status) IsValid() bool {
	for _, v := range AllStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Attendance is the single daily record for an employee. At most one exists
// per (EmployeeID, Date).
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	TotalHours decimal.NullDecimal
	Notes      *string
	CreatedBy  string
	UpdatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecomputeHours derives TotalHours from the check times, clearing it when
// either is missing or the span is not positive.
func (a *Attendance) RecomputeHours() {
	a.TotalHours = WorkedHours(a.CheckIn, a.CheckOut)
}

// WorkedHours is the span between two check times in hours, two decimals.
func WorkedHours(checkIn, checkOut *time.Time) decimal.NullDecimal {
	if checkIn == nil || checkOut == nil || !checkOut.After(*checkIn) {
		return decimal.NullDecimal{}
	}
	minutes := decimal.NewFromInt(int64(checkOut.Sub(*checkIn) / time.Minute))
	return decimal.NewNullDecimal(minutes.Div(decimal.NewFromInt(60)).Round(2))
}

// Filter narrows AttendanceRepository.List.
type Filter struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
	Status     *Status
	Page       int
	PageSize   int
}

// MonthlyStats counts records per status for a reporting window.
type MonthlyStats struct {
	TotalDays int `json:"total_days"`
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	Late      int `json:"late"`
	HalfDay   int `json:"half_day"`
	OnLeave   int `json:"on_leave"`
}

// Tally builds MonthlyStats from records.
func Tally(records []Attendance) MonthlyStats {
	stats := MonthlyStats{TotalDays: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		case StatusLate:
			stats.Late++
		case StatusHalfDay:
			stats.HalfDay++
		case StatusOnLeave:
			stats.OnLeave++
		}
	}
	return stats
}
