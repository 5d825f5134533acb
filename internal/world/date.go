package world

import "fmt"

// Calendar constants. A sim-year is 12 months of 4 weeks.
const (
	WeeksPerMonth = 4
	MonthsPerYear = 12
	WeeksPerYear  = WeeksPerMonth * MonthsPerYear
	StartYear     = 2024
)

// Date is the in-game calendar position.
type Date struct {
	Week  int `json:"week"`  // 1..4
	Month int `json:"month"` // 1..12
	Year  int `json:"year"`  // >= 2024
}

// StartDate is the first week of a new career.
func StartDate() Date {
	return Date{Week: 1, Month: 1, Year: StartYear}
}

// Valid reports whether every field is in range.
func (d Date) Valid() bool {
	return d.Week >= 1 && d.Week <= WeeksPerMonth &&
		d.Month >= 1 && d.Month <= MonthsPerYear &&
		d.Year >= StartYear
}

// Linear returns the monotonically increasing week counter used for ages
// and cross-period comparisons.
func (d Date) Linear() int {
	return d.Week + (d.Month-1)*WeeksPerMonth + (d.Year-StartYear)*WeeksPerYear
}

// Next advances one week. The bools report whether the month and the year rolled over.
func (d Date) Next() (next Date, monthChanged, yearChanged bool) {
	next = d
	next.Week++
	if next.Week > WeeksPerMonth {
		next.Week = 1
		next.Month++
		monthChanged = true
	}
	if next.Month > MonthsPerYear {
		next.Month = 1
		next.Year++
		yearChanged = true
	}
	return next, monthChanged, yearChanged
}

var monthNames = [MonthsPerYear]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English month name.
func MonthName(month int) string {
	if month < 1 || month > MonthsPerYear {
		return "Unknown"
	}
	return monthNames[month-1]
}

func (d Date) String() string {
	return fmt.Sprintf("Week %d, %s %d", d.Week, MonthName(d.Month), d.Year)
}
