package utils

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// create once at init
var maintenanceCal = cal.NewBusinessCalendar()

func init() {
	maintenanceCal.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
}

func IsBusinessDay(t time.Time) bool {
	return maintenanceCal.IsWorkday(t)
}

// NextBusinessDay returns the first workday strictly after t.
// Used as the default due date for newly filed phone issues.
func NextBusinessDay(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	for {
		d = d.AddDate(0, 0, 1)
		if maintenanceCal.IsWorkday(d) {
			return d
		}
	}
}
