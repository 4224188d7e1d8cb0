package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DayKind classifies a calendar day for hour bucketing.
type DayKind int

const (
	Weekday DayKind = iota
	Saturday
	Sunday
)

func dayKindOf(t time.Time) DayKind {
	switch t.Weekday() {
	case time.Saturday:
		return Saturday
	case time.Sunday:
		return Sunday
	default:
		return Weekday
	}
}

// ScheduleRules are fixed for one calculation run.
type ScheduleRules struct {
	WeeklyCapHours float64
	KeyAccount     bool
}

// LaborBucket accumulates classified onsite hours across the whole trip.
// Populated only by Simulate; read-only afterward.
type LaborBucket struct {
	Regular    float64
	Overtime   float64
	Doubletime float64
}

const (
	maxSimulationDays = 365
	maxRegularPerDay  = 10.0 // a single day beyond this is overtime regardless of weekly total
)

// ErrScheduleBound means the requested working days could not be reached
// within a year of calendar time. Treated as a configuration error.
var ErrScheduleBound = errors.New("schedule cannot complete within 365 calendar days")

// Simulate walks calendar days from start until workDays working days have
// been accumulated, classifying each working day's hours into the bucket.
// Sundays are doubletime, Saturdays overtime, weekdays split against the
// weekly regular cap. Subsistence counts every calendar day while
// deployed, worked or not. Hours are aggregated here and only rounded when
// priced, so drift cannot accumulate across the loop.
func Simulate(start time.Time, workDays int, hoursPerDay float64, satOK, sunOK bool, rules ScheduleRules) (LaborBucket, int, error) {
	var bucket LaborBucket
	curr := start
	worked := 0
	subsistenceDays := 0
	weeklyRegular := 0.0

	for i := 0; i < maxSimulationDays; i++ {
		if worked >= workDays {
			return bucket, subsistenceDays, nil
		}

		// Non-key accounts reset the weekly regular counter every Monday.
		// Key accounts accumulate across the entire engagement.
		if !rules.KeyAccount && curr.Weekday() == time.Monday {
			weeklyRegular = 0
		}

		kind := dayKindOf(curr)
		working := !(kind == Saturday && !satOK) && !(kind == Sunday && !sunOK)
		subsistenceDays++

		if working {
			worked++
			switch kind {
			case Sunday:
				bucket.Doubletime += hoursPerDay
			case Saturday:
				bucket.Overtime += hoursPerDay
			default:
				regular, overtime := splitWeekdayHours(hoursPerDay, weeklyRegular, rules.WeeklyCapHours)
				bucket.Regular += regular
				bucket.Overtime += overtime
				weeklyRegular += regular
			}
		}
		curr = curr.AddDate(0, 0, 1)
	}

	if worked >= workDays {
		return bucket, subsistenceDays, nil
	}
	return LaborBucket{}, 0, fmt.Errorf("%w: %d working days from %s", ErrScheduleBound, workDays, start.Format("2006-01-02"))
}

// splitWeekdayHours classifies one weekday's hours against the weekly cap.
// Up to 10 hours are regular-eligible; anything beyond is overtime
// outright. Regular-eligible hours that would cross the cap spill into
// overtime as well.
func splitWeekdayHours(hoursPerDay, weeklyRegular, cap float64) (regular, overtime float64) {
	regularPotential := math.Min(maxRegularPerDay, hoursPerDay)
	overtimePotential := math.Max(0, hoursPerDay-maxRegularPerDay)

	switch {
	case weeklyRegular >= cap:
		return 0, regularPotential + overtimePotential
	case weeklyRegular+regularPotential > cap:
		headroom := math.Max(0, cap-weeklyRegular)
		return headroom, overtimePotential + (regularPotential - headroom)
	default:
		return regularPotential, overtimePotential
	}
}

// OnsiteDuration returns the calendar days needed to accumulate workDays
// working days from start, skipping disallowed weekend days. Used to
// derive a return date without running the full hour simulation.
func OnsiteDuration(start time.Time, workDays int, satOK, sunOK bool) (int, error) {
	curr := start
	worked := 0
	calendarDays := 0

	for i := 0; i < maxSimulationDays; i++ {
		if worked >= workDays {
			return calendarDays, nil
		}
		kind := dayKindOf(curr)
		if !(kind == Saturday && !satOK) && !(kind == Sunday && !sunOK) {
			worked++
		}
		calendarDays++
		curr = curr.AddDate(0, 0, 1)
	}

	if worked >= workDays {
		return calendarDays, nil
	}
	return 0, fmt.Errorf("%w: %d working days from %s", ErrScheduleBound, workDays, start.Format("2006-01-02"))
}
