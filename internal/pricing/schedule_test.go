package pricing

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSimulateWeeklyCapSplitsRegularAndOvertime(t *testing.T) {
	// 5 work days at 10 hrs/day against a 40-hour weekly cap: the first
	// four days fill the cap, day five classifies entirely as overtime.
	start := date(2025, time.January, 6) // Monday
	bucket, subDays, err := Simulate(start, 5, 10, false, false, ScheduleRules{WeeklyCapHours: 40})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	nearlyEqual(t, "Regular", bucket.Regular, 40)
	nearlyEqual(t, "Overtime", bucket.Overtime, 10)
	nearlyEqual(t, "Doubletime", bucket.Doubletime, 0)
	if subDays != 5 {
		t.Fatalf("subsistence days = %d, want 5", subDays)
	}
}

func TestSimulateSaturdayIsOvertimeSundayIsSkipped(t *testing.T) {
	start := date(2025, time.January, 11) // Saturday
	bucket, subDays, err := Simulate(start, 2, 8, true, false, ScheduleRules{WeeklyCapHours: 40})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	// Saturday contributes all hours to overtime; Sunday is not a working
	// day and does not advance the worked count, so the second work day
	// lands on Monday as regular time.
	nearlyEqual(t, "Overtime", bucket.Overtime, 8)
	nearlyEqual(t, "Regular", bucket.Regular, 8)
	nearlyEqual(t, "Doubletime", bucket.Doubletime, 0)
	if subDays != 3 {
		t.Fatalf("subsistence days = %d, want 3 (Sat, Sun, Mon)", subDays)
	}
}

func TestSimulateSundayWorkedIsDoubletime(t *testing.T) {
	start := date(2025, time.January, 12) // Sunday
	bucket, _, err := Simulate(start, 1, 8, false, true, ScheduleRules{WeeklyCapHours: 40})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	nearlyEqual(t, "Doubletime", bucket.Doubletime, 8)
	nearlyEqual(t, "Regular", bucket.Regular, 0)
	nearlyEqual(t, "Overtime", bucket.Overtime, 0)
}

func TestSimulateKeyAccountAccumulatesAcrossWeeks(t *testing.T) {
	// Key accounts never reset the weekly counter: six 8-hour weekdays
	// spanning a weekend cross a 45-hour cap mid-week and every hour past
	// the cap stays overtime.
	start := date(2025, time.January, 8) // Wednesday
	bucket, _, err := Simulate(start, 6, 8, false, false, ScheduleRules{WeeklyCapHours: 45, KeyAccount: true})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}

	nearlyEqual(t, "Regular", bucket.Regular, 45)
	nearlyEqual(t, "Overtime", bucket.Overtime, 3)
	nearlyEqual(t, "Doubletime", bucket.Doubletime, 0)
}

func TestSimulateNonKeyAccountResetsOnMonday(t *testing.T) {
	// The same six days for a standard account reset on Monday, so no
	// hour ever crosses the cap.
	start := date(2025, time.January, 8) // Wednesday
	bucket, _, err := Simulate(start, 6, 8, false, false, ScheduleRules{WeeklyCapHours: 45})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	nearlyEqual(t, "Regular", bucket.Regular, 48)
	nearlyEqual(t, "Overtime", bucket.Overtime, 0)
}

func TestSimulateSingleDayBeyondTenHoursIsOvertime(t *testing.T) {
	start := date(2025, time.January, 6) // Monday
	bucket, _, err := Simulate(start, 1, 12, false, false, ScheduleRules{WeeklyCapHours: 40})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	nearlyEqual(t, "Regular", bucket.Regular, 10)
	nearlyEqual(t, "Overtime", bucket.Overtime, 2)
}

func TestSimulateBucketSumEqualsTotalWorkedHours(t *testing.T) {
	start := date(2025, time.March, 3) // Monday
	const workDays, hrs = 12, 9.5
	bucket, _, err := Simulate(start, workDays, hrs, true, false, ScheduleRules{WeeklyCapHours: 40})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	nearlyEqual(t, "bucket sum", bucket.Regular+bucket.Overtime+bucket.Doubletime, workDays*hrs)
	if bucket.Regular < 0 || bucket.Overtime < 0 || bucket.Doubletime < 0 {
		t.Fatalf("bucket has negative hours: %+v", bucket)
	}
}

func TestSimulateRejectsUnterminableSchedule(t *testing.T) {
	// 300 working days with weekends off cannot fit in a year.
	start := date(2025, time.January, 6)
	_, _, err := Simulate(start, 300, 8, false, false, ScheduleRules{WeeklyCapHours: 40})
	if !errors.Is(err, ErrScheduleBound) {
		t.Fatalf("expected ErrScheduleBound, got %v", err)
	}
}

func TestOnsiteDurationSkipsDisallowedWeekends(t *testing.T) {
	start := date(2025, time.January, 10) // Friday
	days, err := OnsiteDuration(start, 2, false, false)
	if err != nil {
		t.Fatalf("OnsiteDuration returned error: %v", err)
	}
	if days != 4 {
		t.Fatalf("duration = %d calendar days, want 4 (Fri + weekend + Mon)", days)
	}

	days, err = OnsiteDuration(start, 2, true, true)
	if err != nil {
		t.Fatalf("OnsiteDuration returned error: %v", err)
	}
	if days != 2 {
		t.Fatalf("duration = %d calendar days, want 2 when weekends count", days)
	}
}

func TestOnsiteDurationRejectsUnterminableSchedule(t *testing.T) {
	_, err := OnsiteDuration(date(2025, time.January, 6), 400, true, true)
	if !errors.Is(err, ErrScheduleBound) {
		t.Fatalf("expected ErrScheduleBound, got %v", err)
	}
}
