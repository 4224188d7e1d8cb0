package pricing

import "math"

const (
	minBillableLegHours = 8.0
	travelBlockHours    = 2.0
)

// BillableHoursOneWay converts raw one-way travel hours into billable
// hours per the contract: minimum half-day of 8 hours, then 2-hour
// billing blocks rounded up.
func BillableHoursOneWay(raw float64) float64 {
	if raw <= minBillableLegHours {
		return minBillableLegHours
	}
	return math.Ceil(raw/travelBlockHours) * travelBlockHours
}
