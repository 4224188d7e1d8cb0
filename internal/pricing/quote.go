package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Part is one spare-part row of the request.
type Part struct {
	PartNumber  string
	Description string
	Qty         float64
	Cost        decimal.Decimal
	LeadTime    string
}

// QuoteInput carries every input of one calculation run. It is built once
// per quote and passed by value; no component reads ambient state.
type QuoteInput struct {
	ProjectName string
	ClientName  string
	SiteName    string
	Status      string
	Region      Region
	Tier        Tier
	KeyAccount  bool
	PartsOnly   bool

	MobilizationDate time.Time
	OnsiteStart      time.Time
	// ReturnDate is derived from OnsiteStart and the schedule when zero.
	ReturnDate time.Time

	Technicians  int
	WorkDays     int
	HoursPerDay  float64
	WorkSaturday bool
	WorkSunday   bool

	TravelMode  TravelMode
	FlightCost  decimal.Decimal
	Miles       float64
	OneWayHours float64
	// ManualDriveHours is the commuter-rule override: total drive time for
	// both legs, entered manually when the one-way distance is short.
	ManualDriveHours float64

	Rates          LaborRates
	WeeklyCapHours float64
	LodgingRate    decimal.Decimal
	MealsRate      decimal.Decimal
	// ExpenseMarkup is the pass-through factor on expenses, e.g. 1.15.
	ExpenseMarkup float64

	OverrideSubsistence   bool
	ManualSubsistenceDays int

	MiscExpenses          decimal.Decimal
	ContingencyPct        float64 // fraction: 0.05 means 5%
	DisableMinimumBilling bool

	ScopeOfWork string
	Assumptions string

	// Year anchors the parts inflation adjustment; injected so results
	// stay reproducible.
	Year  int
	Parts []Part
}

// Result is the assembled quote.
type Result struct {
	ServiceLines    []LineItem
	PartLines       []PartLine
	Totals          Totals
	Bucket          LaborBucket
	SubsistenceDays int
	TripDays        int
	ReturnDate      time.Time
	Commuter        bool
	Log             CalcLog
}

const (
	commuterMileThreshold = 50.0
	mileageRatePerMile    = 1.10
	lodgingUplift         = 1.2
	commuterMealFactor    = 0.5
)

// Lines retains insertion order: service lines first, then part lines.
func (r Result) Lines() []LineItem {
	lines := make([]LineItem, 0, len(r.ServiceLines)+len(r.PartLines))
	lines = append(lines, r.ServiceLines...)
	for _, p := range r.PartLines {
		lines = append(lines, LineItem{Description: p.Description, Qty: p.Qty, Rate: p.Rate, Total: p.Total})
	}
	return lines
}

func (in QuoteInput) validate() error {
	if _, err := ParseRegion(string(in.Region)); err != nil {
		return err
	}
	if _, err := ParseTier(string(in.Tier)); err != nil {
		return err
	}
	if in.PartsOnly {
		return nil
	}
	if in.Technicians < 1 {
		return fmt.Errorf("technician count must be at least 1, got %d", in.Technicians)
	}
	if in.WorkDays < 1 {
		return fmt.Errorf("work days must be at least 1, got %d", in.WorkDays)
	}
	if in.HoursPerDay <= 0 {
		return fmt.Errorf("hours per day must be positive, got %v", in.HoursPerDay)
	}
	if in.OnsiteStart.IsZero() {
		return fmt.Errorf("onsite start date is required")
	}
	if in.ExpenseMarkup < 1 {
		return fmt.Errorf("expense markup factor must be at least 1.0, got %v", in.ExpenseMarkup)
	}
	return nil
}

// Calculate runs the full quote pipeline: schedule simulation and travel
// billing into labor lines, the minimum billing guardrail, expense lines,
// part pricing, contingency, and totals. One sequential pass, no shared
// state across quotes.
func Calculate(in QuoteInput) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	res := Result{ReturnDate: in.ReturnDate}

	if !in.PartsOnly {
		if err := calculateService(in, &res); err != nil {
			return Result{}, err
		}
	}

	year := in.Year
	if year == 0 {
		year = pivotBaseYear
	}
	for i, part := range in.Parts {
		if part.Qty <= 0 {
			continue
		}
		sell, markup := PartPrice(part.Cost, in.Tier, year)
		total := sell.Mul(decimal.NewFromFloat(part.Qty))
		res.PartLines = append(res.PartLines, PartLine{
			Line:        fmt.Sprintf("Line %02d", i+1),
			PartNumber:  part.PartNumber,
			Description: part.Description,
			Qty:         part.Qty,
			Rate:        sell,
			Total:       total,
			LeadTime:    part.LeadTime,
		})
		res.Log.Addf("Part: %s Cost $%s -> Sell $%s (Markup %.2fx)",
			part.PartNumber, formatMoney(part.Cost), formatMoney(sell), markup)
	}

	serviceTotal := decimal.Zero
	for _, line := range res.ServiceLines {
		serviceTotal = serviceTotal.Add(line.Total)
	}
	partsTotal := decimal.Zero
	for _, line := range res.PartLines {
		partsTotal = partsTotal.Add(line.Total)
	}

	if !in.PartsOnly && in.ContingencyPct > 0 {
		pct := decimal.NewFromFloat(in.ContingencyPct)
		contingency := RoundUpToTen(serviceTotal.Add(partsTotal).Mul(pct))
		res.ServiceLines = append(res.ServiceLines, LineItem{
			Description: "Contingency",
			Qty:         1,
			Rate:        contingency,
			Total:       contingency,
		})
		res.Log.Addf("Contingency: %s%% of ($%s + $%s) = $%s",
			formatQty(in.ContingencyPct*100), formatMoney(serviceTotal), formatMoney(partsTotal), formatMoney(contingency))
		serviceTotal = serviceTotal.Add(contingency)
	}

	res.Totals = Totals{
		Service: serviceTotal,
		Parts:   partsTotal,
		Grand:   serviceTotal.Add(partsTotal),
	}
	return res, nil
}

// calculateService emits the labor, guardrail, and expense lines.
func calculateService(in QuoteInput, res *Result) error {
	rules := ScheduleRules{WeeklyCapHours: in.WeeklyCapHours, KeyAccount: in.KeyAccount}
	bucket, subsistenceDays, err := Simulate(in.OnsiteStart, in.WorkDays, in.HoursPerDay, in.WorkSaturday, in.WorkSunday, rules)
	if err != nil {
		return err
	}
	res.Bucket = bucket
	res.SubsistenceDays = subsistenceDays
	res.Log.Addf("Schedule Logic: %d Work Days, %s Hrs/Day (Sat=%v, Sun=%v) -> RT:%s, OT:%s, DT:%s",
		in.WorkDays, formatQty(in.HoursPerDay), in.WorkSaturday, in.WorkSunday,
		formatQty(bucket.Regular), formatQty(bucket.Overtime), formatQty(bucket.Doubletime))

	if res.ReturnDate.IsZero() {
		duration, err := OnsiteDuration(in.OnsiteStart, in.WorkDays, in.WorkSaturday, in.WorkSunday)
		if err != nil {
			return err
		}
		res.ReturnDate = in.OnsiteStart.AddDate(0, 0, duration)
	}

	mobilization := in.MobilizationDate
	if mobilization.IsZero() {
		mobilization = in.OnsiteStart
	}
	if res.ReturnDate.Before(mobilization) {
		return fmt.Errorf("return date %s is before mobilization date %s",
			res.ReturnDate.Format("2006-01-02"), mobilization.Format("2006-01-02"))
	}
	res.TripDays = daysBetween(mobilization, res.ReturnDate) + 1

	// Travel billable hours. The commuter rule (short one-way drives)
	// bypasses the minimum/rounding policy with a manually entered total.
	res.Commuter = in.Miles > 0 && in.Miles < commuterMileThreshold
	var billableLeg float64
	if res.Commuter {
		billableLeg = in.ManualDriveHours / 2.0
		res.Log.Addf("Travel (Commuter): Manual Override %s hours total.", formatQty(in.ManualDriveHours))
	} else {
		billableLeg = BillableHoursOneWay(in.OneWayHours)
		res.Log.Addf("Travel (Standard): %s hrs one-way -> %s hrs billable per leg (Min 8, Round up 2).",
			formatQty(in.OneWayHours), formatQty(billableLeg))
	}
	billableRoundTrip := billableLeg * 2.0

	techs := float64(in.Technicians)
	travelQty := billableRoundTrip * techs
	travelTotal := in.Rates.Travel.Mul(decimal.NewFromFloat(travelQty))
	res.ServiceLines = append(res.ServiceLines, LineItem{
		Description: "TFA Labor - Travel", Qty: travelQty, Rate: in.Rates.Travel, Total: travelTotal,
	})
	res.Log.Addf("Labor Travel: %d TFAs * %s hrs * $%s = $%s",
		in.Technicians, formatQty(billableRoundTrip), formatMoney(in.Rates.Travel), formatMoney(travelTotal))

	laborLine := func(desc string, hours float64, rate decimal.Decimal, logLabel string) {
		if hours == 0 {
			return
		}
		qty := hours * techs
		total := rate.Mul(decimal.NewFromFloat(qty))
		res.ServiceLines = append(res.ServiceLines, LineItem{Description: desc, Qty: qty, Rate: rate, Total: total})
		res.Log.Addf("Labor %s: %d TFAs * %s hrs * $%s = $%s",
			logLabel, in.Technicians, formatQty(hours), formatMoney(rate), formatMoney(total))
	}
	laborLine("Labor - Onsite (RT)", bucket.Regular, in.Rates.Regular, "RT")
	laborLine("Labor - Onsite (OT)", bucket.Overtime, in.Rates.Overtime, "OT")
	laborLine("Labor - Onsite (DT)", bucket.Doubletime, in.Rates.Doubletime, "DT")

	res.ServiceLines = applyMinimumBilling(res.ServiceLines, in.Region, in.Rates.Regular, in.DisableMinimumBilling, &res.Log)

	markup := decimal.NewFromFloat(in.ExpenseMarkup)

	if in.FlightCost.IsPositive() {
		fareRate := RoundUpToTen(in.FlightCost.Mul(markup))
		fareTotal := fareRate.Mul(decimal.NewFromInt(int64(in.Technicians)))
		res.ServiceLines = append(res.ServiceLines, LineItem{
			Description: "Airfare", Qty: techs, Rate: fareRate, Total: fareTotal,
		})
		res.Log.Addf("Airfare: %d Tix * $%s (Cost $%s + %d%%) = $%s",
			in.Technicians, formatMoney(fareRate), formatMoney(in.FlightCost),
			int(math.Round((in.ExpenseMarkup-1)*100)), formatMoney(fareTotal))
	}

	if (in.TravelMode == ModeDrive || in.TravelMode == ModeFlyDrive) && in.Miles > 0 {
		mileageTotal := RoundUpToTen(decimal.NewFromFloat(in.Miles * mileageRatePerMile))
		res.ServiceLines = append(res.ServiceLines, LineItem{
			Description: "Mileage / Rental Fuel",
			Qty:         in.Miles,
			Rate:        decimal.NewFromFloat(mileageRatePerMile),
			Total:       mileageTotal,
		})
	}

	if in.MiscExpenses.IsPositive() {
		miscRate := RoundUpToTen(in.MiscExpenses.Mul(markup))
		res.ServiceLines = append(res.ServiceLines, LineItem{
			Description: "Misc Expenses (Car Rental, Visa, Transport)", Qty: 1, Rate: miscRate, Total: miscRate,
		})
		res.Log.Addf("Misc Exp: $%s + Markup = $%s", formatMoney(in.MiscExpenses), formatMoney(miscRate))
	}

	expenseDays := res.TripDays
	if in.OverrideSubsistence {
		expenseDays = in.ManualSubsistenceDays
	}
	rooms := int(math.Ceil(techs / 2.0))

	lodgingRate := decimal.Zero
	if !res.Commuter {
		lodgingRate = RoundUpToTen(in.LodgingRate.Mul(decimal.NewFromFloat(lodgingUplift)).Mul(markup))
	}
	mealFactor := 1.0
	if res.Commuter {
		mealFactor = commuterMealFactor
	}
	mealsRate := RoundUpToTen(in.MealsRate.Mul(decimal.NewFromFloat(mealFactor)).Mul(markup))

	if lodgingRate.IsPositive() {
		lodgingQty := float64(expenseDays * rooms)
		lodgingTotal := lodgingRate.Mul(decimal.NewFromFloat(lodgingQty))
		res.ServiceLines = append(res.ServiceLines, LineItem{
			Description: fmt.Sprintf("Lodging (%d %s)", rooms, plural("Room", rooms)),
			Qty:         lodgingQty,
			Rate:        lodgingRate,
			Total:       lodgingTotal,
		})
		res.Log.Addf("Lodging: %d nights * %d rooms * $%s = $%s",
			expenseDays, rooms, formatMoney(lodgingRate), formatMoney(lodgingTotal))
	}

	mealsQty := float64(expenseDays * in.Technicians)
	mealsTotal := mealsRate.Mul(decimal.NewFromFloat(mealsQty))
	res.ServiceLines = append(res.ServiceLines, LineItem{
		Description: fmt.Sprintf("Subsistence (%d %s)", in.Technicians, plural("Tech", in.Technicians)),
		Qty:         mealsQty,
		Rate:        mealsRate,
		Total:       mealsTotal,
	})
	res.Log.Addf("Subsistence: %d days * %d techs * $%s = $%s",
		expenseDays, in.Technicians, formatMoney(mealsRate), formatMoney(mealsTotal))

	return nil
}

func plural(word string, n int) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

// daysBetween counts whole calendar days from a to b, ignoring clock time.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
