package pricing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const recordDateLayout = "2006-01-02"

// RecordPart mirrors one parts row in a saved record.
type RecordPart struct {
	PartNumber  string  `json:"part"`
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	Cost        float64 `json:"cost"`
	LeadTime    string  `json:"lead_time"`
}

// Record is the flat save/load layout of a quote: every user input as a
// primitive value, dates as YYYY-MM-DD strings, never computed output.
// Round-tripping a record and recalculating reproduces identical totals.
// Key names match the historical save files so old quotes still load.
type Record struct {
	Status                string       `json:"status"`
	ProjectName           string       `json:"proj_name"`
	ClientName            string       `json:"client_name,omitempty"`
	SiteName              string       `json:"site_name,omitempty"`
	Region                string       `json:"region"`
	Tier                  string       `json:"tier"`
	KeyAccount            bool         `json:"key_account"`
	PartsOnly             bool         `json:"is_parts_only"`
	Mode                  string       `json:"mode"`
	Technicians           int          `json:"tfas"`
	WorkDays              int          `json:"days"`
	HoursPerDay           float64      `json:"hrs"`
	WorkSaturday          bool         `json:"sat"`
	WorkSunday            bool         `json:"sun"`
	FlightCost            float64      `json:"flight_cost"`
	Miles                 float64      `json:"miles"`
	OneWayHours           float64      `json:"t_hrs"`
	ManualDriveHours      float64      `json:"man_labor"`
	RateRegular           float64      `json:"rate_rt"`
	RateOvertime          float64      `json:"rate_ot"`
	RateDoubletime        float64      `json:"rate_dt"`
	RateTravel            float64      `json:"rate_tr"`
	WeeklyCapHours        float64      `json:"cap"`
	LodgingRate           float64      `json:"lodging"`
	MealsRate             float64      `json:"mie"`
	ExpenseMarkupPct      float64      `json:"exp_markup_pct"`
	OverrideSubsistence   bool         `json:"override_sub"`
	ManualSubsistenceDays int          `json:"man_sub_days"`
	ContingencyPct        float64      `json:"cont_pct"` // percent: 5 means 5%
	MiscExpenses          float64      `json:"misc_exp"`
	ScopeOfWork           string       `json:"sow"`
	Assumptions           string       `json:"assume"`
	MobilizationDate      string       `json:"mob_date"`
	OnsiteStart           string       `json:"start_date"`
	ReturnDate            string       `json:"return_date"`
	PaymentTermsDays      int          `json:"payment_terms"`
	ValidityDays          int          `json:"validity"`
	DisableMinimumBilling bool         `json:"disable_mbv"`
	PricingYear           int          `json:"pricing_year"`
	Parts                 []RecordPart `json:"parts,omitempty"`
}

// LoadRecord parses a saved record from JSON.
func LoadRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("parse quote record: %w", err)
	}
	return r, nil
}

// Marshal serializes the record for saving.
func (r Record) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("serialize quote record: %w", err)
	}
	return data, nil
}

// Input reconstructs the immutable QuoteInput this record captured.
// Malformed dates, regions, and tiers are configuration errors.
func (r Record) Input() (QuoteInput, error) {
	region, err := ParseRegion(r.Region)
	if err != nil {
		return QuoteInput{}, err
	}
	tier, err := ParseTier(r.Tier)
	if err != nil {
		return QuoteInput{}, err
	}

	mobilization, err := parseRecordDate(r.MobilizationDate, "mob_date")
	if err != nil {
		return QuoteInput{}, err
	}
	start, err := parseRecordDate(r.OnsiteStart, "start_date")
	if err != nil {
		return QuoteInput{}, err
	}
	returnDate, err := parseRecordDate(r.ReturnDate, "return_date")
	if err != nil {
		return QuoteInput{}, err
	}

	parts := make([]Part, 0, len(r.Parts))
	for _, p := range r.Parts {
		parts = append(parts, Part{
			PartNumber:  p.PartNumber,
			Description: p.Description,
			Qty:         p.Qty,
			Cost:        decimal.NewFromFloat(p.Cost),
			LeadTime:    p.LeadTime,
		})
	}

	return QuoteInput{
		ProjectName:      r.ProjectName,
		ClientName:       r.ClientName,
		SiteName:         r.SiteName,
		Status:           r.Status,
		Region:           region,
		Tier:             tier,
		KeyAccount:       r.KeyAccount,
		PartsOnly:        r.PartsOnly,
		MobilizationDate: mobilization,
		OnsiteStart:      start,
		ReturnDate:       returnDate,
		Technicians:      r.Technicians,
		WorkDays:         r.WorkDays,
		HoursPerDay:      r.HoursPerDay,
		WorkSaturday:     r.WorkSaturday,
		WorkSunday:       r.WorkSunday,
		TravelMode:       TravelMode(r.Mode),
		FlightCost:       decimal.NewFromFloat(r.FlightCost),
		Miles:            r.Miles,
		OneWayHours:      r.OneWayHours,
		ManualDriveHours: r.ManualDriveHours,
		Rates: LaborRates{
			Regular:    decimal.NewFromFloat(r.RateRegular),
			Overtime:   decimal.NewFromFloat(r.RateOvertime),
			Doubletime: decimal.NewFromFloat(r.RateDoubletime),
			Travel:     decimal.NewFromFloat(r.RateTravel),
		},
		WeeklyCapHours:        r.WeeklyCapHours,
		LodgingRate:           decimal.NewFromFloat(r.LodgingRate),
		MealsRate:             decimal.NewFromFloat(r.MealsRate),
		ExpenseMarkup:         r.ExpenseMarkupPct/100.0 + 1.0,
		OverrideSubsistence:   r.OverrideSubsistence,
		ManualSubsistenceDays: r.ManualSubsistenceDays,
		MiscExpenses:          decimal.NewFromFloat(r.MiscExpenses),
		ContingencyPct:        r.ContingencyPct / 100.0,
		DisableMinimumBilling: r.DisableMinimumBilling,
		ScopeOfWork:           r.ScopeOfWork,
		Assumptions:           r.Assumptions,
		Year:                  r.PricingYear,
		Parts:                 parts,
	}, nil
}

// NewRecord captures a QuoteInput as a persisted record.
func NewRecord(in QuoteInput) Record {
	parts := make([]RecordPart, 0, len(in.Parts))
	for _, p := range in.Parts {
		parts = append(parts, RecordPart{
			PartNumber:  p.PartNumber,
			Description: p.Description,
			Qty:         p.Qty,
			Cost:        p.Cost.InexactFloat64(),
			LeadTime:    p.LeadTime,
		})
	}

	return Record{
		Status:                in.Status,
		ProjectName:           in.ProjectName,
		ClientName:            in.ClientName,
		SiteName:              in.SiteName,
		Region:                string(in.Region),
		Tier:                  string(in.Tier),
		KeyAccount:            in.KeyAccount,
		PartsOnly:             in.PartsOnly,
		Mode:                  string(in.TravelMode),
		Technicians:           in.Technicians,
		WorkDays:              in.WorkDays,
		HoursPerDay:           in.HoursPerDay,
		WorkSaturday:          in.WorkSaturday,
		WorkSunday:            in.WorkSunday,
		FlightCost:            in.FlightCost.InexactFloat64(),
		Miles:                 in.Miles,
		OneWayHours:           in.OneWayHours,
		ManualDriveHours:      in.ManualDriveHours,
		RateRegular:           in.Rates.Regular.InexactFloat64(),
		RateOvertime:          in.Rates.Overtime.InexactFloat64(),
		RateDoubletime:        in.Rates.Doubletime.InexactFloat64(),
		RateTravel:            in.Rates.Travel.InexactFloat64(),
		WeeklyCapHours:        in.WeeklyCapHours,
		LodgingRate:           in.LodgingRate.InexactFloat64(),
		MealsRate:             in.MealsRate.InexactFloat64(),
		ExpenseMarkupPct:      (in.ExpenseMarkup - 1.0) * 100.0,
		OverrideSubsistence:   in.OverrideSubsistence,
		ManualSubsistenceDays: in.ManualSubsistenceDays,
		ContingencyPct:        in.ContingencyPct * 100.0,
		MiscExpenses:          in.MiscExpenses.InexactFloat64(),
		ScopeOfWork:           in.ScopeOfWork,
		Assumptions:           in.Assumptions,
		MobilizationDate:      formatRecordDate(in.MobilizationDate),
		OnsiteStart:           formatRecordDate(in.OnsiteStart),
		ReturnDate:            formatRecordDate(in.ReturnDate),
		DisableMinimumBilling: in.DisableMinimumBilling,
		PricingYear:           in.Year,
		Parts:                 parts,
	}
}

func parseRecordDate(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(recordDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return t, nil
}

func formatRecordDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(recordDateLayout)
}
