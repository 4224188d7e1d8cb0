// Package rates resolves per-diem and labor rates for a quote. Per-diem
// rows live in SQLite (loaded from published GSA / Dept. of State data);
// a missing row is reported as ErrNotFound so callers can fall back to
// manual rate entry instead of failing the quote.
package rates

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/KemosBram1/afp-estimator/internal/pricing"
)

// ErrNotFound means no per-diem row exists for the requested location.
var ErrNotFound = errors.New("per-diem rate not found")

// PerDiem is a resolved lodging and meals-and-incidentals rate.
type PerDiem struct {
	Lodging decimal.Decimal
	Meals   decimal.Decimal
	City    string
	Country string
}

// LaborCard is the default regional rate card.
type LaborCard struct {
	Rates          pricing.LaborRates
	WeeklyCapHours float64
}

// Store reads rate data from the database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Domestic looks up the GSA per-diem for a 5-digit zip code.
func (s *Store) Domestic(zip string) (PerDiem, error) {
	var lodging, meals float64
	var city string
	err := s.db.QueryRow(`
		SELECT lodging, meals, city
		FROM perdiem_domestic
		WHERE zip = ?
	`, zip).Scan(&lodging, &meals, &city)
	if errors.Is(err, sql.ErrNoRows) {
		return PerDiem{}, fmt.Errorf("%w: zip %s", ErrNotFound, zip)
	}
	if err != nil {
		return PerDiem{}, fmt.Errorf("query domestic per-diem: %w", err)
	}

	return PerDiem{
		Lodging: decimal.NewFromFloat(lodging),
		Meals:   decimal.NewFromFloat(meals),
		City:    city,
	}, nil
}

// International looks up the Dept. of State per-diem for a country and
// location. Zero published lodging rates fall back to $150, matching the
// historical estimator behavior for locations with no published rate.
func (s *Store) International(country, location string) (PerDiem, error) {
	var lodging, meals float64
	err := s.db.QueryRow(`
		SELECT lodging, meals
		FROM perdiem_international
		WHERE country = ? AND location = ?
	`, country, location).Scan(&lodging, &meals)
	if errors.Is(err, sql.ErrNoRows) {
		return PerDiem{}, fmt.Errorf("%w: %s / %s", ErrNotFound, country, location)
	}
	if err != nil {
		return PerDiem{}, fmt.Errorf("query international per-diem: %w", err)
	}

	if lodging == 0 {
		lodging = 150.0
	}
	return PerDiem{
		Lodging: decimal.NewFromFloat(lodging),
		Meals:   decimal.NewFromFloat(meals),
		City:    location,
		Country: country,
	}, nil
}

// InternationalOptions lists locations matching a country search, for
// narrowing a lookup from a country name to a specific post.
func (s *Store) InternationalOptions(countrySearch string) ([]PerDiem, error) {
	rows, err := s.db.Query(`
		SELECT country, location, lodging, meals
		FROM perdiem_international
		WHERE country LIKE '%' || ? || '%'
		ORDER BY country, location
	`, countrySearch)
	if err != nil {
		return nil, fmt.Errorf("query international options: %w", err)
	}
	defer rows.Close()

	var options []PerDiem
	for rows.Next() {
		var country, location string
		var lodging, meals float64
		if err := rows.Scan(&country, &location, &lodging, &meals); err != nil {
			return nil, fmt.Errorf("scan international option: %w", err)
		}
		options = append(options, PerDiem{
			Lodging: decimal.NewFromFloat(lodging),
			Meals:   decimal.NewFromFloat(meals),
			City:    location,
			Country: country,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate international options: %w", err)
	}
	return options, nil
}

// DefaultLabor returns the standard rate card for a region. The weekly
// overtime cap widens from 40 to 45 hours for key accounts.
func DefaultLabor(region pricing.Region, keyAccount bool) LaborCard {
	card := LaborCard{WeeklyCapHours: 40}
	if keyAccount {
		card.WeeklyCapHours = 45
	}

	if region == pricing.RegionInternational {
		card.Rates = pricing.LaborRates{
			Regular:    decimal.NewFromInt(160),
			Overtime:   decimal.NewFromInt(240),
			Doubletime: decimal.NewFromInt(320),
			Travel:     decimal.NewFromInt(160),
		}
		return card
	}
	card.Rates = pricing.LaborRates{
		Regular:    decimal.NewFromInt(140),
		Overtime:   decimal.NewFromInt(210),
		Doubletime: decimal.NewFromInt(280),
		Travel:     decimal.NewFromInt(140),
	}
	return card
}
