// Package terms manages commercial terms templates: free-text bodies with
// {placeholder} markers substituted from a typed context. The context
// enumerates every recognized placeholder, so a template referencing
// anything else is rejected at the boundary with a descriptive error and
// the rest of the quote is unaffected.
package terms

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KemosBram1/afp-estimator/internal/pricing"
)

// ErrNotFound means the requested template does not exist.
var ErrNotFound = errors.New("terms template not found")

// Fixed contractual international rates injected into templates. These
// are contract constants, not the quote's editable rates.
const (
	intlRegularRate    = 160.00
	intlOvertimeRate   = 240.00
	intlDoubletimeRate = 320.00
	intlNightRate      = 192.00
	nightShiftUplift   = 1.2
)

// Context carries every placeholder value a template may reference.
type Context struct {
	RateRegular      decimal.Decimal
	RateOvertime     decimal.Decimal
	RateDoubletime   decimal.Decimal
	PaymentTermsDays int
	ValidityDays     int
}

// NewContext derives template values from the quote's rate card and
// commercial terms.
func NewContext(rates pricing.LaborRates, paymentTermsDays, validityDays int) Context {
	return Context{
		RateRegular:      rates.Regular,
		RateOvertime:     rates.Overtime,
		RateDoubletime:   rates.Doubletime,
		PaymentTermsDays: paymentTermsDays,
		ValidityDays:     validityDays,
	}
}

// values maps placeholder names to rendered text. This is the complete
// set of recognized placeholders.
func (c Context) values() map[string]string {
	money := func(d decimal.Decimal) string { return d.StringFixed(2) }
	uplift := decimal.NewFromFloat(nightShiftUplift)

	return map[string]string{
		"rate_rt":       money(c.RateRegular),
		"rate_ot":       money(c.RateOvertime),
		"rate_dt":       money(c.RateDoubletime),
		"rate_rt_night": money(c.RateRegular.Mul(uplift)),

		"mbv_domestic": money(pricing.MinimumBillingTarget(pricing.RegionDomestic, c.RateRegular)),
		"mbv_intl":     money(pricing.MinimumBillingTarget(pricing.RegionInternational, c.RateRegular)),

		"rate_rt_intl": money(decimal.NewFromFloat(intlRegularRate)),
		"rate_ot_intl": money(decimal.NewFromFloat(intlOvertimeRate)),
		"rate_dt_intl": money(decimal.NewFromFloat(intlDoubletimeRate)),
		"rate_nt_intl": money(decimal.NewFromFloat(intlNightRate)),

		"payment_terms": fmt.Sprintf("%d", c.PaymentTermsDays),
		"validity":      fmt.Sprintf("%d", c.ValidityDays),
	}
}

// Apply substitutes placeholders into a template body. An unknown or
// unterminated placeholder aborts this application only.
func Apply(template string, ctx Context) (string, error) {
	values := ctx.values()

	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open == -1 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:open])
		rest = rest[open+1:]

		close := strings.IndexByte(rest, '}')
		if close == -1 {
			return "", fmt.Errorf("unterminated placeholder near %q", truncateAround(rest))
		}
		name := rest[:close]
		value, ok := values[name]
		if !ok {
			return "", fmt.Errorf("unknown placeholder %q", name)
		}
		b.WriteString(value)
		rest = rest[close+1:]
	}
}

func truncateAround(s string) string {
	if len(s) > 20 {
		return s[:20]
	}
	return s
}

// Store reads template bodies from the database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Names lists available template names.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM term_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query term templates: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan template name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate template names: %w", err)
	}
	return names, nil
}

// Body fetches one template body by name.
func (s *Store) Body(name string) (string, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM term_templates WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("query term template: %w", err)
	}
	return body, nil
}

// Render loads a template and substitutes the context in one step.
func (s *Store) Render(name string, ctx Context) (string, error) {
	body, err := s.Body(name)
	if err != nil {
		return "", err
	}
	return Apply(body, ctx)
}
