// Package seed inserts the baseline rows the estimator needs on first
// start: the admin login, fallback per-diem rates, a demo client
// directory, and the default terms templates. Every step is idempotent
// so the seed can run on each boot.
package seed

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const (
	fallbackDomesticZip     = "00000"
	fallbackDomesticLodging = 110.0
	fallbackDomesticMeals   = 68.0

	fallbackCountry  = "OTHER"
	fallbackLocation = "Other"
	fallbackLodging  = 150.0
	fallbackMeals    = 75.0

	demoCompanyName = "AERO Turbines"
	demoSiteName    = "Compressor Station 12"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed inside one transaction.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	steps := []func(*sql.Tx, *Stats) error{
		func(tx *sql.Tx, s *Stats) error { return seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, s) },
		ensurePerDiemFallbacks,
		ensureDemoDirectory,
		ensureTermTemplates,
	}
	for _, step := range steps {
		if err := step(tx, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}
	return stats, nil
}

// HashPassword returns the hex-encoded SHA-256 digest stored in the
// users table. Login compares against the same digest.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, HashPassword(password)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// ensurePerDiemFallbacks keeps one catch-all row in each per-diem table
// so rate lookups always have something to fall back to when the real
// GSA / DSSR import has not run.
func ensurePerDiemFallbacks(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM perdiem_domestic WHERE zip = ? LIMIT 1)`, fallbackDomesticZip).Scan(&exists); err != nil {
		return fmt.Errorf("check domestic per-diem fallback: %w", err)
	}
	if !exists {
		if _, err := tx.Exec(`
			INSERT INTO perdiem_domestic (zip, city, state, lodging, meals)
			VALUES (?, ?, ?, ?, ?)
		`, fallbackDomesticZip, "Standard Rate", "", fallbackDomesticLodging, fallbackDomesticMeals); err != nil {
			return fmt.Errorf("insert domestic per-diem fallback: %w", err)
		}
		stats.Inserts++
	}

	if err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM perdiem_international WHERE country = ? AND location = ? LIMIT 1)
	`, fallbackCountry, fallbackLocation).Scan(&exists); err != nil {
		return fmt.Errorf("check international per-diem fallback: %w", err)
	}
	if !exists {
		if _, err := tx.Exec(`
			INSERT INTO perdiem_international (country, location, lodging, meals)
			VALUES (?, ?, ?, ?)
		`, fallbackCountry, fallbackLocation, fallbackLodging, fallbackMeals); err != nil {
			return fmt.Errorf("insert international per-diem fallback: %w", err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureDemoDirectory(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM companies LIMIT 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check companies existence: %w", err)
	}
	if exists {
		return nil
	}

	res, err := tx.Exec(`INSERT INTO companies (name, key_account) VALUES (?, 1)`, demoCompanyName)
	if err != nil {
		return fmt.Errorf("insert demo company: %w", err)
	}
	companyID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("demo company id: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO sites (company_id, name, street, city, state, zip)
		VALUES (?, ?, ?, ?, ?, ?)
	`, companyID, demoSiteName, "4120 Pipeline Rd", "Odessa", "TX", "79761"); err != nil {
		return fmt.Errorf("insert demo site: %w", err)
	}
	stats.Inserts += 2
	return nil
}

func ensureTermTemplates(tx *sql.Tx, stats *Stats) error {
	for name, body := range defaultTemplates {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM term_templates WHERE name = ? LIMIT 1)`, name).Scan(&exists); err != nil {
			return fmt.Errorf("check term template %q: %w", name, err)
		}
		if exists {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO term_templates (name, body) VALUES (?, ?)`, name, body); err != nil {
			return fmt.Errorf("insert term template %q: %w", name, err)
		}
		stats.Inserts++
	}
	return nil
}

var defaultTemplates = map[string]string{
	"Standard Domestic": `Labor is billed at ${rate_rt}/hr straight time, ${rate_ot}/hr overtime, and ${rate_dt}/hr double time per technician.
Night shift work is billed at ${rate_rt_night}/hr.
Minimum billing of ${mbv_domestic} applies to all domestic field service visits.
Payment terms: net {payment_terms} days. Quote valid for {validity} days.`,
	"Standard International": `Labor is billed at ${rate_rt_intl}/hr straight time, ${rate_ot_intl}/hr overtime, and ${rate_dt_intl}/hr double time per technician.
Night shift work is billed at ${rate_nt_intl}/hr.
Minimum billing of ${mbv_intl} applies to all international field service visits.
Payment terms: net {payment_terms} days. Quote valid for {validity} days.`,
	"Parts Only": `Pricing is valid for {validity} days from the date of this quote.
Lead times are estimates from receipt of purchase order and are subject to vendor confirmation.
Payment terms: net {payment_terms} days.`,
}
