// Package directory serves the client/site records shown on quotes.
// Display-only apart from the key-account flag, which drives tier
// selection and the weekly overtime cap.
package directory

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound means the requested company or site does not exist.
var ErrNotFound = errors.New("directory record not found")

// Company is one customer in the directory.
type Company struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	KeyAccount bool   `json:"key_account"`
}

// Site is one customer location.
type Site struct {
	ID      int64  `json:"id"`
	Company string `json:"company"`
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Companies lists all customers in name order.
func (s *Store) Companies() ([]Company, error) {
	rows, err := s.db.Query(`SELECT id, name, key_account FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.KeyAccount); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

// Company fetches one customer by name.
func (s *Store) Company(name string) (Company, error) {
	var c Company
	err := s.db.QueryRow(`SELECT id, name, key_account FROM companies WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &c.KeyAccount)
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, fmt.Errorf("%w: company %q", ErrNotFound, name)
	}
	if err != nil {
		return Company{}, fmt.Errorf("query company: %w", err)
	}
	return c, nil
}

// Sites lists a customer's locations in site-name order.
func (s *Store) Sites(companyName string) ([]Site, error) {
	rows, err := s.db.Query(`
		SELECT s.id, c.name, s.name, s.street, s.city, s.state, s.zip
		FROM sites s
		JOIN companies c ON c.id = s.company_id
		WHERE c.name = ?
		ORDER BY s.name
	`, companyName)
	if err != nil {
		return nil, fmt.Errorf("query sites: %w", err)
	}
	defer rows.Close()

	var sites []Site
	for rows.Next() {
		var site Site
		if err := rows.Scan(&site.ID, &site.Company, &site.Name, &site.Street, &site.City, &site.State, &site.Zip); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sites: %w", err)
	}
	return sites, nil
}
