package main

import (
	"net/http"
	"strings"
	"testing"
)

func TestDomesticRateLookup(t *testing.T) {
	srv := newTestServer(t)

	if _, err := srv.db.Exec(`
		INSERT INTO perdiem_domestic (zip, city, state, lodging, meals)
		VALUES ('79761', 'Odessa', 'TX', 112, 64)
	`); err != nil {
		t.Fatalf("insert per-diem row: %v", err)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/rates/domestic/79761", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Lodging string `json:"lodging"`
		Meals   string `json:"meals"`
		City    string `json:"city"`
	}
	decodeBody(t, rec, &resp)
	if resp.Lodging != "112" || resp.Meals != "64" || resp.City != "Odessa" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestDomesticRateNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/rates/domestic/99999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestInternationalRateOptionsAndLookup(t *testing.T) {
	srv := newTestServer(t)

	if _, err := srv.db.Exec(`
		INSERT INTO perdiem_international (country, location, lodging, meals) VALUES
		('GERMANY', 'Berlin', 210, 90),
		('GERMANY', 'Munich', 230, 95)
	`); err != nil {
		t.Fatalf("insert per-diem rows: %v", err)
	}

	options := doJSON(t, srv, http.MethodGet, "/api/rates/international?country=GERM", nil)
	if options.Code != http.StatusOK {
		t.Fatalf("options status = %d", options.Code)
	}
	var optResp struct {
		Options []struct {
			City string `json:"city"`
		} `json:"options"`
	}
	decodeBody(t, options, &optResp)
	if len(optResp.Options) != 2 {
		t.Fatalf("options = %+v", optResp)
	}

	one := doJSON(t, srv, http.MethodGet, "/api/rates/international?country=GERMANY&location=Munich", nil)
	if one.Code != http.StatusOK {
		t.Fatalf("lookup status = %d", one.Code)
	}
	var oneResp struct {
		Lodging string `json:"lodging"`
	}
	decodeBody(t, one, &oneResp)
	if oneResp.Lodging != "230" {
		t.Fatalf("lodging = %s, want 230", oneResp.Lodging)
	}
}

func TestInternationalRateRequiresCountry(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/rates/international", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLaborCardEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/rates/labor?region=INTERNATIONAL&key_account=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		RateRT    string  `json:"rate_rt"`
		WeeklyCap float64 `json:"weekly_cap"`
	}
	decodeBody(t, rec, &resp)
	if resp.RateRT != "160" {
		t.Fatalf("rate_rt = %s, want 160", resp.RateRT)
	}
	if resp.WeeklyCap != 45 {
		t.Fatalf("weekly_cap = %v, want 45", resp.WeeklyCap)
	}
}

func TestCompanyDirectoryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	list := doJSON(t, srv, http.MethodGet, "/api/companies", nil)
	if list.Code != http.StatusOK {
		t.Fatalf("companies status = %d", list.Code)
	}
	var companies struct {
		Companies []struct {
			Name       string `json:"name"`
			KeyAccount bool   `json:"key_account"`
		} `json:"companies"`
	}
	decodeBody(t, list, &companies)
	if len(companies.Companies) != 1 || !companies.Companies[0].KeyAccount {
		t.Fatalf("companies = %+v", companies)
	}

	sites := doJSON(t, srv, http.MethodGet, "/api/companies/AERO%20Turbines/sites", nil)
	if sites.Code != http.StatusOK {
		t.Fatalf("sites status = %d, body %s", sites.Code, sites.Body.String())
	}

	missing := doJSON(t, srv, http.MethodGet, "/api/companies/Nobody%20Inc/sites", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("missing company status = %d, want 404", missing.Code)
	}
}

func TestTermRenderEndpoint(t *testing.T) {
	srv := newTestServer(t)

	names := doJSON(t, srv, http.MethodGet, "/api/terms", nil)
	if names.Code != http.StatusOK {
		t.Fatalf("terms status = %d", names.Code)
	}
	var nameResp struct {
		Templates []string `json:"templates"`
	}
	decodeBody(t, names, &nameResp)
	if len(nameResp.Templates) == 0 {
		t.Fatalf("expected seeded term templates")
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/terms/render", map[string]any{
		"name":          "Standard Domestic",
		"region":        "DOMESTIC",
		"payment_terms": 30,
		"validity":      45,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Body string `json:"body"`
	}
	decodeBody(t, rec, &resp)
	for _, want := range []string{"$140.00", "$7000.00", "net 30 days", "valid for 45 days"} {
		if !strings.Contains(resp.Body, want) {
			t.Fatalf("rendered terms missing %q:\n%s", want, resp.Body)
		}
	}

	missing := doJSON(t, srv, http.MethodPost, "/api/terms/render", map[string]any{
		"name":   "No Such Template",
		"region": "DOMESTIC",
	})
	if missing.Code != http.StatusNotFound {
		t.Fatalf("missing template status = %d, want 404", missing.Code)
	}
}
