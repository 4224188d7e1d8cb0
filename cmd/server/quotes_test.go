package main

import (
	"net/http"
	"strings"
	"testing"
)

// standardRecord is a full domestic quote: two technicians for a week
// onsite with one spare part.
func standardRecord() map[string]any {
	return map[string]any{
		"proj_name":      "Valve Overhaul",
		"client_name":    "Acme Power",
		"site_name":      "Unit 3",
		"region":         "DOMESTIC",
		"tier":           "Standard",
		"mode":           "FLY",
		"tfas":           2,
		"days":           5,
		"hrs":            10,
		"flight_cost":    650,
		"t_hrs":          6,
		"rate_rt":        140,
		"rate_ot":        210,
		"rate_dt":        280,
		"rate_tr":        140,
		"cap":            40,
		"lodging":        150,
		"mie":            64,
		"exp_markup_pct": 15,
		"misc_exp":       100,
		"cont_pct":       5,
		"mob_date":       "2025-01-05",
		"start_date":     "2025-01-06",
		"pricing_year":   2025,
		"parts": []map[string]any{
			{"part": "VLV-100", "description": "Deluge valve", "qty": 2, "cost": 100, "lead_time": "2-4 Weeks"},
		},
	}
}

func TestCalculateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/calculate", standardRecord())
	if rec.Code != http.StatusOK {
		t.Fatalf("calculate status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ServiceLines []struct {
			Description string `json:"description"`
			Total       string `json:"total"`
		} `json:"service_lines"`
		Totals struct {
			Service string `json:"service"`
			Parts   string `json:"parts"`
			Grand   string `json:"grand"`
		} `json:"totals"`
		TripDays   int      `json:"trip_days"`
		ReturnDate string   `json:"return_date"`
		Log        []string `json:"log"`
	}
	decodeBody(t, rec, &resp)

	if resp.Totals.Grand != "25870.28" {
		t.Fatalf("grand total = %s, want 25870.28", resp.Totals.Grand)
	}
	if resp.Totals.Service != "25330" || resp.Totals.Parts != "540.28" {
		t.Fatalf("totals = %+v", resp.Totals)
	}
	if resp.ReturnDate != "2025-01-11" {
		t.Fatalf("return date = %s", resp.ReturnDate)
	}
	if len(resp.Log) == 0 {
		t.Fatalf("expected a calculation log")
	}

	var foundTravel bool
	for _, line := range resp.ServiceLines {
		if line.Description == "TFA Labor - Travel" {
			foundTravel = true
			if line.Total != "4480" {
				t.Fatalf("travel total = %s, want 4480", line.Total)
			}
		}
	}
	if !foundTravel {
		t.Fatalf("missing travel line in %+v", resp.ServiceLines)
	}
}

func TestCalculateRejectsMalformedRecord(t *testing.T) {
	srv := newTestServer(t)

	record := standardRecord()
	record["start_date"] = "01/06/2025"

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/calculate", record)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCalculateReportsScheduleBound(t *testing.T) {
	srv := newTestServer(t)

	record := standardRecord()
	record["days"] = 300
	record["sat"] = false
	record["sun"] = false
	record["hrs"] = 1

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes/calculate", record)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
	}
}

func TestQuoteSaveListGet(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes", standardRecord())
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}

	var saved struct {
		ID          string `json:"id"`
		QuoteNumber string `json:"quote_number"`
		Totals      struct {
			Grand string `json:"grand"`
		} `json:"totals"`
	}
	decodeBody(t, rec, &saved)
	if saved.ID == "" || !strings.HasPrefix(saved.QuoteNumber, "Q-") {
		t.Fatalf("unexpected save response: %+v", saved)
	}
	if saved.Totals.Grand != "25870.28" {
		t.Fatalf("saved grand = %s", saved.Totals.Grand)
	}

	list := doJSON(t, srv, http.MethodGet, "/api/quotes?q=Valve", nil)
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	var listed struct {
		Quotes []quoteSummary `json:"quotes"`
	}
	decodeBody(t, list, &listed)
	if len(listed.Quotes) != 1 || listed.Quotes[0].ID != saved.ID {
		t.Fatalf("list response = %+v", listed)
	}
	if listed.Quotes[0].GrandTotal != "25870.28" {
		t.Fatalf("listed grand = %s", listed.Quotes[0].GrandTotal)
	}

	miss := doJSON(t, srv, http.MethodGet, "/api/quotes?q=nomatch", nil)
	decodeBody(t, miss, &listed)
	if len(listed.Quotes) != 0 {
		t.Fatalf("expected empty filtered list, got %+v", listed)
	}

	get := doJSON(t, srv, http.MethodGet, "/api/quotes/"+saved.ID, nil)
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d", get.Code)
	}
	var got struct {
		Quote  quoteSummary `json:"quote"`
		Record struct {
			ProjectName string `json:"proj_name"`
			Technicians int    `json:"tfas"`
		} `json:"record"`
	}
	decodeBody(t, get, &got)
	if got.Quote.ProjectName != "Valve Overhaul" || got.Record.Technicians != 2 {
		t.Fatalf("get response = %+v", got)
	}
}

func TestQuoteGetMissing(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/quotes/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestQuoteAuditAndDocument(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/quotes", standardRecord())
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d", rec.Code)
	}
	var saved struct {
		ID          string `json:"id"`
		QuoteNumber string `json:"quote_number"`
	}
	decodeBody(t, rec, &saved)

	audit := doJSON(t, srv, http.MethodGet, "/api/quotes/"+saved.ID+"/audit", nil)
	if audit.Code != http.StatusOK {
		t.Fatalf("audit status = %d", audit.Code)
	}
	for _, want := range []string{"PROJECT DETAILS", "CALCULATION BREAKDOWN", "Valve Overhaul"} {
		if !strings.Contains(audit.Body.String(), want) {
			t.Fatalf("audit missing %q", want)
		}
	}

	doc := doJSON(t, srv, http.MethodGet, "/api/quotes/"+saved.ID+"/document", nil)
	if doc.Code != http.StatusOK {
		t.Fatalf("document status = %d", doc.Code)
	}
	for _, want := range []string{"# Field Service Quote", saved.QuoteNumber, "## Grand Total: $25870.28"} {
		if !strings.Contains(doc.Body.String(), want) {
			t.Fatalf("document missing %q in:\n%s", want, doc.Body.String())
		}
	}
}
