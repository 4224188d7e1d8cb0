package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/KemosBram1/afp-estimator/internal/directory"
	"github.com/KemosBram1/afp-estimator/internal/pricing"
	"github.com/KemosBram1/afp-estimator/internal/rates"
	"github.com/KemosBram1/afp-estimator/internal/terms"
)

type perDiemResponse struct {
	Lodging decimal.Decimal `json:"lodging"`
	Meals   decimal.Decimal `json:"meals"`
	City    string          `json:"city,omitempty"`
	Country string          `json:"country,omitempty"`
}

func (s *server) handleDomesticRate(w http.ResponseWriter, r *http.Request) {
	zip := chi.URLParam(r, "zip")
	pd, err := s.rates.Domestic(zip)
	if errors.Is(err, rates.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.Error("domestic per-diem lookup", zap.String("zip", zip), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to look up per-diem rate")
		return
	}
	s.respondJSON(w, http.StatusOK, perDiemResponse{Lodging: pd.Lodging, Meals: pd.Meals, City: pd.City})
}

// handleInternationalRate serves both lookup styles: country+location
// resolves one rate, country alone lists the matching locations.
func (s *server) handleInternationalRate(w http.ResponseWriter, r *http.Request) {
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if country == "" {
		s.respondError(w, http.StatusBadRequest, "country query parameter is required")
		return
	}

	if location == "" {
		options, err := s.rates.InternationalOptions(country)
		if err != nil {
			s.log.Error("international per-diem options", zap.String("country", country), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "failed to look up per-diem options")
			return
		}
		out := make([]perDiemResponse, 0, len(options))
		for _, pd := range options {
			out = append(out, perDiemResponse{Lodging: pd.Lodging, Meals: pd.Meals, City: pd.City, Country: pd.Country})
		}
		s.respondJSON(w, http.StatusOK, map[string]any{"options": out})
		return
	}

	pd, err := s.rates.International(country, location)
	if errors.Is(err, rates.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.Error("international per-diem lookup", zap.String("country", country), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to look up per-diem rate")
		return
	}
	s.respondJSON(w, http.StatusOK, perDiemResponse{Lodging: pd.Lodging, Meals: pd.Meals, City: pd.City, Country: pd.Country})
}

func (s *server) handleLaborCard(w http.ResponseWriter, r *http.Request) {
	region, err := pricing.ParseRegion(r.URL.Query().Get("region"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	keyAccount := r.URL.Query().Get("key_account") == "1"

	card := rates.DefaultLabor(region, keyAccount)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"rate_rt":    card.Rates.Regular,
		"rate_ot":    card.Rates.Overtime,
		"rate_dt":    card.Rates.Doubletime,
		"rate_tr":    card.Rates.Travel,
		"weekly_cap": card.WeeklyCapHours,
	})
}

func (s *server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.directory.Companies()
	if err != nil {
		s.log.Error("list companies", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load companies")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (s *server) handleSites(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid company name")
		return
	}
	if _, err := s.directory.Company(name); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error("load company", zap.String("company", name), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load company")
		return
	}

	sites, err := s.directory.Sites(name)
	if err != nil {
		s.log.Error("list sites", zap.String("company", name), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load sites")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"sites": sites})
}

func (s *server) handleTermNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.terms.Names()
	if err != nil {
		s.log.Error("list term templates", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load term templates")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"templates": names})
}

type termRenderRequest struct {
	Name             string  `json:"name"`
	Region           string  `json:"region"`
	KeyAccount       bool    `json:"key_account"`
	RateRegular      float64 `json:"rate_rt"`
	RateOvertime     float64 `json:"rate_ot"`
	RateDoubletime   float64 `json:"rate_dt"`
	PaymentTermsDays int     `json:"payment_terms"`
	ValidityDays     int     `json:"validity"`
}

func (s *server) handleTermRender(w http.ResponseWriter, r *http.Request) {
	var req termRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	region, err := pricing.ParseRegion(req.Region)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Explicit rates win; otherwise the regional default card applies.
	card := rates.DefaultLabor(region, req.KeyAccount).Rates
	if req.RateRegular > 0 {
		card.Regular = decimal.NewFromFloat(req.RateRegular)
	}
	if req.RateOvertime > 0 {
		card.Overtime = decimal.NewFromFloat(req.RateOvertime)
	}
	if req.RateDoubletime > 0 {
		card.Doubletime = decimal.NewFromFloat(req.RateDoubletime)
	}

	body, err := s.terms.Render(req.Name, terms.NewContext(card, req.PaymentTermsDays, req.ValidityDays))
	if err != nil {
		if errors.Is(err, terms.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"body": body})
}
