package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/KemosBram1/afp-estimator/internal/pricing"
	"github.com/KemosBram1/afp-estimator/internal/render"
)

type lineResponse struct {
	Description string          `json:"description"`
	Qty         float64         `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

type partLineResponse struct {
	Line        string          `json:"line"`
	PartNumber  string          `json:"part"`
	Description string          `json:"description"`
	Qty         float64         `json:"qty"`
	Rate        decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	LeadTime    string          `json:"lead_time"`
}

type totalsResponse struct {
	Service decimal.Decimal `json:"service"`
	Parts   decimal.Decimal `json:"parts"`
	Grand   decimal.Decimal `json:"grand"`
}

type calcResponse struct {
	ServiceLines    []lineResponse     `json:"service_lines"`
	PartLines       []partLineResponse `json:"part_lines"`
	Totals          totalsResponse     `json:"totals"`
	SubsistenceDays int                `json:"subsistence_days"`
	TripDays        int                `json:"trip_days"`
	ReturnDate      string             `json:"return_date,omitempty"`
	Commuter        bool               `json:"commuter"`
	Log             []string           `json:"log"`
}

func newCalcResponse(res pricing.Result) calcResponse {
	out := calcResponse{
		ServiceLines:    make([]lineResponse, 0, len(res.ServiceLines)),
		PartLines:       make([]partLineResponse, 0, len(res.PartLines)),
		Totals:          totalsResponse{Service: res.Totals.Service, Parts: res.Totals.Parts, Grand: res.Totals.Grand},
		SubsistenceDays: res.SubsistenceDays,
		TripDays:        res.TripDays,
		Commuter:        res.Commuter,
		Log:             res.Log,
	}
	if !res.ReturnDate.IsZero() {
		out.ReturnDate = res.ReturnDate.Format("2006-01-02")
	}
	for _, l := range res.ServiceLines {
		out.ServiceLines = append(out.ServiceLines, lineResponse{Description: l.Description, Qty: l.Qty, Rate: l.Rate, Total: l.Total})
	}
	for _, p := range res.PartLines {
		out.PartLines = append(out.PartLines, partLineResponse{
			Line: p.Line, PartNumber: p.PartNumber, Description: p.Description,
			Qty: p.Qty, Rate: p.Rate, Total: p.Total, LeadTime: p.LeadTime,
		})
	}
	return out
}

// decodeRecord reads a quote record from the request body and rebuilds
// the calculation input it captures.
func decodeRecord(r *http.Request) (pricing.Record, pricing.QuoteInput, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return pricing.Record{}, pricing.QuoteInput{}, fmt.Errorf("read request body: %w", err)
	}
	rec, err := pricing.LoadRecord(body)
	if err != nil {
		return pricing.Record{}, pricing.QuoteInput{}, err
	}
	in, err := rec.Input()
	if err != nil {
		return pricing.Record{}, pricing.QuoteInput{}, err
	}
	return rec, in, nil
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	_, in, err := decodeRecord(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := pricing.Calculate(in)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, pricing.ErrScheduleBound) {
			status = http.StatusUnprocessableEntity
		}
		s.respondError(w, status, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, newCalcResponse(res))
}

type quoteSummary struct {
	ID          string `json:"id"`
	QuoteNumber string `json:"quote_number"`
	ProjectName string `json:"project_name"`
	ClientName  string `json:"client_name"`
	Status      string `json:"status"`
	GrandTotal  string `json:"grand_total"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (s *server) handleQuoteSave(w http.ResponseWriter, r *http.Request) {
	rec, in, err := decodeRecord(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := pricing.Calculate(in)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	recordJSON, err := rec.Marshal()
	if err != nil {
		s.log.Error("marshal quote record", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}

	id := uuid.NewString()
	number, err := s.nextQuoteNumber()
	if err != nil {
		s.log.Error("allocate quote number", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}

	status := rec.Status
	if status == "" {
		status = "Draft"
	}

	if _, err := s.db.Exec(`
		INSERT INTO quotes (id, quote_number, project_name, client_name, status, record_json, grand_total)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, number, rec.ProjectName, rec.ClientName, status, string(recordJSON), res.Totals.Grand.StringFixed(2)); err != nil {
		s.log.Error("insert quote", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}

	s.log.Info("quote saved",
		zap.String("id", id),
		zap.String("quote_number", number),
		zap.String("project", rec.ProjectName))

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"id":           id,
		"quote_number": number,
		"totals":       totalsResponse{Service: res.Totals.Service, Parts: res.Totals.Parts, Grand: res.Totals.Grand},
	})
}

func (s *server) nextQuoteNumber() (string, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM quotes`).Scan(&n); err != nil {
		return "", fmt.Errorf("count quotes: %w", err)
	}
	return fmt.Sprintf("Q-%d-%04d", time.Now().Year(), n+1), nil
}

func (s *server) handleQuoteList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	search := "%" + query + "%"

	rows, err := s.db.Query(`
		SELECT id, quote_number, project_name, client_name, status, grand_total, created_at, updated_at
		FROM quotes
		WHERE (? = '' OR project_name LIKE ? OR client_name LIKE ? OR quote_number LIKE ?)
		ORDER BY datetime(created_at) DESC, quote_number DESC
	`, query, search, search, search)
	if err != nil {
		s.log.Error("query quotes", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}
	defer rows.Close()

	quotes := make([]quoteSummary, 0)
	for rows.Next() {
		var q quoteSummary
		if err := rows.Scan(&q.ID, &q.QuoteNumber, &q.ProjectName, &q.ClientName, &q.Status, &q.GrandTotal, &q.CreatedAt, &q.UpdatedAt); err != nil {
			s.log.Error("scan quote row", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "failed to load quotes")
			return
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		s.log.Error("iterate quote rows", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

// loadQuote fetches one stored quote by id.
func (s *server) loadQuote(id string) (quoteSummary, string, error) {
	var q quoteSummary
	var recordJSON string
	err := s.db.QueryRow(`
		SELECT id, quote_number, project_name, client_name, status, grand_total, record_json, created_at, updated_at
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &q.QuoteNumber, &q.ProjectName, &q.ClientName, &q.Status, &q.GrandTotal, &recordJSON, &q.CreatedAt, &q.UpdatedAt)
	return q, recordJSON, err
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	q, recordJSON, err := s.loadQuote(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		s.respondError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		s.log.Error("load quote", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"quote":  q,
		"record": json.RawMessage(recordJSON),
	})
}

// recalculate rebuilds a stored quote's result from its record.
func (s *server) recalculate(recordJSON string) (pricing.QuoteInput, pricing.Result, error) {
	rec, err := pricing.LoadRecord([]byte(recordJSON))
	if err != nil {
		return pricing.QuoteInput{}, pricing.Result{}, err
	}
	in, err := rec.Input()
	if err != nil {
		return pricing.QuoteInput{}, pricing.Result{}, err
	}
	res, err := pricing.Calculate(in)
	if err != nil {
		return pricing.QuoteInput{}, pricing.Result{}, err
	}
	return in, res, nil
}

func (s *server) handleQuoteAudit(w http.ResponseWriter, r *http.Request) {
	_, recordJSON, err := s.loadQuote(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		s.respondError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		s.log.Error("load quote", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}

	in, res, err := s.recalculate(recordJSON)
	if err != nil {
		s.log.Error("recalculate stored quote", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to rebuild quote")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, pricing.AuditRecord(in, res, time.Now()))
}

func (s *server) handleQuoteDocument(w http.ResponseWriter, r *http.Request) {
	q, recordJSON, err := s.loadQuote(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		s.respondError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		s.log.Error("load quote", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}

	in, res, err := s.recalculate(recordJSON)
	if err != nil {
		s.log.Error("recalculate stored quote", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to rebuild quote")
		return
	}

	doc := render.Markdown(render.Document{
		QuoteNumber: q.QuoteNumber,
		Input:       in,
		Result:      res,
		GeneratedAt: time.Now(),
	})
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, doc)
}
