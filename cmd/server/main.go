// Command server exposes the field service estimator as a JSON API:
// quote calculation, saved quote storage, per-diem and labor rate
// lookups, the client directory, and terms rendering.
package main

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/KemosBram1/afp-estimator/internal/config"
	"github.com/KemosBram1/afp-estimator/internal/db"
	"github.com/KemosBram1/afp-estimator/internal/directory"
	"github.com/KemosBram1/afp-estimator/internal/logging"
	"github.com/KemosBram1/afp-estimator/internal/migrations"
	"github.com/KemosBram1/afp-estimator/internal/rates"
	"github.com/KemosBram1/afp-estimator/internal/seed"
	"github.com/KemosBram1/afp-estimator/internal/terms"
)

type server struct {
	db        *sql.DB
	auth      *authService
	rates     *rates.Store
	directory *directory.Store
	terms     *terms.Store
	log       *zap.Logger
}

func main() {
	cfg, warnings := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()
	for _, w := range warnings {
		logger.Warn(w)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		logger.Fatal("seed database", zap.Error(err))
	}
	if stats.Inserts > 0 {
		logger.Info("seeded database", zap.Int("inserts", stats.Inserts))
	}

	srv := newServer(database, cfg.SessionSecret, logger)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newServer(database *sql.DB, sessionSecret string, logger *zap.Logger) *server {
	return &server{
		db:        database,
		auth:      newAuthService(database, sessionSecret),
		rates:     rates.NewStore(database),
		directory: directory.NewStore(database),
		terms:     terms.NewStore(database),
		log:       logger,
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/api/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/api/quotes/calculate", s.handleCalculate)
		r.Post("/api/quotes", s.handleQuoteSave)
		r.Get("/api/quotes", s.handleQuoteList)
		r.Get("/api/quotes/{id}", s.handleQuoteGet)
		r.Get("/api/quotes/{id}/audit", s.handleQuoteAudit)
		r.Get("/api/quotes/{id}/document", s.handleQuoteDocument)

		r.Get("/api/rates/domestic/{zip}", s.handleDomesticRate)
		r.Get("/api/rates/international", s.handleInternationalRate)
		r.Get("/api/rates/labor", s.handleLaborCard)

		r.Get("/api/companies", s.handleCompanies)
		r.Get("/api/companies/{name}/sites", s.handleSites)

		r.Get("/api/terms", s.handleTermNames)
		r.Post("/api/terms/render", s.handleTermRender)
	})

	return r
}

func (s *server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.auth.verifyToken(bearerToken(r)); !ok {
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, err := s.auth.validateCredentials(req.Email, req.Password)
	if err != nil {
		s.log.Error("validate credentials", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "authentication error")
		return
	}
	if !valid {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"token": s.auth.createToken(req.Email),
	})
}

func (s *server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
