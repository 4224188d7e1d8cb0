package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/KemosBram1/afp-estimator/internal/seed"
)

type authService struct {
	db     *sql.DB
	secret []byte
}

func newAuthService(db *sql.DB, secret string) *authService {
	return &authService{db: db, secret: []byte(secret)}
}

func (a *authService) validateCredentials(email, password string) (bool, error) {
	var passwordHash string
	err := a.db.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, email).Scan(&passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query user credentials: %w", err)
	}

	provided := seed.HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(passwordHash), []byte(provided)) == 1, nil
}

// createToken signs the email with the session secret. The token goes
// out after login and comes back in the Authorization header.
func (a *authService) createToken(email string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(email))
	mac := hmac.New(sha256.New, a.secret)
	_, _ = mac.Write([]byte(payload))
	return payload + "." + hex.EncodeToString(mac.Sum(nil))
}

func (a *authService) verifyToken(token string) (string, bool) {
	payload, signature, ok := strings.Cut(token, ".")
	if !ok {
		return "", false
	}

	mac := hmac.New(sha256.New, a.secret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 {
		return "", false
	}
	return string(decoded), true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
