/**
 * @description
 * This file contains the HTTP handler functions for SubsTracker. Handlers
 * parse incoming requests, call the appropriate business logic in the
 * application layer, and write the HTTP response.
 */
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/xymn2023/SubsTracker-Docker/internal/app"
	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
	"github.com/xymn2023/SubsTracker-Docker/internal/store"
)

// AuthConfig holds the admin credentials and token settings for the API.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string // bcrypt; takes precedence over Password when set
	JWTSecret    []byte
	SessionTTL   time.Duration
}

// Handler holds the application services that handlers interact with.
type Handler struct {
	service  *app.Service
	checker  *app.Checker
	notifier app.Notifier
	auth     AuthConfig
}

// NewHandler creates a new Handler.
func NewHandler(service *app.Service, checker *app.Checker, notifier app.Notifier, auth AuthConfig) *Handler {
	return &Handler{service: service, checker: checker, notifier: notifier, auth: auth}
}

// handleLogin checks the admin credentials and issues a session token.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.credentialsValid(req.Username, req.Password) {
		respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.auth.SessionTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.auth.JWTSecret)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) credentialsValid(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.auth.Username)) == 1
	if h.auth.PasswordHash != "" {
		return userOK && bcrypt.CompareHashAndPassword([]byte(h.auth.PasswordHash), []byte(password)) == nil
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.auth.Password)) == 1
	return userOK && passOK
}

// handleListSubscriptions returns all subscriptions.
func (h *Handler) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, subs)
}

// handleGetSubscription returns one subscription by id.
func (h *Handler) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}

// handleCreateSubscription creates a new subscription.
func (h *Handler) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var sub domain.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), sub)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// handleUpdateSubscription replaces an existing subscription.
func (h *Handler) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var sub domain.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), sub)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// handleDeleteSubscription removes a subscription.
func (h *Handler) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleToggleSubscription flips a subscription's active flag.
func (h *Handler) handleToggleSubscription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.service.ToggleActive(r.Context(), chi.URLParam(r, "id"), req.IsActive)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}

// handleStats serves the dashboard aggregates.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// handleRunCheck triggers the daily check outside its schedule.
func (h *Handler) handleRunCheck(w http.ResponseWriter, r *http.Request) {
	result, err := h.checker.RunDailyCheck(r.Context(), time.Now())
	if err != nil {
		respondWithJSON(w, http.StatusInternalServerError, result)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// handleTestNotification sends a test message through the configured
// transport so the user can verify their credentials.
func (h *Handler) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	message := "*SubsTracker*\n\nThis is a test notification. Your transport is configured correctly."
	if err := h.notifier.Send(r.Context(), message); err != nil {
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func respondWithStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
