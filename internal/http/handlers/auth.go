package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"tabletap-platform/internal/auth"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
)

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RestaurantName string `json:"restaurant_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthRegister creates an owner account and its restaurant in one
// transaction, then opens a session so the client is signed in
// immediately.
func (h *Handler) AuthRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body registerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	name := strings.TrimSpace(body.Name)
	email := strings.ToLower(strings.TrimSpace(body.Email))
	password := strings.TrimSpace(body.Password)
	restaurantName := strings.TrimSpace(body.RestaurantName)

	if name == "" || email == "" || password == "" || restaurantName == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Name, email, password, and restaurant name are required")
		return
	}
	if !strings.Contains(email, "@") {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid email")
		return
	}
	if len(password) < 8 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Password must be at least 8 characters")
		return
	}

	var existingID int64
	if err := h.DB.QueryRow(ctx, "select id from users where lower(email) = lower($1)", email).Scan(&existingID); err == nil {
		response.Error(w, http.StatusConflict, "EMAIL_ALREADY_EXISTS", "Email already registered")
		return
	} else if err != pgx.ErrNoRows {
		h.Logger.Error("register email check failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		h.Logger.Error("register password hash failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.Logger.Error("register tx begin failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}
	defer tx.Rollback(ctx)

	var userID int64
	if err := tx.QueryRow(ctx, `
		insert into users (name, email, password_hash, role)
		values ($1, $2, $3, 'RESTAURANT_OWNER')
		returning id
	`, name, email, hashed).Scan(&userID); err != nil {
		h.Logger.Error("register user create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	var restaurantID int64
	if err := tx.QueryRow(ctx, `
		insert into restaurants (user_id, name, menu_enabled, commission_rate)
		values ($1, $2, true, $3)
		returning id
	`, userID, restaurantName, h.Config.DefaultCommissionRate).Scan(&restaurantID); err != nil {
		h.Logger.Error("register restaurant create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	sessionID, token, err := h.openSession(ctx, tx, userID, email, restaurantID)
	if err != nil {
		h.Logger.Error("register session create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.Logger.Error("register tx commit failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	response.Created(w, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":    userID,
			"name":  name,
			"email": email,
		},
		"restaurant": map[string]any{
			"id":   restaurantID,
			"name": restaurantName,
		},
		"session_id": sessionID,
	})
}

// AuthLogin checks credentials and opens a fresh session. Bad email and
// bad password return the same message.
func (h *Handler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	password := strings.TrimSpace(body.Password)
	if email == "" || password == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}

	var (
		userID       int64
		userName     string
		passwordHash string
		restaurantID int64
		restaurantNm string
	)
	query := `
		select u.id, u.name, u.password_hash, res.id, res.name
		from users u
		join restaurants res on res.user_id = u.id
		where lower(u.email) = lower($1)
	`
	if err := h.DB.QueryRow(ctx, query, email).Scan(&userID, &userName, &passwordHash, &restaurantID, &restaurantNm); err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
			return
		}
		h.Logger.Error("login lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	if !auth.CheckPassword(passwordHash, password) {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
		return
	}

	sessionID, token, err := h.openSession(ctx, h.DB, userID, email, restaurantID)
	if err != nil {
		h.Logger.Error("login session create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	response.Success(w, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":    userID,
			"name":  userName,
			"email": email,
		},
		"restaurant": map[string]any{
			"id":   restaurantID,
			"name": restaurantNm,
		},
		"session_id": sessionID,
	})
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so sessions
// can be opened inside the registration transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (h *Handler) openSession(ctx context.Context, q rowQuerier, userID int64, email string, restaurantID int64) (int64, string, error) {
	expiry := time.Duration(h.Config.JWTExpirySeconds) * time.Second

	var sessionID int64
	err := q.QueryRow(ctx, `
		insert into user_sessions (user_id, status, expires_at)
		values ($1, 'ACTIVE', now() + make_interval(secs => $2))
		returning id
	`, userID, expiry.Seconds()).Scan(&sessionID)
	if err != nil {
		return 0, "", err
	}

	token, err := auth.CreateAccessToken(h.Config.JWTSecret, expiry, userID, sessionID, auth.RoleRestaurantOwner, email, &restaurantID)
	if err != nil {
		return 0, "", err
	}
	return sessionID, token, nil
}
