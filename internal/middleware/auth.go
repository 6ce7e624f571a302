package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"tabletap-platform/internal/auth"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const (
	authContextKey  contextKey = "authContext"
	adminContextKey contextKey = "adminContext"
)

// AuthContext carries the tenant identity resolved once per request.
// Handlers always read the restaurant id from here and never re-derive
// it from the token or the database mid-request.
type AuthContext struct {
	UserID       int64
	SessionID    int64
	Email        string
	RestaurantID int64
}

func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	value := ctx.Value(authContextKey)
	if value == nil {
		return nil, false
	}
	ac, ok := value.(*AuthContext)
	return ac, ok
}

func WithAdminIdentity(ctx context.Context, admin *auth.AdminIdentity) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

func GetAdminIdentity(ctx context.Context) (*auth.AdminIdentity, bool) {
	value := ctx.Value(adminContextKey)
	if value == nil {
		return nil, false
	}
	admin, ok := value.(*auth.AdminIdentity)
	return admin, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	writeAuthErrorDebug(w, status, message, "")
}

func writeAuthErrorDebug(w http.ResponseWriter, status int, message string, debug string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}
	payload := map[string]any{
		"success": false,
		"error":   code,
		"message": message,
	}

	if os.Getenv("APP_ENV") == "development" && strings.TrimSpace(debug) != "" {
		payload["debug"] = debug
	}

	_ = json.NewEncoder(w).Encode(payload)
}

// RestaurantAuth authenticates dashboard requests and resolves the
// caller's restaurant. Session validity, ownership link and tenant id
// are checked in one round trip.
func RestaurantAuth(db *pgxpool.Pool, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				writeAuthErrorDebug(w, http.StatusUnauthorized, "Authorization token required", err.Error())
				return
			}

			if claims.Role != auth.RoleRestaurantOwner {
				writeAuthError(w, http.StatusForbidden, "Restaurant access required")
				return
			}

			userID, err := parseInt64(claims.UserID)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			sessionID, err := parseInt64(claims.SessionID)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			var restaurantID int64
			query := `
				select res.id
				from users u
				join restaurants res on res.user_id = u.id
				join user_sessions us on us.id = $2 and us.user_id = u.id and us.status = 'ACTIVE' and us.expires_at > now()
				where u.id = $1
			`
			if err := db.QueryRow(r.Context(), query, userID, sessionID).Scan(&restaurantID); err != nil {
				writeAuthErrorDebug(w, http.StatusUnauthorized, "Restaurant access required", err.Error())
				return
			}

			authCtx := &AuthContext{
				UserID:       userID,
				SessionID:    sessionID,
				Email:        claims.Email,
				RestaurantID: restaurantID,
			}

			ctx := WithAuthContext(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth resolves the caller to an active admin_users row. It is the
// first thing every admin endpoint runs; failure here means no other
// table has been touched.
func AdminAuth(db *pgxpool.Pool, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				writeAuthErrorDebug(w, http.StatusUnauthorized, "Authorization token required", err.Error())
				return
			}

			admin := &auth.AdminIdentity{}
			var role string
			query := `
				select id, email, name, role
				from admin_users
				where email = $1 and is_active = true
			`
			if err := db.QueryRow(r.Context(), query, claims.Email).Scan(&admin.ID, &admin.Email, &admin.Name, &role); err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Admin access required")
				return
			}
			admin.Role = auth.AdminRole(role)

			ctx := WithAdminIdentity(r.Context(), admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdminRole gates mutating admin endpoints. super_admin passes
// every gate; support accounts stay read-only.
func RequireAdminRole(required auth.AdminRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, ok := GetAdminIdentity(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Admin access required")
				return
			}
			if !admin.HasRole(required) {
				writeAuthError(w, http.StatusForbidden, "You do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseInt64(value string) (int64, error) {
	var out int64
	_, err := fmt.Sscan(value, &out)
	return out, err
}
