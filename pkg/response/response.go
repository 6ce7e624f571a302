package response

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    data,
	})
}

func Error(w http.ResponseWriter, status int, code string, message string) {
	JSON(w, status, map[string]any{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// Enforcement writes the 403 shape order clients key off when a
// restaurant's menu has been disabled by the platform.
func Enforcement(w http.ResponseWriter, message string) {
	JSON(w, http.StatusForbidden, map[string]any{
		"success":     false,
		"error":       "ENFORCEMENT_ERROR",
		"message":     message,
		"enforcement": true,
	})
}
