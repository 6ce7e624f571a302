package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return body
}

func TestErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "NOT_FOUND", "Order not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("success = %v, want false", body["success"])
	}
	if body["error"] != "NOT_FOUND" {
		t.Fatalf("error = %v, want NOT_FOUND", body["error"])
	}
	if body["message"] != "Order not found" {
		t.Fatalf("message = %v", body["message"])
	}
	if _, present := body["enforcement"]; present {
		t.Fatal("plain errors must not carry the enforcement flag")
	}
}

func TestEnforcementShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Enforcement(rec, "Commission payment required")

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("success = %v, want false", body["success"])
	}
	if body["error"] != "ENFORCEMENT_ERROR" {
		t.Fatalf("error = %v, want ENFORCEMENT_ERROR", body["error"])
	}
	if body["enforcement"] != true {
		t.Fatalf("enforcement = %v, want true", body["enforcement"])
	}
}

func TestSuccessShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]any{"id": 7})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v, want true", body["success"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["id"] != float64(7) {
		t.Fatalf("data = %v", body["data"])
	}
}
