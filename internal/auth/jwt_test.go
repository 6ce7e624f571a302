package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	restaurantID := int64(42)
	token, err := CreateAccessToken("test-secret", time.Hour, 7, 99, RoleRestaurantOwner, "owner@example.com", &restaurantID)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := VerifyAccessToken(token, "test-secret")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != "7" || claims.SessionID != "99" {
		t.Fatalf("unexpected ids: %s / %s", claims.UserID, claims.SessionID)
	}
	if claims.Role != RoleRestaurantOwner || claims.Email != "owner@example.com" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.RestaurantID == nil || *claims.RestaurantID != "42" {
		t.Fatalf("expected restaurantId 42, got %v", claims.RestaurantID)
	}
}

func TestVerifyAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := CreateAccessToken("secret-a", time.Hour, 1, 1, RoleRestaurantOwner, "x@y.z", nil)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := VerifyAccessToken(token, "secret-b"); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	token, err := CreateAccessToken("secret", -time.Minute, 1, 1, RoleRestaurantOwner, "x@y.z", nil)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := VerifyAccessToken(token, "secret"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseBearerToken(t *testing.T) {
	if got := ParseBearerToken("Bearer abc.def.ghi"); got != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := ParseBearerToken("bearer xyz"); got != "xyz" {
		t.Fatalf("expected case-insensitive scheme, got %q", got)
	}
	for _, header := range []string{"", "abc", "Basic abc", "Bearer a b"} {
		if got := ParseBearerToken(header); got != "" {
			t.Fatalf("expected empty token for %q, got %q", header, got)
		}
	}
}
