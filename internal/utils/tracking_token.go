package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
)

func base64UrlEncode(input []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(input), "=")
}

func base64UrlDecode(input string) ([]byte, error) {
	padded := input
	if m := len(input) % 4; m != 0 {
		padded += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(padded)
}

// CreateOrderTrackingToken lets the customer who placed an order read it
// back without an account. The token binds restaurant and order ids
// under an HMAC so guessing order ids is useless.
func CreateOrderTrackingToken(secret string, restaurantID, orderID int64) string {
	payload := strconv.FormatInt(restaurantID, 10) + ":" + strconv.FormatInt(orderID, 10)
	payloadB64 := base64UrlEncode([]byte(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payloadB64))
	return payloadB64 + "." + base64UrlEncode(mac.Sum(nil))
}

func VerifyOrderTrackingToken(secret, token string, restaurantID, orderID int64) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return false
	}
	payloadB64 := parts[0]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payloadB64))
	expected := mac.Sum(nil)

	actual, err := base64UrlDecode(parts[1])
	if err != nil {
		return false
	}
	if !hmac.Equal(actual, expected) {
		return false
	}

	payloadRaw, err := base64UrlDecode(payloadB64)
	if err != nil {
		return false
	}
	want := strconv.FormatInt(restaurantID, 10) + ":" + strconv.FormatInt(orderID, 10)
	return string(payloadRaw) == want
}
