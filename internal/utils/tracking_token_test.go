package utils

import "testing"

func TestOrderTrackingTokenRoundTrip(t *testing.T) {
	token := CreateOrderTrackingToken("secret", 12, 3400)
	if !VerifyOrderTrackingToken("secret", token, 12, 3400) {
		t.Fatal("expected token to verify")
	}
}

func TestOrderTrackingTokenRejections(t *testing.T) {
	token := CreateOrderTrackingToken("secret", 12, 3400)

	cases := []struct {
		name         string
		secret       string
		token        string
		restaurantID int64
		orderID      int64
	}{
		{name: "wrong secret", secret: "other", token: token, restaurantID: 12, orderID: 3400},
		{name: "wrong restaurant", secret: "secret", token: token, restaurantID: 13, orderID: 3400},
		{name: "wrong order", secret: "secret", token: token, restaurantID: 12, orderID: 3401},
		{name: "malformed token", secret: "secret", token: "not-a-token", restaurantID: 12, orderID: 3400},
		{name: "tampered signature", secret: "secret", token: token + "x", restaurantID: 12, orderID: 3400},
		{name: "empty token", secret: "secret", token: "", restaurantID: 12, orderID: 3400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if VerifyOrderTrackingToken(tc.secret, tc.token, tc.restaurantID, tc.orderID) {
				t.Fatal("expected verification to fail")
			}
		})
	}
}
