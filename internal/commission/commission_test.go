package commission

import "testing"

func TestAmount(t *testing.T) {
	cases := []struct {
		name     string
		subtotal float64
		rate     float64
		expected float64
	}{
		{name: "five percent of 100", subtotal: 100, rate: 0.05, expected: 5.00},
		{name: "rounds half up", subtotal: 10.05, rate: 0.05, expected: 0.50},
		{name: "repeating fraction", subtotal: 33.33, rate: 0.075, expected: 2.50},
		{name: "zero subtotal", subtotal: 0, rate: 0.05, expected: 0},
		{name: "high rate", subtotal: 250, rate: 0.12, expected: 30.00},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Amount(tc.subtotal, tc.rate); got != tc.expected {
				t.Fatalf("expected %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}

func TestBalanceOf(t *testing.T) {
	if got := BalanceOf(50.00, 50.00); got != 0 {
		t.Fatalf("expected zero balance, got %.2f", got)
	}
	if got := BalanceOf(125.40, 100.00); got != 25.40 {
		t.Fatalf("expected 25.40, got %.2f", got)
	}
	// Overpayment yields a negative (credit) balance.
	if got := BalanceOf(10.00, 15.00); got != -5.00 {
		t.Fatalf("expected -5.00, got %.2f", got)
	}
}

func TestBalanceNoRoundingDrift(t *testing.T) {
	// Many small orders at an awkward rate must still reconcile exactly
	// at two decimal places.
	rate := 0.05
	var owed float64
	for i := 0; i < 1000; i++ {
		owed = Round2(owed + Amount(9.99, rate))
	}
	paid := owed
	if got := BalanceOf(owed, paid); got != 0 {
		t.Fatalf("expected exact reconciliation, got %.10f", got)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, method := range []string{"cash", "bank_transfer", "check", "other"} {
		if !ValidPaymentMethod(method) {
			t.Fatalf("expected %s to be accepted", method)
		}
	}
	for _, method := range []string{"", "card", "CASH", "wire"} {
		if ValidPaymentMethod(method) {
			t.Fatalf("expected %s to be rejected", method)
		}
	}
}
