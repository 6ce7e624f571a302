package handlers

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to preparing", "pending", "preparing", true},
		{"preparing to completed", "preparing", "completed", true},
		{"pending skips to completed", "pending", "completed", false},
		{"preparing back to pending", "preparing", "pending", false},
		{"completed is terminal", "completed", "preparing", false},
		{"completed to completed", "completed", "completed", false},
		{"same status is not a transition", "pending", "pending", false},
		{"unknown source", "cancelled", "completed", false},
		{"unknown target", "pending", "cancelled", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isValidTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("isValidTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range []string{"pending", "preparing", "completed"} {
		if !validOrderStatus(status) {
			t.Fatalf("expected %q to be a valid status", status)
		}
	}
	for _, status := range []string{"", "cancelled", "PENDING", "done"} {
		if validOrderStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}
