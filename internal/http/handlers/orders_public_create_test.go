package handlers

import (
	"math"
	"testing"
)

func validCreateRequest() orderCreateRequest {
	return orderCreateRequest{
		TableID:      3,
		RestaurantID: 1,
		Items: []OrderItemInput{
			{Name: "Margherita", Quantity: 2, Price: 11.50},
			{Name: "Sparkling water", Quantity: 1, Price: 3.00},
		},
		Subtotal:  26.00,
		VatAmount: 2.60,
		TipAmount: 1.00,
		Total:     29.60,
	}
}

func TestValidateOrderCreate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*orderCreateRequest)
		wantErr bool
	}{
		{"valid order", func(b *orderCreateRequest) {}, false},
		{"missing restaurant", func(b *orderCreateRequest) { b.RestaurantID = 0 }, true},
		{"missing table", func(b *orderCreateRequest) { b.TableID = 0 }, true},
		{"empty items", func(b *orderCreateRequest) { b.Items = nil }, true},
		{"blank item name", func(b *orderCreateRequest) { b.Items[0].Name = "  " }, true},
		{"zero quantity", func(b *orderCreateRequest) { b.Items[0].Quantity = 0 }, true},
		{"negative item price", func(b *orderCreateRequest) { b.Items[1].Price = -1 }, true},
		{"zero price item allowed", func(b *orderCreateRequest) { b.Items[1].Price = 0 }, false},
		{"zero subtotal", func(b *orderCreateRequest) { b.Subtotal = 0 }, true},
		{"NaN subtotal", func(b *orderCreateRequest) { b.Subtotal = math.NaN() }, true},
		{"negative vat", func(b *orderCreateRequest) { b.VatAmount = -0.01 }, true},
		{"negative tip", func(b *orderCreateRequest) { b.TipAmount = -5 }, true},
		{"zero total", func(b *orderCreateRequest) { b.Total = 0 }, true},
		{"infinite total", func(b *orderCreateRequest) { b.Total = math.Inf(1) }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validCreateRequest()
			tc.mutate(&body)
			msg := validateOrderCreate(&body)
			if tc.wantErr && msg == "" {
				t.Fatal("expected a validation error, got none")
			}
			if !tc.wantErr && msg != "" {
				t.Fatalf("unexpected validation error: %s", msg)
			}
		})
	}
}

func TestValidateMenuItem(t *testing.T) {
	cases := []struct {
		name    string
		body    menuItemRequest
		wantErr bool
	}{
		{"valid", menuItemRequest{Name: "Pasta", Category: "Mains", Price: 12.5}, false},
		{"missing name", menuItemRequest{Category: "Mains", Price: 12.5}, true},
		{"whitespace name", menuItemRequest{Name: "   ", Category: "Mains", Price: 12.5}, true},
		{"missing category", menuItemRequest{Name: "Pasta", Price: 12.5}, true},
		{"zero price", menuItemRequest{Name: "Pasta", Category: "Mains", Price: 0}, true},
		{"negative price", menuItemRequest{Name: "Pasta", Category: "Mains", Price: -3}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validateMenuItem(&tc.body)
			if tc.wantErr && msg == "" {
				t.Fatal("expected a validation error, got none")
			}
			if !tc.wantErr && msg != "" {
				t.Fatalf("unexpected validation error: %s", msg)
			}
		})
	}
}
