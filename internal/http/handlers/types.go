package handlers

import "time"

// Public ordering surface uses snake_case keys; the customer menu app
// consumes these shapes verbatim.

type OrderItemInput struct {
	Name     string  `json:"name"`
	Quantity int32   `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID               int64            `json:"id"`
	RestaurantID     int64            `json:"restaurant_id"`
	TableID          int64            `json:"table_id"`
	Items            []OrderItemInput `json:"items"`
	CustomerName     *string          `json:"customer_name"`
	Notes            *string          `json:"notes"`
	Subtotal         float64          `json:"subtotal"`
	VatAmount        float64          `json:"vat_amount"`
	TipAmount        float64          `json:"tip_amount"`
	Total            float64          `json:"total"`
	CommissionRate   float64          `json:"commission_rate"`
	CommissionAmount float64          `json:"commission_amount"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type MenuStatus struct {
	RestaurantID      int64   `json:"restaurant_id"`
	RestaurantName    string  `json:"restaurant_name"`
	MenuEnabled       bool    `json:"menu_enabled"`
	EnforcementReason *string `json:"enforcement_reason"`
}

type MenuItem struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	ImageURL     *string   `json:"image_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Table struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	TableNumber  string    `json:"table_number"`
	Capacity     int32     `json:"capacity"`
	IsActive     bool      `json:"is_active"`
	QRScans      int64     `json:"qr_scans"`
	MenuURL      string    `json:"menu_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Admin surface shapes.

type AdminRestaurant struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	OwnerEmail          string  `json:"owner_email"`
	MenuEnabled         bool    `json:"menu_enabled"`
	EnforcementReason   *string `json:"enforcement_reason"`
	CommissionRate      float64 `json:"commission_rate"`
	TotalCommissionOwed float64 `json:"total_commission_owed"`
	TotalCommissionPaid float64 `json:"total_commission_paid"`
	CommissionBalance   float64 `json:"commission_balance"`
	LastPaymentDate     *string `json:"last_payment_date"`
	Notes               *string `json:"notes"`
}

type CommissionPayment struct {
	ID              int64     `json:"id"`
	RestaurantID    int64     `json:"restaurant_id"`
	Amount          float64   `json:"amount"`
	PaymentMethod   string    `json:"payment_method"`
	PaymentDate     string    `json:"payment_date"`
	ReferenceNumber *string   `json:"reference_number"`
	Notes           *string   `json:"notes"`
	RecordedBy      int64     `json:"recorded_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type CommissionSummary struct {
	TotalCommissionOwed float64             `json:"total_commission_owed"`
	TotalCommissionPaid float64             `json:"total_commission_paid"`
	CommissionBalance   float64             `json:"commission_balance"`
	LastPaymentDate     *string             `json:"last_payment_date"`
	RecentPayments      []CommissionPayment `json:"recent_payments"`
}

type ActivityEntry struct {
	ID          int64          `json:"id"`
	AdminUserID int64          `json:"admin_user_id"`
	AdminEmail  string         `json:"admin_email"`
	ActionType  string         `json:"action_type"`
	TargetType  string         `json:"target_type"`
	TargetID    *int64         `json:"target_id"`
	Details     map[string]any `json:"details"`
	CreatedAt   time.Time      `json:"created_at"`
}
