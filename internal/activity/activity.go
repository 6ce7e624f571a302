// Package activity writes the append-only admin audit trail.
package activity

import (
	"context"
	"encoding/json"

	"tabletap-platform/internal/auth"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ActionType string

const (
	ActionMenuEnabled       ActionType = "menu_enabled"
	ActionMenuDisabled      ActionType = "menu_disabled"
	ActionPaymentRecorded   ActionType = "payment_recorded"
	ActionRestaurantUpdated ActionType = "restaurant_updated"
	ActionOrderViewed       ActionType = "order_viewed"
)

type TargetType string

const (
	TargetRestaurant TargetType = "restaurant"
	TargetOrder      TargetType = "order"
	TargetPayment    TargetType = "payment"
	TargetSystem     TargetType = "system"
)

// Details is the closed set of structured payloads written to the
// details column. One shape per action type; no free-form maps.
type Details interface {
	isActivityDetails()
}

type MenuToggleDetails struct {
	Reason    string `json:"reason,omitempty"`
	AdminName string `json:"admin_name"`
}

type PaymentRecordedDetails struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	AdminName     string  `json:"admin_name"`
}

type NotesUpdatedDetails struct {
	AdminName string `json:"admin_name"`
}

func (MenuToggleDetails) isActivityDetails()      {}
func (PaymentRecordedDetails) isActivityDetails() {}
func (NotesUpdatedDetails) isActivityDetails()    {}

type Logger struct {
	DB  *pgxpool.Pool
	Log *zap.Logger
}

// Record appends one audit row. When admin is nil the call is a no-op:
// non-admin code paths never produce audit rows. Insert failures are
// logged and swallowed; auditing never fails the action it records.
func (l *Logger) Record(ctx context.Context, admin *auth.AdminIdentity, action ActionType, target TargetType, targetID *int64, details Details) {
	if admin == nil {
		return
	}

	payload := []byte("{}")
	if details != nil {
		encoded, err := json.Marshal(details)
		if err == nil {
			payload = encoded
		}
	}

	query := `
		insert into admin_activity_log (admin_user_id, admin_email, action_type, target_type, target_id, details)
		values ($1, $2, $3, $4, $5, $6)
	`
	if _, err := l.DB.Exec(ctx, query, admin.ID, admin.Email, string(action), string(target), targetID, payload); err != nil {
		if l.Log != nil {
			l.Log.Warn("activity log write failed",
				zap.String("actionType", string(action)),
				zap.Error(err),
			)
		}
	}
}

// ToggleAction maps the enforcement toggle direction to its audit
// action type.
func ToggleAction(enabled bool) ActionType {
	if enabled {
		return ActionMenuEnabled
	}
	return ActionMenuDisabled
}
