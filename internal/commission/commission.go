// Package commission maintains the per-restaurant ledger balance.
//
// The balance is never adjusted incrementally: Recalculate recomputes
// total_commission_owed and total_commission_paid from scratch on every
// call, so a missed trigger self-heals the next time anything touches
// the ledger. "Owed" counts completed orders only; pending and preparing
// orders carry their snapshotted commission_amount and enter the total
// once they complete.
package commission

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the
// recompute can run inside the payment-recording transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Round2 rounds to two decimal places, matching how order amounts are
// stored (numeric(12,2)).
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Amount is the commission owed on a single order: the subtotal times
// the rate snapshotted at order creation.
func Amount(subtotal, rate float64) float64 {
	return Round2(subtotal * rate)
}

// BalanceOf derives the outstanding balance from the two running totals.
func BalanceOf(owed, paid float64) float64 {
	return Round2(owed - paid)
}

const recalculateQuery = `
	update restaurants r
	set total_commission_owed = coalesce((
			select round(sum(o.commission_amount), 2)
			from orders o
			where o.restaurant_id = r.id and o.status = 'completed'
		), 0),
		total_commission_paid = coalesce((
			select round(sum(p.amount), 2)
			from commission_payments p
			where p.restaurant_id = r.id
		), 0),
		last_payment_date = (
			select max(p.payment_date)
			from commission_payments p
			where p.restaurant_id = r.id
		)
	where r.id = $1
`

const applyBalanceQuery = `
	update restaurants
	set commission_balance = round(total_commission_owed - total_commission_paid, 2)
	where id = $1
`

// Recalculate fully recomputes the ledger fields for one restaurant.
// Idempotent; safe to call after every payment and order completion.
func Recalculate(ctx context.Context, q Querier, restaurantID int64) error {
	tag, err := q.Exec(ctx, recalculateQuery, restaurantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}
	_, err = q.Exec(ctx, applyBalanceQuery, restaurantID)
	return err
}
