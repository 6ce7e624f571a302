package handlers

import (
	"encoding/json"

	"tabletap-platform/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `
	id, restaurant_id, table_id, items, customer_name, notes,
	subtotal, vat_amount, tip_amount, total,
	commission_rate, commission_amount, status, created_at, updated_at
`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		order        Order
		itemsJSON    []byte
		customerName pgtype.Text
		notes        pgtype.Text
		subtotal     pgtype.Numeric
		vatAmount    pgtype.Numeric
		tipAmount    pgtype.Numeric
		total        pgtype.Numeric
		rate         pgtype.Numeric
		amount       pgtype.Numeric
	)
	err := row.Scan(
		&order.ID, &order.RestaurantID, &order.TableID, &itemsJSON, &customerName, &notes,
		&subtotal, &vatAmount, &tipAmount, &total,
		&rate, &amount, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return Order{}, err
	}

	order.CustomerName = textPtr(customerName)
	order.Notes = textPtr(notes)
	order.Subtotal = utils.NumericToFloat64(subtotal)
	order.VatAmount = utils.NumericToFloat64(vatAmount)
	order.TipAmount = utils.NumericToFloat64(tipAmount)
	order.Total = utils.NumericToFloat64(total)
	order.CommissionRate = utils.NumericToFloat64(rate)
	order.CommissionAmount = utils.NumericToFloat64(amount)

	order.Items = []OrderItemInput{}
	if len(itemsJSON) > 0 {
		_ = json.Unmarshal(itemsJSON, &order.Items)
	}
	return order, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	orders := []Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
