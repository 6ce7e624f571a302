package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tabletap-platform/internal/activity"
	"tabletap-platform/internal/commission"
	"tabletap-platform/internal/middleware"
	"tabletap-platform/internal/queue"
	"tabletap-platform/internal/utils"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phpdave11/gofpdf"
)

type paymentRequest struct {
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"paymentMethod"`
	PaymentDate     string  `json:"paymentDate"`
	ReferenceNumber string  `json:"referenceNumber"`
	Notes           string  `json:"notes"`
}

// AdminCommissionRecordPayment appends one ledger row and recomputes
// the balance in the same transaction. Validation failures leave no
// row behind.
func (h *Handler) AdminCommissionRecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, ok := middleware.GetAdminIdentity(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Admin access required")
		return
	}

	restaurantID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid restaurant id")
		return
	}

	var body paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if body.Amount <= 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive")
		return
	}
	method := strings.ToLower(strings.TrimSpace(body.PaymentMethod))
	if !commission.ValidPaymentMethod(method) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown payment method")
		return
	}
	paymentDate := strings.TrimSpace(body.PaymentDate)
	if paymentDate == "" {
		paymentDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", paymentDate); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "paymentDate must be YYYY-MM-DD")
		return
	}

	var exists bool
	if err := h.DB.QueryRow(ctx, `select true from restaurants where id = $1`, restaurantID).Scan(&exists); err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
			return
		}
		h.Logger.Error("payment restaurant lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record payment")
		return
	}

	amount := commission.Round2(body.Amount)

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.Logger.Error("payment tx begin failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record payment")
		return
	}
	defer tx.Rollback(ctx)

	payment, err := scanCommissionPayment(tx.QueryRow(ctx, `
		insert into commission_payments (restaurant_id, amount, payment_method, payment_date, reference_number, notes, recorded_by)
		values ($1, $2, $3, $4, nullif($5, ''), nullif($6, ''), $7)
		returning `+commissionPaymentColumns, restaurantID, amount, method, paymentDate,
		strings.TrimSpace(body.ReferenceNumber), strings.TrimSpace(body.Notes), admin.ID))
	if err != nil {
		h.Logger.Error("payment insert failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record payment")
		return
	}

	if err := commission.Recalculate(ctx, tx, restaurantID); err != nil {
		h.Logger.Error("payment recalculate failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record payment")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.Logger.Error("payment tx commit failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record payment")
		return
	}

	h.Activity.Record(ctx, admin, activity.ActionPaymentRecorded, activity.TargetPayment, &payment.ID,
		activity.PaymentRecordedDetails{Amount: amount, PaymentMethod: method, AdminName: admin.Name})

	h.publishAdminEvent(ctx, queue.KeyPaymentRecorded, restaurantID, func(event *queue.Event) {
		event.Amount = &amount
	})

	response.Created(w, map[string]any{"payment": payment})
}

// AdminCommissionRecalculate forces a full recompute. Useful after
// manual database surgery; harmless otherwise.
func (h *Handler) AdminCommissionRecalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurantID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid restaurant id")
		return
	}

	if err := commission.Recalculate(ctx, h.DB, restaurantID); err != nil {
		if err == commission.ErrRestaurantNotFound {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
			return
		}
		h.Logger.Error("commission recalculate failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to recalculate commission")
		return
	}

	summary, err := h.commissionSummary(ctx, restaurantID)
	if err != nil {
		h.Logger.Error("commission summary after recalculate failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to recalculate commission")
		return
	}

	response.Success(w, summary)
}

func (h *Handler) AdminCommissionSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurantID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid restaurant id")
		return
	}

	summary, err := h.commissionSummary(ctx, restaurantID)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
			return
		}
		h.Logger.Error("commission summary failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch commission")
		return
	}

	response.Success(w, summary)
}

const commissionPaymentColumns = `
	id, restaurant_id, amount, payment_method, payment_date, reference_number, notes, recorded_by, created_at
`

func scanCommissionPayment(row pgx.Row) (CommissionPayment, error) {
	var (
		payment   CommissionPayment
		amount    pgtype.Numeric
		date      pgtype.Date
		reference pgtype.Text
		notes     pgtype.Text
	)
	err := row.Scan(&payment.ID, &payment.RestaurantID, &amount, &payment.PaymentMethod,
		&date, &reference, &notes, &payment.RecordedBy, &payment.CreatedAt)
	if err != nil {
		return CommissionPayment{}, err
	}
	payment.Amount = utils.NumericToFloat64(amount)
	if formatted := datePtr(date); formatted != nil {
		payment.PaymentDate = *formatted
	}
	payment.ReferenceNumber = textPtr(reference)
	payment.Notes = textPtr(notes)
	return payment, nil
}

func (h *Handler) commissionSummary(ctx context.Context, restaurantID int64) (*CommissionSummary, error) {
	var (
		summary     CommissionSummary
		owed        pgtype.Numeric
		paid        pgtype.Numeric
		balance     pgtype.Numeric
		lastPayment pgtype.Date
	)
	err := h.DB.QueryRow(ctx, `
		select total_commission_owed, total_commission_paid, commission_balance, last_payment_date
		from restaurants
		where id = $1
	`, restaurantID).Scan(&owed, &paid, &balance, &lastPayment)
	if err != nil {
		return nil, err
	}
	summary.TotalCommissionOwed = utils.NumericToFloat64(owed)
	summary.TotalCommissionPaid = utils.NumericToFloat64(paid)
	summary.CommissionBalance = utils.NumericToFloat64(balance)
	summary.LastPaymentDate = datePtr(lastPayment)

	rows, err := h.DB.Query(ctx, `
		select `+commissionPaymentColumns+`
		from commission_payments
		where restaurant_id = $1
		order by payment_date desc, id desc
		limit 10
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary.RecentPayments = []CommissionPayment{}
	for rows.Next() {
		payment, err := scanCommissionPayment(rows)
		if err != nil {
			return nil, err
		}
		summary.RecentPayments = append(summary.RecentPayments, payment)
	}
	return &summary, rows.Err()
}

// AdminCommissionStatement renders a PDF of the full ledger for one
// restaurant.
func (h *Handler) AdminCommissionStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurantID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid restaurant id")
		return
	}

	restaurant, err := scanAdminRestaurant(h.DB.QueryRow(ctx, `
		select `+adminRestaurantColumns+`
		from restaurants res
		join users u on u.id = res.user_id
		where res.id = $1
	`, restaurantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
			return
		}
		h.Logger.Error("statement restaurant lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate statement")
		return
	}

	rows, err := h.DB.Query(ctx, `
		select `+commissionPaymentColumns+`
		from commission_payments
		where restaurant_id = $1
		order by payment_date, id
	`, restaurantID)
	if err != nil {
		h.Logger.Error("statement payments query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate statement")
		return
	}
	defer rows.Close()

	payments := []CommissionPayment{}
	for rows.Next() {
		payment, err := scanCommissionPayment(rows)
		if err != nil {
			h.Logger.Error("statement payments scan failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate statement")
			return
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		h.Logger.Error("statement payments rows failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate statement")
		return
	}

	buf, err := renderCommissionStatementPDF(restaurant, payments)
	if err != nil {
		h.Logger.Error("statement render failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate statement")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=commission_statement_%d.pdf", restaurantID))
	_, _ = w.Write(buf.Bytes())
}

func renderCommissionStatementPDF(restaurant AdminRestaurant, payments []CommissionPayment) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "Commission Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, restaurant.Name, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, restaurant.OwnerEmail, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Summary", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Commission rate: %.2f%%", restaurant.CommissionRate*100), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Total owed: %.2f", restaurant.TotalCommissionOwed), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Total paid: %.2f", restaurant.TotalCommissionPaid), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Outstanding balance: %.2f", restaurant.CommissionBalance), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Payments", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if len(payments) == 0 {
		pdf.CellFormat(0, 5, "No payments recorded", "", 1, "L", false, 0, "")
	}
	for _, payment := range payments {
		line := fmt.Sprintf("%s  %.2f  %s", payment.PaymentDate, payment.Amount, payment.PaymentMethod)
		if payment.ReferenceNumber != nil {
			line += fmt.Sprintf("  ref %s", *payment.ReferenceNumber)
		}
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
