package handlers

import (
	"encoding/json"
	"net/http"

	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

// AdminActivityList returns the audit trail, newest first.
func (h *Handler) AdminActivityList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := int64(100)
	if requested, ok := readQueryInt64(r, "limit"); ok && requested > 0 && requested <= 500 {
		limit = requested
	}

	rows, err := h.DB.Query(ctx, `
		select id, admin_user_id, admin_email, action_type, target_type, target_id, details, created_at
		from admin_activity_log
		order by created_at desc, id desc
		limit $1
	`, limit)
	if err != nil {
		h.Logger.Error("activity list query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch activity log")
		return
	}
	defer rows.Close()

	entries := []ActivityEntry{}
	for rows.Next() {
		var (
			entry       ActivityEntry
			targetID    pgtype.Int8
			detailsJSON []byte
		)
		err := rows.Scan(&entry.ID, &entry.AdminUserID, &entry.AdminEmail,
			&entry.ActionType, &entry.TargetType, &targetID, &detailsJSON, &entry.CreatedAt)
		if err != nil {
			h.Logger.Error("activity list scan failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch activity log")
			return
		}
		entry.TargetID = int8Ptr(targetID)
		entry.Details = map[string]any{}
		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &entry.Details)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		h.Logger.Error("activity list rows failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch activity log")
		return
	}

	response.Success(w, map[string]any{"activity": entries})
}
